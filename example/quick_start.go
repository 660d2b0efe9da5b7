package main

import (
	"errors"
	"fmt"
	"github.com/nyan233/smoldb"
	"os"
	"strconv"
)

func main() {
	// create the page file at dbset/quick_start
	db := smoldb.NewDB(smoldb.Config{
		RootDir:     "dbset",
		Name:        "quick_start",
		ResetOnOpen: true,
	})
	err := db.Init()
	if err != nil {
		panic(err)
	}
	defer db.Close()
	// fill the page until it reports full
	var ids []uint8
	for i := 0; ; i++ {
		id, err := db.Insert([]byte("rec" + strconv.Itoa(i)))
		if errors.Is(err, smoldb.ErrPageFull) {
			fmt.Printf("page full after %d records\n", len(ids))
			break
		}
		if err != nil {
			panic(err)
		}
		ids = append(ids, id)
	}
	// free one slot, the next insert reuses it
	if err = db.Delete(ids[3]); err != nil {
		panic(err)
	}
	id, err := db.Insert([]byte("again"))
	if err != nil {
		panic(err)
	}
	rec, err := db.Read(id)
	if err != nil {
		panic(err)
	}
	fmt.Printf("id=%d rec=%q\n", id, rec[:])
	_, err = db.Read(ids[3])
	fmt.Printf("read deleted id=%d: %v\n", ids[3], err)
	if err = smoldb.Dump(os.Stdout, db.Page()); err != nil {
		panic(err)
	}
}
