package smoldb

import (
	"errors"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"testing"
)

func initTest(t *testing.T) {
	err := os.RemoveAll("testdata")
	require.NoError(t, err)
	err = os.Mkdir("testdata", 0755)
	if err != nil && !os.IsExist(err) {
		t.Fatal(err)
	}
}

func testConfig(name string, mmap bool) Config {
	return Config{
		RootDir: "testdata",
		Name:    name,
		MMap:    mmap,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func forEachStorage(t *testing.T, fn func(t *testing.T, cfg Config)) {
	initTest(t)
	for _, mmap := range []bool{false, true} {
		name := "file"
		if mmap {
			name = "mmap"
		}
		t.Run(name, func(t *testing.T) {
			fn(t, testConfig(strings.ReplaceAll(t.Name(), "/", "_")+".page", mmap))
		})
	}
}

func openTestDB(t *testing.T, cfg Config) *DB {
	db := NewDB(cfg)
	require.NoError(t, db.Init())
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func readPageFile(t *testing.T, db *DB) []byte {
	b, err := os.ReadFile(db.Path())
	require.NoError(t, err)
	require.Len(t, b, PageSize)
	return b
}

func TestDBInit(t *testing.T) {
	forEachStorage(t, func(t *testing.T, cfg Config) {
		db := openTestDB(t, cfg)
		require.Equal(t, NewPage().Bytes(), readPageFile(t, db))
		require.Equal(t, 1, db.NextID())
		require.Equal(t, uint64(1), db.Stat().StorageWrites)
	})
}

func TestDBScenario(t *testing.T) {
	forEachStorage(t, func(t *testing.T, cfg Config) {
		db := openTestDB(t, cfg)
		for i, s := range []string{"aaaa", "bbbb", "cccc"} {
			id, err := db.Insert([]byte(s))
			require.NoError(t, err)
			require.Equal(t, uint8(i+1), id)
		}
		require.Equal(t, 3, db.Page().RecordCount())
		rec, err := db.Read(2)
		require.NoError(t, err)
		require.Equal(t, []byte("bbbb\x00\x00\x00\x00"), rec[:])

		require.NoError(t, db.Delete(2))
		_, err = db.Read(2)
		require.ErrorIs(t, err, ErrNoSuchRecord)
		require.ErrorIs(t, db.Delete(2), ErrNoSuchRecord)

		b := readPageFile(t, db)
		require.Equal(t, db.Page().Bytes(), b)
		require.Equal(t, make([]byte, RecordSize), b[24:32])
		require.Equal(t, uint8(2), b[posRecordCount])

		st := db.Stat()
		require.Equal(t, uint64(3), st.Inserts)
		require.Equal(t, uint64(1), st.Reads)
		require.Equal(t, uint64(1), st.Deletes)
		require.Equal(t, uint64(2), st.Rejected)
		require.Equal(t, uint64(5), st.StorageWrites)
	})
}

func TestDBRejectsWithoutTouchingState(t *testing.T) {
	forEachStorage(t, func(t *testing.T, cfg Config) {
		db := openTestDB(t, cfg)
		_, err := db.Insert([]byte("aaaa"))
		require.NoError(t, err)
		before := readPageFile(t, db)

		_, err = db.Insert([]byte("123456789"))
		require.ErrorIs(t, err, ErrPayloadTooLarge)
		require.Equal(t, 1, db.Page().RecordCount())
		require.Equal(t, 2, db.NextID())
		require.Equal(t, before, readPageFile(t, db))
	})
}

func TestDBCapacity(t *testing.T) {
	forEachStorage(t, func(t *testing.T, cfg Config) {
		db := openTestDB(t, cfg)
		for i := 0; i < RecordSlots; i++ {
			_, err := db.Insert([]byte("x"))
			require.NoError(t, err)
		}
		_, err := db.Insert([]byte("x"))
		require.ErrorIs(t, err, ErrPageFull)
		require.False(t, db.Page().HasSpace())
		require.Equal(t, uint8(0), readPageFile(t, db)[posHasSpace])

		require.NoError(t, db.Delete(7))
		id, err := db.Insert([]byte("y"))
		require.NoError(t, err)
		require.Equal(t, uint8(RecordSlots+1), id)
		o, err := db.Page().OrderOf(id)
		require.NoError(t, err)
		require.Equal(t, 6, o)
	})
}

func TestDBReopen(t *testing.T) {
	forEachStorage(t, func(t *testing.T, cfg Config) {
		db := NewDB(cfg)
		require.NoError(t, db.Init())
		for _, s := range []string{"one", "two", "three"} {
			_, err := db.Insert([]byte(s))
			require.NoError(t, err)
		}
		require.NoError(t, db.Delete(3))
		require.NoError(t, db.Close())

		db = openTestDB(t, cfg)
		require.Equal(t, 2, db.Page().RecordCount())
		// identifiers resume after the highest stored one
		require.Equal(t, 3, db.NextID())
		rec, err := db.Read(2)
		require.NoError(t, err)
		require.Equal(t, recordBytes("two"), rec)
		id, err := db.Insert([]byte("four"))
		require.NoError(t, err)
		require.Equal(t, uint8(3), id)
	})
}

func TestDBRestart(t *testing.T) {
	forEachStorage(t, func(t *testing.T, cfg Config) {
		db := openTestDB(t, cfg)
		for i := 0; i < 5; i++ {
			_, err := db.Insert([]byte("r"))
			require.NoError(t, err)
		}
		require.NoError(t, db.Restart())
		require.Equal(t, NewPage().Bytes(), readPageFile(t, db))
		id, err := db.Insert([]byte("again"))
		require.NoError(t, err)
		require.Equal(t, uint8(1), id)
		require.NoError(t, db.FullScan())
	})
}

func TestDBIdentifiersExhausted(t *testing.T) {
	initTest(t)
	db := openTestDB(t, testConfig("exhausted.page", false))
	for i := 1; i <= 255; i++ {
		id, err := db.Insert([]byte("x"))
		require.NoError(t, err)
		require.Equal(t, uint8(i), id)
		require.NoError(t, db.Delete(id))
	}
	_, err := db.Insert([]byte("x"))
	require.ErrorIs(t, err, ErrIdentifiersExhausted)
	require.NoError(t, db.Restart())
	id, err := db.Insert([]byte("x"))
	require.NoError(t, err)
	require.Equal(t, uint8(1), id)
}

func TestDBCorruptFile(t *testing.T) {
	initTest(t)
	cfg := testConfig("corrupt.page", false)
	p := path.Join(cfg.RootDir, cfg.Name)

	require.NoError(t, os.WriteFile(p, []byte("short"), 0644))
	require.ErrorIs(t, NewDB(cfg).Init(), ErrCorruptPage)

	bad := NewPage().Bytes()
	bad[posRecordCount] = 3
	require.NoError(t, os.WriteFile(p, bad, 0644))
	require.ErrorIs(t, NewDB(cfg).Init(), ErrCorruptPage)

	cfg.ResetOnOpen = true
	db := openTestDB(t, cfg)
	require.Equal(t, NewPage().Bytes(), readPageFile(t, db))
}

func TestDBEmptyName(t *testing.T) {
	require.Error(t, NewDB(Config{RootDir: "testdata"}).Init())
}

type flakyStorage struct {
	pageStorage
	failStore bool
}

func (f *flakyStorage) store(src *[PageSize]byte) error {
	if f.failStore {
		return &StorageError{Op: "write", Path: "flaky", Err: errors.New("injected")}
	}
	return f.pageStorage.store(src)
}

func TestDBStorageFailure(t *testing.T) {
	initTest(t)
	db := NewDB(testConfig("flaky.page", false))
	flaky := &flakyStorage{pageStorage: db.s}
	db.s = flaky
	require.NoError(t, db.Init())
	defer db.Close()
	_, err := db.Insert([]byte("kept"))
	require.NoError(t, err)

	flaky.failStore = true
	_, err = db.Insert([]byte("lost"))
	require.ErrorIs(t, err, ErrStorage)
	var se *StorageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "write", se.Op)
	require.Equal(t, uint64(1), db.Stat().StorageFailures)

	// the next operation reloads the page from the file
	flaky.failStore = false
	_, err = db.Read(2)
	require.ErrorIs(t, err, ErrNoSuchRecord)
	rec, err := db.Read(1)
	require.NoError(t, err)
	require.Equal(t, recordBytes("kept"), rec)
	require.Equal(t, 1, db.Page().RecordCount())
	id, err := db.Insert([]byte("next"))
	require.NoError(t, err)
	require.Equal(t, uint8(3), id)
}
