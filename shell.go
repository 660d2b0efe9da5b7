package smoldb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const shellPrompt = "smoldb> "

const shellHelp = `commands:
  insert <payload>   store up to 8 bytes, prints the identifier
  read <id>          print the raw record
  delete <id>        remove a record
  restart            initialize the page
  fullscan           reserved
  stat               operation counters
  exit | quit        leave
`

// Shell is a line oriented front end for a DB. Failed commands are reported
// and the loop keeps going.
type Shell struct {
	db   *DB
	out  io.Writer
	dump bool
}

func NewShell(db *DB, out io.Writer, dump bool) *Shell {
	return &Shell{
		db:   db,
		out:  out,
		dump: dump,
	}
}

// Run reads commands from in until EOF or exit.
func (sh *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, shellPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		if quit := sh.Exec(scanner.Text()); quit {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the shell should stop.
func (sh *Shell) Exec(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	var err error
	switch cmd {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprint(sh.out, shellHelp)
		return false
	case "insert":
		var id uint8
		id, err = sh.db.Insert([]byte(arg))
		if err == nil {
			fmt.Fprintln(sh.out, id)
		}
	case "read":
		var (
			id  uint8
			rec [RecordSize]byte
		)
		if id, err = parseIdentifier(arg); err == nil {
			if rec, err = sh.db.Read(id); err == nil {
				fmt.Fprintln(sh.out, string(rec[:]))
			}
		}
	case "delete":
		var id uint8
		if id, err = parseIdentifier(arg); err == nil {
			err = sh.db.Delete(id)
		}
	case "restart":
		err = sh.db.Restart()
	case "fullscan":
		err = sh.db.FullScan()
	case "stat":
		st := sh.db.Stat()
		fmt.Fprintf(sh.out, "inserts=%d reads=%d deletes=%d restarts=%d rejected=%d writes=%d writeFailures=%d\n",
			st.Inserts, st.Reads, st.Deletes, st.Restarts, st.Rejected, st.StorageWrites, st.StorageFailures)
	default:
		fmt.Fprintf(sh.out, "error: unknown command %q, try help\n", cmd)
		return false
	}
	if err != nil {
		fmt.Fprintf(sh.out, "error: %v\n", err)
	}
	if sh.dump {
		fmt.Fprintln(sh.out)
		if err = Dump(sh.out, sh.db.Page()); err != nil {
			fmt.Fprintf(sh.out, "error: dump: %v\n", err)
		}
	}
	return false
}

func parseIdentifier(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q", s)
	}
	return uint8(v), nil
}
