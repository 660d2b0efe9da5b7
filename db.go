package smoldb

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
)

const firstIdentifier = 1

type Config struct {
	RootDir string
	Name    string
	// MMap keeps the page file mapped instead of using positional reads and writes.
	MMap bool
	// ResetOnOpen initializes the page even if the file already holds one.
	ResetOnOpen bool
	Logger      *slog.Logger
}

// DB owns one page, its backing file and the identifier counter of the
// current session. It is not safe for concurrent use, and two processes
// opening the same file is undefined.
type DB struct {
	path   string
	cfg    Config
	s      pageStorage
	page   Page
	nextID int
	// stale is set when a store failed and the in-memory page may disagree
	// with the file.
	stale  bool
	logger *slog.Logger
	stat   iStat
}

func NewDB(cfg Config) *DB {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := filepath.Join(cfg.RootDir, cfg.Name)
	return &DB{
		path:   path,
		cfg:    cfg,
		s:      newPageStorage(path, cfg.MMap),
		nextID: firstIdentifier,
		logger: logger.With("page", path),
	}
}

func (db *DB) Path() string {
	return db.path
}

// Init opens the page file. An empty file is initialized, an existing one is
// loaded and verified.
func (db *DB) Init() error {
	if db.cfg.Name == "" {
		return errors.New("config: empty page name")
	}
	if db.cfg.RootDir != "" {
		if err := os.MkdirAll(db.cfg.RootDir, 0755); err != nil {
			return &StorageError{Op: "mkdir", Path: db.cfg.RootDir, Err: err}
		}
	}
	if db.cfg.ResetOnOpen {
		if err := os.Truncate(db.path, 0); err != nil && !os.IsNotExist(err) {
			return &StorageError{Op: "truncate", Path: db.path, Err: err}
		}
	}
	fresh, err := db.s.init()
	if err != nil {
		return err
	}
	if fresh || db.cfg.ResetOnOpen {
		if err = db.Restart(); err != nil {
			_ = db.s.close()
			return err
		}
		return nil
	}
	if err = db.Reload(); err != nil {
		_ = db.s.close()
		return err
	}
	db.logger.Info("page opened", "records", db.page.RecordCount(), "nextId", db.nextID)
	return nil
}

// Reload replaces the in-memory page with the stored one. The identifier
// counter never moves backwards and always skips every stored identifier.
func (db *DB) Reload() error {
	var p Page
	if err := db.s.load(&p.buf); err != nil {
		return err
	}
	if err := p.Verify(); err != nil {
		return err
	}
	db.page = p
	db.stale = false
	for _, e := range p.Entries() {
		if int(e.ID) >= db.nextID {
			db.nextID = int(e.ID) + 1
		}
	}
	return nil
}

func (db *DB) ensureFresh() error {
	if !db.stale {
		return nil
	}
	db.logger.Info("reloading page after storage failure")
	return db.Reload()
}

func (db *DB) persist(op string) error {
	if err := db.s.store(&db.page.buf); err != nil {
		db.stale = true
		db.stat.storageFailures.Add(1)
		db.logger.Warn("page store failed", "op", op, "err", err)
		return err
	}
	db.stat.storageWrites.Add(1)
	return nil
}

func (db *DB) reject(op string, err error) error {
	db.stat.rejected.Add(1)
	db.logger.Debug(op+" rejected", "err", err)
	return err
}

// Insert stores payload under the next session identifier and returns it.
func (db *DB) Insert(payload []byte) (uint8, error) {
	if err := db.ensureFresh(); err != nil {
		return 0, err
	}
	if db.nextID > math.MaxUint8 {
		return 0, db.reject("insert", ErrIdentifiersExhausted)
	}
	id := uint8(db.nextID)
	if err := db.page.Insert(id, payload); err != nil {
		return 0, db.reject("insert", err)
	}
	db.nextID++
	db.stat.inserts.Add(1)
	if db.logger.Enabled(context.Background(), slog.LevelDebug) {
		o, _ := db.page.OrderOf(id)
		db.logger.Debug("insert", "id", id, "order", o, "len", len(payload))
	}
	if err := db.persist("insert"); err != nil {
		return 0, err
	}
	return id, nil
}

// Read returns the raw record of id, zero padding included.
func (db *DB) Read(id uint8) ([RecordSize]byte, error) {
	if err := db.ensureFresh(); err != nil {
		return [RecordSize]byte{}, err
	}
	rec, err := db.page.Read(id)
	if err != nil {
		return rec, db.reject("read", err)
	}
	db.stat.reads.Add(1)
	return rec, nil
}

func (db *DB) Delete(id uint8) error {
	if err := db.ensureFresh(); err != nil {
		return err
	}
	o, err := db.page.OrderOf(id)
	if err != nil {
		return db.reject("delete", err)
	}
	if err = db.page.Delete(id); err != nil {
		return db.reject("delete", err)
	}
	db.stat.deletes.Add(1)
	db.logger.Debug("delete", "id", id, "order", o)
	return db.persist("delete")
}

// Restart initializes the page and resets the identifier counter.
func (db *DB) Restart() error {
	db.page.Reset()
	db.nextID = firstIdentifier
	db.stat.restarts.Add(1)
	if err := db.persist("restart"); err != nil {
		return err
	}
	db.stale = false
	db.logger.Info("page initialized")
	return nil
}

// FullScan is reserved and does nothing yet.
func (db *DB) FullScan() error {
	if err := db.ensureFresh(); err != nil {
		return err
	}
	db.page.FullScan()
	return nil
}

// Page returns a copy of the in-memory page.
func (db *DB) Page() *Page {
	return db.page.Clone()
}

// NextID is the identifier the next successful insert will receive.
func (db *DB) NextID() int {
	return db.nextID
}

func (db *DB) Stat() ExportStat {
	return db.stat.export()
}

func (db *DB) Close() error {
	return db.s.close()
}
