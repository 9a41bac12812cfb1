package back

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/seanzhanng/teaelo/internal/config"
)

// Back holds the brand store and the rating engine. All rating, counter, and
// rank state is owned by this package and mutated only through it.
type Back struct {
	db     *sqlx.DB
	config *config.Config
}

func New(sqlDriver string, sqlDSN string, conf *config.Config) (*Back, error) {
	// Why even bother converting names? A single greppable string across all
	// your source code is better than any odd conversion scheme you could ever
	// come up with.
	// HACK: This is global but putting this in init() makes test ugly.
	// As only the Back relies on the DB, this seems like an okay-ish place.
	sqlx.NameMapper = func(v string) string { return v }

	db, err := sqlx.Connect(sqlDriver, sqlDSN)
	if err != nil {
		return nil, err
	}

	// A single connection serializes all write transactions, which is what
	// guarantees two matches sharing a brand never read the same pre-update
	// rating.
	db.SetMaxOpenConns(1)

	return &Back{
		db:     db,
		config: conf,
	}, nil
}

func (b *Back) Run(wg *sync.WaitGroup, done <-chan struct{}) {
	wg.Add(1)
	defer wg.Done()
	log.Print("info: starting Back dæmon")

	for {
		if err := b.runPeriodicTasks(); err != nil {
			log.Printf("error: runPeriodicTasks: %s", err)
		}

		select {
		case <-time.After(1 * time.Minute):
		case <-done:
			return
		}
	}
}

type transactionCallback func(*sqlx.Tx) error

func (b *Back) transaction(cb transactionCallback) error {
	tx, err := b.db.Beginx()
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("rollback error: %s\noriginal error: %s", err2, err)
		}

		return normalizeSQLiteError(err)
	}

	return normalizeSQLiteError(tx.Commit())
}

// retriableTransaction runs cb like transaction but transparently replays it
// when another writer held the database. cb must be safe to call more than
// once: it is re-run from scratch, re-reading whatever it needs.
func (b *Back) retriableTransaction(cb transactionCallback) error {
	var err error

	for i := 0; i < 3; i++ {
		err = b.transaction(cb)
		if !errors.Is(err, ErrConflict) {
			return err
		}

		time.Sleep(time.Duration(i+1) * 10 * time.Millisecond)
	}

	return err
}

// normalizeSQLiteError maps a lock contention error to ErrConflict so callers
// know the whole transaction can be retried from scratch.
func normalizeSQLiteError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return fmt.Errorf("%w: %s", ErrConflict, err)
		}
	}

	return err
}
