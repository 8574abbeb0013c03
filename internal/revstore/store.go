package revstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// A revision collision means two writers raced for the same revision id. The
// loser re-runs its whole transaction, including the uniqueness pre-checks,
// so the race degrades to a Conflict outcome rather than a double create.
const maxWriteAttempts = 3

// Store wraps the relational backend behind the transaction discipline the
// facades rely on: one transaction per write, rollback on every failure path.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the shared handle used for reads outside any transaction.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// OpenConnection acquires a connection honoring the begin/commit/rollback
// cycle. The store does not pool connections itself.
func (s *Store) OpenConnection() *Conn {
	return &Conn{db: s.db}
}

// Conn is one acquired connection with at most one open transaction.
type Conn struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens a transaction. It reports false without error when one is
// already open; callers must check the boolean.
func (c *Conn) Begin(ctx context.Context) (bool, error) {
	if c.tx != nil {
		return false, nil
	}
	tx := c.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, tx.Error
	}
	c.tx = tx
	return true, nil
}

// Commit closes the open transaction.
func (c *Conn) Commit() error {
	if c.tx == nil {
		return errors.New("commit outside transaction")
	}
	err := c.tx.Commit().Error
	c.tx = nil
	return err
}

// Rollback aborts the open transaction. Safe to call when none is open, so
// every exit path may call it unconditionally.
func (c *Conn) Rollback() error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback().Error
	c.tx = nil
	return err
}

// Handle returns the transaction handle when one is open, the plain
// connection otherwise.
func (c *Conn) Handle() *gorm.DB {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

// WithTx runs fn inside one transaction and guarantees commit-or-rollback on
// every exit path, including panics. A revision collision retries fn in a
// fresh transaction a bounded number of times.
func (s *Store) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if !errors.Is(err, ErrRevisionCollision) {
			return err
		}
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	conn := s.OpenConnection()
	ok, beginErr := conn.Begin(ctx)
	if beginErr != nil {
		return beginErr
	}
	if !ok {
		return errors.New("transaction already open")
	}

	defer func() {
		if r := recover(); r != nil {
			_ = conn.Rollback()
			panic(r)
		}
		if err != nil {
			_ = conn.Rollback()
		}
	}()

	if err = fn(conn.Handle()); err != nil {
		return err
	}
	err = conn.Commit()
	return err
}
