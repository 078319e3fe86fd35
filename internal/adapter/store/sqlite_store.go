package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-maker/internal/domain"

	"github.com/jmoiron/sqlx"
)

const (
	loadSliceQuery = `SELECT value FROM slices WHERE key = ?`
	saveSliceQuery = `INSERT INTO slices (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// SQLiteStore persists slices as rows of the slices table. Subscribers are notified of
// saves made through this store only.
type SQLiteStore struct {
	db   *sqlx.DB
	subs *subscribers
	now  func() time.Time
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db, subs: newSubscribers(), now: time.Now}
}

var _ domain.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := s.db.GetContext(ctx, &value, loadSliceQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSliceNotFound
		}
		return nil, fmt.Errorf("failed to load slice %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, saveSliceQuery, key, value, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to save slice %s: %w", key, err)
	}
	s.subs.notify(key, value)
	return nil
}

func (s *SQLiteStore) Subscribe(ctx context.Context, key string, fn func([]byte)) error {
	s.subs.add(ctx, key, fn)
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
