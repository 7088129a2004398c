package sqlite

import (
	"codeberg.org/miketth/kbswitch/pkg/kbswitch"
	"codeberg.org/miketth/kbswitch/pkg/statestore/sqlite/migrations"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"os"
	"path/filepath"
)

type StateStore struct {
	db      *sql.DB
	querier *Queries
}

func NewStateStore(filename string, log *zap.SugaredLogger) (*StateStore, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	// immediate transactions take the write lock up front, which serializes
	// concurrent switch invocations
	db, err := sql.Open("sqlite3", filename+"?_txlock=immediate&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &StateStore{
		db:      db,
		querier: New(db),
	}, nil
}

func (s *StateStore) Close() error {
	return s.db.Close()
}

func (s *StateStore) Load() (kbswitch.State, error) {
	return load(context.Background(), s.querier)
}

func (s *StateStore) Save(state kbswitch.State) error {
	return save(context.Background(), s.querier, state)
}

func (s *StateStore) Update(fn func(state *kbswitch.State) error) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	querier := s.querier.WithTx(tx)

	state, err := load(ctx, querier)
	if err != nil {
		return err
	}

	if err := fn(&state); err != nil {
		return err
	}

	if err := save(ctx, querier, state); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func load(ctx context.Context, querier *Queries) (kbswitch.State, error) {
	row, err := querier.GetState(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return kbswitch.State{}, kbswitch.ErrNotInitialized
	case err != nil:
		return kbswitch.State{}, fmt.Errorf("%w: sqlite select: %v", kbswitch.ErrStateCorruption, err)
	}

	var layouts []int
	if err := json.Unmarshal([]byte(row.Layouts), &layouts); err != nil {
		return kbswitch.State{}, fmt.Errorf("%w: decode layouts: %v", kbswitch.ErrStateCorruption, err)
	}

	return kbswitch.State{
		LastTime:    row.LastTime,
		Layouts:     layouts,
		CurFreq:     int(row.CurFreq),
		CurAll:      int(row.CurAll),
		SumTime:     row.SumTime,
		Counter:     int(row.Counter),
		MaxDuration: row.MaxDuration,
	}, nil
}

func save(ctx context.Context, querier *Queries, state kbswitch.State) error {
	layouts, err := json.Marshal(state.Layouts)
	if err != nil {
		return fmt.Errorf("encode layouts: %w", err)
	}

	if err := querier.SetState(ctx, SetStateParams{
		LastTime:    state.LastTime,
		Layouts:     string(layouts),
		CurFreq:     int64(state.CurFreq),
		CurAll:      int64(state.CurAll),
		SumTime:     state.SumTime,
		Counter:     int64(state.Counter),
		MaxDuration: state.MaxDuration,
	}); err != nil {
		return fmt.Errorf("sqlite update: %w", err)
	}

	return nil
}
