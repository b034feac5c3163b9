package watchstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the watch entry store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateEntry(ctx context.Context, entry *watch.Entry) error {
	dao := toEntryDao(entry)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create watch entry: %w", err)
	}

	return nil
}

func (s *pgStore) DeleteEntry(ctx context.Context, profileID string) error {
	res, err := s.db.NewDelete().
		Model((*EntryDao)(nil)).
		Where("profile_id = ?", profileID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete watch entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete watch entry: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *pgStore) EntryExists(ctx context.Context, profileID string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		Where("profile_id = ?", profileID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check watch entry exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) GetEntry(ctx context.Context, profileID string) (*watch.Entry, error) {
	dao := new(EntryDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("profile_id = ?", profileID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get watch entry: %w", err)
	}
	return toEntry(dao), nil
}

func (s *pgStore) ListEntries(ctx context.Context) ([]*watch.Entry, error) {
	var daos []EntryDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch entries: %w", err)
	}

	entries := make([]*watch.Entry, len(daos))
	for i := range daos {
		entries[i] = toEntry(&daos[i])
	}
	return entries, nil
}

func (s *pgStore) UpdateWatermark(ctx context.Context, profileID, watermark string) error {
	res, err := s.db.NewUpdate().
		Model((*EntryDao)(nil)).
		Set("watermark = ?", watermark).
		Set("updated_at = NOW()").
		Where("profile_id = ?", profileID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update watermark: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update watermark: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
