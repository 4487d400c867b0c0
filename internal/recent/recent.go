// Package recent persists committed selections per control name in a local
// sqlite database, so programs can surface "last picked" context next to
// their select controls across runs.
package recent

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Store is an append-only log of committed selections with most-recent-first
// retrieval.
type Store struct {
	db *gorm.DB
}

// Selection is one committed selection.
type Selection struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index;index:idx_field_created,priority:2"`
	UpdatedAt time.Time

	Field string `gorm:"index:idx_field_created,priority:1"`
	Value string
	Label string
}

// NewStore opens (creating if needed) the selections database at dbFilePath.
func NewStore(dbFilePath string) (*Store, error) {
	// - busy_timeout(5000): tolerate another process holding the file
	// - synchronous(1): NORMAL mode for durability/performance balance
	// - temp_store(2): MEMORY, keeps temp files off disk
	connectionString := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=synchronous(1)&_pragma=temp_store(2)", dbFilePath)

	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open selections store: %w", err)
	}

	if err := db.AutoMigrate(&Selection{}); err != nil {
		return nil, fmt.Errorf("failed to migrate selections store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite serializes writes anyway, so multiple connections add overhead
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record appends a committed selection for the named control.
func (s *Store) Record(field, value, label string) error {
	sel := Selection{Field: field, Value: value, Label: label}
	if result := s.db.Create(&sel); result.Error != nil {
		return fmt.Errorf("failed to record selection: %w", result.Error)
	}
	return nil
}

// Last returns the most recent selection recorded for the named control, or
// nil when none exists.
func (s *Store) Last(field string) (*Selection, error) {
	var sel Selection
	result := s.db.Where("field = ?", field).Order("created_at desc, id desc").First(&sel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &sel, nil
}

// Recent returns up to limit selections for the named control, newest first,
// deduplicated by value.
func (s *Store) Recent(field string, limit int) ([]Selection, error) {
	var entries []Selection
	result := s.db.Where("field = ?", field).Order("created_at desc, id desc").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	seen := make(map[string]bool, len(entries))
	out := make([]Selection, 0, limit)
	for _, e := range entries {
		if seen[e.Value] {
			continue
		}
		seen[e.Value] = true
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Prune deletes selections older than the retention window and reports how
// many rows went away.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.Where("created_at < ?", cutoff).Delete(&Selection{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune selections: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Describe formats the selection for display, e.g. "Green, picked 2 hours
// ago".
func (sel *Selection) Describe() string {
	label := sel.Label
	if label == "" {
		label = sel.Value
	}
	return fmt.Sprintf("%s, picked %s", label, humanize.Time(sel.CreatedAt))
}
