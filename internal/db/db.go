package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/in-nis/planner/internal/config"
	"github.com/in-nis/planner/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the entity store. Writes that touch a curriculum invalidate its
// entry in the curriculum cache.
type Store struct {
	db    *gorm.DB
	cache *CurriculumCache

	// touched collects curricula written inside a transaction; they are
	// invalidated once the transaction finishes.
	touched map[string]struct{}
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DBConfig, cacheSize int) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	s, err := New(gdb, cacheSize)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// New wraps an open gorm handle.
func New(gdb *gorm.DB, cacheSize int) (*Store, error) {
	cache, err := NewCurriculumCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{db: gdb, cache: cache}, nil
}

var tables = []any{&models.Lecturer{}, &models.Course{}, &models.Availability{}, &models.Setting{}}

// Migrate creates or updates the tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(tables...)
}

// Reset drops and recreates every table.
func (s *Store) Reset() error {
	if err := s.db.Migrator().DropTable(tables...); err != nil {
		return err
	}
	s.cache.Purge()
	return s.Migrate()
}

func (s *Store) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Cache exposes the curriculum cache, mainly for the audit job and tests.
func (s *Store) Cache() *CurriculumCache { return s.cache }

// Transaction runs fn inside one database transaction. Returning an error
// rolls back every write made through the tx store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	txStore := &Store{cache: s.cache, touched: map[string]struct{}{}}
	defer func() {
		for id := range txStore.touched {
			s.cache.Invalidate(id)
		}
	}()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore.db = tx
		return fn(txStore)
	})
}

func (s *Store) touch(curriculumIDs ...string) {
	for _, id := range curriculumIDs {
		if s.touched != nil {
			s.touched[id] = struct{}{}
			continue
		}
		s.cache.Invalidate(id)
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
