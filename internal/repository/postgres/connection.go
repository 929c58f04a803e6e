package postgres

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/dom/newsly/internal/domain"
	"github.com/dom/newsly/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables owned by this package.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
	)
}

// Handle is the storage context shared by the repositories. It starts empty
// and becomes ready once a connection has been attached, so the HTTP server
// can come up before the database does.
type Handle struct {
	db atomic.Pointer[gorm.DB]
}

func NewHandle() *Handle {
	return &Handle{}
}

// NewReadyHandle wraps an already open connection.
func NewReadyHandle(db *gorm.DB) *Handle {
	h := NewHandle()
	h.Attach(db)
	return h
}

func (h *Handle) Attach(db *gorm.DB) {
	h.db.Store(db)
}

func (h *Handle) Ready() bool {
	return h.db.Load() != nil
}

// DB returns the attached connection or domain.ErrStoreNotReady.
func (h *Handle) DB() (*gorm.DB, error) {
	db := h.db.Load()
	if db == nil {
		return nil, domain.ErrStoreNotReady
	}
	return db, nil
}

// ConnectInBackground opens the database, retrying every interval until it
// succeeds or ctx is done. The returned channel receives the final error (nil
// on success) and is then closed.
func (h *Handle) ConnectInBackground(ctx context.Context, databaseURL string, logLevel logger.LogLevel, interval time.Duration) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			db, err := NewConnection(databaseURL, logLevel)
			if err == nil {
				h.Attach(db)
				log.Printf("Connected to database")
				done <- nil
				return
			}
			log.Printf("ERROR [postgres.ConnectInBackground] database not reachable: %v", err)

			select {
			case <-ctx.Done():
				done <- fmt.Errorf("database connection abandoned: %w", ctx.Err())
				return
			case <-ticker.C:
			}
		}
	}()

	return done
}

func (h *Handle) Close() error {
	db := h.db.Load()
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func NewRepositories(h *Handle) *repository.Repositories {
	return &repository.Repositories{
		User:    NewUserRepository(h),
		Session: NewSessionRepository(h),
	}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
