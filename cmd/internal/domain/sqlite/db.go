package sqlite

import (
	"omigec/cmd/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the database at 'dsn' and migrates every table.
// Use ":memory:" for a throwaway database.
func Init(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// A single connection serializes writers, which is what makes the
	// transactional check-then-act sequences safe on SQLite. It also keeps
	// in-memory databases alive between queries.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Entreprise{},
		&entity.Subscription{},
		&entity.JobOffer{},
		&entity.Application{},
		&entity.Verification{},
		&entity.Reference{},
		&entity.Sponsor{},
		&entity.Payment{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

