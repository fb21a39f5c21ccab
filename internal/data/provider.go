// Package data implements the gorm-backed persistence layer: the SourceClip
// provenance store the recorder package writes through, and the database
// connection setup every store shares.
package data

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/wire"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gowvp/moviemaker/internal/conf"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(SetupDB, NewSourceClipStore)

// SetupDB opens the configured database, dispatching the dialector off the
// DSN's scheme prefix, and applies the configured connection pool limits.
func SetupDB(c *conf.Bootstrap) (*gorm.DB, error) {
	cfg := c.Data.Database
	dial, isSQLite := getDialector(cfg.Dsn)
	if isSQLite {
		cfg.MaxIdleConns = 1
		cfg.MaxOpenConns = 1
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime.Duration)

	if err := db.AutoMigrate(&SourceClip{}); err != nil {
		return nil, err
	}
	return db, nil
}

// getDialector returns the gorm.Dialector for dsn and whether it is sqlite
// (sqlite needs the pool pinned to a single connection).
func getDialector(dsn string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(dsn, "postgres"):
		return postgres.Open(dsn), false
	case strings.HasPrefix(dsn, "mysql"):
		return mysql.Open(dsn), false
	default:
		path := dsn
		if !filepath.IsAbs(path) {
			wd, err := os.Getwd()
			if err == nil {
				path = filepath.Join(wd, dsn)
			}
		}
		return sqlite.Open(path), true
	}
}
