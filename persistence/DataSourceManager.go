package persistence

import (
	"context"
	"database/sql"
	"os"
	"printdesk/common"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/sirupsen/logrus"
	otgorm "github.com/smacker/opentracing-gorm"
)

var ActiveDataSourceManager *DataSourceManager

func init() {
	gorm.NowFunc = func() time.Time {
		return common.CurrentTime()
	}
}

type DataSourceManager struct {
	gormDB *gorm.DB

	DatabaseConfig *DatabaseConfig
}

func (m *DataSourceManager) Start() error {
	db, err := connect(m.DatabaseConfig)
	if err != nil {
		return err
	}
	otgorm.AddGormCallbacks(db)
	m.gormDB = db
	if os.Getenv("GIN_MODE") != "release" {
		m.gormDB.LogMode(true)
	}
	return nil
}

func (m *DataSourceManager) Stop() {
	if m.gormDB != nil {
		if err := m.gormDB.Close(); err != nil {
			logrus.Warnf("failed to close DB: %v", err)
		}
		m.gormDB = nil
	}
}

// GormDB returns a fresh session, the span carried by ctx (if any) becomes the parent of sql spans.
func (m *DataSourceManager) GormDB(ctx context.Context) *gorm.DB {
	if m.gormDB == nil {
		return nil
	}
	db := m.gormDB.New()
	if ctx != nil {
		db = otgorm.SetSpanToGorm(ctx, db)
	}
	return db
}

// Dialect returns the gorm dialect name: mysql, postgres or sqlite3.
func (m *DataSourceManager) Dialect() string {
	if m.gormDB == nil {
		return m.DatabaseConfig.DriverType
	}
	return m.gormDB.Dialect().GetName()
}

func connect(config *DatabaseConfig) (*gorm.DB, error) {
	var db *gorm.DB
	var err error
	if config.DriverType == DriverPostgres {
		// gorm ships the postgres dialect, the wire protocol is served by pgx.
		sqlDB, err := sql.Open("pgx", config.DriverArgs)
		if err != nil {
			return nil, err
		}
		db, err = gorm.Open(DriverPostgres, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	} else {
		db, err = gorm.Open(config.DriverType, config.DriverArgs)
		if err != nil {
			return nil, err
		}
	}
	if config.DriverType == DriverSqlite {
		// sqlite serializes writers, a single connection avoids "database is locked".
		db.DB().SetMaxOpenConns(1)
	}
	err = db.DB().Ping()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
