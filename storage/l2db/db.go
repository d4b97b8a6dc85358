package l2db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sat20-labs/l2asset/common"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DRIVER_POSTGRES = "postgres"
	DRIVER_SQLITE   = "sqlite"
)

type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type dialectorMaker func(dsn string) gorm.Dialector

var dialectors = map[string]dialectorMaker{
	DRIVER_POSTGRES: postgresDialector,
	DRIVER_SQLITE:   sqliteDialector,
}

func postgresDialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

func sqliteDialector(dsn string) gorm.Dialector {
	if dsn == "" {
		dsn = "./data/l2asset.db"
	}
	return sqlite.New(sqlite.Config{DSN: dsn})
}

// Open connects to the relational store, migrates the schema and seeds
// the derivation counter.
func Open(opts Options) (*gorm.DB, error) {
	maker, ok := dialectors[opts.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported db driver %s", opts.Driver)
	}

	db, err := gorm.Open(maker(opts.DSN), &gorm.Config{
		Logger:                 newGormLogger(common.GetLoggerEntry("l2db")),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.Driver == DRIVER_SQLITE {
		// sqlite 只允许一个写连接
		sqlDB.SetMaxOpenConns(1)
	} else if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormLogger sends gorm output to logrus. SQL traces are debug level.
type gormLogger struct {
	entry *logrus.Entry
	slow  time.Duration
}

func newGormLogger(entry *logrus.Entry) *gormLogger {
	return &gormLogger{entry: entry, slow: 500 * time.Millisecond}
}

func (l *gormLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	l.entry.Infof(msg, args...)
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.entry.Warnf(msg, args...)
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	l.entry.Errorf(msg, args...)
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.entry.WithFields(logrus.Fields{"rows": rows, "elapsed": elapsed}).Errorf("%s failed, %v", sql, err)
	case elapsed > l.slow:
		sql, rows := fc()
		l.entry.WithFields(logrus.Fields{"rows": rows, "elapsed": elapsed}).Warnf("slow sql %s", sql)
	case l.entry.Logger.IsLevelEnabled(logrus.DebugLevel):
		sql, rows := fc()
		l.entry.WithFields(logrus.Fields{"rows": rows, "elapsed": elapsed}).Debug(sql)
	}
}
