package database

import (
	"context"
	"fmt"
	"time"

	"store_rating_backend/internal/config"
	"store_rating_backend/internal/logger"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open подключается к БД из конфига и настраивает пул соединений
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(cfg.IsProduction()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database unavailable: %w", err)
	}

	logger.Info("Database connected", "driver", cfg.Database.Driver)
	return db, nil
}

func dialectorFor(driver, url string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(url), nil
	case "mysql":
		dsn, err := mysqlDSN(url)
		if err != nil {
			return nil, err
		}
		return mysql.New(mysql.Config{DSN: dsn}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// mysqlDSN включает parseTime: без него DATETIME не сканируется в time.Time
func mysqlDSN(url string) (string, error) {
	c, err := mysqldrv.ParseDSN(url)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	c.ParseTime = true
	if c.Loc == nil {
		c.Loc = time.UTC
	}
	return c.FormatDSN(), nil
}

// Close закрывает пул соединений под gorm
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newGormLogger пишет SQL-логи GORM через общий logrus-логгер
func newGormLogger(production bool) gormlogger.Interface {
	level := gormlogger.Info
	if production {
		level = gormlogger.Warn
	}
	return gormlogger.New(logger.GetLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
