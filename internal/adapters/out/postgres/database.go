package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tagging/internal/adapters/out/postgres/messagerepo"
	"tagging/internal/adapters/out/postgres/notificationrepo"
	"tagging/internal/adapters/out/postgres/orderrepo"
	"tagging/internal/adapters/out/postgres/packagerepo"
	"tagging/internal/adapters/out/postgres/userrepo"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig configures the sql.DB connection pool. Zero values keep the
// driver defaults.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Open connects to sqlite (the default, for development) or postgres.
func Open(driver, dsn string, pool PoolConfig, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyPool(sqlDB, pool)

	return db, nil
}

func applyPool(sqlDB *sql.DB, pool PoolConfig) {
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}
}

// Models lists every persisted table in migration order.
func Models() []any {
	return []any{
		&userrepo.UserDTO{},
		&packagerepo.PackageDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.TagDTO{},
		&orderrepo.DeliveryDTO{},
		&orderrepo.DeliveryFileDTO{},
		&orderrepo.EventDTO{},
		&notificationrepo.NotificationDTO{},
		&messagerepo.MessageDTO{},
	}
}

// AutoMigrate creates or updates the schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
