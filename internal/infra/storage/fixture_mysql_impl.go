package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	configs "go_stub_server/internal/infra/config"

	"github.com/avast/retry-go/v4"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// FixtureRecord is one fixture row.
type FixtureRecord struct {
	Name      string    `gorm:"column:name;type:varchar(255);primaryKey"`
	Body      []byte    `gorm:"column:body;type:longblob;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

type mysqlFixtureSource struct {
	mysqlClient *gorm.DB
	table       string
	config      *configs.FixtureConfig
}

var _ FixtureStoreIface = (*mysqlFixtureSource)(nil)

// NewMySQLClient opens the pool described by c and panics when the database
// is unreachable.
func NewMySQLClient(c *configs.MySQLConfig) *gorm.DB {
	dsn := c.Database.GetDSN()
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(c.Options.LogLevel)),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect database: %v", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to get sql.DB: %v", err))
	}
	sqlDB.SetMaxIdleConns(c.Options.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.Options.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(c.Options.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.Options.ConnMaxIdleTime)
	return db
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// NewMySQLFixtureSource stores fixtures in config.MySQL.Table, creating the
// table when missing.
func NewMySQLFixtureSource(mysqlClient *gorm.DB, config *configs.FixtureConfig) (FixtureStoreIface, error) {
	s := &mysqlFixtureSource{
		mysqlClient: mysqlClient,
		table:       config.MySQL.Table,
		config:      config,
	}
	if err := s.db(context.Background()).AutoMigrate(&FixtureRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate fixture table %s: %w", s.table, err)
	}
	return s, nil
}

func (s *mysqlFixtureSource) db(ctx context.Context) *gorm.DB {
	return s.mysqlClient.WithContext(ctx).Table(s.table)
}

func (s *mysqlFixtureSource) ReadFixture(ctx context.Context, name string) ([]byte, error) {
	record := &FixtureRecord{}
	err := retry.Do(
		func() error {
			return s.db(ctx).First(record, "name = ?", name).Error
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.config.RetryCount)),
		retry.Delay(s.config.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, gorm.ErrRecordNotFound)
		}),
	)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture %s from mysql: %w", name, err)
	}
	return record.Body, nil
}

func (s *mysqlFixtureSource) ListFixtures(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db(ctx).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list fixtures from mysql: %w", err)
	}
	return names, nil
}

// SaveFixture upserts name.
func (s *mysqlFixtureSource) SaveFixture(ctx context.Context, name string, data []byte) error {
	record := &FixtureRecord{Name: name, Body: data, UpdatedAt: time.Now()}
	return retry.Do(
		func() error {
			return s.db(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
			}).Create(record).Error
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.config.RetryCount)),
		retry.Delay(s.config.RetryDelay),
		retry.LastErrorOnly(true),
	)
}
