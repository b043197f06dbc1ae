package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/hidromont/site-backend/config"
	"github.com/hidromont/site-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Options describes how to reach the database.
type Options struct {
	Type       string
	DSN        string
	ReplicaDSN string
	SQLitePath string
	Logger     logger.Interface
}

// OptionsFromConfig reads DB_TYPE, DATABASE_URL (or the DB_* parts),
// DB_REPLICA_URL and SQLITE_PATH.
func OptionsFromConfig(c map[string]string) Options {
	opts := Options{
		Type:       strings.ToLower(config.GetString(c, "DB_TYPE", TypePostgres)),
		DSN:        config.GetString(c, "DATABASE_URL", ""),
		ReplicaDSN: config.GetString(c, "DB_REPLICA_URL", ""),
		SQLitePath: config.GetString(c, "SQLITE_PATH", "hidromont.db"),
	}
	if opts.DSN == "" && opts.Type == TypePostgres {
		opts.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "hidromont"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		)
	}
	return opts
}

// Open connects with gorm. Driver errors are translated so unique index
// violations surface as gorm.ErrDuplicatedKey.
func Open(opts Options) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         opts.Logger,
	}

	var dialector gorm.Dialector
	switch opts.Type {
	case TypePostgres, "":
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres DSN is empty")
		}
		dialector = postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		})
	case TypeSQLite:
		dialector = sqlite.Open(sqliteDSN(opts.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", opts.Type)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if opts.Type == TypeSQLite {
		// one writer at a time keeps sqlite from returning SQLITE_BUSY
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if opts.ReplicaDSN != "" && opts.Type != TypeSQLite {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  opts.ReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("error registering read replica: %w", err)
		}
	}

	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("error migrating schema: %w", err)
	}
	return nil
}

type Database struct {
	db          *gorm.DB
	projectRepo *ProjectRepo
	productRepo *ProductRepo
	mediaRepo   *MediaRepo
	orderRepo   *OrderRepo
	adminRepo   *AdminRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		projectRepo: NewProjectRepo(db),
		productRepo: NewProductRepo(db),
		mediaRepo:   NewMediaRepo(db),
		orderRepo:   NewOrderRepo(db),
		adminRepo:   NewAdminRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProductRepo() *ProductRepo {
	return d.productRepo
}

func (d Database) MediaRepo() *MediaRepo {
	return d.mediaRepo
}

func (d Database) OrderRepo() *OrderRepo {
	return d.orderRepo
}

func (d Database) AdminRepo() *AdminRepo {
	return d.adminRepo
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
