// Package database implement connection to database service and initialize ORM.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	// Register the pgx database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ats-backend/internal/config"
	"ats-backend/internal/logging"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// DBinstanceStruct is a struct that holds the GORM DB instance and related information.
type DBinstanceStruct struct {
	*gorm.DB
	// Config
	Config *DBConfig
	// cached raw DB and mutex for lazy-init
	sqlDB *sql.DB
	mu    sync.RWMutex
}

// DBConfig holds the configuration parameters for connecting to a database.
type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	Constr     string
	useConstr  bool
	SQLitePath string

	AdminEmail    string
	AdminPassword string
}

// ConfigFrom maps the application settings onto a DBConfig.
func ConfigFrom(cfg *config.Config) *DBConfig {
	return &DBConfig{
		Driver:        cfg.DB.Driver,
		Host:          cfg.DB.Host,
		Port:          cfg.DB.Port,
		User:          cfg.DB.User,
		Password:      cfg.DB.Password,
		DBName:        cfg.DB.Name,
		Constr:        cfg.DB.ConnString,
		useConstr:     cfg.DB.UseConnString,
		SQLitePath:    cfg.DB.SQLitePath,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}
}

func (d *DBConfig) getDsn() (string, error) {
	if d.Driver == config.DriverSQLite {
		if d.SQLitePath == "" {
			return "", fmt.Errorf("SQLITE_PATH is empty")
		}
		return d.SQLitePath, nil
	}
	if d.useConstr {
		if d.Constr == "" {
			return "", fmt.Errorf("DB_CONNECTION_STR is empty")
		}
		return d.Constr, nil
	}
	if d.Host == "" || d.Port == "" || d.User == "" || d.Password == "" || d.DBName == "" {
		return "", fmt.Errorf("database configuration is incomplete")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.DBName), nil
}

func (d *DBConfig) dialector() (gorm.Dialector, error) {
	dsn, err := d.getDsn()
	if err != nil {
		return nil, err
	}
	if d.Driver == config.DriverSQLite {
		return sqlite.Open(dsn), nil
	}
	return postgres.Open(dsn), nil
}

// NewDBInstance creates a new DBinstanceStruct with the given configuration.
// It establishes a connection, migrates the schema and creates the bootstrap admin account.
func NewDBInstance(config *DBConfig) (*DBinstanceStruct, error) {
	newDb, err := open(config)
	if err != nil {
		return nil, err
	}

	if err := newDb.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := newDb.createAdmin(); err != nil {
		return nil, err
	}

	return newDb, nil
}

func open(cfg *DBConfig) (*DBinstanceStruct, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if gin.IsDebugging() {
		gdb = gdb.Debug()
	}

	newDb := &DBinstanceStruct{
		DB:     gdb,
		Config: cfg,
	}

	if cfg.Driver == config.DriverSQLite {
		raw, err := newDb.Raw()
		if err != nil {
			return nil, err
		}
		// sqlite enforces foreign keys per connection
		raw.SetMaxOpenConns(1)
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return newDb, nil
}

// GetMainDB opens the database described by the application settings.
func GetMainDB(cfg *config.Config) (*DBinstanceStruct, error) {
	return NewDBInstance(ConfigFrom(cfg))
}

// Raw returns the underlying *sql.DB, caching it after the first successful retrieval.
// It is safe for concurrent use.
func (d *DBinstanceStruct) Raw() (*sql.DB, error) {
	if d == nil {
		return nil, fmt.Errorf("DBinstanceStruct is nil")
	}

	// fast path: cached value
	d.mu.RLock()
	if d.sqlDB != nil {
		raw := d.sqlDB
		d.mu.RUnlock()
		return raw, nil
	}
	d.mu.RUnlock()

	// slow path: initialize
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sqlDB != nil {
		return d.sqlDB, nil
	}
	if d.DB == nil {
		return nil, fmt.Errorf("gorm DB is nil")
	}
	raw, err := d.DB.DB()
	if err != nil {
		return nil, err
	}
	d.sqlDB = raw
	return raw, nil
}

func (d *DBinstanceStruct) createAdmin() error {
	log := logging.Logger(context.Background())

	if d.Config.AdminEmail == "" || d.Config.AdminPassword == "" {
		log.Info("Admin email or password not set, skipping admin creation")
		return nil
	}

	var count int64
	if err := d.Model(&model.User{}).Where("role = ?", model.RoleHR).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count HR users: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin, err := utilities.CreateAdmin(d.Config.AdminEmail, d.Config.AdminPassword, d.DB)
	if err != nil {
		return err
	}
	log.Info("Bootstrap admin created", zap.String("email", admin.Email))
	return nil
}

// Migrate database
func (d *DBinstanceStruct) Migrate() error {
	err := d.AutoMigrate(model.MigrateAble...)
	if err != nil {
		return err
	}
	return nil
}

// DropAllTables removes every table of the schema.
func (d *DBinstanceStruct) DropAllTables() error {
	if d.Config.Driver == config.DriverSQLite {
		tables := make([]interface{}, 0, len(model.MigrateAble))
		for i := len(model.MigrateAble) - 1; i >= 0; i-- {
			tables = append(tables, model.MigrateAble[i])
		}
		return d.Migrator().DropTable(tables...)
	}

	return d.Exec(`
	DO $$
		DECLARE
			r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
				EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`).Error
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (d *DBinstanceStruct) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	log := logging.Logger(ctx)
	stats := make(map[string]string)

	oriDB, err := d.Raw()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error("db down", zap.Error(err))
		return stats
	}

	// Ping the database
	err = oriDB.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Error("db down", zap.Error(err))
		return stats
	}

	// Database is up, add more statistics
	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := oriDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.OpenConnections > 40 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	if dbStats.MaxIdleClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many idle connections are being closed, consider revising the connection pool settings."
	}

	if dbStats.MaxLifetimeClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many connections are being closed due to max lifetime, consider increasing max lifetime or revising the connection usage pattern."
	}

	return stats
}

// Close closes the database connection.
func (d *DBinstanceStruct) Close() error {
	logging.Logger(context.Background()).Info("Disconnected from database", zap.String("driver", d.Config.Driver))
	oriDB, err := d.Raw()
	if err != nil {
		return err
	}
	return oriDB.Close()
}
