package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"roomify-client/models"

	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mysqlDSNFromURL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode())
	return dsn, dbName, nil
}

// ResolveMySQLDSN picks MYSQL_URL, then DATABASE_URL, then the DB_* parts,
// and checks the result with the driver's own DSN parser.
func (c *Config) ResolveMySQLDSN() (string, string, error) {
	raw := strings.TrimSpace(c.MySQLURL)
	if raw == "" {
		raw = strings.TrimSpace(c.DatabaseURL)
	}

	var dsn, dbName string
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			var err error
			dsn, dbName, err = mysqlDSNFromURL(raw)
			if err != nil {
				return "", "", err
			}
		} else {
			dsn = raw
		}
	} else {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName,
		)
	}

	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	if dbName == "" {
		dbName = parsed.DBName
	}
	if dbName == "" {
		return "", "", fmt.Errorf("mysql dsn missing database name")
	}
	return dsn, dbName, nil
}

func (c *Config) gormLogger() logger.Interface {
	level := logger.Warn
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = logger.Info
	case "error":
		level = logger.Error
	case "silent", "off":
		level = logger.Silent
	}

	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !c.IsProduction(),
		},
	)
}

// OpenStorageDB opens the database backing client-side local storage and
// migrates the local_entries table. Not used for the memory driver.
func (c *Config) OpenStorageDB() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch c.StorageDriver {
	case StorageSQLite:
		path := strings.TrimSpace(c.StoragePath)
		if path == "" {
			return nil, fmt.Errorf("STORAGE_PATH is required for the sqlite driver")
		}
		dialector = sqlite.Open(path)
	case StorageMySQL:
		dsn, _, err := c.ResolveMySQLDSN()
		if err != nil {
			return nil, err
		}
		dialector = gormmysql.Open(dsn)
	default:
		return nil, fmt.Errorf("storage driver %q has no database", c.StorageDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: c.gormLogger()})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.LocalEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}
