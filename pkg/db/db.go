package db

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	log "github.com/sirupsen/logrus"
)

// DB holds the database connection pool, shared by the query helpers.
var DB *sqlx.DB

// InitDB initializes the database connection pool.
func InitDB(dbURL string) error {
	var err error
	DB, err = sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		return err
	}

	if err = DB.Ping(); err != nil {
		log.Errorf("Failed to ping database: %v", err)
		DB.Close()
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(10)

	log.Info("Database connection pool initialized successfully.")
	return nil
}

// CloseDB closes the database connection pool on shutdown.
func CloseDB() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		} else {
			log.Info("Database connection pool closed.")
		}
	}
}
