package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"bazaar-be/internal/config"

	_ "github.com/lib/pq"
)

// InitDB opens the Postgres pool and verifies connectivity. Startup
// aborts when the database is unreachable.
func InitDB(cfg *config.Config) *sql.DB {
	pool, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(30 * time.Minute)

	if err := pool.Ping(); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	log.Println("database connection established")
	return pool
}

// DSN assembles the lib/pq connection string from config.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
}
