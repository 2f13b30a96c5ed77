package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre un pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para este servicio (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen: registro de criaturas, índice
// de dueños y el contador global (fila única).
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS creatures (
			id TEXT PRIMARY KEY,
			owner_account TEXT NOT NULL,
			dna BYTEA NOT NULL,
			gender TEXT NOT NULL,
			price BIGINT
		)`,
		`CREATE INDEX IF NOT EXISTS creatures_owner_idx ON creatures (owner_account)`,
		`CREATE TABLE IF NOT EXISTS creature_owned (
			account TEXT NOT NULL,
			creature_id TEXT NOT NULL,
			PRIMARY KEY (account, creature_id)
		)`,
		`CREATE TABLE IF NOT EXISTS creature_counter (
			singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
			n BIGINT NOT NULL
		)`,
		`INSERT INTO creature_counter (singleton, n) VALUES (TRUE, 0) ON CONFLICT DO NOTHING`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
