// Package migrate envuelve goose para aplicar las migraciones SQL del
// esquema (internal/infrastructure/postgres/migrations).
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver database/sql sobre pgx
	"github.com/pressly/goose/v3"
)

// DefaultDir directorio por defecto de las migraciones goose.
const DefaultDir = "internal/infrastructure/postgres/migrations"

// Run ejecuta un comando goose (up, down, status, ...) contra la conexión dada.
func Run(ctx context.Context, db *sql.DB, dir, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("migrate: se requiere conexión a la base")
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: dialecto goose: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("migrate: goose %s: %w", command, err)
	}
	return nil
}

// Open abre una conexión database/sql (driver pgx) con el DSN dado, solo para
// migraciones; la aplicación usa pgxpool para todo lo demás.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate: abrir conexión: %w", err)
	}
	return db, nil
}
