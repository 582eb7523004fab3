// Comando de migraciones: aplica el esquema con goose.
//
//	go run ./cmd/migrate -command up
//	go run ./cmd/migrate -command status
//	go run ./cmd/migrate -command down
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jmoralesdev/punto-venta-api/pkg/config"
	"github.com/jmoralesdev/punto-venta-api/pkg/migrate"
)

func main() {
	var (
		command = flag.String("command", "up", "comando goose: up, down, status, version, redo")
		dir     = flag.String("dir", migrate.DefaultDir, "directorio de migraciones")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	db, err := migrate.Open(cfg.DB.DSN())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrate.Run(context.Background(), db, *dir, *command, flag.Args()...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("migraciones:", *command, "OK")
}
