// migrate aplica el esquema embebido (internal/infrastructure/postgres/schema.sql) sobre la base
// configurada por DATABASE_URL o DB_*. El esquema es idempotente: puede ejecutarse en cada despliegue.
//
// Uso:
//
//	go run ./cmd/migrate          aplica el esquema
//	go run ./cmd/migrate print    escribe el SQL en stdout sin conectarse
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "print":
			fmt.Print(postgres.Schema())
			return
		default:
			fmt.Fprintf(os.Stderr, "Argumento desconocido %q. Uso: migrate [print]\n", os.Args[1])
			os.Exit(2)
		}
	}

	cfg := config.LoadDatabase()
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout+time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Error().Err(err).Msg("aplicar esquema")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("db", cfg.DB.DBName).Msg("esquema aplicado")
}
