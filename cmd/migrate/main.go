package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/config"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/database"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/database/migrations"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		l := logger.New("migrate")
		l.Fatal().Err(err).Msg("error loading config")
	}
	logger.Configure(cfg.IsDev(), cfg.LogLevel)
	log := logger.New("migrate")
	if cfg.DBDriver != "postgres" {
		log.Fatal().Str("db_driver", cfg.DBDriver).Msg("the SQL schema targets postgres; other drivers are migrated by the server on startup")
	}

	// Conectar ao banco
	db, err := sql.Open("postgres", database.PostgresDSN(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("error opening database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing database")
		}
	}()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("error pinging database")
	}
	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connected")

	applied, err := database.ApplySchema(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if applied {
		log.Info().Str("version", migrations.SchemaVersion).Msg("schema applied")
	} else {
		log.Info().Str("version", migrations.SchemaVersion).Msg("schema already up to date")
	}

	// Verificar tabelas criadas
	tables, err := database.ListTables(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("error listing tables")
	}
	log.Info().Strs("tables", tables).Msg("public schema")
}
