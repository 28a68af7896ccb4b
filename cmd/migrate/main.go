package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/BruksfildServices01/oto-servis/internal/config"
	dbpkg "github.com/BruksfildServices01/oto-servis/internal/db"
	"github.com/BruksfildServices01/oto-servis/internal/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|redo|up-to|down-to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "oto-servis-migrate",
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
	})

	ctx := log.WithField(context.Background(), "cmd", *cmd)

	// migrações nunca rodam junto com o AutoMigrate do gorm
	cfg.DB.AutoMigrate = false

	db, err := dbpkg.NewDB(ctx, cfg.DB, log)
	if err != nil {
		log.Error(ctx, "database unavailable", err)
		os.Exit(1)
	}
	defer dbpkg.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		log.Error(ctx, "sql database unavailable", err)
		os.Exit(1)
	}

	if err := dbpkg.Migrate(ctx, sqlDB, *cmd, flag.Args()...); err != nil {
		log.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	log.Info(ctx, "migration finished")
}
