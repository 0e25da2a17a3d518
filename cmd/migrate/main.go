package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tropicaldog17/monitorcrypto/internal/config"
	"github.com/tropicaldog17/monitorcrypto/internal/db"
	"github.com/tropicaldog17/monitorcrypto/internal/logger"
	"github.com/tropicaldog17/monitorcrypto/internal/migrations"
)

func main() {
	list := flag.Bool("list", false, "print the embedded migrations and exit")
	flag.Parse()

	cfg := config.Load()
	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	if *list {
		all, err := migrations.Load()
		if err != nil {
			zl.Fatal("failed to load migrations", zap.Error(err))
		}
		for _, m := range all {
			zl.Info("migration", zap.Int("id", m.ID), zap.String("file", m.Filename))
		}
		return
	}

	conn, err := sql.Open("postgres", db.NewConfig().DSN())
	if err != nil {
		zl.Fatal("failed to open database", zap.Error(err))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		zl.Fatal("failed to ping database", zap.Error(err))
	}

	applied, err := migrations.Run(ctx, conn, zl)
	if err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	zl.Info("all migrations completed", zap.Int("applied", applied))
}
