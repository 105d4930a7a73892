package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/quitecodedevelopers/elearn-go/internal/devserver"
	"github.com/quitecodedevelopers/elearn-go/pkg/config"
	"github.com/quitecodedevelopers/elearn-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store := devserver.NewStore()
	if cfg.DevServer.SeedDemoData {
		if err := devserver.Seed(store); err != nil {
			logr.Sugar().Fatalw("seeding demo data failed", "error", err)
		}
		logr.Sugar().Infow("demo data seeded",
			"student", devserver.SeedStudentEmail,
			"admin", devserver.SeedAdminEmail,
		)
	}

	srv := devserver.New(cfg.DevServer, store, logr)

	addr := fmt.Sprintf(":%d", cfg.DevServer.Port)
	logr.Sugar().Infow("course directory starting", "addr", addr, "env", cfg.Env)
	if err := srv.Router().Run(addr); err != nil {
		logr.Sugar().Fatalw("course directory failed", "error", err)
	}
}
