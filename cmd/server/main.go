package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"notiyou/internal/app"
	"notiyou/internal/config"
	"notiyou/internal/handler"
	"notiyou/internal/logger"
	"notiyou/internal/middleware"
	"notiyou/internal/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	ctx := context.Background()
	svc, cleanup, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	if cfg.Schedule.Enabled {
		if sched, err := scheduler.New(cfg.Location(), svc.Jobs(cfg.Schedule)...); err != nil {
			slog.Error("scheduler disabled", "err", err)
		} else {
			sched.Start()
			defer sched.Stop()
			slog.Info("scheduler started", "jobs", sched.Len(), "timezone", cfg.Mission.Timezone)
		}
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "apikey", "x-client-info", "X-Request-ID"},
	}))
	r.Use(middleware.RequestID())

	handler.Register(r,
		handler.NewMissionHandler(svc.Missions, svc.Failed, svc.Success),
		handler.NewSupporterHandler(svc.Supporters),
	)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
