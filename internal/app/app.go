// Package app wires configuration into the services shared by the HTTP
// server and the command line tool.
package app

import (
	"context"
	"fmt"

	"notiyou/internal/config"
	"notiyou/internal/notify"
	"notiyou/internal/push"
	"notiyou/internal/repository"
	"notiyou/internal/scheduler"
	"notiyou/internal/service"
)

type Services struct {
	Missions   *service.MissionService
	Failed     *service.FailedMissionService
	Success    *service.SuccessMissionService
	Supporters *service.SupporterService
}

// Open connects the database and the push provider and builds every service.
// The returned cleanup closes the database pool.
func Open(ctx context.Context, cfg *config.Config) (*Services, func(), error) {
	db, err := cfg.OpenGormDB()
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	fcm, err := push.NewFCM(ctx, cfg.Firebase)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return Build(cfg, repository.New(db), fcm, notify.NewSlackNotifier(cfg.Slack.WebhookURL)), cleanup, nil
}

// Build assembles the services over already constructed collaborators.
func Build(cfg *config.Config, repo *repository.Repository, messenger service.Messenger, chat service.ChatNotifier) *Services {
	return &Services{
		Missions:   service.NewMissionService(repo, chat, cfg.Mission.BatchSize),
		Failed:     service.NewFailedMissionService(repo, messenger, cfg.Location(), cfg.Mission.FailureCooldown),
		Success:    service.NewSuccessMissionService(repo, messenger, chat),
		Supporters: service.NewSupporterService(repo, messenger, chat),
	}
}

// Jobs returns the periodic work the server runs when scheduling is enabled.
func (s *Services) Jobs(cfg config.ScheduleConfig) []scheduler.Job {
	return []scheduler.Job{
		{Name: "create-missions", Spec: cfg.CreateMissions, Run: func(ctx context.Context) error {
			_, err := s.Missions.CreateToday(ctx)
			return err
		}},
		{Name: "notify-failed-missions", Spec: cfg.FailedMissions, Run: func(ctx context.Context) error {
			_, err := s.Failed.Notify(ctx)
			return err
		}},
	}
}
