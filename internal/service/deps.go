package service

import (
	"context"
	"time"

	"notiyou/internal/model"
)

type MissionTimeStore interface {
	ListMissionTimes(ctx context.Context) ([]model.MissionTime, error)
	InsertMissionHistories(ctx context.Context, rows []model.MissionHistory) (int, error)
}

type FailedMissionStore interface {
	ListMissionHistoriesCreatedBetween(ctx context.Context, from, to time.Time) ([]model.MissionHistory, error)
	ListChallengerSupporters(ctx context.Context, ids []string) ([]model.ChallengerSupporter, error)
	ListMissionMessages(ctx context.Context, userIDs []string) ([]model.MissionMessages, error)
	ListGracePeriods(ctx context.Context, challengerIDs []string) ([]model.ChallengerGracePeriod, error)
	ListUserMetadata(ctx context.Context, ids []string) ([]model.UserMetadata, error)
	MarkFailedNotified(ctx context.Context, ids []int64, at time.Time) error
}

type SuccessMissionStore interface {
	FindMissionTime(ctx context.Context, id int64) (*model.MissionTime, error)
	FindMissionMessages(ctx context.Context, userID string) (*model.MissionMessages, error)
	FindUserMetadata(ctx context.Context, id string) (*model.UserMetadata, error)
}

type UserStore interface {
	FindUserMetadata(ctx context.Context, id string) (*model.UserMetadata, error)
}

// Messenger is the push delivery service.
type Messenger interface {
	Send(ctx context.Context, msg model.PushMessage) (string, error)
	SendEach(ctx context.Context, msgs []model.PushMessage) (*model.BatchResponse, error)
}

// ChatNotifier posts a team chat message. Implementations swallow their own errors.
type ChatNotifier interface {
	Send(ctx context.Context, text string)
}
