package service

import (
	"context"
	"fmt"
	"time"

	"notiyou/internal/logger"
	"notiyou/internal/model"
)

const (
	DefaultFailureCooldown = 10 * time.Minute

	failedTitle       = "도전자 미션 실패 알림"
	defaultFailedBody = "도전자가 미션을 실패했습니다."
)

// MissionView is one mission_history row joined with everything needed to
// decide on and address a failure notification.
type MissionView struct {
	HistoryID            int64
	MissionTimeID        int64
	MissionAt            string
	DoneAt               *time.Time
	LastFailedNotiSentAt *time.Time
	RelationshipID       string
	ChallengerID         string
	SupporterID          string
	SuccessMessage       string
	FailMessage          string
	// GracePeriod is loaded but not applied to the deadline comparison.
	GracePeriod int
	FCMToken    string
}

type FailedMissionService struct {
	store     FailedMissionStore
	messenger Messenger
	loc       *time.Location
	cooldown  time.Duration
	now       func() time.Time
}

func NewFailedMissionService(store FailedMissionStore, messenger Messenger, loc *time.Location, cooldown time.Duration) *FailedMissionService {
	if loc == nil {
		loc = time.UTC
	}
	if cooldown <= 0 {
		cooldown = DefaultFailureCooldown
	}
	return &FailedMissionService{store: store, messenger: messenger, loc: loc, cooldown: cooldown, now: time.Now}
}

// Notify pushes one failure notice per failed, not recently notified mission
// and stamps the rows whose push the provider accepted.
func (s *FailedMissionService) Notify(ctx context.Context) (*model.BatchResponse, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	views, err := s.Fetch(ctx, now)
	if err != nil {
		return nil, err
	}
	failed := SelectFailed(views, now.In(s.loc), s.cooldown)
	log.Info("failed_missions.selected", "candidates", len(views), "failed", len(failed))

	msgs := make([]model.PushMessage, len(failed))
	for i, v := range failed {
		msgs[i] = failedMessage(v)
	}
	resp, err := s.messenger.SendEach(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("FCM 메시지 전송 중 오류 발생: %w", err)
	}

	var delivered []int64
	for i, r := range resp.Responses {
		if i < len(failed) && r.Success {
			delivered = append(delivered, failed[i].HistoryID)
		}
	}
	if err := s.store.MarkFailedNotified(ctx, delivered, now.UTC()); err != nil {
		log.Error("failed_missions.mark_failed", "ids", delivered, "err", err)
	}
	return resp, nil
}

// Fetch loads mission_history rows created between yesterday 00:00 and
// tomorrow 00:00 and joins them with their relationship, messages, grace
// period and supporter token. Rows whose relationship is missing are dropped.
func (s *FailedMissionService) Fetch(ctx context.Context, now time.Time) ([]MissionView, error) {
	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	histories, err := s.store.ListMissionHistoriesCreatedBetween(ctx, today.AddDate(0, 0, -1), today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("미션 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}
	if len(histories) == 0 {
		return nil, nil
	}

	relIDs := make([]string, 0, len(histories))
	for _, h := range histories {
		relIDs = append(relIDs, h.MissionTime.ChallengerSupporterID)
	}
	rels, err := s.store.ListChallengerSupporters(ctx, uniq(relIDs))
	if err != nil {
		return nil, fmt.Errorf("서포터 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}

	var supporterIDs, challengerIDs []string
	for _, r := range rels {
		if r.SupporterID != nil && *r.SupporterID != "" {
			supporterIDs = append(supporterIDs, *r.SupporterID)
		}
		if r.ChallengerID != "" {
			challengerIDs = append(challengerIDs, r.ChallengerID)
		}
	}
	supporterIDs, challengerIDs = uniq(supporterIDs), uniq(challengerIDs)

	messages, err := s.store.ListMissionMessages(ctx, supporterIDs)
	if err != nil {
		return nil, fmt.Errorf("메시지 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}
	grace, err := s.store.ListGracePeriods(ctx, challengerIDs)
	if err != nil {
		return nil, fmt.Errorf("유예 기간 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}
	users, err := s.store.ListUserMetadata(ctx, supporterIDs)
	if err != nil {
		return nil, fmt.Errorf("FCM 토큰 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}

	return joinMissions(histories, rels, messages, grace, users), nil
}

func joinMissions(
	histories []model.MissionHistory,
	rels []model.ChallengerSupporter,
	messages []model.MissionMessages,
	grace []model.ChallengerGracePeriod,
	users []model.UserMetadata,
) []MissionView {
	relByID := make(map[string]model.ChallengerSupporter, len(rels))
	for _, r := range rels {
		relByID[r.ID] = r
	}
	msgByUser := make(map[string]model.MissionMessages, len(messages))
	for _, m := range messages {
		msgByUser[m.UserID] = m
	}
	graceByChallenger := make(map[string]int, len(grace))
	for _, g := range grace {
		graceByChallenger[g.ChallengerID] = g.GracePeriod
	}
	tokenByUser := make(map[string]string, len(users))
	for _, u := range users {
		tokenByUser[u.ID] = u.Token()
	}

	views := make([]MissionView, 0, len(histories))
	for _, h := range histories {
		rel, ok := relByID[h.MissionTime.ChallengerSupporterID]
		if !ok {
			continue
		}
		var supporterID string
		if rel.SupporterID != nil {
			supporterID = *rel.SupporterID
		}
		msg := msgByUser[supporterID]
		views = append(views, MissionView{
			HistoryID:            h.ID,
			MissionTimeID:        h.MissionID,
			MissionAt:            h.MissionAt,
			DoneAt:               h.DoneAt,
			LastFailedNotiSentAt: h.LastFailedNotiSentAt,
			RelationshipID:       rel.ID,
			ChallengerID:         rel.ChallengerID,
			SupporterID:          supporterID,
			SuccessMessage:       msg.SuccessMessage,
			FailMessage:          msg.FailMessage,
			GracePeriod:          graceByChallenger[rel.ChallengerID],
			FCMToken:             tokenByUser[supporterID],
		})
	}
	return views
}

// SelectFailed keeps the missions that are not done, whose "HH:MM" deadline is
// at or before now's "HH:MM", that were not notified within cooldown, and whose
// supporter has a push token. now must already be in the mission timezone.
func SelectFailed(views []MissionView, now time.Time, cooldown time.Duration) []MissionView {
	clock := now.Format("15:04")
	var out []MissionView
	for _, v := range views {
		if v.DoneAt != nil || v.FCMToken == "" {
			continue
		}
		if clock < hhmm(v.MissionAt) {
			continue
		}
		if v.LastFailedNotiSentAt != nil && now.Sub(*v.LastFailedNotiSentAt) <= cooldown {
			continue
		}
		out = append(out, v)
	}
	return out
}

func failedMessage(v MissionView) model.PushMessage {
	body := v.FailMessage
	if body == "" {
		body = defaultFailedBody
	}
	return model.PushMessage{
		Token: v.FCMToken,
		Title: failedTitle,
		Body:  body,
		Data:  map[string]string{"notification_type": model.NotificationMissionFailed},
	}
}

func hhmm(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
