package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"notiyou/internal/logger"
	"notiyou/internal/model"
)

const (
	successTitle       = "도전자 미션 성공 알림"
	defaultSuccessBody = "도전자가 미션을 성공했습니다."
)

type SuccessMissionService struct {
	store     SuccessMissionStore
	messenger Messenger
	chat      ChatNotifier
}

func NewSuccessMissionService(store SuccessMissionStore, messenger Messenger, chat ChatNotifier) *SuccessMissionService {
	return &SuccessMissionService{store: store, messenger: messenger, chat: chat}
}

// IsFirstCompletion reports whether done_at moved from unset to set.
func IsFirstCompletion(old, cur model.MissionHistoryRecord) bool {
	return !old.Done() && cur.Done()
}

// Notify tells the supporter of a completed mission. It returns a nil response
// without error when the supporter has no push token. Every outcome, including
// errors, is summarized to chat.
func (s *SuccessMissionService) Notify(ctx context.Context, record model.MissionHistoryRecord) (*model.BatchResponse, error) {
	resp, err := s.notify(ctx, record)
	if err != nil {
		s.chat.Send(ctx, fmt.Sprintf("mission_history.%d번 미션 성공 알림 전송 중 오류가 발생했습니다: %v", record.ID, err))
		return nil, err
	}
	if resp == nil {
		s.chat.Send(ctx, fmt.Sprintf("mission_history.%d번 미션 성공 알림 대상의 FCM 토큰이 없어 전송하지 않았습니다.", record.ID))
		return nil, nil
	}

	flags := make([]string, len(resp.Responses))
	for i, r := range resp.Responses {
		flags[i] = strconv.FormatBool(r.Success)
	}
	s.chat.Send(ctx, fmt.Sprintf("mission_history.%d번 미션 성공 알림 전송 결과: %s", record.ID, strings.Join(flags, ", ")))
	return resp, nil
}

func (s *SuccessMissionService) notify(ctx context.Context, record model.MissionHistoryRecord) (*model.BatchResponse, error) {
	log := logger.FromContext(ctx)
	missionID := strconv.FormatInt(record.MissionID, 10)

	mt, err := s.store.FindMissionTime(ctx, record.MissionID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, NotFoundError{Resource: "mission_time", ID: missionID}
	}
	if err != nil {
		return nil, fmt.Errorf("미션 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}
	rel := mt.ChallengerSupporter
	if rel.SupporterID == nil || *rel.SupporterID == "" {
		return nil, NotFoundError{Resource: "supporter of mission_time", ID: missionID}
	}

	messages, err := s.store.FindMissionMessages(ctx, rel.ChallengerID)
	if err != nil {
		return nil, fmt.Errorf("메시지 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}

	supporter, err := s.store.FindUserMetadata(ctx, *rel.SupporterID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("FCM 토큰 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}
	if supporter.Token() == "" {
		log.Info("success_mission.skipped", "history", record.ID, "supporter", *rel.SupporterID)
		return nil, nil
	}

	body := defaultSuccessBody
	if messages != nil && messages.SuccessMessage != "" {
		body = messages.SuccessMessage
	}
	resp, err := s.messenger.SendEach(ctx, []model.PushMessage{{
		Token: supporter.Token(),
		Title: successTitle,
		Body:  body,
		Data:  map[string]string{"notification_type": model.NotificationMissionSuccess},
	}})
	if err != nil {
		return nil, fmt.Errorf("FCM 메시지 전송 중 오류 발생: %w", err)
	}
	return resp, nil
}
