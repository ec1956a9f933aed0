package service

import (
	"context"
	"errors"
	"fmt"

	"notiyou/internal/logger"
	"notiyou/internal/model"
	"notiyou/internal/push"
)

const (
	fallbackSupporterName  = "조력자"
	fallbackChallengerName = "도전자"
)

type SupporterService struct {
	users     UserStore
	messenger Messenger
	chat      ChatNotifier
}

func NewSupporterService(users UserStore, messenger Messenger, chat ChatNotifier) *SupporterService {
	return &SupporterService{users: users, messenger: messenger, chat: chat}
}

// Notify reacts to a challenger_supporter update. On attach the challenger is
// told; on detach both sides are. The challenger must be reachable before any
// transition is looked at. Chat messages go out only after a successful
// dispatch. The returned ids are the pushes the provider accepted.
func (s *SupporterService) Notify(ctx context.Context, old, cur model.ChallengerSupporterRecord) ([]string, error) {
	log := logger.FromContext(ctx)
	challengerID := old.ChallengerID

	challenger, err := s.reachableUser(ctx, challengerID)
	if err != nil {
		return nil, err
	}

	transition := ClassifyTransition(old, cur)
	log.Info("supporter.transition", "relationship", cur.ID, "transition", transition.String())

	switch transition {
	case TransitionAttach:
		supporterID := cur.Supporter()
		name := s.displayName(ctx, supporterID)
		tpl, _ := SupporterTemplate(TransitionAttach, RoleChallenger)

		ids := push.SendAll(ctx, s.messenger, []model.PushMessage{tpl.Message(challenger.Token(), name)})
		s.chat.Send(ctx, fmt.Sprintf("to Challenger: 서포터(%s)가 초대를 수락했습니다.", supporterID))
		return ids, nil

	case TransitionDetach:
		supporterID := old.Supporter()
		supporter, err := s.reachableUser(ctx, supporterID)
		if err != nil {
			return nil, err
		}
		toSupporter, _ := SupporterTemplate(TransitionDetach, RoleSupporter)
		toChallenger, _ := SupporterTemplate(TransitionDetach, RoleChallenger)

		ids := push.SendAll(ctx, s.messenger, []model.PushMessage{
			toSupporter.Message(supporter.Token(), nameOr(challenger.Name, fallbackChallengerName)),
			toChallenger.Message(challenger.Token(), nameOr(supporter.Name, fallbackSupporterName)),
		})
		s.chat.Send(ctx, fmt.Sprintf("to Challenger: 서포터(%s)가 미션을 그만두었습니다.", supporterID))
		s.chat.Send(ctx, fmt.Sprintf("to Supporter: 도전자(%s)의 미션에서 해제되었습니다.", challengerID))
		return ids, nil
	}

	return nil, UnprocessableTransitionError{
		Reason: fmt.Sprintf("supporter_id %q -> %q", old.Supporter(), cur.Supporter()),
	}
}

// reachableUser treats a missing row and a missing token alike: both are 404s here.
func (s *SupporterService) reachableUser(ctx context.Context, id string) (*model.UserMetadata, error) {
	u, err := s.users.FindUserMetadata(ctx, id)
	if errors.Is(err, model.ErrNotFound) || (err == nil && u.Token() == "") {
		return nil, NotFoundError{Resource: "user_metadata", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("%s의 FCM 토큰 데이터를 가져오는 중 오류가 발생했습니다: %w", id, err)
	}
	return u, nil
}

func (s *SupporterService) displayName(ctx context.Context, id string) string {
	u, err := s.users.FindUserMetadata(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.FromContext(ctx).Warn("supporter.name_lookup_failed", "user", id, "err", err)
		}
		return fallbackSupporterName
	}
	return nameOr(u.Name, fallbackSupporterName)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
