package service

import (
	"context"
	"testing"

	"notiyou/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFirstCompletion(t *testing.T) {
	ts := ptr("2026-10-15T09:00:00+00:00")
	other := ptr("2026-10-15T09:05:00+00:00")

	assert.True(t, IsFirstCompletion(model.MissionHistoryRecord{}, model.MissionHistoryRecord{DoneAt: ts}))
	assert.True(t, IsFirstCompletion(model.MissionHistoryRecord{DoneAt: ptr("")}, model.MissionHistoryRecord{DoneAt: ts}))
	assert.False(t, IsFirstCompletion(model.MissionHistoryRecord{DoneAt: ts}, model.MissionHistoryRecord{DoneAt: ts}))
	assert.False(t, IsFirstCompletion(model.MissionHistoryRecord{DoneAt: ts}, model.MissionHistoryRecord{DoneAt: other}))
	assert.False(t, IsFirstCompletion(model.MissionHistoryRecord{DoneAt: ts}, model.MissionHistoryRecord{}))
	assert.False(t, IsFirstCompletion(model.MissionHistoryRecord{}, model.MissionHistoryRecord{}))
}

func successFixture() *fakeStore {
	return &fakeStore{
		missionTimes: []model.MissionTime{
			{ID: 10, ChallengerSupporterID: "cs1"},
			{ID: 11, ChallengerSupporterID: "cs2"},
			{ID: 12, ChallengerSupporterID: "cs3"},
		},
		rels: []model.ChallengerSupporter{
			{ID: "cs1", ChallengerID: "c1", SupporterID: ptr("s1")},
			{ID: "cs2", ChallengerID: "c2"},
			{ID: "cs3", ChallengerID: "c3", SupporterID: ptr("s3")},
		},
		messages: []model.MissionMessages{{UserID: "c1", SuccessMessage: "최고예요"}},
		users: []model.UserMetadata{
			{ID: "s1", FCMToken: ptr("tok-s1")},
			{ID: "s3"},
		},
	}
}

func TestSuccessNotifySendsOnePush(t *testing.T) {
	messenger := &fakeMessenger{}
	chat := &fakeChat{}
	svc := NewSuccessMissionService(successFixture(), messenger, chat)

	resp, err := svc.Notify(context.Background(), model.MissionHistoryRecord{ID: 99, MissionID: 10})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 1, resp.SuccessCount)

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, model.PushMessage{
		Token: "tok-s1",
		Title: "도전자 미션 성공 알림",
		Body:  "최고예요",
		Data:  map[string]string{"notification_type": model.NotificationMissionSuccess},
	}, messenger.sent[0])
	assert.Equal(t, []string{"mission_history.99번 미션 성공 알림 전송 결과: true"}, chat.messages)
}

func TestSuccessNotifyDefaultBody(t *testing.T) {
	store := successFixture()
	store.messages = nil
	messenger := &fakeMessenger{}
	svc := NewSuccessMissionService(store, messenger, &fakeChat{})

	_, err := svc.Notify(context.Background(), model.MissionHistoryRecord{ID: 1, MissionID: 10})
	require.NoError(t, err)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "도전자가 미션을 성공했습니다.", messenger.sent[0].Body)
}

func TestSuccessNotifyRejectedPushStillReported(t *testing.T) {
	messenger := &fakeMessenger{reject: map[string]bool{"tok-s1": true}}
	chat := &fakeChat{}
	svc := NewSuccessMissionService(successFixture(), messenger, chat)

	resp, err := svc.Notify(context.Background(), model.MissionHistoryRecord{ID: 5, MissionID: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.FailureCount)
	assert.Equal(t, []string{"mission_history.5번 미션 성공 알림 전송 결과: false"}, chat.messages)
}

func TestSuccessNotifyNoSupporter(t *testing.T) {
	messenger := &fakeMessenger{}
	chat := &fakeChat{}
	svc := NewSuccessMissionService(successFixture(), messenger, chat)

	_, err := svc.Notify(context.Background(), model.MissionHistoryRecord{ID: 2, MissionID: 11})
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, messenger.sent)
	require.Len(t, chat.messages, 1)
	assert.Contains(t, chat.messages[0], "오류가 발생했습니다")
}

func TestSuccessNotifyUnknownMissionTime(t *testing.T) {
	svc := NewSuccessMissionService(successFixture(), &fakeMessenger{}, &fakeChat{})

	_, err := svc.Notify(context.Background(), model.MissionHistoryRecord{ID: 2, MissionID: 404})
	var nf NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSuccessNotifySkipsMissingToken(t *testing.T) {
	store := successFixture()
	messenger := &fakeMessenger{}
	chat := &fakeChat{}
	svc := NewSuccessMissionService(store, messenger, chat)

	resp, err := svc.Notify(context.Background(), model.MissionHistoryRecord{ID: 3, MissionID: 12})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, messenger.sent)
	assert.Len(t, chat.messages, 1)

	// no user_metadata row at all is the same skip
	store.users = nil
	resp, err = svc.Notify(context.Background(), model.MissionHistoryRecord{ID: 4, MissionID: 10})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, messenger.sent)
}

func TestSuccessNotifyQueryError(t *testing.T) {
	store := successFixture()
	store.listErr = errMockQuery
	chat := &fakeChat{}
	svc := NewSuccessMissionService(store, &fakeMessenger{}, chat)

	_, err := svc.Notify(context.Background(), model.MissionHistoryRecord{ID: 1, MissionID: 10})
	assert.ErrorIs(t, err, errMockQuery)
	assert.Len(t, chat.messages, 1)
}
