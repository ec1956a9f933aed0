package service

import (
	"context"
	"testing"
	"time"

	"notiyou/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missionTimes(n int) []model.MissionTime {
	out := make([]model.MissionTime, n)
	for i := range out {
		out[i] = model.MissionTime{ID: int64(i + 1), MissionAt: "09:00", MissionNumber: 1}
	}
	return out
}

func TestCreateTodayBatches(t *testing.T) {
	cases := []struct {
		configs int
		batches int
	}{
		{0, 0},
		{1, 1},
		{500, 1},
		{501, 2},
		{1200, 3},
	}
	for _, tc := range cases {
		store := &fakeStore{missionTimes: missionTimes(tc.configs)}
		chat := &fakeChat{}
		svc := NewMissionService(store, chat, 500)

		res, err := svc.CreateToday(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tc.batches, store.insertCalls, "configs=%d", tc.configs)
		assert.Equal(t, tc.configs, res.Count)
		assert.Len(t, chat.messages, 1)
	}
}

func TestCreateTodayCopiesMissionTimeInOrder(t *testing.T) {
	now := time.Date(2026, 10, 15, 0, 0, 5, 0, time.UTC)
	store := &fakeStore{missionTimes: []model.MissionTime{
		{ID: 7, MissionAt: "07:30"},
		{ID: 3, MissionAt: "22:00+09"},
	}}
	svc := NewMissionService(store, &fakeChat{}, 0)
	svc.now = func() time.Time { return now }

	_, err := svc.CreateToday(context.Background())
	require.NoError(t, err)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, []model.MissionHistory{
		{CreatedAt: now, MissionID: 7, MissionAt: "07:30"},
		{CreatedAt: now, MissionID: 3, MissionAt: "22:00+09"},
	}, store.inserted[0])
}

func TestCreateTodayPartialFailure(t *testing.T) {
	store := &fakeStore{
		missionTimes: missionTimes(5),
		insertErr: func(batch int) error {
			if batch == 2 {
				return errMockInsert
			}
			return nil
		},
	}
	chat := &fakeChat{}
	svc := NewMissionService(store, chat, 2)

	res, err := svc.CreateToday(context.Background())

	var perr BulkPartialFailureError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []int64{3, 4}, perr.FailedIDs)
	assert.Equal(t, 3, perr.Inserted)
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 3, store.insertCalls, "remaining batches still run")

	require.Len(t, chat.messages, 2)
	assert.Contains(t, chat.messages[0], "총 5개의 미션 설정으로, 3개의")
	assert.Contains(t, chat.messages[1], "3, 4")
}

func TestCreateTodayListError(t *testing.T) {
	store := &fakeStore{listErr: errMockQuery}
	chat := &fakeChat{}
	svc := NewMissionService(store, chat, 500)

	_, err := svc.CreateToday(context.Background())
	assert.ErrorIs(t, err, errMockQuery)
	assert.Zero(t, store.insertCalls)
	assert.Empty(t, chat.messages)
}
