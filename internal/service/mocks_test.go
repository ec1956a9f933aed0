package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"notiyou/internal/model"
)

var (
	errMockInsert = errors.New("insert error")
	errMockQuery  = errors.New("query error")
	errMockUpdate = errors.New("update error")
	errMockSend   = errors.New("send error")
)

func ptr[T any](v T) *T { return &v }

// fakeStore is an in-memory stand-in for the repository.
type fakeStore struct {
	missionTimes []model.MissionTime
	histories    []model.MissionHistory
	rels         []model.ChallengerSupporter
	messages     []model.MissionMessages
	grace        []model.ChallengerGracePeriod
	users        []model.UserMetadata

	listErr   error
	insertErr func(batch int) error
	markErr   error

	insertCalls int
	inserted    [][]model.MissionHistory
	windowFrom  time.Time
	windowTo    time.Time
	marked      []int64
	markedAt    time.Time
}

func (f *fakeStore) ListMissionTimes(context.Context) ([]model.MissionTime, error) {
	return f.missionTimes, f.listErr
}

func (f *fakeStore) InsertMissionHistories(_ context.Context, rows []model.MissionHistory) (int, error) {
	f.insertCalls++
	if f.insertErr != nil {
		if err := f.insertErr(f.insertCalls); err != nil {
			return 0, err
		}
	}
	f.inserted = append(f.inserted, slices.Clone(rows))
	return len(rows), nil
}

func (f *fakeStore) ListMissionHistoriesCreatedBetween(_ context.Context, from, to time.Time) ([]model.MissionHistory, error) {
	f.windowFrom, f.windowTo = from, to
	return f.histories, f.listErr
}

func (f *fakeStore) ListChallengerSupporters(_ context.Context, ids []string) ([]model.ChallengerSupporter, error) {
	var out []model.ChallengerSupporter
	for _, r := range f.rels {
		if slices.Contains(ids, r.ID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListMissionMessages(_ context.Context, ids []string) ([]model.MissionMessages, error) {
	var out []model.MissionMessages
	for _, m := range f.messages {
		if slices.Contains(ids, m.UserID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) ListGracePeriods(_ context.Context, ids []string) ([]model.ChallengerGracePeriod, error) {
	var out []model.ChallengerGracePeriod
	for _, g := range f.grace {
		if slices.Contains(ids, g.ChallengerID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) ListUserMetadata(_ context.Context, ids []string) ([]model.UserMetadata, error) {
	var out []model.UserMetadata
	for _, u := range f.users {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkFailedNotified(_ context.Context, ids []int64, at time.Time) error {
	f.marked = append(f.marked, ids...)
	f.markedAt = at
	return f.markErr
}

func (f *fakeStore) FindMissionTime(_ context.Context, id int64) (*model.MissionTime, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	for _, mt := range f.missionTimes {
		if mt.ID == id {
			for _, r := range f.rels {
				if r.ID == mt.ChallengerSupporterID {
					mt.ChallengerSupporter = r
					return &mt, nil
				}
			}
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeStore) FindMissionMessages(_ context.Context, userID string) (*model.MissionMessages, error) {
	for _, m := range f.messages {
		if m.UserID == userID {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUserMetadata(_ context.Context, id string) (*model.UserMetadata, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, model.ErrNotFound
}

// fakeMessenger records every message; tokens listed in reject fail.
type fakeMessenger struct {
	mu       sync.Mutex
	sent     []model.PushMessage
	reject   map[string]bool
	batchErr error
}

func (m *fakeMessenger) Send(_ context.Context, msg model.PushMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	if m.reject[msg.Token] {
		return "", errMockSend
	}
	return "msg-" + msg.Token, nil
}

func (m *fakeMessenger) SendEach(_ context.Context, msgs []model.PushMessage) (*model.BatchResponse, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	resp := &model.BatchResponse{Responses: []model.SendResponse{}}
	for _, msg := range msgs {
		m.sent = append(m.sent, msg)
		if m.reject[msg.Token] {
			resp.FailureCount++
			resp.Responses = append(resp.Responses, model.SendResponse{Error: errMockSend.Error()})
			continue
		}
		resp.SuccessCount++
		resp.Responses = append(resp.Responses, model.SendResponse{Success: true, MessageID: "msg-" + msg.Token})
	}
	return resp, nil
}

type fakeChat struct{ messages []string }

func (c *fakeChat) Send(_ context.Context, text string) { c.messages = append(c.messages, text) }
