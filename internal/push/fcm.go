package push

import (
	"context"
	"fmt"
	"slices"

	"notiyou/internal/config"
	"notiyou/internal/model"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// fcmClient is the subset of *messaging.Client the messenger uses.
type fcmClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

// FCM delivers push messages through Firebase Cloud Messaging.
type FCM struct {
	client fcmClient
}

func NewFCM(ctx context.Context, cfg config.FirebaseConfig) (*FCM, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &FCM{client: client}, nil
}

func (f *FCM) Send(ctx context.Context, msg model.PushMessage) (string, error) {
	id, err := f.client.Send(ctx, toFCM(msg))
	if err != nil {
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return id, nil
}

// maxBatch is the most messages the provider accepts in one SendEach call.
const maxBatch = 500

// SendEach sends every message independently, maxBatch per provider call.
// Per-message failures are reported in the response, not as an error, and
// Responses line up with msgs.
func (f *FCM) SendEach(ctx context.Context, msgs []model.PushMessage) (*model.BatchResponse, error) {
	out := &model.BatchResponse{Responses: make([]model.SendResponse, 0, len(msgs))}
	for chunk := range slices.Chunk(msgs, maxBatch) {
		fms := make([]*messaging.Message, len(chunk))
		for i, m := range chunk {
			fms[i] = toFCM(m)
		}
		resp, err := f.client.SendEach(ctx, fms)
		if err != nil {
			return nil, fmt.Errorf("fcm send each: %w", err)
		}
		part := fromFCM(resp)
		out.SuccessCount += part.SuccessCount
		out.FailureCount += part.FailureCount
		out.Responses = append(out.Responses, part.Responses...)
	}
	return out, nil
}

func toFCM(m model.PushMessage) *messaging.Message {
	return &messaging.Message{
		Token: m.Token,
		Notification: &messaging.Notification{
			Title: m.Title,
			Body:  m.Body,
		},
		Data: m.Data,
	}
}

func fromFCM(resp *messaging.BatchResponse) *model.BatchResponse {
	out := &model.BatchResponse{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
		Responses:    make([]model.SendResponse, len(resp.Responses)),
	}
	for i, r := range resp.Responses {
		sr := model.SendResponse{Success: r.Success, MessageID: r.MessageID}
		if r.Error != nil {
			sr.Error = r.Error.Error()
		}
		out.Responses[i] = sr
	}
	return out
}
