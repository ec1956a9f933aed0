package push

import (
	"context"

	"notiyou/internal/logger"
	"notiyou/internal/model"

	"golang.org/x/sync/errgroup"
)

// Sender delivers a single push message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg model.PushMessage) (string, error)
}

const maxInFlight = 8

// SendAll sends msgs concurrently and waits for all of them to settle. A failed
// send is logged and left out of the result, so the returned ids are those the
// provider accepted, in input order.
func SendAll(ctx context.Context, s Sender, msgs []model.PushMessage) []string {
	ids := make([]string, len(msgs))

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	for i, m := range msgs {
		g.Go(func() error {
			id, err := s.Send(ctx, m)
			if err != nil {
				logger.FromContext(ctx).Warn("push.send_failed", "title", m.Title, "err", err)
				return nil
			}
			ids[i] = id
			return nil
		})
	}
	g.Wait()

	accepted := make([]string, 0, len(msgs))
	for _, id := range ids {
		if id != "" {
			accepted = append(accepted, id)
		}
	}
	return accepted
}
