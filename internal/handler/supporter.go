package handler

import (
	"context"
	"net/http"

	"notiyou/internal/model"

	"github.com/gin-gonic/gin"
)

type SupporterNotifier interface {
	Notify(ctx context.Context, old, cur model.ChallengerSupporterRecord) ([]string, error)
}

type SupporterHandler struct{ svc SupporterNotifier }

func NewSupporterHandler(svc SupporterNotifier) *SupporterHandler {
	return &SupporterHandler{svc: svc}
}

// POST /functions/v1/notification-update-supporter  body: challenger_supporter UPDATE webhook
func (h *SupporterHandler) NotifyUpdate(c *gin.Context) {
	var payload model.WebhookPayload[model.ChallengerSupporterRecord]
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request")
		return
	}

	ids, err := h.svc.Notify(c.Request.Context(), payload.OldRecord, payload.Record)
	if err != nil {
		writeError(c, "supporter.notify_failed", err)
		return
	}
	ok(c, ids)
}
