package handler

import (
	"context"
	"net/http"

	"notiyou/internal/logger"
	"notiyou/internal/model"
	"notiyou/internal/service"

	"github.com/gin-gonic/gin"
)

type MissionCreator interface {
	CreateToday(ctx context.Context) (*service.CreateResult, error)
}

type FailedMissionNotifier interface {
	Notify(ctx context.Context) (*model.BatchResponse, error)
}

type SuccessMissionNotifier interface {
	Notify(ctx context.Context, record model.MissionHistoryRecord) (*model.BatchResponse, error)
}

type MissionHandler struct {
	creator MissionCreator
	failed  FailedMissionNotifier
	success SuccessMissionNotifier
}

func NewMissionHandler(creator MissionCreator, failed FailedMissionNotifier, success SuccessMissionNotifier) *MissionHandler {
	return &MissionHandler{creator: creator, failed: failed, success: success}
}

// POST /functions/v1/create-missions
func (h *MissionHandler) CreateMissions(c *gin.Context) {
	res, err := h.creator.CreateToday(c.Request.Context())
	if err != nil {
		writeError(c, "missions.create_failed", err)
		return
	}
	ok(c, res)
}

// POST /functions/v1/notification-failed-missions
func (h *MissionHandler) NotifyFailed(c *gin.Context) {
	resp, err := h.failed.Notify(c.Request.Context())
	if err != nil {
		writeError(c, "failed_missions.notify_failed", err)
		return
	}
	ok(c, resp)
}

// POST /functions/v1/notification-success-mission  body: mission_history UPDATE webhook
func (h *MissionHandler) NotifySuccess(c *gin.Context) {
	var payload model.WebhookPayload[model.MissionHistoryRecord]
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request")
		return
	}

	if !service.IsFirstCompletion(payload.OldRecord, payload.Record) {
		logger.FromContext(c.Request.Context()).Debug("success_mission.ignored", "history", payload.Record.ID)
		c.Status(http.StatusNoContent)
		return
	}

	resp, err := h.success.Notify(c.Request.Context(), payload.Record)
	if err != nil {
		writeError(c, "success_mission.notify_failed", err)
		return
	}
	ok(c, resp)
}
