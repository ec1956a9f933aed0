package handler

import (
	"notiyou/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Register mounts the function endpoints. Everything under /functions/v1
// requires a bearer credential.
func Register(r gin.IRouter, missions *MissionHandler, supporters *SupporterHandler) {
	r.GET("/healthz", func(c *gin.Context) { ok(c, "ok") })

	fn := r.Group("/functions/v1", middleware.BearerAuth())
	fn.POST("/create-missions", missions.CreateMissions)
	fn.POST("/notification-failed-missions", missions.NotifyFailed)
	fn.POST("/notification-success-mission", missions.NotifySuccess)
	fn.POST("/notification-update-supporter", supporters.NotifyUpdate)
}
