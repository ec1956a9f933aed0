package handler

import (
	"errors"
	"net/http"

	"notiyou/internal/logger"
	"notiyou/internal/service"

	"github.com/gin-gonic/gin"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = service.DefaultErrorMessage
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// StatusOf maps a service error to its HTTP status. Partial bulk failures and
// anything unrecognized are 500s.
func StatusOf(err error) int {
	var (
		authErr       service.AuthorizationError
		notFound      service.NotFoundError
		unprocessable service.UnprocessableTransitionError
	)
	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unprocessable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, event string, err error) {
	status := StatusOf(err)
	logger.FromContext(c.Request.Context()).Error(event, "status", status, "err", err)
	fail(c, status, err.Error())
}
