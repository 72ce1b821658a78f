package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/learnpath/internal/quiz"
	"github.com/abhisek/learnpath/internal/store"
	"github.com/abhisek/learnpath/internal/tasks"
)

var errDuplicateEmail = errors.New("email already registered")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		verr  *quiz.ValidationError
		nf    *tasks.NotFoundError
		state *tasks.StateError
	)
	switch {
	case errors.As(err, &verr), errors.Is(err, tasks.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.As(err, &nf), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &state), errors.Is(err, errDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var verr *quiz.ValidationError
	if errors.As(err, &verr) {
		body["missing"] = verr.Missing
		body["unknown"] = verr.Unknown
		body["invalid"] = verr.Invalid
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		body["error"] = "internal server error"
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
