package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	portsrepo "github.com/SscSPs/mobile_banking_api/internal/core/ports/repositories"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/SscSPs/mobile_banking_api/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyHeader lets clients retry a money movement without repeating it.
	IdempotencyHeader = "Idempotency-Key"
	// ReplayedHeader is set on responses served from the idempotency store.
	ReplayedHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLen = 255
)

// bodyRecorder tees the response body so it can be stored against the key.
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a request repeats an Idempotency-Key.
// It must run after AuthMiddleware because keys are scoped per user.
// Requests without the header pass through untouched.
func Idempotency(repo portsrepo.IdempotencyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
		if key == "" {
			c.Next()
			return
		}
		logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("idempotency_key", key))

		if len(key) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail("Idempotency-Key is too long", string(apperrors.KindValidation)))
			return
		}

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail("Unable to read request body", string(apperrors.KindValidation)))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		requestHash := utils.HashRequest([]byte(c.Request.Method), []byte(c.FullPath()), body)

		reserved, existing, err := repo.Reserve(c.Request.Context(), userID, key, requestHash)
		if err != nil {
			logger.Error("Failed to reserve idempotency key", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Fail(apperrors.GenericInternalMessage, string(apperrors.KindInternal)))
			return
		}

		if !reserved {
			switch {
			case existing.RequestHash != requestHash:
				logger.Warn("Idempotency key reused with a different request")
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.Fail("Idempotency-Key was already used for a different request", string(apperrors.KindValidation)))
			case !existing.Completed():
				c.AbortWithStatusJSON(http.StatusConflict, dto.Fail("A request with this Idempotency-Key is still in progress", string(apperrors.KindConflict)))
			default:
				logger.Info("Replaying stored response", slog.Int("status", existing.StatusCode))
				c.Header(ReplayedHeader, "true")
				c.Data(existing.StatusCode, "application/json; charset=utf-8", existing.ResponseBody)
				c.Abort()
			}
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		// The client may have gone away after the money moved; the outcome is still recorded.
		storeCtx := context.WithoutCancel(c.Request.Context())

		// Server faults are not stored so the client can retry with the same key.
		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			if err := repo.Release(storeCtx, userID, key); err != nil {
				logger.Error("Failed to release idempotency key", slog.String("error", err.Error()))
			}
			return
		}
		if err := repo.Complete(storeCtx, userID, key, status, recorder.body.Bytes()); err != nil {
			logger.Error("Failed to store idempotent response", slog.String("error", err.Error()))
		}
	}
}
