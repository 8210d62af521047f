package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/dto"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps err onto the error envelope. Internal failures are logged in full
// and the client only sees the generic message.
func respondError(c *gin.Context, logger *slog.Logger, action string, err error) {
	kind := apperrors.KindOf(err)
	status := apperrors.HTTPStatus(err)
	if kind == apperrors.KindInternal {
		logger.Error(action+" failed", slog.String("error", err.Error()))
		c.JSON(status, dto.Fail(apperrors.GenericInternalMessage, string(kind)))
		return
	}
	logger.Warn(action+" rejected", slog.String("code", string(kind)), slog.String("error", err.Error()))
	c.JSON(status, dto.Fail(err.Error(), string(kind)))
}

func respondBindError(c *gin.Context, logger *slog.Logger, action string, err error) {
	logger.Warn("Failed to bind request for "+action, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error(), string(apperrors.KindValidation)))
}

// requireUser returns the authenticated user, writing a 401 when it is missing.
func requireUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized", string(apperrors.KindUnauthorized)))
		return "", false
	}
	return userID, true
}

// withGuards returns a fresh handler chain so route registrations never share a backing array.
func withGuards(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, h)
}
