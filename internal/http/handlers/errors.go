package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fitforge/fitforge-backend/internal/http/response"
	"github.com/fitforge/fitforge-backend/internal/platform/ctxutil"
	"github.com/fitforge/fitforge-backend/internal/pricing"
	"github.com/fitforge/fitforge-backend/internal/services"
)

// respondServiceError maps domain failures onto the wire contract. The two
// 409 shapes stay distinguishable by code, and both carry the structured
// data a client needs to react (shortfall, conflicting window).
func respondServiceError(c *gin.Context, err error) {
	var insufficient *services.InsufficientTokensError
	if errors.As(err, &insufficient) {
		response.RespondErrorDetails(c, http.StatusConflict, "insufficient_tokens", err, map[string]any{
			"balance":  insufficient.Balance,
			"required": insufficient.Required,
		})
		return
	}

	var conflict *services.SlotConflictError
	if errors.As(err, &conflict) {
		response.RespondErrorDetails(c, http.StatusConflict, "slot_conflict", err, map[string]any{
			"coach_slug":     conflict.CoachSlug,
			"conflict_start": conflict.ConflictStart.Format(time.RFC3339),
			"conflict_end":   conflict.ConflictEnd.Format(time.RFC3339),
		})
		return
	}

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		response.RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}

	var invalid *services.ValidationError
	if errors.As(err, &invalid) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var priceInvalid *pricing.ValidationError
	if errors.As(err, &priceInvalid) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
}

// currentUserID reads the auth middleware's resolved identity. A nil result
// means the handler responded already.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}
