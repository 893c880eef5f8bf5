package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fitforge/fitforge-backend/internal/http/response"
	"github.com/fitforge/fitforge-backend/internal/services"
)

type CoachRequestHandler struct {
	requests services.CoachRequestService
}

func NewCoachRequestHandler(requests services.CoachRequestService) *CoachRequestHandler {
	return &CoachRequestHandler{requests: requests}
}

// POST /coach-requests
func (crh *CoachRequestHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req services.CoachRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := crh.requests.Submit(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"request": created})
}

// GET /coach-requests/:id
func (crh *CoachRequestHandler) GetStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req, err := crh.requests.GetRequest(c.Request.Context(), nil, userID, requestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"request": req})
}

// GET /coach-requests
func (crh *CoachRequestHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reqs, err := crh.requests.GetUserRequests(c.Request.Context(), nil, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"requests": reqs})
}
