package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fitforge/fitforge-backend/internal/http/response"
	"github.com/fitforge/fitforge-backend/internal/services"
)

type CoachHandler struct {
	coaches services.CoachService
}

func NewCoachHandler(coaches services.CoachService) *CoachHandler {
	return &CoachHandler{coaches: coaches}
}

// GET /coaches
func (ch *CoachHandler) List(c *gin.Context) {
	coaches, err := ch.coaches.List(c.Request.Context(), nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"coaches": coaches})
}

// GET /coaches/:slug
func (ch *CoachHandler) GetBySlug(c *gin.Context) {
	coach, err := ch.coaches.GetBySlug(c.Request.Context(), nil, c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"coach": coach})
}
