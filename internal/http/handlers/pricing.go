package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitforge/fitforge-backend/internal/http/response"
	"github.com/fitforge/fitforge-backend/internal/pricing"
)

// PricingHandler serves side-effect-free quotes from the same engine the
// spend paths charge with, so previews and charges can never disagree.
type PricingHandler struct {
	engine *pricing.Engine
}

func NewPricingHandler(engine *pricing.Engine) *PricingHandler {
	return &PricingHandler{engine: engine}
}

// GET /pricing/coach-request?level=...&trainingType=...&equipment=...&daysPerWeek=N
func (ph *PricingHandler) QuoteCoachRequest(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("daysPerWeek", "0"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sel := pricing.CoachRequestSelections{
		Level:        pricing.Level(c.Query("level")),
		TrainingType: pricing.TrainingType(c.Query("trainingType")),
		Equipment:    pricing.Equipment(c.Query("equipment")),
		DaysPerWeek:  days,
	}
	if err := sel.Validate(ph.engine.Table()); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": ph.engine.CalcCoachRequestTokens(sel)})
}

// POST /pricing/course
func (ph *PricingHandler) QuoteCourse(c *gin.Context) {
	var opts pricing.GeneratorOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := opts.Validate(ph.engine.Table()); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": ph.engine.CalcFullCourseTokens(opts)})
}
