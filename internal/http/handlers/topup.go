package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitforge/fitforge-backend/internal/http/response"
	"github.com/fitforge/fitforge-backend/internal/services"
)

type TopupHandler struct {
	topups services.TopupService
}

func NewTopupHandler(topups services.TopupService) *TopupHandler {
	return &TopupHandler{topups: topups}
}

// GET /topups/packages
func (th *TopupHandler) ListPackages(c *gin.Context) {
	response.RespondOK(c, gin.H{"packages": th.topups.Packages()})
}

// POST /topups
func (th *TopupHandler) Purchase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		PackageID  string `json:"packageId"`
		PaymentRef string `json:"paymentRef"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tx, err := th.topups.Purchase(c.Request.Context(), nil, userID, req.PackageID, req.PaymentRef)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transaction": tx})
}
