package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fitforge/fitforge-backend/internal/http/response"
	"github.com/fitforge/fitforge-backend/internal/services"
)

type LedgerHandler struct {
	ledger services.LedgerService
}

func NewLedgerHandler(ledger services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// GET /me/balance
func (lh *LedgerHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	balance, err := lh.ledger.GetBalance(c.Request.Context(), nil, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"balance": balance})
}

// GET /me/transactions
func (lh *LedgerHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	txs, err := lh.ledger.GetTransactions(c.Request.Context(), nil, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transactions": txs})
}
