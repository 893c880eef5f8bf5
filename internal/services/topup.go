package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/logger"
)

// TopupPackage is a purchasable token bundle. Prices are simulated; no real
// payment data ever passes through here, only an external reference.
type TopupPackage struct {
	ID         string `json:"id"`
	Tokens     int64  `json:"tokens"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

var defaultPackages = []TopupPackage{
	{ID: "starter", Tokens: 10000, PriceCents: 999, Currency: "EUR"},
	{ID: "standard", Tokens: 25000, PriceCents: 2199, Currency: "EUR"},
	{ID: "pro", Tokens: 60000, PriceCents: 4699, Currency: "EUR"},
}

type TopupService interface {
	Packages() []TopupPackage
	Purchase(ctx context.Context, tx *gorm.DB, userID uuid.UUID, packageID, paymentRef string) (*types.TokenTransaction, error)
}

type topupService struct {
	log      *logger.Logger
	ledger   LedgerService
	packages []TopupPackage
}

func NewTopupService(baseLog *logger.Logger, ledger LedgerService) TopupService {
	return &topupService{
		log:      baseLog.With("service", "TopupService"),
		ledger:   ledger,
		packages: defaultPackages,
	}
}

func (ts *topupService) Packages() []TopupPackage {
	out := make([]TopupPackage, len(ts.packages))
	copy(out, ts.packages)
	return out
}

func (ts *topupService) Purchase(ctx context.Context, tx *gorm.DB, userID uuid.UUID, packageID, paymentRef string) (*types.TokenTransaction, error) {
	var pkg *TopupPackage
	for i := range ts.packages {
		if ts.packages[i].ID == packageID {
			pkg = &ts.packages[i]
			break
		}
	}
	if pkg == nil {
		return nil, &NotFoundError{Resource: "topup package", ID: packageID}
	}

	row, err := ts.ledger.RecordTopup(ctx, tx, userID, pkg.Tokens, map[string]interface{}{
		"source":      "simulated_checkout",
		"packageId":   pkg.ID,
		"priceCents":  pkg.PriceCents,
		"currency":    pkg.Currency,
		"externalRef": paymentRef,
	})
	if err != nil {
		return nil, err
	}

	ts.log.Info("topup purchased", "userId", userID, "package", pkg.ID, "tokens", pkg.Tokens)
	return row, nil
}
