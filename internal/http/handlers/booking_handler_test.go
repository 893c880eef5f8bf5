package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fitforge/fitforge-backend/internal/domain"
	"github.com/fitforge/fitforge-backend/internal/platform/ctxutil"
	"github.com/fitforge/fitforge-backend/internal/services"
)

type stubBookingService struct {
	booking *types.Booking
	err     error
}

func (s *stubBookingService) CreateBooking(ctx context.Context, userID uuid.UUID, in services.CreateBookingInput) (*types.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) GetUserBookings(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Booking, error) {
	return []*types.Booking{s.booking}, s.err
}

func (s *stubBookingService) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*types.Booking, error) {
	return s.booking, s.err
}

type stubLedgerService struct {
	balance int64
	err     error
}

func (s *stubLedgerService) GetBalance(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	return s.balance, s.err
}

func (s *stubLedgerService) GetTransactions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TokenTransaction, error) {
	return nil, s.err
}

func (s *stubLedgerService) RecordTopup(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, meta map[string]interface{}) (*types.TokenTransaction, error) {
	return nil, s.err
}

func (s *stubLedgerService) RecordSpend(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, txType string, meta map[string]interface{}) (*types.TokenTransaction, error) {
	return nil, s.err
}

func (s *stubLedgerService) RecordRefund(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, meta map[string]interface{}) (*types.TokenTransaction, error) {
	return nil, s.err
}

func authedTestContext(t *testing.T, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rd := &ctxutil.RequestData{UserID: uuid.New()}
	c.Request = req.WithContext(ctxutil.WithRequestData(req.Context(), rd))
	return c, w
}

func TestCreateBookingResponseCarriesNewBalance(t *testing.T) {
	booking := &types.Booking{
		ID:            uuid.New(),
		CoachSlug:     "lena-hartmann",
		Date:          time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC),
		DurationHours: 2,
		Status:        types.BookingStatusConfirmed,
		TokensCharged: 10000,
	}
	h := NewBookingHandler(
		&stubBookingService{booking: booking},
		&stubLedgerService{balance: 2500},
	)

	body := `{"coachSlug":"lena-hartmann","date":"2027-05-01T10:00:00Z","durationHours":2}`
	c, w := authedTestContext(t, http.MethodPost, "/api/bookings", body)
	h.Create(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, key := range []string{"success", "booking", "newBalance"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("response missing %q: %s", key, w.Body.String())
		}
	}
	var balance int64
	if err := json.Unmarshal(got["newBalance"], &balance); err != nil {
		t.Fatalf("decode newBalance: %v", err)
	}
	if balance != 2500 {
		t.Fatalf("expected newBalance 2500, got %d", balance)
	}
	var success bool
	if err := json.Unmarshal(got["success"], &success); err != nil || !success {
		t.Fatalf("expected success true, got %s (err %v)", got["success"], err)
	}
}

func TestCancelBookingResponseCarriesNewBalance(t *testing.T) {
	booking := &types.Booking{
		ID:     uuid.New(),
		Status: types.BookingStatusCancelled,
	}
	h := NewBookingHandler(
		&stubBookingService{booking: booking},
		&stubLedgerService{balance: 12500},
	)

	c, w := authedTestContext(t, http.MethodPost, "/api/bookings/"+booking.ID.String()+"/cancel", "")
	c.Params = gin.Params{{Key: "id", Value: booking.ID.String()}}
	h.Cancel(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var balance int64
	if err := json.Unmarshal(got["newBalance"], &balance); err != nil {
		t.Fatalf("decode newBalance: %v", err)
	}
	if balance != 12500 {
		t.Fatalf("expected newBalance 12500, got %d", balance)
	}
}
