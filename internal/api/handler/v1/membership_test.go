package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garomon/garo-vibe-api/internal/api/handler/v1/response"
	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/service"
)

type stubTicketService struct {
	issueFn  func(ctx context.Context, email string, eventID *uint, issuedBy string) (domain.Invitation, bool, error)
	redeemFn func(ctx context.Context, walletAddress string, eventID *uint) (domain.RedeemResult, error)
}

func (s *stubTicketService) Issue(ctx context.Context, email string, eventID *uint, issuedBy string) (domain.Invitation, bool, error) {
	return s.issueFn(ctx, email, eventID, issuedBy)
}

func (s *stubTicketService) Redeem(ctx context.Context, walletAddress string, eventID *uint) (domain.RedeemResult, error) {
	return s.redeemFn(ctx, walletAddress, eventID)
}

func performCheckin(t *testing.T, svc TicketService, body string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewMembershipHandler(svc, nil, nil)
	router.POST("/checkin", handler.HandleCheckin)

	req := httptest.NewRequest(http.MethodPost, "/checkin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestHandleCheckin(t *testing.T) {
	checkinBody := `{"wallet_address":"0x1111111111111111111111111111111111111111"}`

	t.Run("success returns the redemption result", func(t *testing.T) {
		svc := &stubTicketService{
			redeemFn: func(_ context.Context, _ string, _ *uint) (domain.RedeemResult, error) {
				return domain.RedeemResult{
					Kind:            domain.RedeemLevelUp,
					NewTier:         domain.TierTwo,
					AttendanceCount: 3,
				}, nil
			},
		}

		recorder := performCheckin(t, svc, checkinBody)
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp response.CheckinResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, domain.RedeemLevelUp, resp.Kind)
		assert.Equal(t, domain.TierTwo, resp.NewTier)
		assert.Equal(t, 3, resp.AttendanceCount)
	})

	t.Run("unknown wallet is 404", func(t *testing.T) {
		svc := &stubTicketService{
			redeemFn: func(_ context.Context, _ string, _ *uint) (domain.RedeemResult, error) {
				return domain.RedeemResult{}, service.ErrMemberNotFound
			},
		}

		recorder := performCheckin(t, svc, checkinBody)
		require.Equal(t, http.StatusNotFound, recorder.Code)

		var resp response.Err
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, response.CodeNotFound, resp.Code)
	})

	t.Run("ghost denial carries the NO_ACCESS code", func(t *testing.T) {
		svc := &stubTicketService{
			redeemFn: func(_ context.Context, _ string, _ *uint) (domain.RedeemResult, error) {
				return domain.RedeemResult{}, service.ErrNoAccess
			},
		}

		recorder := performCheckin(t, svc, checkinBody)
		require.Equal(t, http.StatusForbidden, recorder.Code)

		var resp response.Err
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, response.CodeNoAccess, resp.Code)
	})

	t.Run("member denial carries the NO_TICKET code", func(t *testing.T) {
		svc := &stubTicketService{
			redeemFn: func(_ context.Context, _ string, _ *uint) (domain.RedeemResult, error) {
				return domain.RedeemResult{}, service.ErrNoTicket
			},
		}

		recorder := performCheckin(t, svc, checkinBody)
		require.Equal(t, http.StatusForbidden, recorder.Code)

		var resp response.Err
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, response.CodeNoTicket, resp.Code)
	})

	t.Run("wrong event names the held event", func(t *testing.T) {
		svc := &stubTicketService{
			redeemFn: func(_ context.Context, _ string, _ *uint) (domain.RedeemResult, error) {
				return domain.RedeemResult{}, &service.WrongEventError{
					RequestedEventID: 8,
					HeldEventID:      7,
					HeldEventName:    "Neon Night",
				}
			},
		}

		recorder := performCheckin(t, svc, checkinBody)
		require.Equal(t, http.StatusForbidden, recorder.Code)

		var resp response.Err
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, response.CodeWrongEvent, resp.Code)
		assert.Equal(t, "Neon Night", resp.HeldEventName)
	})

	t.Run("missing wallet is 400", func(t *testing.T) {
		recorder := performCheckin(t, &stubTicketService{}, `{}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
