package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garomon/garo-vibe-api/internal/api/handler/v1/request"
	"github.com/garomon/garo-vibe-api/internal/api/handler/v1/response"
	"github.com/garomon/garo-vibe-api/internal/api/middleware"
	"github.com/garomon/garo-vibe-api/internal/service"
)

type MarketplaceService interface {
	PurchaseVibePoints(ctx context.Context, memberID uint, points int, paymentMethodID string) (service.VibePointPurchase, error)
}

type MarketplaceHandler struct {
	svc MarketplaceService
}

func NewMarketplaceHandler(svc MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{
		svc: svc,
	}
}

// HandlePurchasePoints godoc
// @Summary      Buy vibe points
// @Description  Charges the member's card through Stripe and credits the points on success.
// @Tags         marketplace
// @Produce      json
// @Param        request   body      request.PurchasePointsRequest true "request body"
// @Success      200      {object}   service.VibePointPurchase
// @Failure      400      {object}   response.Err
// @Failure      402      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /marketplace/points [post]
// @Security     BearerAuth
func (h *MarketplaceHandler) HandlePurchasePoints(ctx *gin.Context) {
	var req request.PurchasePointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	memberID := ctx.GetUint(middleware.CtxKeyUserID)

	purchase, err := h.svc.PurchaseVibePoints(ctx.Request.Context(), memberID, req.Points, req.PaymentMethodID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotCompleted) {
			response.RenderErr(ctx, response.ErrPaymentRequired(err))

			return
		}

		err = fmt.Errorf("v1.HandlePurchasePoints -> h.svc.PurchaseVibePoints -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, purchase)
}
