package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"auction-engine/internal/auth"
	bidding "auction-engine/internal/biddingService"
	model "auction-engine/internal/models"
	"auction-engine/services/bidding/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_handler.go -package=handler

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, saleID int64, identity string, amount int64, bidTime *time.Time) (bidding.BidOutcome, error)
	GetSale(ctx context.Context, saleID int64) (model.Sale, error)
	CurrentUser(ctx context.Context, identity string) (model.User, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
	now     func() time.Time
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{
		service: service,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// PlaceBidHandler handles POST /api/bid/place
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "authentication required")
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	outcome, err := h.service.PlaceBid(c.Request.Context(), req.SaleID, identity, req.BidAmount, req.BidTime)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"sale_id":    req.SaleID,
			"identity":   identity,
			"bid_amount": req.BidAmount,
		})
		return
	}

	resp := helpers.PlaceBidResponse{
		Sale: helpers.NewSaleResponse(outcome.Sale, h.now()),
		User: helpers.NewUserResponse(outcome.User),
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")

	fields := map[string]any{
		"sale_id":    outcome.Sale.SaleID,
		"user_id":    outcome.User.UserID,
		"bid_amount": req.BidAmount,
		"credit":     outcome.User.Credit,
	}
	if len(outcome.Sale.Bids) > 0 {
		fields["bid_id"] = outcome.Sale.Bids[0].BidID
	}
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", fields)
}

// GetSaleHandler handles GET /api/sales/:id
func (h *BiddingHandler) GetSaleHandler(c *gin.Context) {
	saleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || saleID <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "sale.id.invalid", "invalid sale id")
		utils.Warn("GetSaleHandler: invalid sale id", map[string]any{"id": c.Param("id")})
		return
	}

	sale, err := h.service.GetSale(c.Request.Context(), saleID)
	if err != nil {
		helpers.RespondError(c, "GetSaleHandler", err, map[string]any{"sale_id": saleID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewSaleResponse(sale, h.now()), "sale retrieved successfully")
	helpers.LogSuccess("GetSaleHandler", "sale retrieved successfully", map[string]any{
		"sale_id": saleID,
		"bids":    len(sale.Bids),
	})
}

// MeHandler handles GET /api/auth/me
func (h *BiddingHandler) MeHandler(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, utils.CodeUnauthorized, "authentication required")
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), identity)
	if err != nil {
		helpers.RespondError(c, "MeHandler", err, map[string]any{"identity": identity})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewUserResponse(user), "user retrieved successfully")
}
