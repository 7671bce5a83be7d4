package handler

import (
	exchangeapp "github.com/factoring/backend/internal/application/exchange"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExchangeHandler handles primary-market exchange API endpoints
type ExchangeHandler struct {
	BaseHandler
	exchange *exchangeapp.ExchangeService
}

// NewExchangeHandler creates a new ExchangeHandler
func NewExchangeHandler(exchange *exchangeapp.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchange: exchange}
}

// RegisterRoutes registers exchange routes
func (h *ExchangeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	exchange := rg.Group("/exchange")
	{
		exchange.GET("/operator", h.GetOperator)
		exchange.POST("/purchases", h.Buy)
		exchange.POST("/purchases/batch", h.BatchBuy)
		exchange.GET("/disbursements/:asset_number", h.GetDisbursement)
		exchange.PUT("/allowance", h.ApproveSpending)
		exchange.GET("/allowance", h.GetAllowance)
		exchange.POST("/accounts/fund", h.FundAccount)
		exchange.GET("/accounts/:account_id/balance", h.GetBalance)
	}
}

// ===================== Request/Response Types =====================

// BuyRequest represents a single-asset purchase
type BuyRequest struct {
	AssetNumber uint64 `json:"asset_number" binding:"required,gt=0" example:"42"`
}

// BatchBuyRequest represents an all-or-nothing multi-asset purchase
type BatchBuyRequest struct {
	AssetNumbers []uint64 `json:"asset_numbers" binding:"required,min=1,dive,gt=0" example:"42,43"`
}

// ApproveSpendingRequest sets the buyer's spending allowance for the exchange
type ApproveSpendingRequest struct {
	Amount string `json:"amount" binding:"required" example:"6800.00"`
}

// FundAccountRequest credits value units to an account
type FundAccountRequest struct {
	Account string `json:"account" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Amount  string `json:"amount" binding:"required" example:"6800.00"`
}

// OperatorResponse identifies the exchange operator account
type OperatorResponse struct {
	Operator string `json:"operator" example:"550e8400-e29b-41d4-a716-446655440002"`
}

// DisbursementResponse reports the amount payable to the original client.
// Reading it never moves funds; payout happens through an external channel.
type DisbursementResponse struct {
	AssetNumber      uint64 `json:"asset_number" example:"42"`
	NetAmountPayable string `json:"net_amount_payable" example:"2845.64"`
}

// AllowanceResponse reports a buyer's remaining exchange allowance
type AllowanceResponse struct {
	Buyer     string `json:"buyer" example:"550e8400-e29b-41d4-a716-446655440000"`
	Allowance string `json:"allowance" example:"6800.00"`
}

// BalanceResponse reports an account's value balance
type BalanceResponse struct {
	Account string `json:"account" example:"550e8400-e29b-41d4-a716-446655440000"`
	Balance string `json:"balance" example:"6800.00"`
}

// ===================== Handlers =====================

// GetOperator handles GET /exchange/operator
func (h *ExchangeHandler) GetOperator(c *gin.Context) {
	h.Success(c, OperatorResponse{Operator: h.exchange.OperatorID().String()})
}

// Buy handles POST /exchange/purchases
func (h *ExchangeHandler) Buy(c *gin.Context) {
	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	buyer, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	if err := h.exchange.Buy(c.Request.Context(), buyer, req.AssetNumber); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BatchBuy handles POST /exchange/purchases/batch
func (h *ExchangeHandler) BatchBuy(c *gin.Context) {
	var req BatchBuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	buyer, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	if err := h.exchange.BatchBuy(c.Request.Context(), buyer, req.AssetNumbers); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetDisbursement handles GET /exchange/disbursements/:asset_number
func (h *ExchangeHandler) GetDisbursement(c *gin.Context) {
	assetNumber, err := parseAssetNumber(c.Param("asset_number"))
	if err != nil {
		h.BadRequest(c, "Invalid asset number")
		return
	}

	net, err := h.exchange.Disburse(c.Request.Context(), assetNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DisbursementResponse{AssetNumber: assetNumber, NetAmountPayable: formatAmount(net)})
}

// ApproveSpending handles PUT /exchange/allowance
func (h *ExchangeHandler) ApproveSpending(c *gin.Context) {
	var req ApproveSpendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	buyer, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.exchange.ApproveSpending(c.Request.Context(), buyer, amount); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetAllowance handles GET /exchange/allowance
func (h *ExchangeHandler) GetAllowance(c *gin.Context) {
	buyer, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	allowance, err := h.exchange.Allowance(c.Request.Context(), buyer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AllowanceResponse{Buyer: buyer.String(), Allowance: formatAmount(allowance)})
}

// FundAccount handles POST /exchange/accounts/fund
func (h *ExchangeHandler) FundAccount(c *gin.Context) {
	var req FundAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	account, err := uuid.Parse(req.Account)
	if err != nil {
		h.BadRequest(c, "Invalid account identity")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.exchange.FundAccount(c.Request.Context(), caller, account, amount); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetBalance handles GET /exchange/accounts/:account_id/balance
func (h *ExchangeHandler) GetBalance(c *gin.Context) {
	account, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		h.BadRequest(c, "Invalid account identity")
		return
	}

	balance, err := h.exchange.Balance(c.Request.Context(), account)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BalanceResponse{Account: account.String(), Balance: formatAmount(balance)})
}
