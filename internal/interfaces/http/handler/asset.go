package handler

import (
	registryapp "github.com/factoring/backend/internal/application/registry"
	"github.com/factoring/backend/internal/domain/asset"
	"github.com/factoring/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssetHandler handles asset registry API endpoints
type AssetHandler struct {
	BaseHandler
	registry *registryapp.AssetRegistryService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(registry *registryapp.AssetRegistryService) *AssetHandler {
	return &AssetHandler{registry: registry}
}

// RegisterRoutes registers asset registry routes
func (h *AssetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	assets := rg.Group("/assets")
	{
		assets.POST("", h.Create)
		assets.GET("", h.List)
		assets.GET("/:asset_number", h.Get)
		assets.GET("/:asset_number/figures", h.GetFigures)
		assets.GET("/:asset_number/owner", h.GetOwner)
		assets.GET("/:asset_number/token-uri", h.GetTokenURI)
		assets.PUT("/:asset_number/settlement-terms", h.SetSettlementTerms)
		assets.POST("/:asset_number/settle", h.Settle)
		assets.POST("/:asset_number/approve", h.ApproveTransfer)
	}

	registry := rg.Group("/registry")
	{
		registry.PUT("/base-uri", h.SetBaseURI)
		registry.PUT("/formulas-version", h.SetFormulasVersion)
	}
}

// ===================== Request/Response Types =====================

// CreateAssetRequest represents a request to create an asset record.
// Rates and amounts are 2-decimal strings; "2.27" means 2.27%.
type CreateAssetRequest struct {
	AssetNumber       uint64 `json:"asset_number" binding:"required,gt=0" example:"42"`
	Recipient         string `json:"recipient" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	FactoringFeeRate  string `json:"factoring_fee_rate" binding:"required" example:"2.27"`
	DiscountFeeRate   string `json:"discount_fee_rate" binding:"required" example:"7.50"`
	LateFeeRate       string `json:"late_fee_rate" binding:"required" example:"18.00"`
	BankChargesFee    string `json:"bank_charges_fee" binding:"required" example:"10.00"`
	AdditionalFee     string `json:"additional_fee" binding:"required" example:"0.00"`
	GracePeriodDays   int64  `json:"grace_period_days" binding:"min=0" example:"3"`
	AdvanceRatio      string `json:"advance_ratio" binding:"required" example:"80.00"`
	DueDate           string `json:"due_date" binding:"required" example:"2023-02-15"`
	InvoiceDate       string `json:"invoice_date" binding:"required" example:"2022-10-14"`
	FundsAdvancedDate string `json:"funds_advanced_date" binding:"required" example:"2022-11-30"`
	InvoiceAmount     string `json:"invoice_amount" binding:"required" example:"10000.00"`
	InvoiceLimit      string `json:"invoice_limit" binding:"required" example:"8500.00"`
}

// SetSettlementTermsRequest replaces the mutable settlement inputs
type SetSettlementTermsRequest struct {
	BuyerAmountReceived    string `json:"buyer_amount_received" binding:"required" example:"9000.00"`
	SupplierAmountReceived string `json:"supplier_amount_received" binding:"required" example:"1000.00"`
	PaymentReceiptDate     string `json:"payment_receipt_date" binding:"required" example:"2023-02-20"`
}

// SettleAssetRequest records the reserve payment closure
type SettleAssetRequest struct {
	SupplierAmountReserved      string `json:"supplier_amount_reserved" binding:"required" example:"2845.64"`
	ReservePaymentTransactionID string `json:"reserve_payment_transaction_id" binding:"required" example:"TX-2023-0221-001"`
	PaymentReserveDate          string `json:"payment_reserve_date" binding:"required" example:"2023-02-21"`
}

// ApproveTransferRequest authorizes an operator for the asset's token
type ApproveTransferRequest struct {
	Operator string `json:"operator" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440001"`
}

// SetBaseURIRequest updates the metadata base URI
type SetBaseURIRequest struct {
	BaseURI string `json:"base_uri" binding:"required" example:"https://assets.example.com/meta/"`
}

// SetFormulasVersionRequest updates the formula engine version tag
type SetFormulasVersionRequest struct {
	Version string `json:"version" binding:"required" example:"2.1"`
}

// AssetResponse represents an asset record in API responses
type AssetResponse struct {
	AssetNumber uint64 `json:"asset_number" example:"42"`
	Status      string `json:"status" example:"OPEN"`

	FactoringFeeRate  string `json:"factoring_fee_rate" example:"2.27"`
	DiscountFeeRate   string `json:"discount_fee_rate" example:"7.50"`
	LateFeeRate       string `json:"late_fee_rate" example:"18.00"`
	BankChargesFee    string `json:"bank_charges_fee" example:"10.00"`
	AdditionalFee     string `json:"additional_fee" example:"0.00"`
	GracePeriodDays   int64  `json:"grace_period_days" example:"3"`
	AdvanceRatio      string `json:"advance_ratio" example:"80.00"`
	DueDate           string `json:"due_date" example:"2023-02-15"`
	InvoiceDate       string `json:"invoice_date" example:"2022-10-14"`
	FundsAdvancedDate string `json:"funds_advanced_date" example:"2022-11-30"`
	InvoiceAmount     string `json:"invoice_amount" example:"10000.00"`
	InvoiceLimit      string `json:"invoice_limit" example:"8500.00"`

	BuyerAmountReceived         string `json:"buyer_amount_received" example:"9000.00"`
	SupplierAmountReceived      string `json:"supplier_amount_received" example:"1000.00"`
	PaymentReceiptDate          string `json:"payment_receipt_date,omitempty" example:"2023-02-20"`
	SupplierAmountReserved      string `json:"supplier_amount_reserved" example:"2845.64"`
	PaymentReserveDate          string `json:"payment_reserve_date,omitempty" example:"2023-02-21"`
	ReservePaymentTransactionID string `json:"reserve_payment_transaction_id,omitempty" example:"TX-2023-0221-001"`

	CreatedAt string `json:"created_at" example:"2023-01-15T10:30:00Z"`
	UpdatedAt string `json:"updated_at" example:"2023-01-15T10:30:00Z"`
	Version   int    `json:"version" example:"1"`
}

// AssetFiguresResponse carries every derived financial figure of a record
type AssetFiguresResponse struct {
	InvoiceTenure       int64  `json:"invoice_tenure" example:"124"`
	FinanceTenure       int64  `json:"finance_tenure" example:"82"`
	LateDays            int64  `json:"late_days" example:"2"`
	AdvancedAmount      string `json:"advanced_amount" example:"6800.00"`
	ReserveAmount       string `json:"reserve_amount" example:"3200.00"`
	FactoringAmount     string `json:"factoring_amount" example:"227.00"`
	DiscountAmount      string `json:"discount_amount" example:"117.36"`
	LateAmount          string `json:"late_amount" example:"6.70"`
	TotalFees           string `json:"total_fees" example:"354.36"`
	TotalAmountReceived string `json:"total_amount_received" example:"10000.00"`
	NetAmountPayable    string `json:"net_amount_payable" example:"2845.64"`
}

// OwnerResponse identifies the current token holder
type OwnerResponse struct {
	AssetNumber uint64 `json:"asset_number" example:"42"`
	Owner       string `json:"owner" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// TokenURIResponse carries the composed metadata URI
type TokenURIResponse struct {
	AssetNumber uint64 `json:"asset_number" example:"42"`
	TokenURI    string `json:"token_uri" example:"https://assets.example.com/meta/42"`
}

func toAssetResponse(record *asset.AssetRecord) AssetResponse {
	return AssetResponse{
		AssetNumber: record.AssetNumber,
		Status:      string(record.Status),

		FactoringFeeRate:  formatAmount(record.InitialTerms.FactoringFeeRate),
		DiscountFeeRate:   formatAmount(record.InitialTerms.DiscountFeeRate),
		LateFeeRate:       formatAmount(record.InitialTerms.LateFeeRate),
		BankChargesFee:    formatAmount(record.InitialTerms.BankChargesFee),
		AdditionalFee:     formatAmount(record.InitialTerms.AdditionalFee),
		GracePeriodDays:   record.InitialTerms.GracePeriodDays,
		AdvanceRatio:      formatAmount(record.InitialTerms.AdvanceRatio),
		DueDate:           formatDate(record.InitialTerms.DueDate),
		InvoiceDate:       formatDate(record.InitialTerms.InvoiceDate),
		FundsAdvancedDate: formatDate(record.InitialTerms.FundsAdvancedDate),
		InvoiceAmount:     formatAmount(record.InitialTerms.InvoiceAmount),
		InvoiceLimit:      formatAmount(record.InitialTerms.InvoiceLimit),

		BuyerAmountReceived:         formatAmount(record.SettlementTerms.BuyerAmountReceived),
		SupplierAmountReceived:      formatAmount(record.SettlementTerms.SupplierAmountReceived),
		PaymentReceiptDate:          formatDate(record.SettlementTerms.PaymentReceiptDate),
		SupplierAmountReserved:      formatAmount(record.SettlementTerms.SupplierAmountReserved),
		PaymentReserveDate:          formatDate(record.SettlementTerms.PaymentReserveDate),
		ReservePaymentTransactionID: record.SettlementTerms.ReservePaymentTransactionID,

		CreatedAt: record.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: record.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Version:   record.Version,
	}
}

func (r CreateAssetRequest) toInitialTerms() (asset.InitialTerms, error) {
	var terms asset.InitialTerms
	var err error

	if terms.FactoringFeeRate, err = parseRate(r.FactoringFeeRate); err != nil {
		return terms, err
	}
	if terms.DiscountFeeRate, err = parseRate(r.DiscountFeeRate); err != nil {
		return terms, err
	}
	if terms.LateFeeRate, err = parseRate(r.LateFeeRate); err != nil {
		return terms, err
	}
	if terms.BankChargesFee, err = parseAmount(r.BankChargesFee); err != nil {
		return terms, err
	}
	if terms.AdditionalFee, err = parseAmount(r.AdditionalFee); err != nil {
		return terms, err
	}
	if terms.AdvanceRatio, err = parseRate(r.AdvanceRatio); err != nil {
		return terms, err
	}
	if terms.DueDate, err = parseDate(r.DueDate); err != nil {
		return terms, err
	}
	if terms.InvoiceDate, err = parseDate(r.InvoiceDate); err != nil {
		return terms, err
	}
	if terms.FundsAdvancedDate, err = parseDate(r.FundsAdvancedDate); err != nil {
		return terms, err
	}
	if terms.InvoiceAmount, err = parseAmount(r.InvoiceAmount); err != nil {
		return terms, err
	}
	if terms.InvoiceLimit, err = parseAmount(r.InvoiceLimit); err != nil {
		return terms, err
	}
	terms.GracePeriodDays = r.GracePeriodDays
	return terms, nil
}

// ===================== Handlers =====================

// Create handles POST /assets
func (h *AssetHandler) Create(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	recipient, err := uuid.Parse(req.Recipient)
	if err != nil {
		h.BadRequest(c, "Invalid recipient identity")
		return
	}

	terms, err := req.toInitialTerms()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.registry.CreateAsset(c.Request.Context(), caller, recipient, req.AssetNumber, terms)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAssetResponse(record))
}

// Get handles GET /assets/:asset_number
func (h *AssetHandler) Get(c *gin.Context) {
	assetNumber, err := parseAssetNumber(c.Param("asset_number"))
	if err != nil {
		h.BadRequest(c, "Invalid asset number")
		return
	}

	record, err := h.registry.GetAsset(c.Request.Context(), assetNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAssetResponse(record))
}

// List handles GET /assets
func (h *AssetHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters: "+err.Error())
		return
	}

	page, err := h.registry.ListAssets(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AssetResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = toAssetResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, responses, page.Total, page.Page, page.PageSize)
}

// GetFigures handles GET /assets/:asset_number/figures
func (h *AssetHandler) GetFigures(c *gin.Context) {
	assetNumber, err := parseAssetNumber(c.Param("asset_number"))
	if err != nil {
		h.BadRequest(c, "Invalid asset number")
		return
	}

	figures, err := h.registry.GetFigures(c.Request.Context(), assetNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AssetFiguresResponse{
		InvoiceTenure:       figures.InvoiceTenure,
		FinanceTenure:       figures.FinanceTenure,
		LateDays:            figures.LateDays,
		AdvancedAmount:      formatAmount(figures.AdvancedAmount),
		ReserveAmount:       formatAmount(figures.ReserveAmount),
		FactoringAmount:     formatAmount(figures.FactoringAmount),
		DiscountAmount:      formatAmount(figures.DiscountAmount),
		LateAmount:          formatAmount(figures.LateAmount),
		TotalFees:           formatAmount(figures.TotalFees),
		TotalAmountReceived: formatAmount(figures.TotalAmountReceived),
		NetAmountPayable:    formatAmount(figures.NetAmountPayable),
	})
}

// GetOwner handles GET /assets/:asset_number/owner
func (h *AssetHandler) GetOwner(c *gin.Context) {
	assetNumber, err := parseAssetNumber(c.Param("asset_number"))
	if err != nil {
		h.BadRequest(c, "Invalid asset number")
		return
	}

	owner, err := h.registry.OwnerOf(c.Request.Context(), assetNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, OwnerResponse{AssetNumber: assetNumber, Owner: owner.String()})
}

// GetTokenURI handles GET /assets/:asset_number/token-uri
func (h *AssetHandler) GetTokenURI(c *gin.Context) {
	assetNumber, err := parseAssetNumber(c.Param("asset_number"))
	if err != nil {
		h.BadRequest(c, "Invalid asset number")
		return
	}

	uri, err := h.registry.TokenURI(c.Request.Context(), assetNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, TokenURIResponse{AssetNumber: assetNumber, TokenURI: uri})
}

// SetSettlementTerms handles PUT /assets/:asset_number/settlement-terms
func (h *AssetHandler) SetSettlementTerms(c *gin.Context) {
	assetNumber, err := parseAssetNumber(c.Param("asset_number"))
	if err != nil {
		h.BadRequest(c, "Invalid asset number")
		return
	}

	var req SetSettlementTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	buyerAmount, err := parseAmount(req.BuyerAmountReceived)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	supplierAmount, err := parseAmount(req.SupplierAmountReceived)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	receiptDate, err := parseDate(req.PaymentReceiptDate)
	if err != nil {
		h.BadRequest(c, "Invalid payment receipt date")
		return
	}

	record, err := h.registry.SetSettlementTerms(c.Request.Context(), caller, assetNumber, buyerAmount, supplierAmount, receiptDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAssetResponse(record))
}

// Settle handles POST /assets/:asset_number/settle
func (h *AssetHandler) Settle(c *gin.Context) {
	assetNumber, err := parseAssetNumber(c.Param("asset_number"))
	if err != nil {
		h.BadRequest(c, "Invalid asset number")
		return
	}

	var req SettleAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	reserved, err := parseAmount(req.SupplierAmountReserved)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	reserveDate, err := parseDate(req.PaymentReserveDate)
	if err != nil {
		h.BadRequest(c, "Invalid payment reserve date")
		return
	}

	record, err := h.registry.SettleAsset(c.Request.Context(), caller, assetNumber, reserved, req.ReservePaymentTransactionID, reserveDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAssetResponse(record))
}

// ApproveTransfer handles POST /assets/:asset_number/approve
func (h *AssetHandler) ApproveTransfer(c *gin.Context) {
	assetNumber, err := parseAssetNumber(c.Param("asset_number"))
	if err != nil {
		h.BadRequest(c, "Invalid asset number")
		return
	}

	var req ApproveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	operator, err := uuid.Parse(req.Operator)
	if err != nil {
		h.BadRequest(c, "Invalid operator identity")
		return
	}

	if err := h.registry.ApproveTransfer(c.Request.Context(), caller, assetNumber, operator); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetBaseURI handles PUT /registry/base-uri
func (h *AssetHandler) SetBaseURI(c *gin.Context) {
	var req SetBaseURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	if err := h.registry.SetBaseURI(c.Request.Context(), caller, req.BaseURI); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetFormulasVersion handles PUT /registry/formulas-version
func (h *AssetHandler) SetFormulasVersion(c *gin.Context) {
	var req SetFormulasVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	caller, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Caller identity required")
		return
	}

	if err := h.registry.SetFormulasVersion(c.Request.Context(), caller, req.Version); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
