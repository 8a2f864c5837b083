package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appfinance "github.com/Ethics03/shiv-odoo/internal/application/finance"
	domain "github.com/Ethics03/shiv-odoo/internal/domain/finance"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/dto"
	"github.com/Ethics03/shiv-odoo/internal/interfaces/http/middleware"
)

// AccountHandler exposes the chart of accounts
type AccountHandler struct {
	BaseHandler
	registry *appfinance.RegistryService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(registry *appfinance.RegistryService) *AccountHandler {
	return &AccountHandler{registry: registry}
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.Create)
		accounts.GET("", h.List)
		accounts.GET("/trial-balance", h.TrialBalance)
		accounts.GET("/:id", h.Get)
		accounts.PATCH("/:id", h.Update)
		accounts.DELETE("/:id", h.Archive)
		accounts.GET("/:id/balance", h.Balance)
		accounts.GET("/:id/ledger", h.Ledger)
	}
}

// Create adds a new account to the chart
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	opening := decimal.Zero
	if req.OpeningBalance != "" {
		parsed, err := decimal.NewFromString(req.OpeningBalance)
		if err != nil {
			h.BadRequest(c, "invalid opening balance")
			return
		}
		opening = parsed
	}

	var parentID *uuid.UUID
	if req.ParentID != nil {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			h.BadRequest(c, "invalid parent id")
			return
		}
		parentID = &id
	}

	account, err := h.registry.CreateAccount(c.Request.Context(), appfinance.CreateAccountInput{
		Code:           req.Code,
		Name:           req.Name,
		Kind:           domain.AccountKind(req.Kind),
		ParentID:       parentID,
		OpeningBalance: opening,
	}, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dto.NewAccountResponse(account))
}

// List returns accounts matching the filter query
func (h *AccountHandler) List(c *gin.Context) {
	filter := domain.AccountFilter{
		ActiveOnly: c.Query("active_only") == "true",
		Search:     c.Query("search"),
	}
	if raw := c.Query("kind"); raw != "" {
		kind := domain.AccountKind(raw)
		filter.Kind = &kind
	}

	accounts, err := h.registry.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewAccountResponses(accounts))
}

// Get returns a single account by id
func (h *AccountHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid account id")
		return
	}

	account, err := h.registry.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewAccountResponse(account))
}

// Update renames or re-parents an account
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid account id")
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := appfinance.UpdateAccountInput{
		Name:        req.Name,
		ClearParent: req.ClearParent,
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			h.BadRequest(c, "invalid parent id")
			return
		}
		input.ParentID = &parentID
	}

	account, err := h.registry.UpdateAccount(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewAccountResponse(account))
}

// Archive deactivates an account. Accounts with active children are
// rejected.
func (h *AccountHandler) Archive(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid account id")
		return
	}

	if err := h.registry.ArchiveAccount(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Balance returns the account's current balance
func (h *AccountHandler) Balance(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid account id")
		return
	}

	balance, err := h.registry.GetAccountBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewAccountBalanceResponse(balance))
}

// Ledger returns the account statement with a running balance.
// Optional from/to query parameters bound the window (RFC 3339).
func (h *AccountHandler) Ledger(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid account id")
		return
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		h.BadRequest(c, "invalid from date")
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		h.BadRequest(c, "invalid to date")
		return
	}

	ledger, err := h.registry.GetAccountLedger(c.Request.Context(), id, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewAccountLedgerResponse(ledger))
}

// TrialBalance reports whether active accounts' opening balances net out
func (h *AccountHandler) TrialBalance(c *gin.Context) {
	report, err := h.registry.ValidateTrialBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewTrialBalanceResponse(report))
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
