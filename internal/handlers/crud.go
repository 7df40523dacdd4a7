package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"networth/internal/expense"
	"networth/internal/models"
	"networth/internal/tablesort"
)

type createAccountRequest struct {
	UserID string             `json:"user_id" binding:"required"`
	Name   string             `json:"name" binding:"required"`
	Type   models.AccountType `json:"type" binding:"required"`
}

func (h *Handler) PostAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid account body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be cash, investment, cpf or srs"})
		return
	}
	ctx := c.Request.Context()
	if err := h.store.EnsureUserExists(ctx, req.UserID, ""); err != nil {
		h.log.Errorf("ensure user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	account, err := h.store.CreateAccount(ctx, req.UserID, req.Name, req.Type)
	if err != nil {
		h.log.Errorf("create account failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *Handler) GetAccountList(c *gin.Context) {
	accounts, err := h.store.GetAccounts(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.log.Errorf("get accounts failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	key, dir := sortParams(c)
	if key != "" {
		accounts = tablesort.By(accounts, dir, func(a models.AccountWithHoldings) any {
			switch key {
			case "name":
				return a.Name
			case "type":
				return string(a.Type)
			case "created_at":
				return a.CreatedAt
			default:
				return nil
			}
		})
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) DeleteAccountByID(c *gin.Context) {
	if err := h.store.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Errorf("delete account failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type cashHoldingRequest struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency" binding:"required"`
	Label    *string         `json:"label"`
}

func (h *Handler) PostCashHolding(c *gin.Context) {
	var req cashHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid cash holding body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.store.CreateCashHolding(c.Request.Context(), c.Param("id"), req.Balance, req.Currency, req.Label)
	if err != nil {
		h.log.Errorf("create cash holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) PutCashHolding(c *gin.Context) {
	var req cashHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.UpdateCashHolding(c.Request.Context(), c.Param("id"), req.Balance, req.Currency, req.Label); err != nil {
		h.log.Errorf("update cash holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteCashHoldingByID(c *gin.Context) {
	if err := h.store.DeleteCashHolding(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Errorf("delete cash holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type stockHoldingRequest struct {
	Ticker            string          `json:"ticker" binding:"required"`
	Shares            decimal.Decimal `json:"shares"`
	CostBasisPerShare decimal.Decimal `json:"cost_basis_per_share"`
}

func (h *Handler) PostStockHolding(c *gin.Context) {
	var req stockHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid stock holding body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.store.CreateStockHolding(c.Request.Context(), c.Param("id"), req.Ticker, req.Shares, req.CostBasisPerShare)
	if err != nil {
		h.log.Errorf("create stock holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) PutStockHolding(c *gin.Context) {
	var req stockHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.UpdateStockHolding(c.Request.Context(), c.Param("id"), req.Ticker, req.Shares, req.CostBasisPerShare); err != nil {
		h.log.Errorf("update stock holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteStockHoldingByID(c *gin.Context) {
	if err := h.store.DeleteStockHolding(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Errorf("delete stock holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type expenseRequest struct {
	UserID      string                 `json:"user_id"`
	Amount      decimal.Decimal        `json:"amount"`
	Currency    string                 `json:"currency" binding:"required"`
	Category    models.ExpenseCategory `json:"category" binding:"required"`
	Subcategory string                 `json:"subcategory" binding:"required"`
	Description *string                `json:"description"`
	ExpenseDate string                 `json:"expense_date" binding:"required"`
}

func (h *Handler) PostExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid expense body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if !expense.ValidSubcategory(req.Category, req.Subcategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subcategory does not belong to category"})
		return
	}
	ctx := c.Request.Context()
	if err := h.store.EnsureUserExists(ctx, req.UserID, ""); err != nil {
		h.log.Errorf("ensure user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	id, err := h.store.CreateExpense(ctx, models.Expense{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Description: req.Description,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		h.log.Errorf("create expense failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) PutExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !expense.ValidSubcategory(req.Category, req.Subcategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subcategory does not belong to category"})
		return
	}
	err := h.store.UpdateExpense(c.Request.Context(), models.Expense{
		ID:          c.Param("id"),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Description: req.Description,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		h.log.Errorf("update expense failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteExpenseByID(c *gin.Context) {
	if err := h.store.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Errorf("delete expense failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetExpenseList returns a user's expenses, optionally windowed by ?since
// and display-ordered by ?sort and ?dir.
func (h *Handler) GetExpenseList(c *gin.Context) {
	expenses, err := h.store.GetExpenses(c.Request.Context(), c.Param("userId"), c.Query("since"))
	if err != nil {
		h.log.Errorf("get expenses failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	key, dir := sortParams(c)
	if key != "" {
		expenses = tablesort.By(expenses, dir, func(e models.Expense) any {
			switch key {
			case "date":
				return e.ExpenseDate
			case "amount":
				return e.Amount
			case "category":
				return string(e.Category)
			case "subcategory":
				return e.Subcategory
			case "description":
				return e.Description
			default:
				return nil
			}
		})
	}
	c.JSON(http.StatusOK, expenses)
}

// sortParams reads the display-ordering query parameters. A sort key with no
// direction gets descending, matching the first click on a column header.
func sortParams(c *gin.Context) (string, tablesort.Direction) {
	key := c.Query("sort")
	if key == "" {
		return "", tablesort.None
	}
	switch c.Query("dir") {
	case "asc":
		return key, tablesort.Ascending
	default:
		return key, tablesort.Descending
	}
}
