package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finsight/internal/models"
	"finsight/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// ExpenseQuery holds the optional listing filters.
type ExpenseQuery struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=1000"`
	StartDate string `form:"startDate" binding:"omitempty,isodate"`
	EndDate   string `form:"endDate" binding:"omitempty,isodate"`
}

// CreateExpenseRequest represents the request payload for creating an expense.
// Amount accepts a number or a numeric string. Omitting categoryId lets the
// server categorize the expense.
type CreateExpenseRequest struct {
	CategoryID    *string              `json:"categoryId"`
	Amount        *models.Amount       `json:"amount" binding:"required,gte=0"`
	Description   string               `json:"description" binding:"required,max=500"`
	Date          string               `json:"date" binding:"required,isodate"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"omitempty,payment_method"`
}

// UpdateExpenseRequest represents a partial update. An empty categoryId clears
// the category.
type UpdateExpenseRequest struct {
	CategoryID    *string               `json:"categoryId"`
	Amount        *models.Amount        `json:"amount" binding:"omitempty,gte=0"`
	Description   *string               `json:"description" binding:"omitempty,min=1,max=500"`
	Date          *string               `json:"date" binding:"omitempty,isodate"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod" binding:"omitempty,payment_method"`
}

// GetExpenses handles listing the user's expenses.
// @Summary     Get expenses
// @Description List expenses newest first, bounded by count or by date range
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       limit     query int    false "Maximum number of expenses"
// @Param       startDate query string false "Range start (YYYY-MM-DD)"
// @Param       endDate   query string false "Range end (YYYY-MM-DD)"
// @Success     200 {array}  models.ExpenseWithCategory "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ExpenseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	expenses, err := h.expenseService.GetExpenses(c.Request.Context(), userID, services.ExpenseFilter{
		Limit:     q.Limit,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// GetExpense handles fetching one expense.
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.ExpenseWithCategory "Expense"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// CreateExpense handles the creation of a new expense.
// @Summary     Create an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.ExpenseWithCategory "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), userID, services.ExpenseInput{
		CategoryID:    req.CategoryID,
		Amount:        req.Amount.Float64(),
		Description:   req.Description,
		Date:          req.Date,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount, "date": expense.Date, "category": expense.CategoryName})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// UpdateExpense handles a partial expense update.
// @Summary     Update an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.ExpenseWithCategory "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	upd := models.ExpenseUpdate{
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		Date:          req.Date,
		PaymentMethod: req.PaymentMethod,
	}
	changes := map[string]interface{}{}
	if req.Amount != nil {
		amount := req.Amount.Float64()
		upd.Amount = &amount
		changes["amount"] = amount
	}
	if req.Date != nil {
		changes["date"] = *req.Date
	}
	if req.CategoryID != nil {
		changes["categoryId"] = *req.CategoryID
	}

	id := c.Param("id")
	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), userID, id, upd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", id, c.ClientIP(), changes)
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete an expense
// @Tags        expenses
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.expenseService.DeleteExpense(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", id, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}
