package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-crew-planner/models"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenses models.ExpenseModelInterface
}

func NewExpenseHandler(expenses models.ExpenseModelInterface) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// ListExpensesHandler godoc
// @Summary List a trip's expenses
// @Tags expenses
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {array} types.Expense
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Router /trips/{id}/expenses [get]
// @Security BearerAuth
func (h *ExpenseHandler) ListExpensesHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}

	expenses, err := h.expenses.GetExpensesForTrip(c.Request.Context(), tripID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// AddExpenseHandler godoc
// @Summary Record an expense
// @Description The amount is split equally between every current member, rounded half up to the cent.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path int true "Trip ID"
// @Param request body types.ExpenseCreate true "Expense"
// @Success 201 {object} types.ExpenseCreated
// @Failure 400 {object} types.ErrorResponse "Invalid input, unknown category or payer not a member"
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Router /trips/{id}/expenses [post]
// @Security BearerAuth
func (h *ExpenseHandler) AddExpenseHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}
	var req types.ExpenseCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	created, err := h.expenses.AddExpense(c.Request.Context(), tripID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// SummaryHandler godoc
// @Summary The caller's budget position
// @Description Trip total, what the caller paid, what they owe and the balance between the two.
// @Tags expenses
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} types.BudgetSummary
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Router /trips/{id}/expenses/summary [get]
// @Security BearerAuth
func (h *ExpenseHandler) SummaryHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}

	summary, err := h.expenses.GetSummary(c.Request.Context(), tripID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DeleteExpenseHandler godoc
// @Summary Delete an expense
// @Description The payer or the trip owner may delete it. Shares go with it.
// @Tags expenses
// @Param id path int true "Trip ID"
// @Param expenseId path int true "Expense ID"
// @Success 204
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/expenses/{expenseId} [delete]
// @Security BearerAuth
func (h *ExpenseHandler) DeleteExpenseHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c, "expenseId")
	if !ok {
		return
	}

	if err := h.expenses.DeleteExpense(c.Request.Context(), tripID, expenseID, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCategoriesHandler godoc
// @Summary Expense categories
// @Tags expenses
// @Produce json
// @Success 200 {array} types.ExpenseCategory
// @Router /expense-categories [get]
// @Security BearerAuth
func (h *ExpenseHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.expenses.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
