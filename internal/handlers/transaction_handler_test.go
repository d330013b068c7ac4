package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn    func(userID uint, input services.TransactionInput) (*models.Transaction, error)
	getUserTransactionsFn  func(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn   func(userID, transactionID uint) (*models.Transaction, error)
	updateTransactionFn    func(userID, transactionID uint, input services.TransactionUpdate) (*models.Transaction, error)
	deleteTransactionFn    func(userID, transactionID uint) error
	getSummaryFn           func(userID uint, dates services.DateRange) (*services.TransactionSummary, error)
	getCategoryBreakdownFn func(userID uint, dates services.DateRange) ([]services.CategoryTotal, error)
	getMonthlyTrendsFn     func(userID uint, months int) ([]services.MonthlyTrend, error)
}

func (m *mockTransactionService) CreateTransaction(userID uint, input services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 10, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID uint, input services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID uint) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetSummary(userID uint, dates services.DateRange) (*services.TransactionSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID, dates)
	}
	return &services.TransactionSummary{}, nil
}

func (m *mockTransactionService) GetCategoryBreakdown(userID uint, dates services.DateRange) ([]services.CategoryTotal, error) {
	if m.getCategoryBreakdownFn != nil {
		return m.getCategoryBreakdownFn(userID, dates)
	}
	return []services.CategoryTotal{}, nil
}

func (m *mockTransactionService) GetMonthlyTrends(userID uint, months int) ([]services.MonthlyTrend, error) {
	if m.getMonthlyTrendsFn != nil {
		return m.getMonthlyTrendsFn(userID, months)
	}
	return []services.MonthlyTrend{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/stats", handler.GetStats)
	auth.GET("/transactions/categories", handler.GetCategoryBreakdown)
	auth.GET("/transactions/trends", handler.GetMonthlyTrends)
	auth.GET("/transactions/:id", handler.GetTransaction)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockTransactionService{
			createTransactionFn: func(userID uint, input services.TransactionInput) (*models.Transaction, error) {
				return &models.Transaction{
					Base:        models.Base{ID: 1},
					UserID:      userID,
					Type:        input.Type,
					Amount:      input.Amount,
					Description: input.Description,
					Category:    input.Category,
				}, nil
			},
		}
		handler := NewTransactionHandler(svc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":42.5,"description":"Groceries","category":"groceries"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		data := payload(t, parseJSON(t, rec))
		tx := data["transaction"].(map[string]interface{})
		if tx["amount"].(float64) != 42.5 {
			t.Errorf("expected amount 42.5, got %v", tx["amount"])
		}
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"transfer","amount":42.5,"description":"Bad","category":"misc"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertFailure(t, parseJSON(t, rec))
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":-5,"description":"Bad","category":"misc"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid payment method", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":10,"description":"Bad","category":"misc","payment_method":"barter"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes recurring pattern through", func(t *testing.T) {
		var gotInput services.TransactionInput
		svc := &mockTransactionService{
			createTransactionFn: func(_ uint, input services.TransactionInput) (*models.Transaction, error) {
				gotInput = input
				return &models.Transaction{}, nil
			},
		}
		handler := NewTransactionHandler(svc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":15.99,"description":"Subscription","category":"entertainment","is_recurring":true,"recurring_pattern":{"frequency":"monthly"}}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotInput.Recurring == nil {
			t.Fatal("expected recurring pattern passed through")
		}
		if gotInput.Recurring.Frequency != models.RecurringMonthly {
			t.Errorf("expected monthly frequency, got %s", gotInput.Recurring.Frequency)
		}
		if gotInput.Recurring.Interval != 1 {
			t.Errorf("expected interval defaulted to 1, got %d", gotInput.Recurring.Interval)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("parses filters and pagination", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.TransactionFilter
		svc := &mockTransactionService{
			getUserTransactionsFn: func(_ uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotPage = page
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.Limit, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(svc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?page=2&limit=5&type=expense&category=groceries&sort=amount&order=asc&search=milk", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.Limit != 5 {
			t.Errorf("expected page 2 limit 5, got %d/%d", gotPage.Page, gotPage.Limit)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense filter, got %v", gotFilter.Type)
		}
		if gotFilter.Category != "groceries" || gotFilter.Search != "milk" {
			t.Errorf("expected category/search passed through, got %+v", gotFilter)
		}
		if gotFilter.Sort != "amount" || gotFilter.Order != "asc" {
			t.Errorf("expected sort passed through, got %+v", gotFilter)
		}
	})

	t.Run("rejects bad type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects bad date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?startDate=tomorrow", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("accepts bare dates", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		svc := &mockTransactionService{
			getUserTransactionsFn: func(_ uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 10, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(svc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?startDate=2024-01-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if gotFilter.StartDate == nil || !gotFilter.StartDate.Equal(want) {
			t.Errorf("expected start date %v, got %v", want, gotFilter.StartDate)
		}
	})

	t.Run("rejects limit over 100", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?limit=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetStats(t *testing.T) {
	t.Run("returns summary", func(t *testing.T) {
		svc := &mockTransactionService{
			getSummaryFn: func(_ uint, _ services.DateRange) (*services.TransactionSummary, error) {
				return &services.TransactionSummary{
					Income:    services.TypeTotal{Total: 1500, Count: 2},
					Expense:   services.TypeTotal{Total: 300, Count: 1},
					NetIncome: 1200,
				}, nil
			},
		}
		handler := NewTransactionHandler(svc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/stats", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		data := payload(t, parseJSON(t, rec))
		summary := data["summary"].(map[string]interface{})
		if summary["net_income"].(float64) != 1200 {
			t.Errorf("expected net income 1200, got %v", summary["net_income"])
		}
	})
}

func TestTransactionHandler_GetMonthlyTrends(t *testing.T) {
	t.Run("defaults to six months", func(t *testing.T) {
		var gotMonths int
		svc := &mockTransactionService{
			getMonthlyTrendsFn: func(_ uint, months int) ([]services.MonthlyTrend, error) {
				gotMonths = months
				return []services.MonthlyTrend{}, nil
			},
		}
		handler := NewTransactionHandler(svc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/trends", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotMonths != 6 {
			t.Errorf("expected 6 months default, got %d", gotMonths)
		}
	})

	t.Run("rejects out-of-range months", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/trends?months=99", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("passes recurring fields through", func(t *testing.T) {
		var gotUpdate services.TransactionUpdate
		svc := &mockTransactionService{
			updateTransactionFn: func(_, _ uint, input services.TransactionUpdate) (*models.Transaction, error) {
				gotUpdate = input
				return &models.Transaction{}, nil
			},
		}
		handler := NewTransactionHandler(svc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/1",
			`{"is_recurring":true,"recurring_pattern":{"frequency":"weekly","interval":2}}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUpdate.IsRecurring == nil || !*gotUpdate.IsRecurring {
			t.Error("expected is_recurring true passed through")
		}
		if gotUpdate.Recurring == nil {
			t.Fatal("expected recurring pattern passed through")
		}
		if gotUpdate.Recurring.Frequency != models.RecurringWeekly || gotUpdate.Recurring.Interval != 2 {
			t.Errorf("expected weekly/2, got %s/%d", gotUpdate.Recurring.Frequency, gotUpdate.Recurring.Interval)
		}
	})

	t.Run("rejects bad recurring frequency", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/1",
			`{"recurring_pattern":{"frequency":"hourly"}}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		assertFailure(t, parseJSON(t, rec))
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockTransactionService{
			deleteTransactionFn: func(_, _ uint) error {
				return apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(svc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/42", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
