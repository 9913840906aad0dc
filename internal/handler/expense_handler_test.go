package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/export"
)

func (s *testServer) addExpense(t *testing.T, token string, body map[string]interface{}) *domain.Expense {
	t.Helper()
	rec := s.do(http.MethodPost, "/expense/add-expense", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var expense domain.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &expense); err != nil {
		t.Fatalf("Failed to unmarshal expense: %v", err)
	}
	return &expense
}

func TestAddExpense_Success(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel", "Petrol", "Diesel")
	token := s.tokenFor(t, domain.RoleAccountant)

	expense := s.addExpense(t, token, map[string]interface{}{
		"category":      "Fuel",
		"subCategory":   "Petrol",
		"date":          "2024-01-15",
		"amount":        150.5,
		"paymentStatus": "Paid",
		"paymentMode":   "Cash",
	})

	if expense.ID == "" {
		t.Error("Expected an ID")
	}
	if !expense.Amount.Equal(decimal.RequireFromString("150.5")) {
		t.Errorf("Expected amount 150.5, got %s", expense.Amount)
	}
	if expense.PaymentMode == nil || *expense.PaymentMode != domain.PaymentModeCash {
		t.Errorf("Expected payment mode Cash, got %v", expense.PaymentMode)
	}

	rec := s.do(http.MethodGet, "/expense/"+expense.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 reading back, got %d", rec.Code)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{
			name:  "missing category",
			body:  map[string]interface{}{"date": "2024-01-15", "amount": 10, "paymentStatus": "Pending"},
			field: "category",
		},
		{
			name:  "bad status",
			body:  map[string]interface{}{"category": "Fuel", "date": "2024-01-15", "amount": 10, "paymentStatus": "Later"},
			field: "paymentStatus",
		},
		{
			name:  "paid without mode",
			body:  map[string]interface{}{"category": "Fuel", "date": "2024-01-15", "amount": 10, "paymentStatus": "Paid"},
			field: "paymentMode",
		},
		{
			name:  "subcategory not in category",
			body:  map[string]interface{}{"category": "Fuel", "subCategory": "Coal", "date": "2024-01-15", "amount": 10, "paymentStatus": "Pending"},
			field: "subCategory",
		},
		{
			name:  "bad amount",
			body:  map[string]interface{}{"category": "Fuel", "date": "2024-01-15", "amount": "ten", "paymentStatus": "Pending"},
			field: "amount",
		},
		{
			name:  "amount with three decimals",
			body:  map[string]interface{}{"category": "Fuel", "date": "2024-01-15", "amount": "10.005", "paymentStatus": "Pending"},
			field: "amount",
		},
		{
			name:  "amount too large",
			body:  map[string]interface{}{"category": "Fuel", "date": "2024-01-15", "amount": "1e13", "paymentStatus": "Pending"},
			field: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.categories.AddCategory("Fuel", "Petrol")
			token := s.tokenFor(t, domain.RoleAccountant)

			rec := s.do(http.MethodPost, "/expense/add-expense", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			problem := decodeProblem(t, rec)
			if len(problem.Errors) == 0 || problem.Errors[0].Field != tt.field {
				t.Errorf("Expected field error on %s, got %+v", tt.field, problem.Errors)
			}
			if len(s.expenses.Expenses) != 0 {
				t.Error("Expected nothing to be stored")
			}
		})
	}
}

func TestAddExpense_PendingDropsMode(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Rent")
	token := s.tokenFor(t, domain.RoleAccountant)

	expense := s.addExpense(t, token, map[string]interface{}{
		"category":      "Rent",
		"date":          "2024-01-01",
		"amount":        "1000",
		"paymentStatus": "Pending",
		"paymentMode":   "Online",
	})
	if expense.PaymentMode != nil {
		t.Errorf("Expected pending expense without mode, got %v", *expense.PaymentMode)
	}
}

func TestAddExpense_MultipartWithFile(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	token := s.tokenFor(t, domain.RoleAccountant)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("category", "Fuel")
	_ = w.WriteField("date", "2024-01-15")
	_ = w.WriteField("amount", "99.99")
	_ = w.WriteField("paymentStatus", "Paid")
	_ = w.WriteField("paymentMode", "Online")
	part, _ := w.CreateFormFile("file", "receipt.pdf")
	_, _ = part.Write([]byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/expense/add-expense", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var expense domain.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &expense); err != nil {
		t.Fatalf("Failed to unmarshal expense: %v", err)
	}
	if !strings.HasPrefix(expense.FileURL, "/uploads/") || !strings.HasSuffix(expense.FileURL, ".pdf") {
		t.Errorf("Unexpected file reference %q", expense.FileURL)
	}
	if !s.files.Has(expense.FileURL) {
		t.Error("Expected attachment to be stored")
	}
}

func TestAddExpense_StaffForbidden(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	token := s.tokenFor(t, domain.RoleStaff)

	rec := s.do(http.MethodPost, "/expense/add-expense", token, map[string]interface{}{
		"category": "Fuel", "date": "2024-01-15", "amount": 1, "paymentStatus": "Pending",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestDeleteExpense_RoleGate(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	accountant := s.tokenFor(t, domain.RoleAccountant)
	staff := s.tokenFor(t, domain.RoleStaff)
	admin := s.tokenFor(t, domain.RoleAdmin)

	expense := s.addExpense(t, accountant, map[string]interface{}{
		"category": "Fuel", "date": "2024-01-15", "amount": 40, "paymentStatus": "Paid", "paymentMode": "Cash",
	})

	for _, token := range []string{staff, accountant} {
		rec := s.do(http.MethodDelete, "/expense/delete-expense/"+expense.ID, token, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", rec.Code)
		}
	}
	if _, ok := s.expenses.Expenses[expense.ID]; !ok {
		t.Fatal("Expected expense to survive forbidden deletes")
	}

	rec := s.do(http.MethodDelete, "/expense/delete-expense/"+expense.ID, admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	rec = s.do(http.MethodGet, "/expense/"+expense.ID, admin, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", rec.Code)
	}
	if msg := decodeProblem(t, rec).Message; msg != "Expense not found" {
		t.Errorf("Expected 'Expense not found', got %q", msg)
	}
}

func TestUpdateExpense_Partial(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	admin := s.tokenFor(t, domain.RoleAdmin)

	expense := s.addExpense(t, admin, map[string]interface{}{
		"category": "Fuel", "date": "2024-01-15", "amount": 40, "paymentStatus": "Pending",
	})

	rec := s.do(http.MethodPut, "/expense/update-expense/"+expense.ID, admin, map[string]interface{}{
		"paymentStatus": "Paid",
		"paymentMode":   "BlackBox",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated domain.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to unmarshal expense: %v", err)
	}
	if !updated.IsPaid() || updated.PaymentMode == nil || *updated.PaymentMode != domain.PaymentModeBlackBox {
		t.Errorf("Expected Paid/BlackBox, got %s/%v", updated.PaymentStatus, updated.PaymentMode)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected amount to stay 40, got %s", updated.Amount)
	}
}

func TestMonthlyExpenseSummary(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	s.categories.AddCategory("Rent")
	s.categories.AddCategory(domain.LoansAndInterests)
	token := s.tokenFor(t, domain.RoleAccountant)

	for _, body := range []map[string]interface{}{
		{"category": "Fuel", "date": "2024-01-05", "amount": 100, "paymentStatus": "Paid", "paymentMode": "Cash"},
		{"category": "Rent", "date": "2024-01-10", "amount": 300, "paymentStatus": "Paid", "paymentMode": "Online"},
		{"category": "Rent", "date": "2024-01-11", "amount": 999, "paymentStatus": "Pending"},
		{"category": domain.LoansAndInterests, "date": "2024-01-12", "amount": 500, "paymentStatus": "Paid", "paymentMode": "Online"},
		{"category": "Fuel", "date": "2024-02-01", "amount": 70, "paymentStatus": "Paid", "paymentMode": "Cash"},
	} {
		s.addExpense(t, token, body)
	}

	rec := s.do(http.MethodGet, "/expense/monthly-expense?month=1&year=2024", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var summary domain.ExpenseSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to unmarshal summary: %v", err)
	}
	if !summary.Total.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected total 400, got %s", summary.Total)
	}
	if !summary.LoansAndInterests.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected loans & interests 500, got %s", summary.LoansAndInterests)
	}

	percentages := map[string]string{}
	for _, entry := range summary.Breakdown {
		percentages[entry.Category] = entry.Percentage
	}
	if percentages["Fuel"] != "25.00" || percentages["Rent"] != "75.00" {
		t.Errorf("Unexpected breakdown percentages: %v", percentages)
	}
}

func TestExpenseWindowErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(t, domain.RoleAccountant)

	paths := []string{
		"/expense/monthly-expense?month=13&year=2024",
		"/expense/monthly-expense?year=2024",
		"/expense/yearly-expense?year=abc",
		"/expense/date-range-expense?fromDate=2024-02-01&toDate=2024-01-01",
		"/expense/date-range-expense?fromDate=01-02-2024&toDate=2024-03-01",
		"/expense/export",
	}
	for _, path := range paths {
		rec := s.do(http.MethodGet, path, token, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, rec.Code)
		}
	}
}

func TestExpenseExport(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory("Fuel")
	token := s.tokenFor(t, domain.RoleAccountant)
	s.addExpense(t, token, map[string]interface{}{
		"category": "Fuel", "date": "2024-01-05", "amount": 100, "paymentStatus": "Paid", "paymentMode": "Cash",
	})

	rec := s.do(http.MethodGet, "/expense/export?month=1&year=2024", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != export.ContentType {
		t.Errorf("Expected content type %s, got %s", export.ContentType, ct)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentDisposition), ".xlsx") {
		t.Errorf("Expected an xlsx attachment, got %q", rec.Header().Get(echo.HeaderContentDisposition))
	}
	// XLSX files are zip archives
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("Expected a zip payload")
	}
}
