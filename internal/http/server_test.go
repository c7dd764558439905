package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"moneta/internal/services"
	"moneta/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "moneta.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ledger := services.NewLedger(store)
	budgets := services.NewBudgetEvaluator(store)
	return NewServer("0", Services{
		Finance:   services.NewFinance(store, budgets, nil),
		Ledger:    ledger,
		Transfer:  services.NewTransfer(store, ledger),
		Scheduler: services.NewScheduler(store),
		Budgets:   budgets,
		Reports:   services.NewReports(store),
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func createAccount(t *testing.T, h http.Handler, name, kind string, openingCents int64) int64 {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/accounts", map[string]any{
		"name": name, "kind": kind, "opening_balance_cents": openingCents,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: %d %s", rec.Code, rec.Body.String())
	}
	return int64(decode[map[string]any](t, rec)["id"].(float64))
}

func createCategory(t *testing.T, h http.Handler, name, kind string) int64 {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/categories", map[string]any{
		"name": name, "kind": kind,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", rec.Code, rec.Body.String())
	}
	return int64(decode[map[string]any](t, rec)["id"].(float64))
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAccountLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()

	id := createAccount(t, h, "Checking", "checking", 10_000)

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/accounts/%d", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account: %d", rec.Code)
	}
	got := decode[map[string]any](t, rec)
	if got["name"] != "Checking" || got["opening_balance_cents"].(float64) != 10_000 {
		t.Errorf("account = %v", got)
	}

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/accounts/%d/balance", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance: %d", rec.Code)
	}
	balance := decode[map[string]any](t, rec)
	if balance["balance_cents"].(float64) != 10_000 {
		t.Errorf("balance = %v", balance)
	}

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/accounts/%d", id), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/accounts/%d", id), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	h := newTestServer(t).Handler()

	accID := createAccount(t, h, "Checking", "checking", 1_000)
	createAccount(t, h, "Savings", "cash", 0)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{
			name: "validation 422", method: http.MethodPost, path: "/api/accounts",
			body: map[string]any{"name": "", "kind": "checking"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "not found 404", method: http.MethodGet, path: "/api/transactions/424242",
			want: http.StatusNotFound,
		},
		{
			name: "duplicate name 409", method: http.MethodPost, path: "/api/accounts",
			body: map[string]any{"name": "Checking", "kind": "cash"},
			want: http.StatusConflict,
		},
		{
			name: "insufficient funds 409", method: http.MethodPost, path: "/api/transfers",
			body: map[string]any{
				"source_account_id": accID, "destination_account_id": accID + 1,
				"amount_cents": 999_999, "date": "2025-06-01",
			},
			want: http.StatusConflict,
		},
		{
			name: "malformed body 422", method: http.MethodPost, path: "/api/categories",
			body: nil, want: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestTransactionEntryWithDecimalAmount(t *testing.T) {
	h := newTestServer(t).Handler()

	accID := createAccount(t, h, "Checking", "checking", 0)
	catID := createCategory(t, h, "Food", "expense")

	rec := doJSON(t, h, http.MethodPost, "/api/transactions", map[string]any{
		"description": "groceries",
		"amount":      "12,34",
		"date":        "2025-03-10",
		"kind":        "expense",
		"category_id": catID,
		"account_id":  accID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction: %d %s", rec.Code, rec.Body.String())
	}
	entry := decode[map[string]any](t, rec)
	tr := entry["transaction"].(map[string]any)
	if tr["amount_cents"].(float64) != 1234 {
		t.Errorf("amount_cents = %v, want 1234", tr["amount_cents"])
	}
	if entry["warning"] != nil {
		t.Errorf("warning = %v, want absent", entry["warning"])
	}
}

func TestTransactionEntryCarriesBudgetWarning(t *testing.T) {
	h := newTestServer(t).Handler()

	accID := createAccount(t, h, "Checking", "checking", 0)
	catID := createCategory(t, h, "Food", "expense")

	rec := doJSON(t, h, http.MethodPost, "/api/budgets", map[string]any{
		"category_id": catID, "limit_cents": 10_000, "month": 3, "year": 2025,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/api/transactions", map[string]any{
		"description": "feast",
		"amount_cents": 12_000,
		"date":         "2025-03-10",
		"kind":         "expense",
		"category_id":  catID,
		"account_id":   accID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction: %d %s", rec.Code, rec.Body.String())
	}
	entry := decode[map[string]any](t, rec)
	warning, ok := entry["warning"].(map[string]any)
	if !ok {
		t.Fatalf("no warning in %v", entry)
	}
	if warning["projected_cents"].(float64) != 12_000 {
		t.Errorf("warning = %v", warning)
	}
}

func TestTransferEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	srcID := createAccount(t, h, "Checking", "checking", 50_000)
	dstID := createAccount(t, h, "Savings", "cash", 0)

	rec := doJSON(t, h, http.MethodPost, "/api/transfers", map[string]any{
		"source_account_id":      srcID,
		"destination_account_id": dstID,
		"amount_cents":           20_000,
		"date":                   "2025-06-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("transfer: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/accounts/%d/balance", dstID), nil)
	if got := decode[map[string]any](t, rec)["balance_cents"].(float64); got != 20_000 {
		t.Errorf("destination balance = %v, want 20000", got)
	}
}

func TestProcessRecurringEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	accID := createAccount(t, h, "Checking", "checking", 0)
	catID := createCategory(t, h, "Rent", "expense")

	rec := doJSON(t, h, http.MethodPost, "/api/recurring", map[string]any{
		"description": "rent",
		"amount_cents": 80_000,
		"kind":         "expense",
		"category_id":  catID,
		"account_id":   accID,
		"day_of_month": 31,
		"start_date":   "2025-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recurring: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/api/recurring/process?date=2025-02-28", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("process: %d %s", rec.Code, rec.Body.String())
	}
	out := decode[map[string]any](t, rec)
	results := out["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results = %v", results)
	}
	res := results[0].(map[string]any)
	if res["fired"] != true || res["fire_date"] != "2025-02-28" {
		t.Errorf("result = %v, want fired on clamped date", res)
	}
}

func TestBudgetStatusEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	accID := createAccount(t, h, "Checking", "checking", 0)
	catID := createCategory(t, h, "Food", "expense")

	rec := doJSON(t, h, http.MethodPost, "/api/budgets", map[string]any{
		"category_id": catID, "limit_cents": 10_000, "month": 3, "year": 2025,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget: %d", rec.Code)
	}
	doJSON(t, h, http.MethodPost, "/api/transactions", map[string]any{
		"description": "groceries", "amount_cents": 11_000, "date": "2025-03-02",
		"kind": "expense", "category_id": catID, "account_id": accID,
	})

	rec = doJSON(t, h, http.MethodGet, "/api/budgets/status?month=3&year=2025", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}
	out := decode[map[string]any](t, rec)
	budgets := out["budgets"].([]any)
	if len(budgets) != 1 {
		t.Fatalf("budgets = %v", budgets)
	}
	status := budgets[0].(map[string]any)
	if status["over_budget"] != true || status["spent_cents"].(float64) != 11_000 {
		t.Errorf("status = %v", status)
	}
	if status["remaining_cents"].(float64) != -1_000 {
		t.Errorf("remaining = %v, want -1000", status["remaining_cents"])
	}
}

func TestReportSummaryEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	accID := createAccount(t, h, "Checking", "checking", 0)
	incomeID := createCategory(t, h, "Salary", "income")
	expenseID := createCategory(t, h, "Food", "expense")

	doJSON(t, h, http.MethodPost, "/api/transactions", map[string]any{
		"description": "paycheck", "amount_cents": 200_000, "date": "2025-03-01",
		"kind": "income", "category_id": incomeID, "account_id": accID,
	})
	doJSON(t, h, http.MethodPost, "/api/transactions", map[string]any{
		"description": "groceries", "amount_cents": 30_000, "date": "2025-03-10",
		"kind": "expense", "category_id": expenseID, "account_id": accID,
	})

	rec := doJSON(t, h, http.MethodGet, "/api/reports/summary?from=2025-03-01&to=2025-03-31", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: %d %s", rec.Code, rec.Body.String())
	}
	summary := decode[map[string]any](t, rec)
	if summary["income_cents"].(float64) != 200_000 || summary["balance_cents"].(float64) != 170_000 {
		t.Errorf("summary = %v", summary)
	}
}

func TestTaxonomyCacheInvalidation(t *testing.T) {
	h := newTestServer(t).Handler()

	createAccount(t, h, "Checking", "checking", 0)

	// Prime the cache.
	rec := doJSON(t, h, http.MethodGet, "/api/accounts", nil)
	if got := len(decode[[]map[string]any](t, rec)); got != 1 {
		t.Fatalf("accounts = %d, want 1", got)
	}

	// A write must invalidate it.
	createAccount(t, h, "Savings", "cash", 0)
	rec = doJSON(t, h, http.MethodGet, "/api/accounts", nil)
	if got := len(decode[[]map[string]any](t, rec)); got != 2 {
		t.Errorf("accounts after create = %d, want 2", got)
	}
}
