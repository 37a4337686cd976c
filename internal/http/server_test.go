package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"budget/internal/core"
	"budget/internal/memory"
	"budget/internal/services"
)

type testEnv struct {
	srv   *Server
	store *memory.Store
}

func newTestEnv(t *testing.T, rateLimit int) *testEnv {
	t.Helper()
	store := memory.New()
	txs := services.NewTransactionService(store, store, nil).
		WithClock(func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) })
	users := services.NewUserService(store).WithHashCost(bcrypt.MinCost)

	srv := NewServer(":0", Dependencies{
		Transactions: txs,
		Users:        users,
		Activity:     store,
		Directory:    store,
	}, Options{RateLimitPerMinute: rateLimit})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, store: store}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, email, fullname string) int64 {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"`+email+`","fullname":"`+fullname+`","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("register %s: status %d body %s", email, rec.Code, rec.Body)
	}
	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.UserID
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body, err)
	}
	return resp.Error
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, 100)
	id := env.register(t, "alice@example.com", "Alice")

	rec := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"Alice@Example.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d body %s", rec.Code, rec.Body)
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.UserID != id || resp.Fullname != "Alice" || resp.Message != "Login successful" {
		t.Errorf("unexpected login response %+v", resp)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong!!"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad password: status %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"alice@example.com","fullname":"Other","password":"secret1"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate email: status %d, want 409", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/register", `{"email":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status %d, want 400", rec.Code)
	}
}

func TestDashboardScenario(t *testing.T) {
	env := newTestEnv(t, 100)
	env.register(t, "alice@example.com", "Alice")

	bodies := []string{
		`{"amount":3000,"category":"Salary","type":"INCOME","date":"2024-06-01"}`,
		`{"amount":"100.50","category":"Food","type":"EXPENSE","date":"2024-06-02"}`,
		`{"amount":49.5,"category":"Food","type":"expense","date":"2024-06-03"}`,
		`{"amount":"800","category":"Rent","type":"EXPENSE"}`,
	}
	for _, b := range bodies {
		rec := env.do(t, http.MethodPost, "/api/transactions?userEmail=alice@example.com", b)
		if rec.Code != http.StatusOK {
			t.Fatalf("add %s: status %d body %s", b, rec.Code, rec.Body)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/transactions/dashboard?userEmail=alice@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status %d body %s", rec.Code, rec.Body)
	}
	var summary core.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}

	checks := []struct {
		name string
		got  core.Money
		want string
	}{
		{"totalIncome", summary.TotalIncome, "3000"},
		{"totalExpense", summary.TotalExpense, "950"},
		{"balance", summary.Balance, "2050"},
		{"expense Food", summary.ExpenseByCategory["Food"], "150"},
		{"expense Rent", summary.ExpenseByCategory["Rent"], "800"},
		{"income Salary", summary.IncomeByCategory["Salary"], "3000"},
	}
	for _, c := range checks {
		if !c.got.Equal(core.MustMoney(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	if len(summary.RecentTransactions) != 4 {
		t.Fatalf("recent = %d, want 4", len(summary.RecentTransactions))
	}
	// The undated Rent entry defaults to the clock's day, the latest.
	first := summary.RecentTransactions[0]
	if first.Category != "Rent" || first.Date.String() != "2024-06-15" {
		t.Errorf("first recent = %+v", first)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	env := newTestEnv(t, 100)
	env.register(t, "alice@example.com", "Alice")

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"missing amount", "/api/transactions?userEmail=alice@example.com", `{"category":"Food","type":"EXPENSE"}`, http.StatusBadRequest},
		{"null amount", "/api/transactions?userEmail=alice@example.com", `{"amount":null,"category":"Food","type":"EXPENSE"}`, http.StatusBadRequest},
		{"negative amount", "/api/transactions?userEmail=alice@example.com", `{"amount":-5,"category":"Food","type":"EXPENSE"}`, http.StatusBadRequest},
		{"blank category", "/api/transactions?userEmail=alice@example.com", `{"amount":5,"category":"  ","type":"EXPENSE"}`, http.StatusBadRequest},
		{"unknown type", "/api/transactions?userEmail=alice@example.com", `{"amount":5,"category":"Food","type":"TRANSFER"}`, http.StatusBadRequest},
		{"bad date", "/api/transactions?userEmail=alice@example.com", `{"amount":5,"category":"Food","type":"EXPENSE","date":"15/06/2024"}`, http.StatusBadRequest},
		{"no email", "/api/transactions", `{"amount":5,"category":"Food","type":"EXPENSE"}`, http.StatusBadRequest},
		{"unknown user", "/api/transactions?userEmail=nobody@example.com", `{"amount":5,"category":"Food","type":"EXPENSE"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			if errorMessage(t, rec) == "" {
				t.Error("expected an error message")
			}
		})
	}

	rec := env.do(t, http.MethodGet, "/api/transactions?userEmail=alice@example.com", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("rejected drafts were stored: %s", rec.Body)
	}
}

func TestDateRange(t *testing.T) {
	env := newTestEnv(t, 100)
	env.register(t, "alice@example.com", "Alice")
	for _, d := range []string{"2024-01-10", "2024-02-10", "2024-03-10"} {
		env.do(t, http.MethodPost, "/api/transactions?userEmail=alice@example.com",
			`{"amount":1,"category":"Misc","type":"EXPENSE","date":"`+d+`"}`)
	}

	rec := env.do(t, http.MethodGet,
		"/api/transactions/date-range?userEmail=alice@example.com&startDate=2024-02-10&endDate=2024-03-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 || txs[0].Date.String() != "2024-03-10" || txs[1].Date.String() != "2024-02-10" {
		t.Errorf("unexpected range result %+v", txs)
	}

	for _, q := range []string{
		"startDate=2024-03-10&endDate=2024-02-10",
		"startDate=2024-02-10",
		"startDate=bad&endDate=2024-02-10",
	} {
		rec := env.do(t, http.MethodGet, "/api/transactions/date-range?userEmail=alice@example.com&"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, rec.Code)
		}
	}
}

func TestDeleteTransaction(t *testing.T) {
	env := newTestEnv(t, 100)
	env.register(t, "alice@example.com", "Alice")
	env.register(t, "bob@example.com", "Bob")

	rec := env.do(t, http.MethodPost, "/api/transactions?userEmail=alice@example.com",
		`{"amount":10,"category":"Food","type":"EXPENSE"}`)
	var tx core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &tx); err != nil {
		t.Fatal(err)
	}

	target := "/api/transactions/" + jsonInt(tx.ID)
	if rec := env.do(t, http.MethodDelete, target+"?userEmail=bob@example.com", ""); rec.Code != http.StatusForbidden {
		t.Errorf("other owner: status %d, want 403", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/api/transactions/abc?userEmail=alice@example.com", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status %d, want 400", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/api/transactions/999?userEmail=alice@example.com", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing: status %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, target+"?userEmail=alice@example.com", ""); rec.Code != http.StatusOK {
		t.Errorf("owner: status %d, want 200", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, target+"?userEmail=alice@example.com", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", rec.Code)
	}
}

func TestActivityRoute(t *testing.T) {
	env := newTestEnv(t, 100)
	id := env.register(t, "alice@example.com", "Alice")

	err := env.store.RecordActivity(context.Background(), core.Activity{
		EventID:       "ev-1",
		Kind:          core.EventTransactionCreated,
		OwnerID:       id,
		TransactionID: 1,
		Amount:        core.MustMoney("5"),
		Type:          core.Expense,
		Category:      "Food",
		Date:          core.NewDate(2024, 6, 1),
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodGet, "/api/activity?userEmail=alice@example.com&limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body)
	}
	var entries []core.Activity
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].EventID != "ev-1" {
		t.Errorf("unexpected activity %+v", entries)
	}

	if rec := env.do(t, http.MethodGet, "/api/activity?userEmail=alice@example.com&limit=0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0: status %d, want 400", rec.Code)
	}
}

func TestMiddlewareChain(t *testing.T) {
	env := newTestEnv(t, 2)

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		env.srv.Handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status %d, want 204", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("allow origin %q", got)
		}
	})

	t.Run("request id and headers", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/healthz", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("healthz status %d", rec.Code)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("missing security headers")
		}
	})

	t.Run("rate limit on mutating requests", func(t *testing.T) {
		var last int
		for i := 0; i < 3; i++ {
			last = env.do(t, http.MethodPost, "/api/auth/login", `{"email":"x@example.com","password":"secret1"}`).Code
		}
		if last != http.StatusTooManyRequests {
			t.Errorf("third POST status %d, want 429", last)
		}
		if rec := env.do(t, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
			t.Errorf("GET should not be limited, got %d", rec.Code)
		}
	})
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
