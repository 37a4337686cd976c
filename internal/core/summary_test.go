package core

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func tx(id int64, amount string, typ TransactionType, category string, date Date) Transaction {
	return Transaction{ID: id, OwnerID: 1, Amount: MustMoney(amount), Type: typ, Category: category, Date: date}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	if !s.TotalIncome.IsZero() || !s.TotalExpense.IsZero() || !s.Balance.IsZero() {
		t.Fatalf("expected zero totals, got income=%s expense=%s balance=%s", s.TotalIncome, s.TotalExpense, s.Balance)
	}
	if s.IncomeByCategory == nil || len(s.IncomeByCategory) != 0 {
		t.Fatalf("expected empty non-nil income mapping, got %v", s.IncomeByCategory)
	}
	if s.ExpenseByCategory == nil || len(s.ExpenseByCategory) != 0 {
		t.Fatalf("expected empty non-nil expense mapping, got %v", s.ExpenseByCategory)
	}
	if s.RecentTransactions == nil || len(s.RecentTransactions) != 0 {
		t.Fatalf("expected empty non-nil recent list, got %v", s.RecentTransactions)
	}
}

func TestSummarizeDashboardScenario(t *testing.T) {
	// Ordered most recent first, as the service fetches them.
	txs := []Transaction{
		tx(3, "20", Expense, "Food", NewDate(2024, 1, 3)),
		tx(2, "30", Expense, "Food", NewDate(2024, 1, 2)),
		tx(1, "100", Income, "Salary", NewDate(2024, 1, 1)),
	}

	s := Summarize(txs)

	checks := []struct {
		name string
		got  Money
		want string
	}{
		{"total income", s.TotalIncome, "100"},
		{"total expense", s.TotalExpense, "50"},
		{"balance", s.Balance, "50"},
		{"expense Food", s.ExpenseByCategory["Food"], "50"},
		{"income Salary", s.IncomeByCategory["Salary"], "100"},
	}
	for _, c := range checks {
		if !c.got.Equal(MustMoney(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if len(s.ExpenseByCategory) != 1 || len(s.IncomeByCategory) != 1 {
		t.Errorf("unexpected category mappings: income=%v expense=%v", s.IncomeByCategory, s.ExpenseByCategory)
	}
	if len(s.RecentTransactions) != 3 {
		t.Fatalf("expected 3 recent transactions, got %d", len(s.RecentTransactions))
	}
	for i, want := range []int64{3, 2, 1} {
		if s.RecentTransactions[i].ID != want {
			t.Errorf("recent[%d].ID = %d, want %d", i, s.RecentTransactions[i].ID, want)
		}
	}
}

func TestSummarizeRecentTruncatesWithoutSorting(t *testing.T) {
	var txs []Transaction
	// Deliberately not date ordered: the engine must keep input order.
	for i := 0; i < 8; i++ {
		txs = append(txs, tx(int64(i+1), "1", Expense, "X", NewDate(2024, 1, 1+(i*7)%8)))
	}

	s := Summarize(txs)

	if len(s.RecentTransactions) != RecentLimit {
		t.Fatalf("expected %d recent, got %d", RecentLimit, len(s.RecentTransactions))
	}
	for i := range s.RecentTransactions {
		if s.RecentTransactions[i].ID != txs[i].ID {
			t.Fatalf("recent[%d] = %d, want %d", i, s.RecentTransactions[i].ID, txs[i].ID)
		}
	}

	// The recent list must not alias the caller's slice.
	s.RecentTransactions[0].Category = "changed"
	if txs[0].Category != "X" {
		t.Fatalf("recent list aliases input")
	}
}

func TestSummarizeIgnoresUnknownType(t *testing.T) {
	txs := []Transaction{
		tx(1, "10", Income, "Salary", NewDate(2024, 1, 1)),
		tx(2, "99", TransactionType("TRANSFER"), "Moving", NewDate(2024, 1, 1)),
		tx(3, "4", Expense, "Food", NewDate(2024, 1, 1)),
	}

	s := Summarize(txs)

	if !s.TotalIncome.Equal(MustMoney("10")) || !s.TotalExpense.Equal(MustMoney("4")) {
		t.Fatalf("unknown type leaked into totals: income=%s expense=%s", s.TotalIncome, s.TotalExpense)
	}
	if _, ok := s.IncomeByCategory["Moving"]; ok {
		t.Fatalf("unknown type leaked into income categories")
	}
	if _, ok := s.ExpenseByCategory["Moving"]; ok {
		t.Fatalf("unknown type leaked into expense categories")
	}
	if len(s.RecentTransactions) != 3 {
		t.Fatalf("recent list should still contain every input entry, got %d", len(s.RecentTransactions))
	}
}

func TestSummarizeExactDecimal(t *testing.T) {
	// 0.1 + 0.2 drifts in binary floating point.
	txs := []Transaction{
		tx(1, "0.1", Income, "A", NewDate(2024, 1, 1)),
		tx(2, "0.2", Income, "A", NewDate(2024, 1, 1)),
		tx(3, "0.3", Expense, "B", NewDate(2024, 1, 1)),
	}

	s := Summarize(txs)

	if !s.TotalIncome.Equal(MustMoney("0.3")) {
		t.Fatalf("income = %s, want 0.3", s.TotalIncome)
	}
	if !s.Balance.IsZero() {
		t.Fatalf("balance = %s, want 0", s.Balance)
	}
}

func randomTransactions(r *rand.Rand, n int) []Transaction {
	categories := []string{"Food", "Rent", "Salary", "Gifts", "Travel"}
	out := make([]Transaction, n)
	for i := range out {
		typ := Income
		if r.IntN(2) == 0 {
			typ = Expense
		}
		// Up to 4 fractional digits to exercise exactness beyond cents.
		amount := NewMoney(r.Int64N(100_000_000), -int32(r.IntN(5)))
		out[i] = Transaction{
			ID:       int64(i + 1),
			Amount:   amount,
			Type:     typ,
			Category: categories[r.IntN(len(categories))],
			Date:     NewDate(2024, 1+r.IntN(12), 1+r.IntN(28)),
		}
	}
	return out
}

func TestSummarizeProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))

	for round := 0; round < 200; round++ {
		txs := randomTransactions(r, r.IntN(40))
		s := Summarize(txs)

		t.Run(fmt.Sprintf("round_%d", round), func(t *testing.T) {
			if !s.TotalIncome.Sub(s.TotalExpense).Equal(s.Balance) {
				t.Fatalf("income - expense != balance: %s - %s != %s", s.TotalIncome, s.TotalExpense, s.Balance)
			}

			incomeSum := Zero
			for _, v := range s.IncomeByCategory {
				incomeSum = incomeSum.Add(v)
			}
			if !incomeSum.Equal(s.TotalIncome) {
				t.Fatalf("sum(incomeByCategory) = %s, total income = %s", incomeSum, s.TotalIncome)
			}

			expenseSum := Zero
			for _, v := range s.ExpenseByCategory {
				expenseSum = expenseSum.Add(v)
			}
			if !expenseSum.Equal(s.TotalExpense) {
				t.Fatalf("sum(expenseByCategory) = %s, total expense = %s", expenseSum, s.TotalExpense)
			}

			if want := min(RecentLimit, len(txs)); len(s.RecentTransactions) != want {
				t.Fatalf("recent length = %d, want %d", len(s.RecentTransactions), want)
			}
			for i := range s.RecentTransactions {
				if s.RecentTransactions[i].ID != txs[i].ID {
					t.Fatalf("recent order not preserved at %d", i)
				}
			}

			// Order independence of the totals.
			reversed := make([]Transaction, len(txs))
			for i := range txs {
				reversed[len(txs)-1-i] = txs[i]
			}
			rs := Summarize(reversed)
			if !rs.Balance.Equal(s.Balance) || !rs.TotalIncome.Equal(s.TotalIncome) {
				t.Fatalf("totals depend on input order")
			}
		})
	}
}
