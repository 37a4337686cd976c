package core

// RecentLimit is the number of transactions reported as recent activity.
const RecentLimit = 5

// Summary is the derived dashboard view of one user's transactions.
type Summary struct {
	TotalIncome        Money            `json:"totalIncome"`
	TotalExpense       Money            `json:"totalExpense"`
	Balance            Money            `json:"balance"`
	IncomeByCategory   map[string]Money `json:"incomeByCategory"`
	ExpenseByCategory  map[string]Money `json:"expenseByCategory"`
	RecentTransactions []Transaction    `json:"recentTransactions"`
}

// Summarize reduces transactions into a Summary.
//
// The input must already be ordered most recent first: the recent list is the
// first RecentLimit entries as given. Transactions whose type is neither
// INCOME nor EXPENSE are left out of every total.
func Summarize(transactions []Transaction) Summary {
	s := Summary{
		TotalIncome:       Zero,
		TotalExpense:      Zero,
		IncomeByCategory:  make(map[string]Money),
		ExpenseByCategory: make(map[string]Money),
	}

	for _, t := range transactions {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			s.IncomeByCategory[t.Category] = s.IncomeByCategory[t.Category].Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			s.ExpenseByCategory[t.Category] = s.ExpenseByCategory[t.Category].Add(t.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)

	n := min(len(transactions), RecentLimit)
	s.RecentTransactions = make([]Transaction, n)
	copy(s.RecentTransactions, transactions[:n])

	return s
}
