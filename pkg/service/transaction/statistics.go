package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlisik/walletd/pkg/domain"
	"github.com/mlisik/walletd/pkg/repository"
)

// SeriesPoint is one bucket of the income-vs-expense series. Expense is
// reported as a positive magnitude.
type SeriesPoint struct {
	Date    string          `json:"date"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Breakdown splits the caller's entries per category, expenses and income
// separately, each sorted by amount descending.
type Breakdown struct {
	Expenses []CategoryAmount `json:"expenses"`
	Income   []CategoryAmount `json:"income"`
}

// Summary aggregates the caller's entries over a date range.
type Summary struct {
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	NetSavings         decimal.Decimal `json:"net_savings"`
	SavingsRate        decimal.Decimal `json:"savings_rate"`
	TopExpenseCategory *CategoryAmount `json:"top_expense_category,omitempty"`
	TopIncomeCategory  *CategoryAmount `json:"top_income_category,omitempty"`
	TransactionCount   int             `json:"transaction_count"`
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
}

const uncategorized = "Uncategorized"

// defaultRange fills missing bounds: start of the current month through
// tomorrow.
func defaultRange(from, to time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		to = now.Add(24 * time.Hour)
	}
	return from, to
}

// IncomeExpenseSeries buckets the caller's entries by day, or by month
// when the range spans more than 31 days.
func (s *Service) IncomeExpenseSeries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]SeriesPoint, error) {
	from, to = defaultRange(from, to)
	ts, err := s.listBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	byMonth := to.Sub(from) > 31*24*time.Hour
	keyOf := func(t time.Time) (key, label string) {
		if byMonth {
			k := t.Format("2006-01")
			return k, k
		}
		return t.Format("2006-01-02"), t.Format("01-02")
	}

	buckets := map[string]*SeriesPoint{}
	for _, t := range ts {
		key, label := keyOf(t.CreatedAt)
		p, ok := buckets[key]
		if !ok {
			p = &SeriesPoint{Date: key, Label: label, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[key] = p
		}
		if t.IsIncome() {
			p.Income = p.Income.Add(t.Amount)
		} else {
			p.Expense = p.Expense.Add(t.Amount.Abs())
		}
	}

	points := make([]SeriesPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

// CategoryBreakdown groups the caller's entries by category name, split
// into expense and income tables.
func (s *Service) CategoryBreakdown(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Breakdown, error) {
	from, to = defaultRange(from, to)

	var ts []*domain.Transaction
	names := map[uuid.UUID]string{}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		ts, err = uow.Transactions().ListForUser(ctx, userID, repository.TransactionFilter{From: from, To: to})
		if err != nil {
			return err
		}
		categories, err := uow.Categories().ListVisible(ctx, userID)
		if err != nil {
			return err
		}
		for _, c := range categories {
			names[c.ID] = c.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	nameOf := func(t *domain.Transaction) string {
		if t.CategoryID == nil {
			return uncategorized
		}
		if name, ok := names[*t.CategoryID]; ok {
			return name
		}
		return uncategorized
	}

	expenses := map[string]decimal.Decimal{}
	income := map[string]decimal.Decimal{}
	for _, t := range ts {
		if t.IsExpense() {
			name := nameOf(t)
			expenses[name] = expenses[name].Add(t.Amount.Abs())
		} else {
			name := nameOf(t)
			income[name] = income[name].Add(t.Amount)
		}
	}
	return &Breakdown{Expenses: sortedAmounts(expenses), Income: sortedAmounts(income)}, nil
}

// StatisticsSummary aggregates totals and top categories over the range.
func (s *Service) StatisticsSummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*Summary, error) {
	breakdown, err := s.CategoryBreakdown(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	from, to = defaultRange(from, to)
	ts, err := s.listBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	for _, t := range ts {
		if t.IsIncome() {
			totalIncome = totalIncome.Add(t.Amount)
		} else {
			totalExpenses = totalExpenses.Add(t.Amount.Abs())
		}
	}
	net := totalIncome.Sub(totalExpenses)
	rate := decimal.Zero
	if totalIncome.IsPositive() {
		rate = net.Div(totalIncome).Mul(decimal.NewFromInt(100)).Round(2)
	}

	summary := &Summary{
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		NetSavings:       net,
		SavingsRate:      rate,
		TransactionCount: len(ts),
		From:             from,
		To:               to,
	}
	if len(breakdown.Expenses) > 0 {
		summary.TopExpenseCategory = &breakdown.Expenses[0]
	}
	if len(breakdown.Income) > 0 {
		summary.TopIncomeCategory = &breakdown.Income[0]
	}
	return summary, nil
}

func (s *Service) listBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Transaction, error) {
	var ts []*domain.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		ts, err = uow.Transactions().ListForUser(ctx, userID, repository.TransactionFilter{From: from, To: to})
		return err
	})
	return ts, err
}

func sortedAmounts(m map[string]decimal.Decimal) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(m))
	for name, amount := range m {
		out = append(out, CategoryAmount{Category: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
