package insights

import (
	"fmt"
	"slices"
	"strings"

	"fintrack/internal/core"
)

// DefaultRecentTransfers is how many transfers the history shows.
const DefaultRecentTransfers = 10

// Filter selects transactions by type.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterIncome  Filter = "income"
	FilterExpense Filter = "expense"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterIncome, FilterExpense:
		return f, nil
	}
	return "", fmt.Errorf("%w: filter %q", core.ErrInvalidType, s)
}

// FilterTransactions returns the matching transactions, newest date first.
func FilterTransactions(d core.Data, f Filter) []core.Transaction {
	out := make([]core.Transaction, 0, len(d.Transactions))
	for _, t := range d.Transactions {
		if f == FilterAll || f == "" || string(t.Type) == string(f) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Transaction) int { return b.Date.Compare(a.Date.Time) })
	return out
}

// RecentTransfers returns up to n transfers, latest first.
func RecentTransfers(d core.Data, n int) []core.Transfer {
	out := slices.Clone(d.Transfers)
	slices.SortStableFunc(out, func(a, b core.Transfer) int { return b.Timestamp.Compare(a.Timestamp) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
