package services

import (
	"context"
	"errors"
	"fmt"

	"moneta/internal/core"
	"moneta/internal/storage"
)

// BudgetEvaluator answers budget questions for one category and month. All
// its methods are pure reads; going over budget never blocks a write.
type BudgetEvaluator struct {
	gw storage.Gateway
}

func NewBudgetEvaluator(gw storage.Gateway) *BudgetEvaluator {
	return &BudgetEvaluator{gw: gw}
}

// BudgetWarning is the advisory attached to an expense entry that would push
// its category past the configured limit.
type BudgetWarning struct {
	CategoryName string     `json:"category_name"`
	Month        int        `json:"month"`
	Year         int        `json:"year"`
	Limit        core.Money `json:"limit_cents"`
	Projected    core.Money `json:"projected_cents"`
}

func (w BudgetWarning) String() string {
	return fmt.Sprintf("budget for %s exceeded in %02d/%d: projected %s of %s",
		w.CategoryName, w.Month, w.Year, w.Projected, w.Limit)
}

// BudgetFor returns the budget configured for the category in the given
// month, with ok=false when none exists. Income categories never have a
// budget regardless of stored rows.
func (e *BudgetEvaluator) BudgetFor(ctx context.Context, categoryID int64, month, year int) (core.Budget, bool, error) {
	category, err := e.gw.Categories().GetByID(ctx, nil, categoryID)
	if err != nil {
		return core.Budget{}, false, fmt.Errorf("load category: %w", err)
	}
	if category.Kind == core.Income {
		return core.Budget{}, false, nil
	}
	budget, err := e.gw.Budgets().FindByCategoryAndPeriod(ctx, nil, categoryID, month, year)
	if errors.Is(err, core.ErrNotFound) {
		return core.Budget{}, false, nil
	}
	if err != nil {
		return core.Budget{}, false, err
	}
	return budget, true, nil
}

// SpendSoFar sums the category's committed expense transactions inside the
// given calendar month.
func (e *BudgetEvaluator) SpendSoFar(ctx context.Context, categoryID int64, month, year int) (core.Money, error) {
	history, err := e.gw.Transactions().FindByCategoryAndPeriod(ctx, nil, categoryID, month, year)
	if err != nil {
		return core.Money{}, err
	}
	var total int64
	for _, t := range history {
		if t.Kind == core.Expense {
			total += t.Amount.Cents
		}
	}
	return core.Money{Cents: total}, nil
}

// CheckProjected evaluates what the category's spend would become if a
// transaction of the given amount were committed, replacing replacedAmount
// when the entry edits an existing expense (zero for new entries). It
// returns a warning when the projection exceeds the limit and nil otherwise;
// callers treat the warning as advisory.
func (e *BudgetEvaluator) CheckProjected(ctx context.Context, categoryID int64, month, year int, replacedAmount, amount core.Money) (*BudgetWarning, error) {
	budget, ok, err := e.BudgetFor(ctx, categoryID, month, year)
	if err != nil || !ok {
		return nil, err
	}
	spent, err := e.SpendSoFar(ctx, categoryID, month, year)
	if err != nil {
		return nil, err
	}
	projected := spent.Cents - replacedAmount.Cents + amount.Cents
	if projected <= budget.Limit.Cents {
		return nil, nil
	}
	category, err := e.gw.Categories().GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return &BudgetWarning{
		CategoryName: category.Name,
		Month:        month,
		Year:         year,
		Limit:        budget.Limit,
		Projected:    core.Money{Cents: projected},
	}, nil
}
