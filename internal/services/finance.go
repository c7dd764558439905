package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneta/internal/core"
	"moneta/internal/storage"
)

// EventPublisher announces committed transaction writes to the export
// pipeline. Publishing is best-effort; a failure is logged, never propagated.
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, id int64) error
	PublishTransactionDeleted(ctx context.Context, id int64) error
}

/// Finance is the manual-entry service: validated CRUD over every entity,
// with duplicate-name and kind-match rules enforced before any write, and a
// budget advisory attached to expense entries. All writes run inside a unit
// of work.
type Finance struct {
	gw        storage.Gateway
	budgets   *BudgetEvaluator
	publisher EventPublisher // nil when eventing is disabled
}

func NewFinance(gw storage.Gateway, budgets *BudgetEvaluator, publisher EventPublisher) *Finance {
	return &Finance{gw: gw, budgets: budgets, publisher: publisher}
}

// --- accounts ---

func (s *Finance) AddAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return core.Account{}, err
	}
	defer rollback(ctx, tx, "add account")

	if err := s.checkAccountName(ctx, tx, a.Name, 0); err != nil {
		return core.Account{}, err
	}
	if err := s.gw.Accounts().Create(ctx, tx, &a); err != nil {
		return core.Account{}, err
	}
	return a, tx.Commit()
}

func (s *Finance) UpdateAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "update account")

	if err := s.checkAccountName(ctx, tx, a.Name, a.ID); err != nil {
		return err
	}
	if err := s.gw.Accounts().Update(ctx, tx, a); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Finance) DeleteAccount(ctx context.Context, id int64) error {
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "delete account")
	if err := s.gw.Accounts().Delete(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Finance) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	return s.gw.Accounts().GetByID(ctx, nil, id)
}

func (s *Finance) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.gw.Accounts().ListAll(ctx, nil)
}

func (s *Finance) SearchAccounts(ctx context.Context, term string) ([]core.Account, error) {
	return s.gw.Accounts().SearchByName(ctx, nil, term)
}

// checkAccountName rejects a name already taken by a different account.
func (s *Finance) checkAccountName(ctx context.Context, tx storage.Tx, name string, selfID int64) error {
	existing, err := s.gw.Accounts().FindByName(ctx, tx, name)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return core.Consistencyf("account name %q already in use", name)
	}
	return nil
}

// --- categories ---

func (s *Finance) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return core.Category{}, err
	}
	defer rollback(ctx, tx, "add category")

	if err := s.checkCategoryName(ctx, tx, c.Name, 0); err != nil {
		return core.Category{}, err
	}
	if err := s.gw.Categories().Create(ctx, tx, &c); err != nil {
		return core.Category{}, err
	}
	return c, tx.Commit()
}

func (s *Finance) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "update category")

	if err := s.checkCategoryName(ctx, tx, c.Name, c.ID); err != nil {
		return err
	}
	if err := s.gw.Categories().Update(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Finance) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "delete category")
	if err := s.gw.Categories().Delete(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Finance) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	return s.gw.Categories().GetByID(ctx, nil, id)
}

func (s *Finance) FindCategoryByName(ctx context.Context, name string) (core.Category, error) {
	return s.gw.Categories().FindByName(ctx, nil, name)
}

func (s *Finance) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.gw.Categories().ListAll(ctx, nil)
}

func (s *Finance) SearchCategories(ctx context.Context, term string) ([]core.Category, error) {
	return s.gw.Categories().SearchByName(ctx, nil, term)
}

func (s *Finance) checkCategoryName(ctx context.Context, tx storage.Tx, name string, selfID int64) error {
	existing, err := s.gw.Categories().FindByName(ctx, tx, name)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return core.Consistencyf("category name %q already in use", name)
	}
	return nil
}

// --- transactions ---

// AddTransaction validates and commits a manual entry. For expense entries
// with a category it also evaluates the budget advisory; the warning never
// blocks the write, and an advisory evaluation failure is only logged.
func (s *Finance) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, *BudgetWarning, error) {
	warning, err := s.writeTransaction(ctx, &t, core.Money{})
	if err != nil {
		return core.Transaction{}, nil, err
	}
	s.publishCreated(ctx, t.ID)
	return t, warning, nil
}

// UpdateTransaction applies the same rules as AddTransaction. The advisory
// projection subtracts the replaced amount when the edited entry was already
// an expense in the same category and month.
func (s *Finance) UpdateTransaction(ctx context.Context, t core.Transaction) (*BudgetWarning, error) {
	previous, err := s.gw.Transactions().GetByID(ctx, nil, t.ID)
	if err != nil {
		return nil, err
	}
	replaced := replacedAmount(previous, t)
	warning, err := s.writeTransaction(ctx, &t, replaced)
	if err != nil {
		return nil, err
	}
	s.publishCreated(ctx, t.ID)
	return warning, nil
}

func (s *Finance) DeleteTransaction(ctx context.Context, id int64) error {
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "delete transaction")
	if err := s.gw.Transactions().Delete(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.publishDeleted(ctx, id)
	return nil
}

func (s *Finance) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.gw.Transactions().GetByID(ctx, nil, id)
}

func (s *Finance) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.gw.Transactions().ListAll(ctx, nil)
}

func (s *Finance) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	return s.gw.Transactions().FindByAccount(ctx, nil, accountID)
}

func (s *Finance) SearchTransactions(ctx context.Context, term string) ([]core.Transaction, error) {
	return s.gw.Transactions().SearchByDescription(ctx, nil, term)
}

// writeTransaction resolves references, evaluates the advisory, and commits
// the entry (create when t.ID is zero, update otherwise) in one unit of work.
func (s *Finance) writeTransaction(ctx context.Context, t *core.Transaction, replaced core.Money) (*BudgetWarning, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback(ctx, tx, "write transaction")

	if _, err := s.gw.Accounts().GetByID(ctx, tx, t.AccountID); err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}
	if t.CategoryID != nil {
		category, err := s.gw.Categories().GetByID(ctx, tx, *t.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		if category.Kind != t.Kind {
			return nil, core.Consistencyf("transaction kind %s does not match category %q kind %s",
				t.Kind, category.Name, category.Kind)
		}
	}

	var warning *BudgetWarning
	if t.Kind == core.Expense && t.CategoryID != nil {
		warning, err = s.budgets.CheckProjected(ctx, *t.CategoryID, t.Date.Month(), t.Date.Year(), replaced, t.Amount)
		if err != nil {
			slog.WarnContext(ctx, "budget advisory unavailable",
				"category_id", *t.CategoryID, "error", err)
			warning = nil
		}
	}

	if t.ID == 0 {
		err = s.gw.Transactions().Create(ctx, tx, t)
	} else {
		err = s.gw.Transactions().Update(ctx, tx, *t)
	}
	if err != nil {
		return nil, err
	}
	return warning, tx.Commit()
}

// replacedAmount is how much of the category's current month spend the edit
// supersedes: the previous amount when the previous entry was an expense in
// the same category and calendar month as the new one.
func replacedAmount(previous, next core.Transaction) core.Money {
	if previous.Kind != core.Expense || previous.CategoryID == nil || next.CategoryID == nil {
		return core.Money{}
	}
	if *previous.CategoryID != *next.CategoryID || !previous.Date.SameMonth(next.Date) {
		return core.Money{}
	}
	return previous.Amount
}

// --- recurring obligations ---

func (s *Finance) AddRecurring(ctx context.Context, r core.RecurringTransaction) (core.RecurringTransaction, error) {
	if err := r.Validate(); err != nil {
		return core.RecurringTransaction{}, err
	}
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	defer rollback(ctx, tx, "add recurring")

	if err := s.checkRecurringRefs(ctx, tx, r); err != nil {
		return core.RecurringTransaction{}, err
	}
	if err := s.gw.Recurring().Create(ctx, tx, &r); err != nil {
		return core.RecurringTransaction{}, err
	}
	return r, tx.Commit()
}

func (s *Finance) UpdateRecurring(ctx context.Context, r core.RecurringTransaction) error {
	if err := r.Validate(); err != nil {
		return err
	}
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "update recurring")

	if err := s.checkRecurringRefs(ctx, tx, r); err != nil {
		return err
	}
	if err := s.gw.Recurring().Update(ctx, tx, r); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Finance) DeleteRecurring(ctx context.Context, id int64) error {
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "delete recurring")
	if err := s.gw.Recurring().Delete(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Finance) GetRecurring(ctx context.Context, id int64) (core.RecurringTransaction, error) {
	return s.gw.Recurring().GetByID(ctx, nil, id)
}

func (s *Finance) ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error) {
	return s.gw.Recurring().ListAll(ctx, nil)
}

func (s *Finance) SearchRecurring(ctx context.Context, term string) ([]core.RecurringTransaction, error) {
	return s.gw.Recurring().SearchByDescription(ctx, nil, term)
}

func (s *Finance) checkRecurringRefs(ctx context.Context, tx storage.Tx, r core.RecurringTransaction) error {
	if _, err := s.gw.Accounts().GetByID(ctx, tx, r.AccountID); err != nil {
		return fmt.Errorf("resolve account: %w", err)
	}
	category, err := s.gw.Categories().GetByID(ctx, tx, r.CategoryID)
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}
	if category.Kind != r.Kind {
		return core.Consistencyf("recurring transaction kind %s does not match category %q kind %s",
			r.Kind, category.Name, category.Kind)
	}
	return nil
}

// --- budgets ---

func (s *Finance) AddBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return core.Budget{}, err
	}
	defer rollback(ctx, tx, "add budget")

	if err := s.checkBudget(ctx, tx, b, 0); err != nil {
		return core.Budget{}, err
	}
	if err := s.gw.Budgets().Create(ctx, tx, &b); err != nil {
		return core.Budget{}, err
	}
	return b, tx.Commit()
}

func (s *Finance) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "update budget")

	if err := s.checkBudget(ctx, tx, b, b.ID); err != nil {
		return err
	}
	if err := s.gw.Budgets().Update(ctx, tx, b); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Finance) DeleteBudget(ctx context.Context, id int64) error {
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "delete budget")
	if err := s.gw.Budgets().Delete(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Finance) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	return s.gw.Budgets().GetByID(ctx, nil, id)
}

func (s *Finance) ListBudgetsByPeriod(ctx context.Context, month, year int) ([]core.Budget, error) {
	return s.gw.Budgets().ListByPeriod(ctx, nil, month, year)
}

// checkBudget enforces that the category exists, is an expense category, and
// has no other budget in the same period.
func (s *Finance) checkBudget(ctx context.Context, tx storage.Tx, b core.Budget, selfID int64) error {
	category, err := s.gw.Categories().GetByID(ctx, tx, b.CategoryID)
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}
	if category.Kind != core.Expense {
		return core.Consistencyf("budgets apply to expense categories, %q is %s",
			category.Name, category.Kind)
	}
	existing, err := s.gw.Budgets().FindByCategoryAndPeriod(ctx, tx, b.CategoryID, b.Month, b.Year)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return core.Consistencyf("budget for %q already set for %02d/%d",
			category.Name, b.Month, b.Year)
	}
	return nil
}

// --- eventing ---

// publishCreated fires a best-effort created event after a commit. The write
// already succeeded; event failures are logged and swallowed.
func (s *Finance) publishCreated(ctx context.Context, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionCreated(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to publish created event",
			"transaction_id", id, "error", err)
	}
}

func (s *Finance) publishDeleted(ctx context.Context, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionDeleted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to publish deleted event",
			"transaction_id", id, "error", err)
	}
}
