package services

import (
	"context"
	"fmt"

	"moneta/internal/core"
	"moneta/internal/storage"
)

// Reports computes period summaries over the transaction log. Everything
// here is a pure read; income and expense totals count categorized
// transactions only, which keeps transfer legs out of the summaries.
type Reports struct {
	gw storage.Gateway
}

func NewReports(gw storage.Gateway) *Reports {
	return &Reports{gw: gw}
}

// BalanceForPeriod is income minus expenses inside [from, to].
func (r *Reports) BalanceForPeriod(ctx context.Context, from, to core.Date) (core.Money, error) {
	income, err := r.totalByKind(ctx, from, to, core.Income)
	if err != nil {
		return core.Money{}, err
	}
	expenses, err := r.totalByKind(ctx, from, to, core.Expense)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: income.Cents - expenses.Cents}, nil
}

// TotalIncome sums categorized income inside [from, to].
func (r *Reports) TotalIncome(ctx context.Context, from, to core.Date) (core.Money, error) {
	return r.totalByKind(ctx, from, to, core.Income)
}

// TotalExpenses sums categorized expenses inside [from, to].
func (r *Reports) TotalExpenses(ctx context.Context, from, to core.Date) (core.Money, error) {
	return r.totalByKind(ctx, from, to, core.Expense)
}

func (r *Reports) totalByKind(ctx context.Context, from, to core.Date, kind core.TransactionKind) (core.Money, error) {
	all, err := r.gw.Transactions().ListAll(ctx, nil)
	if err != nil {
		return core.Money{}, err
	}
	var total int64
	for _, t := range all {
		if t.Kind == kind && t.CategoryID != nil && t.Date.InPeriod(from, to) {
			total += t.Amount.Cents
		}
	}
	return core.Money{Cents: total}, nil
}

// ExpensesByCategory breaks period expenses down by category name.
func (r *Reports) ExpensesByCategory(ctx context.Context, from, to core.Date) (map[string]core.Money, error) {
	categories, err := r.gw.Categories().ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	all, err := r.gw.Transactions().ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]core.Money)
	for _, t := range all {
		if t.Kind != core.Expense || t.CategoryID == nil || !t.Date.InPeriod(from, to) {
			continue
		}
		name, ok := names[*t.CategoryID]
		if !ok {
			continue
		}
		totals[name] = core.Money{Cents: totals[name].Cents + t.Amount.Cents}
	}
	return totals, nil
}

// NetWorthPoint is one day in a net-worth series.
type NetWorthPoint struct {
	Date  core.Date  `json:"date"`
	Total core.Money `json:"total_cents"`
}

// NetWorthEvolution returns a day-by-day series of total net worth across
// all accounts for [from, to]. The base is the sum of opening balances
// (credit-card openings count as debt) plus every movement dated before
// from; each day then accumulates that day's movements. Every transaction
// counts here, categorized or not, since transfers shift money between
// accounts without changing the total.
func (r *Reports) NetWorthEvolution(ctx context.Context, from, to core.Date) ([]NetWorthPoint, error) {
	if to.Before(from.Time) {
		return nil, core.Validationf("period end %s before start %s", to, from)
	}
	accounts, err := r.gw.Accounts().ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	all, err := r.gw.Transactions().ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	var base int64
	for _, a := range accounts {
		if a.Kind == core.CreditCard {
			base -= a.OpeningBalance.Cents
		} else {
			base += a.OpeningBalance.Cents
		}
	}

	deltaByDay := make(map[string]int64)
	for _, t := range all {
		delta := t.Amount.Cents
		if t.Kind == core.Expense {
			delta = -delta
		}
		if t.Date.Before(from.Time) {
			base += delta
		} else if !t.Date.After(to.Time) {
			deltaByDay[t.Date.String()] += delta
		}
	}

	var series []NetWorthPoint
	running := base
	for day := from; !day.After(to.Time); day = core.DateOf(day.AddDate(0, 0, 1)) {
		running += deltaByDay[day.String()]
		series = append(series, NetWorthPoint{Date: day, Total: core.Money{Cents: running}})
	}
	return series, nil
}

// PeriodSummary bundles the headline numbers for one period.
type PeriodSummary struct {
	From     core.Date  `json:"from"`
	To       core.Date  `json:"to"`
	Income   core.Money `json:"income_cents"`
	Expenses core.Money `json:"expenses_cents"`
	Balance  core.Money `json:"balance_cents"`
}

// Summary computes income, expenses, and their balance for [from, to].
func (r *Reports) Summary(ctx context.Context, from, to core.Date) (PeriodSummary, error) {
	income, err := r.TotalIncome(ctx, from, to)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("total income: %w", err)
	}
	expenses, err := r.TotalExpenses(ctx, from, to)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("total expenses: %w", err)
	}
	return PeriodSummary{
		From:     from,
		To:       to,
		Income:   income,
		Expenses: expenses,
		Balance:  core.Money{Cents: income.Cents - expenses.Cents},
	}, nil
}
