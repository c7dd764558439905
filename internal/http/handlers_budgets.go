package http

import (
	"net/http"

	"moneta/internal/core"
)

type budgetPayload struct {
	CategoryID int64      `json:"category_id"`
	LimitCents core.Money `json:"limit_cents"`
	Limit      string     `json:"limit,omitempty"`
	Month      int        `json:"month"`
	Year       int        `json:"year"`
}

func (p budgetPayload) toBudget(id int64) (core.Budget, error) {
	limit, err := amountFrom(p.LimitCents, p.Limit)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		ID:         id,
		CategoryID: p.CategoryID,
		Limit:      limit,
		Month:      p.Month,
		Year:       p.Year,
	}, nil
}

type budgetResponse struct {
	ID         int64      `json:"id"`
	CategoryID int64      `json:"category_id"`
	Limit      core.Money `json:"limit_cents"`
	Month      int        `json:"month"`
	Year       int        `json:"year"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{ID: b.ID, CategoryID: b.CategoryID, Limit: b.Limit, Month: b.Month, Year: b.Year}
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	month, year, err := parsePeriod(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	budgets, err := s.svc.Finance.ListBudgetsByPeriod(ctx, month, year)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	budget, err := payload.toBudget(0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := s.svc.Finance.AddBudget(ctx, budget)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toBudgetResponse(created))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	budget, err := payload.toBudget(id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.svc.Finance.UpdateBudget(ctx, budget); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toBudgetResponse(budget))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.svc.Finance.DeleteBudget(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type budgetStatus struct {
	BudgetID     int64      `json:"budget_id"`
	CategoryID   int64      `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Limit        core.Money `json:"limit_cents"`
	Spent        core.Money `json:"spent_cents"`
	Remaining    core.Money `json:"remaining_cents"`
	OverBudget   bool       `json:"over_budget"`
}

// handleBudgetStatus reports current spend against every budget in the
// period. Spend is always recomputed, never cached.
func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	month, year, err := parsePeriod(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	budgets, err := s.svc.Finance.ListBudgetsByPeriod(ctx, month, year)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]budgetStatus, 0, len(budgets))
	for _, b := range budgets {
		category, err := s.svc.Finance.GetCategory(ctx, b.CategoryID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		spent, err := s.svc.Budgets.SpendSoFar(ctx, b.CategoryID, month, year)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		out = append(out, budgetStatus{
			BudgetID:     b.ID,
			CategoryID:   b.CategoryID,
			CategoryName: category.Name,
			Limit:        b.Limit,
			Spent:        spent,
			Remaining:    core.Money{Cents: b.Limit.Cents - spent.Cents},
			OverBudget:   spent.Cents > b.Limit.Cents,
		})
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"month":   month,
		"year":    year,
		"budgets": out,
	})
}
