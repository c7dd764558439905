package http

import (
	"net/http"
	"strings"

	"moneta/internal/core"
)

type recurringPayload struct {
	Description string     `json:"description"`
	AmountCents core.Money `json:"amount_cents"`
	Amount      string     `json:"amount,omitempty"`
	Kind        string     `json:"kind"`
	CategoryID  int64      `json:"category_id"`
	AccountID   int64      `json:"account_id"`
	DayOfMonth  int        `json:"day_of_month"`
	StartDate   core.Date  `json:"start_date"`
	EndDate     core.Date  `json:"end_date"`
}

func (p recurringPayload) toRecurring(id int64) (core.RecurringTransaction, error) {
	amount, err := amountFrom(p.AmountCents, p.Amount)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	return core.RecurringTransaction{
		ID:          id,
		Description: p.Description,
		Amount:      amount,
		Kind:        core.TransactionKind(p.Kind),
		CategoryID:  p.CategoryID,
		AccountID:   p.AccountID,
		DayOfMonth:  p.DayOfMonth,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
	}, nil
}

type recurringResponse struct {
	ID            int64                `json:"id"`
	Description   string               `json:"description"`
	Amount        core.Money           `json:"amount_cents"`
	Kind          core.TransactionKind `json:"kind"`
	CategoryID    int64                `json:"category_id"`
	AccountID     int64                `json:"account_id"`
	DayOfMonth    int                  `json:"day_of_month"`
	StartDate     core.Date            `json:"start_date"`
	EndDate       core.Date            `json:"end_date"`
	LastProcessed core.Date            `json:"last_processed"`
}

func toRecurringResponse(rec core.RecurringTransaction) recurringResponse {
	return recurringResponse{
		ID:            rec.ID,
		Description:   rec.Description,
		Amount:        rec.Amount,
		Kind:          rec.Kind,
		CategoryID:    rec.CategoryID,
		AccountID:     rec.AccountID,
		DayOfMonth:    rec.DayOfMonth,
		StartDate:     rec.StartDate,
		EndDate:       rec.EndDate,
		LastProcessed: rec.LastProcessed,
	}
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		obligations []core.RecurringTransaction
		err         error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		obligations, err = s.svc.Finance.SearchRecurring(ctx, term)
	} else {
		obligations, err = s.svc.Finance.ListRecurring(ctx)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]recurringResponse, 0, len(obligations))
	for _, rec := range obligations {
		out = append(out, toRecurringResponse(rec))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload recurringPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	rec, err := payload.toRecurring(0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := s.svc.Finance.AddRecurring(ctx, rec)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, toRecurringResponse(created))
}

func (s *Server) handleGetRecurring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rec, err := s.svc.Finance.GetRecurring(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toRecurringResponse(rec))
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var payload recurringPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	rec, err := payload.toRecurring(id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	// Preserve the idempotency marker across edits.
	existing, err := s.svc.Finance.GetRecurring(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rec.LastProcessed = existing.LastProcessed
	if err := s.svc.Finance.UpdateRecurring(ctx, rec); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toRecurringResponse(rec))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.svc.Finance.DeleteRecurring(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type processResult struct {
	ObligationID int64     `json:"obligation_id"`
	Description  string    `json:"description"`
	Fired        bool      `json:"fired"`
	FireDate     core.Date `json:"fire_date"`
	Error        string    `json:"error,omitempty"`
}

// handleProcessRecurring runs one on-demand scheduling pass. The reference
// date comes from the "date" query parameter, defaulting to today.
func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reference := core.Today()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		parsed, err := core.ParseDate(v)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		reference = parsed
	}

	results, err := s.svc.Scheduler.Process(ctx, reference)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	out := make([]processResult, 0, len(results))
	for _, res := range results {
		pr := processResult{
			ObligationID: res.ObligationID,
			Description:  res.Description,
			Fired:        res.Fired,
			FireDate:     res.FireDate,
		}
		if res.Err != nil {
			pr.Error = res.Err.Error()
		}
		out = append(out, pr)
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"reference_date": reference,
		"results":        out,
	})
}
