package http

import (
	"net/http"

	"moneta/internal/core"
	"moneta/internal/services"
)

type transactionPayload struct {
	Description string     `json:"description"`
	AmountCents core.Money `json:"amount_cents"`
	Amount      string     `json:"amount,omitempty"`
	Date        core.Date  `json:"date"`
	Kind        string     `json:"kind"`
	CategoryID  *int64     `json:"category_id"`
	AccountID   int64      `json:"account_id"`
}

func (p transactionPayload) toTransaction(id int64) (core.Transaction, error) {
	amount, err := amountFrom(p.AmountCents, p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          id,
		Description: p.Description,
		Amount:      amount,
		Date:        p.Date,
		Kind:        core.TransactionKind(p.Kind),
		CategoryID:  p.CategoryID,
		AccountID:   p.AccountID,
	}, nil
}

type transactionResponse struct {
	ID            int64                `json:"id"`
	Description   string               `json:"description"`
	Amount        core.Money           `json:"amount_cents"`
	AmountDisplay string               `json:"amount_display"`
	Date          core.Date            `json:"date"`
	Kind          core.TransactionKind `json:"kind"`
	CategoryID    *int64               `json:"category_id"`
	AccountID     int64                `json:"account_id"`
}

// entryResponse is the create/update reply: the committed transaction plus
// the advisory budget warning, when one applies.
type entryResponse struct {
	Transaction transactionResponse     `json:"transaction"`
	Warning     *services.BudgetWarning `json:"warning,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Description:   t.Description,
		Amount:        t.Amount,
		AmountDisplay: t.Amount.Display(),
		Date:          t.Date,
		Kind:          t.Kind,
		CategoryID:    t.CategoryID,
		AccountID:     t.AccountID,
	}
}

func toTransactionResponses(transactions []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		transactions []core.Transaction
		err          error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		transactions, err = s.svc.Finance.SearchTransactions(ctx, term)
	} else {
		transactions, err = s.svc.Finance.ListTransactions(ctx)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toTransactionResponses(transactions))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	t, err := payload.toTransaction(0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	created, warning, err := s.svc.Finance.AddTransaction(ctx, t)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, entryResponse{
		Transaction: toTransactionResponse(created),
		Warning:     warning,
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	t, err := s.svc.Finance.GetTransaction(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var payload transactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	t, err := payload.toTransaction(id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	warning, err := s.svc.Finance.UpdateTransaction(ctx, t)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, entryResponse{
		Transaction: toTransactionResponse(t),
		Warning:     warning,
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.svc.Finance.DeleteTransaction(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferPayload struct {
	SourceAccountID      int64      `json:"source_account_id"`
	DestinationAccountID int64      `json:"destination_account_id"`
	AmountCents          core.Money `json:"amount_cents"`
	Amount               string     `json:"amount,omitempty"`
	Date                 core.Date  `json:"date"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload transferPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	amount, err := amountFrom(payload.AmountCents, payload.Amount)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	err = s.svc.Transfer.Execute(ctx, payload.SourceAccountID, payload.DestinationAccountID, amount, payload.Date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, map[string]string{"status": "transferred"})
}
