package http

import (
	"net/http"

	"moneta/internal/core"
)

const accountsCacheKey = "accounts"

type accountPayload struct {
	Name                string     `json:"name"`
	OpeningBalanceCents core.Money `json:"opening_balance_cents"`
	OpeningBalance      string     `json:"opening_balance,omitempty"`
	Kind                string     `json:"kind"`
}

type accountResponse struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	OpeningBalance core.Money       `json:"opening_balance_cents"`
	Kind           core.AccountKind `json:"kind"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{ID: a.ID, Name: a.Name, OpeningBalance: a.OpeningBalance, Kind: a.Kind}
}

func (p accountPayload) toAccount(id int64) (core.Account, error) {
	opening, err := amountFrom(p.OpeningBalanceCents, p.OpeningBalance)
	if err != nil {
		return core.Account{}, err
	}
	return core.Account{
		ID:             id,
		Name:           p.Name,
		OpeningBalance: opening,
		Kind:           core.AccountKind(p.Kind),
	}, nil
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.URL.Query().Get("q") != "" {
		accounts, err := s.svc.Finance.SearchAccounts(ctx, r.URL.Query().Get("q"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toAccountResponses(accounts))
		return
	}

	if cached, ok := s.taxonomy.Get(accountsCacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}
	accounts, err := s.svc.Finance.ListAccounts(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	body := marshalForCache(toAccountResponses(accounts))
	if body != nil {
		s.taxonomy.Set(accountsCacheKey, body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toAccountResponses(accounts))
}

func toAccountResponses(accounts []core.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload accountPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	account, err := payload.toAccount(0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := s.svc.Finance.AddAccount(ctx, account)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	s.taxonomy.Delete(accountsCacheKey)
	writeJSON(ctx, w, http.StatusCreated, toAccountResponse(created))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	account, err := s.svc.Finance.GetAccount(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var payload accountPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	account, err := payload.toAccount(id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.svc.Finance.UpdateAccount(ctx, account); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.taxonomy.Delete(accountsCacheKey)
	writeJSON(ctx, w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.svc.Finance.DeleteAccount(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.taxonomy.Delete(accountsCacheKey)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	balance, err := s.svc.Ledger.CurrentBalance(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"account_id":      id,
		"balance_cents":   balance,
		"balance_display": balance.Display(),
	})
}

func (s *Server) handleAccountTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if _, err := s.svc.Finance.GetAccount(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	history, err := s.svc.Finance.ListTransactionsByAccount(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toTransactionResponses(history))
}
