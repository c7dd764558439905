package http

import "net/http"

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, to, err := parseRange(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	summary, err := s.svc.Reports.Summary(ctx, from, to)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, summary)
}

func (s *Server) handleReportExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, to, err := parseRange(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	totals, err := s.svc.Reports.ExpensesByCategory(ctx, from, to)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"from":       from,
		"to":         to,
		"categories": totals,
	})
}

func (s *Server) handleReportNetWorth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, to, err := parseRange(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	series, err := s.svc.Reports.NetWorthEvolution(ctx, from, to)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"from":   from,
		"to":     to,
		"series": series,
	})
}
