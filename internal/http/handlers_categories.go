package http

import (
	"net/http"

	"moneta/internal/core"
)

const categoriesCacheKey = "categories"

type categoryPayload struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type categoryResponse struct {
	ID   int64                `json:"id"`
	Name string               `json:"name"`
	Kind core.TransactionKind `json:"kind"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Kind: c.Kind}
}

func toCategoryResponses(categories []core.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if term := r.URL.Query().Get("q"); term != "" {
		categories, err := s.svc.Finance.SearchCategories(ctx, term)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toCategoryResponses(categories))
		return
	}
	if name := r.URL.Query().Get("name"); name != "" {
		category, err := s.svc.Finance.FindCategoryByName(ctx, name)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toCategoryResponse(category))
		return
	}

	if cached, ok := s.taxonomy.Get(categoriesCacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}
	categories, err := s.svc.Finance.ListCategories(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if body := marshalForCache(toCategoryResponses(categories)); body != nil {
		s.taxonomy.Set(categoriesCacheKey, body)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toCategoryResponses(categories))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	created, err := s.svc.Finance.AddCategory(ctx, core.Category{
		Name: payload.Name,
		Kind: core.TransactionKind(payload.Kind),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	s.taxonomy.Delete(categoriesCacheKey)
	writeJSON(ctx, w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	category, err := s.svc.Finance.GetCategory(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}
	category := core.Category{ID: id, Name: payload.Name, Kind: core.TransactionKind(payload.Kind)}
	if err := s.svc.Finance.UpdateCategory(ctx, category); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.taxonomy.Delete(categoriesCacheKey)
	writeJSON(ctx, w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := s.svc.Finance.DeleteCategory(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	s.taxonomy.Delete(categoriesCacheKey)
	w.WriteHeader(http.StatusNoContent)
}
