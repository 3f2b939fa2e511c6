package chi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// defaultQueryLogLimit is the page size of GET /api/v1/queries.
const defaultQueryLogLimit = 50

// ListRestaurants handles GET /api/v1/restaurants.
func (s *Server) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	offset, err := intParam(r, "offset")
	if err != nil {
		s.badRequest(w, codeBadRequest, msgInvalidPaging, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		s.badRequest(w, codeBadRequest, msgInvalidPaging, err)
		return
	}

	page, err := s.deps.Restaurants.List(r.Context(), offset, limit)
	if err != nil {
		s.handleDomainError(w, err, msgListFailed)
		return
	}

	items := make([]restaurantJSON, len(page.Items))
	for i := range page.Items {
		items[i] = restaurantToJSON(&page.Items[i])
	}
	writeJSON(w, http.StatusOK, restaurantListResponse{Restaurants: items, Total: page.Total})
}

// GetRestaurant handles GET /api/v1/restaurants/{id}.
func (s *Server) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := s.deps.Restaurants.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err, msgGetFailed)
		return
	}
	writeJSON(w, http.StatusOK, restaurantToJSON(&rest))
}

// CreateRestaurant handles POST /api/v1/restaurants.
func (s *Server) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req restaurantRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.badRequest(w, codeValidation, msgInvalidInput, err)
		return
	}

	rest, err := s.deps.Restaurants.Create(r.Context(), req.attributes())
	if err != nil {
		s.handleDomainError(w, err, msgCreateFailed)
		return
	}
	out := restaurantToJSON(&rest)
	writeJSON(w, http.StatusCreated, restaurantMutationResponse{Restaurant: &out, Message: msgCreated})
}

// UpdateRestaurant handles PUT /api/v1/restaurants/{id}.
func (s *Server) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req restaurantRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.badRequest(w, codeValidation, msgInvalidInput, err)
		return
	}

	rest, err := s.deps.Restaurants.Update(r.Context(), chi.URLParam(r, "id"), req.attributes())
	if err != nil {
		s.handleDomainError(w, err, msgUpdateFailed)
		return
	}
	out := restaurantToJSON(&rest)
	writeJSON(w, http.StatusOK, restaurantMutationResponse{Restaurant: &out, Message: msgUpdated})
}

// DeleteRestaurant handles DELETE /api/v1/restaurants/{id}.
func (s *Server) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Restaurants.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err, msgDeleteFailed)
		return
	}
	writeJSON(w, http.StatusOK, restaurantMutationResponse{Message: msgDeleted})
}

// RecentQueries handles GET /api/v1/queries.
func (s *Server) RecentQueries(w http.ResponseWriter, r *http.Request) {
	if s.deps.Queries == nil {
		writeJSON(w, http.StatusOK, queryLogResponse{Queries: []queryEntryJSON{}})
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		s.badRequest(w, codeBadRequest, msgInvalidPaging, err)
		return
	}
	if limit <= 0 {
		limit = defaultQueryLogLimit
	}

	entries, err := s.deps.Queries.Recent(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err, msgQueriesFailed)
		return
	}
	today, err := s.deps.Queries.CountOn(r.Context(), s.now())
	if err != nil {
		s.handleDomainError(w, err, msgQueriesFailed)
		return
	}

	out := make([]queryEntryJSON, len(entries))
	for i := range entries {
		out[i] = queryEntryToJSON(&entries[i])
	}
	writeJSON(w, http.StatusOK, queryLogResponse{Queries: out, Today: today})
}

// intParam reads a non-negative integer query parameter. Missing means 0.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
