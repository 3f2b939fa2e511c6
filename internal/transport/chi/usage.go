package chi

import (
	"fmt"
	"net/http"

	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
)

// Usage handles GET /api/v1/usage?period=day|month.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("period")
	period, ok := domusage.ParsePeriod(raw)
	if !ok {
		s.badRequest(w, codeBadRequest, msgInvalidPeriod, fmt.Errorf("invalid period %q", raw))
		return
	}
	if s.deps.Usage == nil {
		writeJSON(w, http.StatusOK, usageResponse{Period: string(period), Budget: budgetJSON{TokensRemaining: -1}})
		return
	}

	report := s.deps.Usage.Report(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToJSON(&report))
}
