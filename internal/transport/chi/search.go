package chi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	searchuc "github.com/kailas-cloud/gourmet/internal/usecase/search"
)

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.badRequest(w, codeBadRequest, msgQueryRequired, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.badRequest(w, codeBadRequest, msgQueryRequired, nil)
		return
	}

	var target *geo.Point
	switch {
	case req.Latitude != nil && req.Longitude != nil:
		p, err := geo.NewPoint(*req.Latitude, *req.Longitude)
		if err != nil {
			s.badRequest(w, codeValidation, msgInvalidLocation, err)
			return
		}
		target = &p
	case req.Latitude != nil || req.Longitude != nil:
		s.badRequest(w, codeValidation, msgInvalidLocation, errors.New("latitude and longitude must be given together"))
		return
	}

	ctx, cancel := s.pipelineContext(r)
	defer cancel()

	res, err := s.deps.Search.Search(ctx, searchuc.Request{Query: req.Query, Target: target})
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) && s.opts.SoftErrors {
			s.logger.Warn("search answered softly", zap.Error(err))
			resp := searchResponse{Message: searchuc.Apology, Restaurants: []hitJSON{}}
			if s.opts.Debug {
				resp.Debug = &searchDebug{Error: err.Error()}
			}
			writeJSON(w, http.StatusOK, resp)
			return
		}
		s.handleDomainError(w, err, msgSearchFailed)
		return
	}

	resp := searchResponse{
		Message:     res.Message(),
		Restaurants: hitsToJSON(res.Hits()),
	}
	if s.opts.Debug {
		resp.Debug = &searchDebug{
			Strategy:  string(res.Strategy()),
			Fallbacks: res.Fallbacks(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Assist handles POST /api/v1/assistant.
func (s *Server) Assist(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.badRequest(w, codeBadRequest, msgPromptRequired, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.badRequest(w, codeBadRequest, msgPromptRequired, nil)
		return
	}

	ctx, cancel := s.pipelineContext(r)
	defer cancel()

	answer, err := s.deps.Assistant.Answer(ctx, req.Prompt)
	if err != nil {
		s.handleDomainError(w, err, msgAssistantFailed)
		return
	}
	writeJSON(w, http.StatusOK, assistantResponse{Answer: answer})
}
