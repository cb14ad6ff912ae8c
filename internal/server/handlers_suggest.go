package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/hireflow/internal/prompts"
	"github.com/jonathan/hireflow/internal/types"
)

// maxSuggestBody caps the JSON body of a suggestion request.
const maxSuggestBody = 64 << 10

// handleSuggestCompany returns one company suggestion for the applicant profile.
// Inference failures are never surfaced; the response carries fallback=true instead.
func (s *Server) handleSuggestCompany(w http.ResponseWriter, r *http.Request) {
	var req types.SuggestCompanyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSuggestBody))
	if err := dec.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.fail(w, r, err)
			return
		}
		if errors.Is(err, io.EOF) {
			s.fail(w, r, &ErrValidation{Message: "request body is empty"})
			return
		}
		s.fail(w, r, &ErrValidation{Message: "invalid JSON body"})
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	variant, err := s.resolveVariant(req.Variant, req.EffectiveCredential())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.suggester.Suggest(r.Context(), prompts.SuggestionInput{
		Workstation:     req.Workstation,
		JobInfo:         req.JobInfo,
		ExperienceLevel: req.ExperienceLevel,
		Location:        req.Location,
		EducationLevel:  req.EducationLevel,
	}, variant)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.SuggestCompanyResponse{
		OK:                true,
		CompanySuggestion: res.Suggestion,
		Fallback:          res.Fallback,
	})
}
