package server

import (
	"crypto/subtle"

	"github.com/jonathan/hireflow/internal/types"
)

// resolveVariant picks the prompt and template variant for a request.
// An explicit variant wins. Otherwise the profile variant is used only when a
// profile credential is configured and the request presents the same one.
func (s *Server) resolveVariant(explicit, credential string) (types.Variant, error) {
	if explicit != "" {
		v, ok := types.ParseVariant(explicit)
		if !ok {
			return "", &ErrValidation{Field: "variant", Message: "must be one of: generic profile"}
		}
		return v, nil
	}

	configured := s.cfg.Profile.Credential
	if configured != "" && credential != "" &&
		subtle.ConstantTimeCompare([]byte(configured), []byte(credential)) == 1 {
		return types.VariantProfile, nil
	}
	return types.VariantGeneric, nil
}
