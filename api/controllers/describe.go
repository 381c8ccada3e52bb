package controllers

import (
	"net/http"

	"github.com/kejahlabs/kejah-backend/api/responses"
	"github.com/kejahlabs/kejah-backend/api/validators"
	"github.com/kejahlabs/kejah-backend/internal/describe"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

// DescribeListing drafts a listing description from structured facts.
func DescribeListing(svc *describe.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "describe service unavailable"))
			return
		}

		var body describe.GenerateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		text, err := svc.Generate(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"description": text})
	}
}
