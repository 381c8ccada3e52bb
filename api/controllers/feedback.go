package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/api/middleware"
	"github.com/kejahlabs/kejah-backend/api/responses"
	"github.com/kejahlabs/kejah-backend/api/validators"
	"github.com/kejahlabs/kejah-backend/internal/feedback"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Message string `json:"message" validate:"required"`
}

// SubmitFeedback stores product feedback. Works for anonymous visitors;
// a signed-in caller gets attributed automatically.
func SubmitFeedback(svc *feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		var body feedbackRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := feedback.FeedbackInput{
			Rating:  body.Rating,
			Message: validators.SanitizeString(body.Message, 4000),
		}
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				input.UserID = &userID
			}
		}

		if err := svc.SubmitFeedback(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "received"})
	}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
}

// SubmitContact stores a contact-form message for the support inbox.
func SubmitContact(svc *feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		var body contactRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.SubmitContactMessage(r.Context(), feedback.ContactInput{
			Name:    validators.SanitizeString(body.Name, 120),
			Email:   body.Email,
			Subject: validators.SanitizeString(body.Subject, 200),
			Message: validators.SanitizeString(body.Message, 4000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "received"})
	}
}
