package feedback

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/pkg/db"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

const maxMessageLength = 4000

// FeedbackInput is a product feedback submission. UserID is optional so
// anonymous visitors can submit too.
type FeedbackInput struct {
	UserID  *uuid.UUID
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Message string `json:"message" validate:"required"`
}

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Service accepts feedback and contact submissions. Both are insert-only
// sinks, nothing is read back through the API.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) SubmitFeedback(ctx context.Context, input FeedbackInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if len(message) > maxMessageLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is too long")
	}

	row := &models.Feedback{
		UserID:  input.UserID,
		Rating:  input.Rating,
		Message: message,
	}
	if err := s.repo.CreateFeedback(ctx, row); err != nil {
		return db.WrapBackend(err, "storing feedback")
	}
	return nil
}

func (s *Service) SubmitContactMessage(ctx context.Context, input ContactInput) error {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)

	if name == "" || email == "" || subject == "" || message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, email, subject and message are required")
	}
	if !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}
	if len(message) > maxMessageLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is too long")
	}

	row := &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}
	if err := s.repo.CreateContactMessage(ctx, row); err != nil {
		return db.WrapBackend(err, "storing contact message")
	}
	return nil
}
