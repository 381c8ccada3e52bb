package describe

import (
	"context"
	"fmt"
	"strings"

	"github.com/kejahlabs/kejah-backend/pkg/enums"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
	"github.com/kejahlabs/kejah-backend/pkg/openai"
)

const maxFeatures = 20

type chatClient interface {
	ChatCompletion(ctx context.Context, messages []openai.Message) (string, error)
}

// GenerateInput describes the listing a description is wanted for.
type GenerateInput struct {
	Type     enums.ListingType `json:"type" validate:"required"`
	City     string            `json:"city" validate:"required"`
	Features []string          `json:"features" validate:"max=20"`
}

// Service produces listing descriptions. With a chat client configured it
// asks the model; without one it falls back to a deterministic template so
// demo mode still works.
type Service struct {
	chat chatClient
}

func NewService(chat chatClient) *Service {
	return &Service{chat: chat}
}

func (s *Service) Generate(ctx context.Context, input GenerateInput) (string, error) {
	if !input.Type.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "listing type must be sale or rent")
	}
	city := strings.TrimSpace(input.City)
	if city == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if len(input.Features) > maxFeatures {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "too many features")
	}

	features := make([]string, 0, len(input.Features))
	for _, feature := range input.Features {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			features = append(features, trimmed)
		}
	}

	if s.chat == nil {
		return templateDescription(input.Type, city, features), nil
	}

	reply, err := s.chat.ChatCompletion(ctx, []openai.Message{
		{Role: "system", Content: "You write short, factual property listing descriptions. Two sentences, no superlatives you cannot support, no emojis."},
		{Role: "user", Content: promptFor(input.Type, city, features)},
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "description model returned an empty reply")
	}
	return strings.TrimSpace(reply), nil
}

func promptFor(listingType enums.ListingType, city string, features []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a description for a property in %s listed for %s.", city, saleOrRent(listingType))
	if len(features) > 0 {
		fmt.Fprintf(&sb, " Highlight: %s.", strings.Join(features, ", "))
	}
	return sb.String()
}

func templateDescription(listingType enums.ListingType, city string, features []string) string {
	base := fmt.Sprintf("Property available for %s in %s.", saleOrRent(listingType), city)
	if len(features) == 0 {
		return base
	}
	return fmt.Sprintf("%s Features include %s.", base, strings.Join(features, ", "))
}

func saleOrRent(listingType enums.ListingType) string {
	if listingType == enums.ListingTypeSale {
		return "sale"
	}
	return "rent"
}
