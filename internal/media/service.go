package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

var allowedMimeTypes = []string{"image/jpeg", "image/png", "image/webp"}

type objectStore interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) error
	ObjectURL(object string) string
	Delete(ctx context.Context, object string) error
}

// UploadInput models a listing photo upload streamed through the API.
type UploadInput struct {
	FileName   string
	MimeType   string
	SizeBytes  int64
	Body       io.Reader
	OnProgress ProgressFunc
}

// MediaDTO is the transport shape of an uploaded file.
type MediaDTO struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Service exposes media upload and lookup operations.
type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*MediaDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*MediaDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]MediaDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo     *Repository
	store    objectStore
	maxBytes int64
}

// NewService constructs a media service backed by the repository and the
// object store.
func NewService(repo *Repository, store objectStore, cfg config.MediaConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &service{
		repo:     repo,
		store:    store,
		maxBytes: int64(maxMB) * 1024 * 1024,
	}, nil
}

func (s *service) Upload(ctx context.Context, userID uuid.UUID, input UploadInput) (*MediaDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("size_bytes must not exceed %d bytes", s.maxBytes))
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type must be a jpeg, png, or webp image")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}

	mediaID := uuid.New()
	gcsKey := buildGCSKey(userID, mediaID, fileName)

	// The declared size caps the stream so a lying client cannot exceed
	// what was validated.
	body := newProgressReader(io.LimitReader(input.Body, input.SizeBytes), input.SizeBytes, input.OnProgress)
	if err := s.store.Upload(ctx, gcsKey, mimeType, body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}

	row := &models.Media{
		ID:        mediaID,
		UserID:    userID,
		GCSKey:    gcsKey,
		URL:       s.store.ObjectURL(gcsKey),
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		// Best effort: the object should not outlive a failed metadata row.
		_ = s.store.Delete(ctx, gcsKey)
		return nil, db.WrapBackend(err, "persist media row")
	}

	return fromModel(row), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MediaDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.WrapBackend(err, "loading media")
	}
	return fromModel(row), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]MediaDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, db.WrapBackend(err, "listing media")
	}
	out := make([]MediaDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return db.WrapBackend(err, "loading media")
	}
	if row.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "media belongs to another user")
	}
	if err := s.store.Delete(ctx, row.GCSKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.WrapBackend(err, "delete media row")
	}
	return nil
}

func fromModel(m *models.Media) *MediaDTO {
	return &MediaDTO{
		ID:        m.ID,
		URL:       m.URL,
		FileName:  m.FileName,
		MimeType:  m.MimeType,
		SizeBytes: m.SizeBytes,
		CreatedAt: m.CreatedAt,
	}
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func buildGCSKey(userID, mediaID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = mediaID.String()
	}
	return fmt.Sprintf("listings/%s/%s/%s", userID, mediaID, cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
