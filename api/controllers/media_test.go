package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kejahlabs/kejah-backend/api/middleware"
	"github.com/kejahlabs/kejah-backend/internal/media"
)

type testMediaService struct {
	uploadFn   func(ctx context.Context, userID uuid.UUID, input media.UploadInput) (*media.MediaDTO, error)
	listMineFn func(ctx context.Context, userID uuid.UUID) ([]media.MediaDTO, error)
	deleteFn   func(ctx context.Context, userID, id uuid.UUID) error
}

func (s *testMediaService) Upload(ctx context.Context, userID uuid.UUID, input media.UploadInput) (*media.MediaDTO, error) {
	if s.uploadFn != nil {
		return s.uploadFn(ctx, userID, input)
	}
	return &media.MediaDTO{ID: uuid.New()}, nil
}

func (s *testMediaService) Get(_ context.Context, id uuid.UUID) (*media.MediaDTO, error) {
	return &media.MediaDTO{ID: id}, nil
}

func (s *testMediaService) ListMine(ctx context.Context, userID uuid.UUID) ([]media.MediaDTO, error) {
	if s.listMineFn != nil {
		return s.listMineFn(ctx, userID)
	}
	return nil, nil
}

func (s *testMediaService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, userID, id)
	}
	return nil
}

func multipartUpload(t *testing.T, fileName, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestMediaUploadStreamsFile(t *testing.T) {
	userID := uuid.New()
	payload := []byte("jpeg bytes")
	var gotInput media.UploadInput
	svc := &testMediaService{
		uploadFn: func(_ context.Context, uid uuid.UUID, input media.UploadInput) (*media.MediaDTO, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			gotInput = input
			body, err := io.ReadAll(input.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if string(body) != string(payload) {
				t.Fatalf("unexpected body %q", body)
			}
			return &media.MediaDTO{
				ID:        uuid.New(),
				FileName:  input.FileName,
				MimeType:  input.MimeType,
				SizeBytes: input.SizeBytes,
				CreatedAt: time.Now().UTC(),
			}, nil
		},
	}

	buf, contentType := multipartUpload(t, "kitchen.jpg", "image/jpeg", payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", buf)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	MediaUpload(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.FileName != "kitchen.jpg" {
		t.Fatalf("unexpected file name %q", gotInput.FileName)
	}
	if gotInput.MimeType != "image/jpeg" {
		t.Fatalf("unexpected mime type %q", gotInput.MimeType)
	}
	if gotInput.SizeBytes != int64(len(payload)) {
		t.Fatalf("unexpected size %d", gotInput.SizeBytes)
	}
}

func TestMediaUploadRequiresFile(t *testing.T) {
	userID := uuid.New()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("note", "no file here"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	MediaUpload(&testMediaService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestMediaDeleteEnforcesOwnership(t *testing.T) {
	userID := uuid.New()
	mediaID := uuid.New()
	called := false
	svc := &testMediaService{
		deleteFn: func(_ context.Context, uid, id uuid.UUID) error {
			called = true
			if uid != userID || id != mediaID {
				t.Fatalf("unexpected ids %s %s", uid, id)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/media/"+mediaID.String(), nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = withURLParam(req, "mediaId", mediaID.String())
	resp := httptest.NewRecorder()
	MediaDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !called {
		t.Fatal("expected delete call")
	}
}
