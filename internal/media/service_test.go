package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kejahlabs/kejah-backend/pkg/config"
	"github.com/kejahlabs/kejah-backend/pkg/db/models"
	pkgerrors "github.com/kejahlabs/kejah-backend/pkg/errors"
)

type fakeObjectStore struct {
	objects   map[string]string
	uploadErr error
	deleted   []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string]string{}}
}

func (f *fakeObjectStore) Upload(_ context.Context, object, _ string, body io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[object] = string(data)
	return nil
}

func (f *fakeObjectStore) ObjectURL(object string) string {
	return "https://storage.googleapis.com/kejah-media/" + object
}

func (f *fakeObjectStore) Delete(_ context.Context, object string) error {
	f.deleted = append(f.deleted, object)
	delete(f.objects, object)
	return nil
}

func openMediaDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:media_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Media{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newMediaService(t *testing.T, conn *gorm.DB, store objectStore) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), store, config.MediaConfig{MaxUploadMB: 1})
	require.NoError(t, err)
	return svc
}

func validUpload(body string) UploadInput {
	return UploadInput{
		FileName:  "front view.jpg",
		MimeType:  "image/jpeg",
		SizeBytes: int64(len(body)),
		Body:      strings.NewReader(body),
	}
}

func TestUploadStoresObjectAndMetadata(t *testing.T) {
	conn := openMediaDB(t)
	store := newFakeObjectStore()
	svc := newMediaService(t, conn, store)
	userID := uuid.New()

	uploaded, err := svc.Upload(context.Background(), userID, validUpload("jpegdata"))
	require.NoError(t, err)
	require.Equal(t, "front view.jpg", uploaded.FileName)
	require.Contains(t, uploaded.URL, "listings/"+userID.String())

	require.Len(t, store.objects, 1)
	for key, data := range store.objects {
		require.Contains(t, key, "front-view.jpg")
		require.Equal(t, "jpegdata", data)
	}

	fetched, err := svc.Get(context.Background(), uploaded.ID)
	require.NoError(t, err)
	require.Equal(t, uploaded.URL, fetched.URL)
}

func TestUploadReportsProgress(t *testing.T) {
	conn := openMediaDB(t)
	store := newFakeObjectStore()
	svc := newMediaService(t, conn, store)

	body := strings.Repeat("x", 64)
	input := validUpload(body)
	var fractions []float64
	input.OnProgress = func(fraction float64) {
		fractions = append(fractions, fraction)
	}

	_, err := svc.Upload(context.Background(), uuid.New(), input)
	require.NoError(t, err)

	require.NotEmpty(t, fractions)
	last := 0.0
	for _, fraction := range fractions {
		require.GreaterOrEqual(t, fraction, last)
		require.LessOrEqual(t, fraction, 1.0)
		last = fraction
	}
	require.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestUploadValidation(t *testing.T) {
	conn := openMediaDB(t)
	svc := newMediaService(t, conn, newFakeObjectStore())
	userID := uuid.New()

	cases := []struct {
		name   string
		mutate func(*UploadInput)
	}{
		{"missing file name", func(in *UploadInput) { in.FileName = " " }},
		{"zero size", func(in *UploadInput) { in.SizeBytes = 0 }},
		{"oversized", func(in *UploadInput) { in.SizeBytes = 2 * 1024 * 1024 }},
		{"bad mime", func(in *UploadInput) { in.MimeType = "application/pdf" }},
		{"missing body", func(in *UploadInput) { in.Body = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validUpload("data")
			tc.mutate(&input)
			_, err := svc.Upload(context.Background(), userID, input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestUploadStoreFailure(t *testing.T) {
	conn := openMediaDB(t)
	store := newFakeObjectStore()
	store.uploadErr = fmt.Errorf("bucket unreachable")
	svc := newMediaService(t, conn, store)

	_, err := svc.Upload(context.Background(), uuid.New(), validUpload("data"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())

	var count int64
	require.NoError(t, conn.Table("media").Count(&count).Error)
	require.Zero(t, count)
}

func TestDeleteOnlyByOwner(t *testing.T) {
	conn := openMediaDB(t)
	store := newFakeObjectStore()
	svc := newMediaService(t, conn, store)
	owner := uuid.New()

	uploaded, err := svc.Upload(context.Background(), owner, validUpload("data"))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), uploaded.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	require.NoError(t, svc.Delete(context.Background(), owner, uploaded.ID))
	require.Empty(t, store.objects)

	_, err = svc.Get(context.Background(), uploaded.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListMineNewestFirst(t *testing.T) {
	conn := openMediaDB(t)
	svc := newMediaService(t, conn, newFakeObjectStore())
	userID := uuid.New()

	first, err := svc.Upload(context.Background(), userID, validUpload("one"))
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), userID, validUpload("two"))
	require.NoError(t, err)

	// Another user's uploads stay out of the listing.
	_, err = svc.Upload(context.Background(), uuid.New(), validUpload("other"))
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.ElementsMatch(t,
		[]uuid.UUID{first.ID, second.ID},
		[]uuid.UUID{mine[0].ID, mine[1].ID},
	)
}
