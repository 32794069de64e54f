package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putRecorder struct {
	mu          sync.Mutex
	path        string
	contentType string
	body        []byte
}

func newFakeS3(t *testing.T, status int) (*httptest.Server, *putRecorder) {
	rec := &putRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.path = r.URL.Path
		rec.contentType = r.Header.Get("Content-Type")
		rec.body = body
		rec.mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestS3(t *testing.T, endpoint string) *S3 {
	s, err := NewS3(context.Background(), S3Config{
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		QRBucket:        "qr",
		Endpoint:        endpoint,
	}, nil)
	require.NoError(t, err)
	return s
}

func TestQRCodeKey(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-1111-4000-8000-000000000001")
	assert.Equal(t, "qr-codes/6f1c2a8e-1111-4000-8000-000000000001.png", QRCodeKey(id))
}

func TestS3_ArchiveQRCode(t *testing.T) {
	srv, rec := newFakeS3(t, http.StatusOK)
	s := newTestS3(t, srv.URL)
	id := uuid.New()

	key, err := s.ArchiveQRCode(context.Background(), id, []byte("\x89PNG-bytes"))
	require.NoError(t, err)
	assert.Equal(t, QRCodeKey(id), key)
	assert.Equal(t, "/qr/"+key, rec.path)
	assert.Equal(t, "image/png", rec.contentType)
	assert.Contains(t, string(rec.body), "PNG-bytes")
	assert.Equal(t, srv.URL+"/qr/"+key, s.PublicObjectURL(key))
}

func TestS3_ArchiveQRCode_Errors(t *testing.T) {
	srv, _ := newFakeS3(t, http.StatusForbidden)
	s := newTestS3(t, srv.URL)

	_, err := s.ArchiveQRCode(context.Background(), uuid.New(), []byte("png"))
	assert.Error(t, err)

	_, err = s.ArchiveQRCode(context.Background(), uuid.New(), nil)
	assert.Error(t, err)
}
