package uploads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	lastBucket string
	lastPath   string
	err        error
}

func (f *fakeClient) CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error) {
	f.lastBucket = bucket
	f.lastPath = path
	if f.err != nil {
		return "", f.err
	}
	return "https://example.com/upload", nil
}

func TestSignItemImageUpload_ValidatesFilename(t *testing.T) {
	client := &fakeClient{}
	svc := &Service{Client: client, StorageURL: "https://example.storage.co"}
	userID := uuid.New()

	_, err := svc.SignItemImageUpload(context.Background(), userID, "  ")
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = svc.SignItemImageUpload(context.Background(), userID, "malware.exe")
	assert.ErrorIs(t, err, ErrBadType)

	res, err := svc.SignItemImageUpload(context.Background(), userID, "photo.JPG")
	require.NoError(t, err)
	assert.Equal(t, "item-images", client.lastBucket)
	assert.True(t, strings.HasPrefix(client.lastPath, userID.String()+"/"))
	assert.True(t, strings.HasSuffix(client.lastPath, ".jpg"))
	assert.Equal(t, "https://example.com/upload", res.UploadURL)
	assert.Equal(t, "https://example.storage.co/storage/v1/object/public/item-images/"+res.Path, res.PublicURL)
}

func TestHTTPClient_ParsesSignedURLVariants(t *testing.T) {
	cases := []struct {
		body string
		want func(base string) string
	}{
		{`{"signedUrl":"https://cdn.example/abs"}`, func(string) string { return "https://cdn.example/abs" }},
		{`{"signed_url":"https://cdn.example/snake"}`, func(string) string { return "https://cdn.example/snake" }},
		{`{"url":"object/upload/sign/item-images/x.png?token=t"}`, func(base string) string {
			return base + "/object/upload/sign/item-images/x.png?token=t"
		}},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.True(t, strings.HasPrefix(r.URL.Path, "/storage/v1/object/upload/sign/item-images/"))
			w.Write([]byte(tc.body))
		}))
		c := &HTTPClient{BaseURL: srv.URL, SecretKey: "sk"}
		got, err := c.CreateSignedUploadURL(context.Background(), "item-images", "u/x.png")
		require.NoError(t, err)
		assert.Equal(t, tc.want(srv.URL), got)
		srv.Close()
	}
}

func TestHTTPClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"nope"}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL, SecretKey: "sk"}
	_, err := c.CreateSignedUploadURL(context.Background(), "item-images", "u/x.png")
	assert.Error(t, err)
}

func TestHTTPClient_RequiresConfig(t *testing.T) {
	c := &HTTPClient{}
	_, err := c.CreateSignedUploadURL(context.Background(), "item-images", "u/x.png")
	assert.Error(t, err)
}
