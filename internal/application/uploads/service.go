package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const itemImageBucket = "item-images"

var ErrNoFile = errors.New("No file provided")
var ErrBadType = errors.New("Only jpg, jpeg, png and webp images are allowed")

// StorageClient defines what we need from the storage API.
type StorageClient interface {
	CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error)
}

// HTTPClient is a StorageClient backed by a Supabase-style storage HTTP API.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

type signedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"`
	Path           string `json:"path"`
}

func (c *HTTPClient) CreateSignedUploadURL(ctx context.Context, bucket, path string) (string, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("storage: STORAGE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("storage: STORAGE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, bucket, path)

	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"expiresIn": 3600,
		"upsert":    false,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data signedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("storage response decode: %w", err)
	}
	// API can return signedUrl, signed_url, or url (relative)
	if data.SignedURL != "" {
		return data.SignedURL, nil
	}
	if data.SignedURLSnake != "" {
		return data.SignedURLSnake, nil
	}
	if data.URL != "" {
		u := data.URL
		if u[0] != '/' {
			u = "/" + u
		}
		return base + u, nil
	}
	return "", fmt.Errorf("storage returned no signed URL, body: %s", string(respBody))
}

// Service encapsulates item image upload logic.
type Service struct {
	Client     StorageClient
	StorageURL string
}

// UploadResult carries the signed upload URL and the final public URL to
// store on the item row.
type UploadResult struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Path      string `json:"path"`
}

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// SignItemImageUpload validates the filename and returns a signed upload URL
// plus the public URL for the stored object.
func (s *Service) SignItemImageUpload(ctx context.Context, userID uuid.UUID, filename string) (*UploadResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return nil, ErrBadType
	}
	path := fmt.Sprintf("%s/%s%s", userID, uuid.New(), ext)
	uploadURL, err := s.Client.CreateSignedUploadURL(ctx, itemImageBucket, path)
	if err != nil {
		return nil, err
	}
	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		strings.TrimRight(s.StorageURL, "/"), itemImageBucket, path)
	return &UploadResult{UploadURL: uploadURL, PublicURL: publicURL, Path: path}, nil
}
