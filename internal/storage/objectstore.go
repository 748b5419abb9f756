// Package storage cung cấp client object store HTTP để lưu artifact lâu dài.
// Object store là tiện ích tùy chọn: upload thất bại không làm hỏng job,
// pipeline sẽ fallback sang inline base64 hoặc URL gốc của provider.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"film_studio/config"
	"film_studio/internal/common"

	"github.com/google/uuid"
)

// ObjectStore là client HTTP tới object store (S3-compatible gateway).
type ObjectStore struct {
	endpoint  string
	bucket    string
	accessKey string
	publicURL string
	client    *http.Client
}

// NewObjectStore tạo client object store từ config.
func NewObjectStore(cfg *config.Configuration) *ObjectStore {
	return &ObjectStore{
		endpoint:  strings.TrimRight(cfg.ObjectStoreEndpoint, "/"),
		bucket:    cfg.ObjectStoreBucket,
		accessKey: cfg.ObjectStoreAccessKey,
		publicURL: strings.TrimRight(cfg.ObjectStorePublicURL, "/"),
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Enabled cho biết object store có được cấu hình không.
// Không cấu hình = mọi artifact dùng inline base64 hoặc URL gốc.
func (s *ObjectStore) Enabled() bool {
	return s.endpoint != ""
}

// Upload đẩy binary lên object store và trả về URL công khai.
// Tên object sinh từ uuid + hint phần mở rộng để không bao giờ ghi đè.
func (s *ObjectStore) Upload(ctx context.Context, data []byte, contentType string, extHint string) (string, error) {
	if !s.Enabled() {
		return "", common.NewError(
			common.ErrCodeProviderConfig,
			"Object store chưa được cấu hình",
			common.StatusServiceUnavailable,
			nil,
		)
	}

	name := uuid.NewString()
	if extHint != "" {
		name = name + "." + strings.TrimPrefix(extHint, ".")
	}
	url := fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, name)

	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.accessKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.accessKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", common.NewError(
			common.ErrCodeProviderFetch,
			fmt.Sprintf("Không upload được artifact lên object store: %v", err),
			common.StatusBadGateway,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", common.NewError(
			common.ErrCodeProviderFetch,
			fmt.Sprintf("Object store trả về status %d: %s", resp.StatusCode, string(body)),
			common.StatusBadGateway,
			nil,
		)
	}

	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, name), nil
	}
	return url, nil
}

// Download tải binary artifact từ URL của provider.
// Trả về dữ liệu và content type để upload lại hoặc encode inline.
func Download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", err
	}

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", common.NewError(
			common.ErrCodeProviderFetch,
			fmt.Sprintf("Không tải được artifact từ %s: %v", url, err),
			common.StatusBadGateway,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", common.NewError(
			common.ErrCodeProviderFetch,
			fmt.Sprintf("Tải artifact từ %s trả về status %d", url, resp.StatusCode),
			common.StatusBadGateway,
			nil,
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", common.NewError(
			common.ErrCodeProviderFetch,
			fmt.Sprintf("Không đọc được artifact từ %s: %v", url, err),
			common.StatusBadGateway,
			err,
		)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// InlineDataURL encode binary thành data URL base64 (fallback khi object store hỏng).
func InlineDataURL(data []byte, contentType string) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
