package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"film_studio/internal/common"
)

// GenerationParams là tham số chung của một lần sinh media.
type GenerationParams struct {
	Text     string // Lời thoại hoặc prompt
	Voice    string // Giọng đọc / phong cách (speech)
	Language string // Ngôn ngữ đầu ra
	Model    string // Model đã resolve
	APIKey   string // API key dùng cho lần gọi này (hệ thống hoặc key riêng của người dùng)
}

// SubmitResult là kết quả submit tới provider.
// Provider đồng bộ trả về artifact ngay (Sync=true, ResultURL có giá trị).
// Provider bất đồng bộ trả về ProviderJobID để poll tiếp.
type SubmitResult struct {
	Sync          bool
	ProviderJobID string
	ResultURL     string
	DurationMs    int64
	Title         string
}

// PollResult là trạng thái thô của một job bất đồng bộ.
// Status giữ nguyên chuỗi trạng thái của provider; Payload là body response
// đã decode để resolve URL kết quả theo nhiều hình dạng khác nhau.
type PollResult struct {
	Status  string
	Payload map[string]interface{}
}

// Adapter là giao diện chung của mọi provider sinh media.
type Adapter interface {
	// Submit gửi yêu cầu sinh media tới provider.
	Submit(ctx context.Context, params GenerationParams) (*SubmitResult, error)
	// Poll hỏi trạng thái một job bất đồng bộ. Provider đồng bộ trả lỗi.
	Poll(ctx context.Context, providerJobID string, apiKey string) (*PollResult, error)
}

// NewAdapter tạo adapter tương ứng với spec trong catalog.
func NewAdapter(spec *ProviderSpec) (Adapter, error) {
	switch spec.Kind {
	case KindSpeech:
		return NewSpeechAdapter(spec), nil
	case KindMusic:
		return NewMusicAdapter(spec), nil
	case KindImage:
		return NewImageAdapter(spec), nil
	case KindVideo:
		return NewVideoAdapter(spec), nil
	default:
		return nil, common.NewError(
			common.ErrCodeProviderConfig,
			fmt.Sprintf("Loại provider không được hỗ trợ: %s", spec.Kind),
			common.StatusBadRequest,
			nil,
		)
	}
}

// httpTimeout là timeout mặc định cho một request tới provider.
// Job dài chạy qua cơ chế poll, mỗi request đơn lẻ phải trả lời nhanh.
const httpTimeout = 30 * time.Second

// postJSON gửi POST JSON tới provider và decode response body.
func postJSON(ctx context.Context, url string, apiKey string, payload interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Không gọi được provider: %v", err),
			common.StatusBadGateway,
			err,
		)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Không đọc được response của provider: %v", err),
			common.StatusBadGateway,
			err,
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Provider trả về status %d: %s", resp.StatusCode, string(respBody)),
			common.StatusBadGateway,
			nil,
		)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Response của provider không phải JSON hợp lệ: %v", err),
			common.StatusBadGateway,
			err,
		)
	}
	return decoded, nil
}

// getJSON gửi GET tới provider và decode response body.
func getJSON(ctx context.Context, url string, apiKey string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Không gọi được provider: %v", err),
			common.StatusBadGateway,
			err,
		)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Không đọc được response của provider: %v", err),
			common.StatusBadGateway,
			err,
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Provider trả về status %d: %s", resp.StatusCode, string(respBody)),
			common.StatusBadGateway,
			nil,
		)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Response của provider không phải JSON hợp lệ: %v", err),
			common.StatusBadGateway,
			err,
		)
	}
	return decoded, nil
}

// getString lấy giá trị string từ map đã decode.
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt64 lấy giá trị số từ map đã decode (JSON number decode thành float64).
func getInt64(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}
