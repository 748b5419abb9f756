package generationsvc

import (
	"strings"

	models "film_studio/internal/api/generation/models"
)

// statusTable ánh xạ chuỗi trạng thái của provider (không phân biệt hoa
// thường) sang trạng thái chuẩn của GenerationJob. Bảng tra duy nhất —
// không rải điều kiện theo từng provider.
var statusTable = map[string]string{
	"waiting":    models.JobStatusProcessing,
	"queuing":    models.JobStatusProcessing,
	"pending":    models.JobStatusProcessing,
	"generating": models.JobStatusProcessing,
	"success":    models.JobStatusComplete,
	"completed":  models.JobStatusComplete,
	"fail":       models.JobStatusError,
	"failed":     models.JobStatusError,
}

// NormalizeProviderStatus chuẩn hóa trạng thái thô của provider.
// Chuỗi không nhận dạng được giữ nguyên để chẩn đoán và coi là chưa terminal.
func NormalizeProviderStatus(raw string) string {
	if canonical, ok := statusTable[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return canonical
	}
	return raw
}

// ResolveResultURL tìm URL kết quả trong payload trạng thái của provider.
// Các provider trả về URL ở nhiều hình dạng khác nhau; thứ tự ưu tiên từ
// cụ thể nhất đến chung nhất:
//  1. resultUrl ở cấp cao nhất
//  2. object lồng "song" hoặc "result" với audioUrl / videoUrl / imageUrl
//  3. url ở cấp cao nhất
func ResolveResultURL(payload map[string]interface{}) string {
	if payload == nil {
		return ""
	}

	if u, ok := payload["resultUrl"].(string); ok && u != "" {
		return u
	}

	for _, nestedKey := range []string{"song", "result"} {
		nested, ok := payload[nestedKey].(map[string]interface{})
		if !ok {
			continue
		}
		for _, urlKey := range []string{"audioUrl", "videoUrl", "imageUrl"} {
			if u, ok := nested[urlKey].(string); ok && u != "" {
				return u
			}
		}
	}

	if u, ok := payload["url"].(string); ok && u != "" {
		return u
	}

	return ""
}

// ResolveResultTitle lấy tên hiển thị của artifact từ payload (nếu provider trả về).
func ResolveResultTitle(payload map[string]interface{}) string {
	if payload == nil {
		return ""
	}
	if t, ok := payload["title"].(string); ok && t != "" {
		return t
	}
	for _, nestedKey := range []string{"song", "result"} {
		if nested, ok := payload[nestedKey].(map[string]interface{}); ok {
			if t, ok := nested["title"].(string); ok && t != "" {
				return t
			}
		}
	}
	return ""
}

// ResolveResultDuration lấy thời lượng (ms) của artifact từ payload.
func ResolveResultDuration(payload map[string]interface{}) int64 {
	if payload == nil {
		return 0
	}
	read := func(m map[string]interface{}) int64 {
		if v, ok := m["durationMs"].(float64); ok {
			return int64(v)
		}
		return 0
	}
	if d := read(payload); d > 0 {
		return d
	}
	for _, nestedKey := range []string{"song", "result"} {
		if nested, ok := payload[nestedKey].(map[string]interface{}); ok {
			if d := read(nested); d > 0 {
				return d
			}
		}
	}
	return 0
}
