// Package generationsvc - Test chuẩn hóa trạng thái provider và tìm URL kết quả.
package generationsvc

import (
	"testing"

	models "film_studio/internal/api/generation/models"
)

func TestNormalizeProviderStatus_BangTra(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"waiting", models.JobStatusProcessing},
		{"queuing", models.JobStatusProcessing},
		{"pending", models.JobStatusProcessing},
		{"generating", models.JobStatusProcessing},
		{"success", models.JobStatusComplete},
		{"completed", models.JobStatusComplete},
		{"fail", models.JobStatusError},
		{"failed", models.JobStatusError},
		{"SUCCESS", models.JobStatusComplete},  // không phân biệt hoa thường
		{" queuing ", models.JobStatusProcessing}, // trim khoảng trắng
	}
	for _, tc := range cases {
		if got := NormalizeProviderStatus(tc.raw); got != tc.want {
			t.Errorf("NormalizeProviderStatus(%q) = %q, muốn %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeProviderStatus_ChuoiLaGiuNguyen(t *testing.T) {
	// Trạng thái không nhận dạng được giữ nguyên để chẩn đoán
	if got := NormalizeProviderStatus("mastering_stage_3"); got != "mastering_stage_3" {
		t.Errorf("trạng thái lạ phải giữ nguyên, got %q", got)
	}
}

func TestResolveResultURL_ThuTuUuTien(t *testing.T) {
	// resultUrl cấp cao nhất thắng mọi hình dạng khác
	payload := map[string]interface{}{
		"resultUrl": "https://cdn/top",
		"song":      map[string]interface{}{"audioUrl": "https://cdn/song"},
		"url":       "https://cdn/generic",
	}
	if got := ResolveResultURL(payload); got != "https://cdn/top" {
		t.Errorf("resultUrl cấp cao nhất phải thắng, got %q", got)
	}

	// object lồng thắng url chung
	payload = map[string]interface{}{
		"song": map[string]interface{}{"audioUrl": "https://cdn/song"},
		"url":  "https://cdn/generic",
	}
	if got := ResolveResultURL(payload); got != "https://cdn/song" {
		t.Errorf("song.audioUrl phải thắng url chung, got %q", got)
	}

	// result object cũng được nhận
	payload = map[string]interface{}{
		"result": map[string]interface{}{"imageUrl": "https://cdn/img"},
	}
	if got := ResolveResultURL(payload); got != "https://cdn/img" {
		t.Errorf("result.imageUrl phải được nhận, got %q", got)
	}

	// url chung là fallback cuối
	payload = map[string]interface{}{"url": "https://cdn/generic"}
	if got := ResolveResultURL(payload); got != "https://cdn/generic" {
		t.Errorf("url chung phải là fallback, got %q", got)
	}

	if got := ResolveResultURL(nil); got != "" {
		t.Errorf("payload nil phải trả về rỗng, got %q", got)
	}
}

func TestResolveResultDuration_NestedFallback(t *testing.T) {
	payload := map[string]interface{}{
		"song": map[string]interface{}{"durationMs": float64(32000)},
	}
	if got := ResolveResultDuration(payload); got != 32000 {
		t.Errorf("durationMs trong song phải được đọc, got %d", got)
	}
}
