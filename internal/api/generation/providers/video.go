package providers

import (
	"context"
	"fmt"

	"film_studio/internal/common"
)

// VideoAdapter gọi API dựng video (ghép cảnh, phụ đề, nhạc nền). Endpoint
// render xong mới trả lời nên kết quả về ngay trong response (đồng bộ).
type VideoAdapter struct {
	spec *ProviderSpec
}

// NewVideoAdapter tạo adapter dựng video từ spec catalog.
func NewVideoAdapter(spec *ProviderSpec) *VideoAdapter {
	return &VideoAdapter{spec: spec}
}

// Submit gửi yêu cầu dựng video và nhận video URL ngay.
func (a *VideoAdapter) Submit(ctx context.Context, params GenerationParams) (*SubmitResult, error) {
	payload := map[string]interface{}{
		"prompt": params.Text,
		"model":  params.Model,
	}
	if params.Language != "" {
		payload["language"] = params.Language
	}

	resp, err := postJSON(ctx, a.spec.Endpoint+"/v1/compose", params.APIKey, payload)
	if err != nil {
		return nil, err
	}

	videoURL := getString(resp, "videoUrl")
	if videoURL == "" {
		videoURL = getString(resp, "video_url")
	}
	if videoURL == "" {
		videoURL = getString(resp, "url")
	}
	if videoURL == "" {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Provider %s không trả về video URL", a.spec.Name),
			common.StatusBadGateway,
			resp,
		)
	}

	return &SubmitResult{
		Sync:       true,
		ResultURL:  videoURL,
		DurationMs: getInt64(resp, "durationMs"),
	}, nil
}

// Poll không áp dụng cho provider đồng bộ.
func (a *VideoAdapter) Poll(ctx context.Context, providerJobID string, apiKey string) (*PollResult, error) {
	return nil, common.NewError(
		common.ErrCodeProviderRequest,
		fmt.Sprintf("Provider %s là provider đồng bộ, không có job để poll", a.spec.Name),
		common.StatusBadRequest,
		nil,
	)
}
