package providers

import (
	"context"
	"fmt"

	"film_studio/internal/common"
)

// SpeechAdapter gọi API text-to-speech. Các provider giọng đọc trả về
// artifact ngay trong response (đồng bộ), không có job để poll.
type SpeechAdapter struct {
	spec *ProviderSpec
}

// NewSpeechAdapter tạo adapter giọng đọc từ spec catalog.
func NewSpeechAdapter(spec *ProviderSpec) *SpeechAdapter {
	return &SpeechAdapter{spec: spec}
}

// Submit gửi yêu cầu sinh giọng đọc và nhận audio URL ngay.
func (a *SpeechAdapter) Submit(ctx context.Context, params GenerationParams) (*SubmitResult, error) {
	payload := map[string]interface{}{
		"text":     params.Text,
		"voice":    params.Voice,
		"language": params.Language,
		"model":    params.Model,
	}

	resp, err := postJSON(ctx, a.spec.Endpoint+"/v1/tts", params.APIKey, payload)
	if err != nil {
		return nil, err
	}

	audioURL := getString(resp, "audioUrl")
	if audioURL == "" {
		audioURL = getString(resp, "url")
	}
	if audioURL == "" {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Provider %s không trả về audio URL", a.spec.Name),
			common.StatusBadGateway,
			resp,
		)
	}

	return &SubmitResult{
		Sync:       true,
		ResultURL:  audioURL,
		DurationMs: getInt64(resp, "durationMs"),
	}, nil
}

// Poll không áp dụng cho provider đồng bộ.
func (a *SpeechAdapter) Poll(ctx context.Context, providerJobID string, apiKey string) (*PollResult, error) {
	return nil, common.NewError(
		common.ErrCodeProviderRequest,
		fmt.Sprintf("Provider %s là provider đồng bộ, không có job để poll", a.spec.Name),
		common.StatusBadRequest,
		nil,
	)
}
