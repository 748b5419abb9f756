package providers

import (
	"context"
	"fmt"

	"film_studio/internal/common"
)

// MusicAdapter gọi API sinh nhạc nền. Sinh nhạc chạy lâu nên provider trả về
// job id, trạng thái và kết quả lấy qua Poll.
type MusicAdapter struct {
	spec *ProviderSpec
}

// NewMusicAdapter tạo adapter nhạc nền từ spec catalog.
func NewMusicAdapter(spec *ProviderSpec) *MusicAdapter {
	return &MusicAdapter{spec: spec}
}

// Submit gửi prompt sinh nhạc, nhận về job id của provider.
func (a *MusicAdapter) Submit(ctx context.Context, params GenerationParams) (*SubmitResult, error) {
	payload := map[string]interface{}{
		"prompt": params.Text,
		"model":  params.Model,
	}
	if params.Voice != "" {
		payload["style"] = params.Voice
	}

	resp, err := postJSON(ctx, a.spec.Endpoint+"/v1/generate", params.APIKey, payload)
	if err != nil {
		return nil, err
	}

	jobID := getString(resp, "jobId")
	if jobID == "" {
		jobID = getString(resp, "id")
	}
	if jobID == "" {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Provider %s không trả về job id", a.spec.Name),
			common.StatusBadGateway,
			resp,
		)
	}

	return &SubmitResult{
		Sync:          false,
		ProviderJobID: jobID,
	}, nil
}

// Poll hỏi trạng thái job sinh nhạc. Status giữ nguyên chuỗi của provider,
// việc chuẩn hóa nằm ở tầng service.
func (a *MusicAdapter) Poll(ctx context.Context, providerJobID string, apiKey string) (*PollResult, error) {
	resp, err := getJSON(ctx, fmt.Sprintf("%s/v1/jobs/%s", a.spec.Endpoint, providerJobID), apiKey)
	if err != nil {
		return nil, err
	}

	return &PollResult{
		Status:  getString(resp, "status"),
		Payload: resp,
	}, nil
}
