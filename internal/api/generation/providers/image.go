package providers

import (
	"context"
	"fmt"

	"film_studio/internal/common"
)

// ImageAdapter gọi API sinh ảnh minh họa. Trả về artifact ngay (đồng bộ).
type ImageAdapter struct {
	spec *ProviderSpec
}

// NewImageAdapter tạo adapter sinh ảnh từ spec catalog.
func NewImageAdapter(spec *ProviderSpec) *ImageAdapter {
	return &ImageAdapter{spec: spec}
}

// Submit gửi prompt sinh ảnh và nhận image URL ngay.
func (a *ImageAdapter) Submit(ctx context.Context, params GenerationParams) (*SubmitResult, error) {
	payload := map[string]interface{}{
		"prompt": params.Text,
		"model":  params.Model,
	}

	resp, err := postJSON(ctx, a.spec.Endpoint+"/v1/images", params.APIKey, payload)
	if err != nil {
		return nil, err
	}

	imageURL := getString(resp, "imageUrl")
	if imageURL == "" {
		imageURL = getString(resp, "url")
	}
	if imageURL == "" {
		return nil, common.NewError(
			common.ErrCodeProviderRequest,
			fmt.Sprintf("Provider %s không trả về image URL", a.spec.Name),
			common.StatusBadGateway,
			resp,
		)
	}

	return &SubmitResult{
		Sync:      true,
		ResultURL: imageURL,
	}, nil
}

// Poll không áp dụng cho provider đồng bộ.
func (a *ImageAdapter) Poll(ctx context.Context, providerJobID string, apiKey string) (*PollResult, error) {
	return nil, common.NewError(
		common.ErrCodeProviderRequest,
		fmt.Sprintf("Provider %s là provider đồng bộ, không có job để poll", a.spec.Name),
		common.StatusBadRequest,
		nil,
	)
}
