// Package generationdto chứa các cấu trúc dữ liệu đầu vào cho domain generation.
package generationdto

// GenerateInput là yêu cầu sinh media cho một content unit.
// Các trường provider/model/language/voice là override, rỗng = dùng cấu hình dự án.
type GenerateInput struct {
	UnitID   string `json:"unitId" validate:"required"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	Language string `json:"language,omitempty"`
	Voice    string `json:"voice,omitempty"`
	Kind     string `json:"kind,omitempty" validate:"omitempty,oneof=speech music image"`
}

// ResumeInput là quyết định của người dùng cho một yêu cầu bị chặn vì thiếu credit.
type ResumeInput struct {
	DecisionID string `json:"decisionId" validate:"required"`
	Mode       string `json:"mode" validate:"required,oneof=own_key shared abandon"`
	APIKey     string `json:"apiKey,omitempty"`
}

// BatchRunInput là yêu cầu sinh media hàng loạt.
type BatchRunInput struct {
	ProjectID       string `json:"projectId" validate:"required"`
	SceneID         string `json:"sceneId,omitempty"` // Rỗng = cả dự án
	Kind            string `json:"kind,omitempty" validate:"omitempty,oneof=speech music"`
	Provider        string `json:"provider,omitempty"`
	Model           string `json:"model,omitempty"`
	Language        string `json:"language,omitempty"`
	SkipCreditCheck bool   `json:"skipCreditCheck,omitempty"`
}

// GenerationJobCreateInput / GenerationJobUpdateInput chỉ tồn tại để thỏa
// generic của BaseHandler — job do pipeline quản lý, route ghi không được mở.
type GenerationJobCreateInput struct{}

// GenerationJobUpdateInput - xem GenerationJobCreateInput.
type GenerationJobUpdateInput struct{}

// GenerationBatchCreateInput - batch tạo qua endpoint run, không qua CRUD.
type GenerationBatchCreateInput struct{}

// GenerationBatchUpdateInput - batch chỉ được pipeline cập nhật.
type GenerationBatchUpdateInput struct{}
