package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái chuẩn của một generation job.
// Job chỉ được poller thay đổi; trạng thái terminal là cuối cùng —
// sinh lại luôn tạo job mới, không bao giờ hồi sinh job cũ.
const (
	JobStatusQueued     = "queued"     // Đã submit, chưa bắt đầu xử lý
	JobStatusProcessing = "processing" // Provider đang xử lý
	JobStatusComplete   = "complete"   // Artifact đã được materialize (terminal)
	JobStatusError      = "error"      // Thất bại (terminal)
)

// IsTerminalStatus kiểm tra một trạng thái chuẩn có phải terminal không.
func IsTerminalStatus(status string) bool {
	return status == JobStatusComplete || status == JobStatusError
}

// GenerationJob đại diện cho một lần sinh media tại provider
type GenerationJob struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Job id phía provider. Provider đồng bộ không có job id thật nên được
	// gán uuid sinh cục bộ để giữ tính duy nhất của credit spend theo job.
	ProviderJobID string `json:"providerJobId" bson:"providerJobId" index:"unique,sparse"`

	UnitID    primitive.ObjectID  `json:"unitId" bson:"unitId" index:"single:1"`
	ProjectID primitive.ObjectID  `json:"projectId" bson:"projectId" index:"single:1"`
	BatchID   *primitive.ObjectID `json:"batchId,omitempty" bson:"batchId,omitempty"` // Batch chứa job (nếu chạy batch)

	Kind     string `json:"kind" bson:"kind"`         // speech, music, image
	Provider string `json:"provider" bson:"provider"` // Provider đã resolve
	Model    string `json:"model" bson:"model"`       // Model đã resolve
	Language string `json:"language" bson:"language"` // Ngôn ngữ của artifact
	Voice    string `json:"voice,omitempty" bson:"voice,omitempty"`

	Status string `json:"status" bson:"status" index:"single:1"` // queued, processing, complete, error
	// Trạng thái thô gần nhất của provider, giữ nguyên chuỗi để chẩn đoán
	// (kể cả chuỗi không nhận dạng được)
	ProviderStatus string `json:"providerStatus,omitempty" bson:"providerStatus,omitempty"`
	ErrorDetail    string `json:"errorDetail,omitempty" bson:"errorDetail,omitempty"`

	// Đếm sub-item cho job batch phía provider (đa số job đơn: 1/1/0)
	TotalItems     int `json:"totalItems" bson:"totalItems"`
	CompletedItems int `json:"completedItems" bson:"completedItems"`
	FailedItems    int `json:"failedItems" bson:"failedItems"`

	PaysWithOwnKey bool    `json:"paysWithOwnKey" bson:"paysWithOwnKey"` // true = key riêng của người dùng, không trừ credit
	CreditCost     float64 `json:"creditCost" bson:"creditCost"`         // Chi phí credit của job
	CreditSpent    bool    `json:"creditSpent" bson:"creditSpent"`       // Đã trừ credit chưa (idempotency)

	// Job sinh bản ứng viên cho quy trình duyệt — kết quả không được ghi vào
	// version store của unit
	CandidateOnly bool `json:"candidateOnly,omitempty" bson:"candidateOnly,omitempty"`

	ResultURL string `json:"resultUrl,omitempty" bson:"resultUrl,omitempty"` // URL artifact sau materialize

	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"`

	StartedAt   int64 `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CompletedAt int64 `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt   int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64 `json:"updatedAt" bson:"updatedAt" index:"single:1"`
}

// GenerationJobPaginateResult - Kết quả phân trang job
type GenerationJobPaginateResult struct {
	Items     []GenerationJob `json:"items"`
	Page      int64           `json:"page"`
	Limit     int64           `json:"limit"`
	ItemCount int64           `json:"itemCount"`
}
