package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreditSpend là một lần trừ credit, gắn với đúng một generation job.
// Index unique trên jobId đảm bảo một job không bao giờ bị trừ hai lần.
type CreditSpend struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"` // Người bị trừ credit
	JobID   primitive.ObjectID `json:"jobId" bson:"jobId"`                      // Unique index tạo trong database package

	Amount      float64 `json:"amount" bson:"amount"`           // Số credit đã trừ
	Category    string  `json:"category" bson:"category"`       // speech, music, image
	Description string  `json:"description" bson:"description"` // Mô tả cho người dùng

	ProjectID primitive.ObjectID `json:"projectId" bson:"projectId" index:"single:1"`
	Provider  string             `json:"provider" bson:"provider"`

	Metadata map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
}
