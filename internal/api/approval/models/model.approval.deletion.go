package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của yêu cầu xóa phiên bản media.
const (
	DeletionStatusPending  = "pending"  // Chờ chủ sở hữu duyệt
	DeletionStatusApproved = "approved" // Đã duyệt, việc xóa đã thực thi (terminal)
	DeletionStatusRejected = "rejected" // Chủ sở hữu từ chối (terminal)
)

// DeletionRequest là yêu cầu xóa một phiên bản media của content unit do người
// không sở hữu dự án tạo. Khi chủ sở hữu duyệt thì việc xóa được thực thi ngay.
type DeletionRequest struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	UnitID    primitive.ObjectID `json:"unitId" bson:"unitId" index:"single:1"`
	ProjectID primitive.ObjectID `json:"projectId" bson:"projectId" index:"single:1"`

	RequestedBy primitive.ObjectID `json:"requestedBy" bson:"requestedBy"`
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"`

	// Khóa (provider:language) của phiên bản cần xóa
	VersionKey string `json:"versionKey" bson:"versionKey"`

	Status string `json:"status" bson:"status" index:"single:1"`
	Reason string `json:"reason,omitempty" bson:"reason,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// DeletionRequestPaginateResult kết quả phân trang danh sách yêu cầu xóa
type DeletionRequestPaginateResult struct {
	Items     []DeletionRequest `json:"items"`
	Page      int64             `json:"page"`
	Limit     int64             `json:"limit"`
	ItemCount int64             `json:"itemCount"`
}
