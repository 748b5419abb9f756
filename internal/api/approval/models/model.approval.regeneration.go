// Package models chứa các model của quy trình duyệt: yêu cầu sinh lại và
// yêu cầu xóa phiên bản media do người không sở hữu dự án gửi lên.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của yêu cầu sinh lại.
const (
	RegenStatusPending       = "pending"        // Chờ chủ sở hữu duyệt
	RegenStatusApproved      = "approved"       // Đã duyệt, chưa chạy lần sinh nào
	RegenStatusGenerating    = "generating"     // Đang chạy một lần sinh ứng viên
	RegenStatusSelecting     = "selecting"      // Có ứng viên, có thể sinh tiếp hoặc chọn
	RegenStatusAwaitingFinal = "awaiting_final" // Hết lượt sinh, chỉ còn chọn
	RegenStatusRejected      = "rejected"       // Chủ sở hữu từ chối (terminal)
	RegenStatusCompleted     = "completed"      // Đã chọn ứng viên cuối (terminal)
)

// RegenerationRequest là yêu cầu sinh lại media cho một content unit do người
// không sở hữu dự án tạo. Chủ sở hữu duyệt hoặc từ chối; sau khi duyệt, số lần
// sinh ứng viên bị giới hạn bởi maxAttempts. Ứng viên chỉ nằm trên yêu cầu,
// không được ghi vào version store của unit cho đến khi được chọn.
type RegenerationRequest struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	UnitID    primitive.ObjectID `json:"unitId" bson:"unitId" index:"single:1"`
	ProjectID primitive.ObjectID `json:"projectId" bson:"projectId" index:"single:1"`

	RequestedBy primitive.ObjectID `json:"requestedBy" bson:"requestedBy"`          // Người gửi yêu cầu (không phải chủ sở hữu)
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"` // Chủ sở hữu dự án (người duyệt)

	Status       string `json:"status" bson:"status" index:"single:1"`
	AttemptsUsed int    `json:"attemptsUsed" bson:"attemptsUsed"`
	MaxAttempts  int    `json:"maxAttempts" bson:"maxAttempts"`

	// URL các bản ứng viên đã sinh, theo thứ tự sinh
	Candidates []string `json:"candidates,omitempty" bson:"candidates,omitempty"`

	// Provider/language/voice của chu kỳ sinh gần nhất — cần để dựng version
	// key khi chọn ứng viên cuối
	Provider string `json:"provider,omitempty" bson:"provider,omitempty"`
	Language string `json:"language,omitempty" bson:"language,omitempty"`
	Voice    string `json:"voice,omitempty" bson:"voice,omitempty"`

	Reason string `json:"reason,omitempty" bson:"reason,omitempty"` // Lý do yêu cầu sinh lại

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// IsTerminalRegenStatus kiểm tra trạng thái yêu cầu sinh lại đã kết thúc chưa.
func IsTerminalRegenStatus(status string) bool {
	return status == RegenStatusRejected || status == RegenStatusCompleted
}

// CanRegenerate kiểm tra yêu cầu còn được phép chạy thêm một lần sinh ứng viên không.
func (r *RegenerationRequest) CanRegenerate() bool {
	if r.Status != RegenStatusApproved && r.Status != RegenStatusSelecting {
		return false
	}
	return r.AttemptsUsed < r.MaxAttempts
}

// RegenerationRequestPaginateResult kết quả phân trang danh sách yêu cầu sinh lại
type RegenerationRequestPaginateResult struct {
	Items     []RegenerationRequest `json:"items"`
	Page      int64                 `json:"page"`
	Limit     int64                 `json:"limit"`
	ItemCount int64                 `json:"itemCount"`
}
