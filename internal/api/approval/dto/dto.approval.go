// Package approvaldto chứa các cấu trúc dữ liệu đầu vào cho quy trình duyệt.
package approvaldto

// RegenerationCreateInput là dữ liệu tạo yêu cầu sinh lại (người không sở hữu gửi)
type RegenerationCreateInput struct {
	UnitID string `json:"unitId" validate:"required" transform:"str_objectid"`
	Reason string `json:"reason,omitempty"`
}

// RegenerationUpdateInput tồn tại để thỏa generic của BaseHandler — yêu cầu
// sinh lại chỉ thay đổi qua các action approve/reject/regenerate/select
type RegenerationUpdateInput struct{}

// RegenerationSelectInput chọn một bản ứng viên làm kết quả cuối
type RegenerationSelectInput struct {
	CandidateURL string `json:"candidateUrl" validate:"required"`
}

// DeletionCreateInput là dữ liệu tạo yêu cầu xóa phiên bản media
type DeletionCreateInput struct {
	UnitID   string `json:"unitId" validate:"required" transform:"str_objectid"`
	Provider string `json:"provider" validate:"required"`
	Language string `json:"language" validate:"required"`
	Reason   string `json:"reason,omitempty"`
}

// DeletionUpdateInput tồn tại để thỏa generic của BaseHandler
type DeletionUpdateInput struct{}
