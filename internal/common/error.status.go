package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusAccepted  = 202 // Yêu cầu được chấp nhận
	StatusNoContent = 204 // Thành công nhưng không có nội dung trả về

	// Client Error Codes (4xx)
	StatusBadRequest       = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized     = 401 // Chưa xác thực
	StatusPaymentRequired  = 402 // Số dư credit không đủ
	StatusForbidden        = 403 // Không có quyền truy cập
	StatusNotFound         = 404 // Không tìm thấy tài nguyên
	StatusMethodNotAllowed = 405 // Phương thức HTTP không được hỗ trợ
	StatusConflict         = 409 // Xung đột dữ liệu
	StatusGone             = 410 // Tài nguyên không còn tồn tại
	StatusTooManyRequests  = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusNotImplemented      = 501 // Chức năng chưa được triển khai
	StatusBadGateway          = 502 // Provider bên ngoài trả lỗi
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
	StatusGatewayTimeout      = 504 // Gateway timeout
)

// Response Messages
const (
	// Success Messages
	MsgSuccess   = "Thao tác thành công"
	MsgCreated   = "Tạo mới thành công"
	MsgAccepted  = "Yêu cầu được chấp nhận"
	MsgNoContent = "Không có nội dung trả về"

	// Error Messages
	MsgBadRequest         = "Yêu cầu không hợp lệ"
	MsgUnauthorized       = "Vui lòng đăng nhập"
	MsgForbidden          = "Không có quyền truy cập"
	MsgNotFound           = "Không tìm thấy tài nguyên"
	MsgMethodNotAllowed   = "Phương thức không được hỗ trợ"
	MsgConflict           = "Xung đột dữ liệu"
	MsgTooManyRequests    = "Quá nhiều yêu cầu"
	MsgInternalError      = "Lỗi hệ thống"
	MsgBadGateway         = "Provider bên ngoài trả lỗi"
	MsgServiceUnavailable = "Dịch vụ không khả dụng"

	// Token Messages
	MsgTokenMissing = "Thiếu token xác thực"
	MsgTokenInvalid = "Token không hợp lệ"
	MsgTokenExpired = "Token đã hết hạn"

	// Validation Messages
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi tương tác với cơ sở dữ liệu"
	MsgInvalidFormat   = "Định dạng dữ liệu không hợp lệ"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: PRV_001)
	Category    string // Phân loại lỗi (ví dụ: Provider)
	SubCategory string // Phân loại con (ví dụ: Configuration)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuth = ErrorCode{
		Code:        "AUTH",
		Category:    "Authentication",
		SubCategory: "General",
		Description: "Lỗi xác thực chung",
	}

	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Lỗi liên quan đến token",
	}

	ErrCodeAuthOwnership = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Ownership",
		Description: "Người dùng không phải chủ sở hữu tài nguyên",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidation = ErrorCode{
		Code:        "VAL",
		Category:    "Validation",
		SubCategory: "General",
		Description: "Lỗi xác thực dữ liệu chung",
	}

	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	// Provider Errors (PRV_xxx) - lỗi khi làm việc với provider sinh media
	ErrCodeProviderConfig = ErrorCode{
		Code:        "PRV_001",
		Category:    "Provider",
		SubCategory: "Configuration",
		Description: "Không có provider hoặc credential khả dụng",
	}

	ErrCodeProviderRequest = ErrorCode{
		Code:        "PRV_002",
		Category:    "Provider",
		SubCategory: "Request",
		Description: "Provider từ chối hoặc job thất bại",
	}

	ErrCodeProviderFetch = ErrorCode{
		Code:        "PRV_003",
		Category:    "Provider",
		SubCategory: "Fetch",
		Description: "Không tải được artifact đã sinh xong",
	}

	// Credit Errors (CRD_xxx)
	ErrCodeCreditBalance = ErrorCode{
		Code:        "CRD_001",
		Category:    "Credit",
		SubCategory: "Balance",
		Description: "Số dư credit không đủ cho thao tác",
	}

	ErrCodeCreditSpend = ErrorCode{
		Code:        "CRD_002",
		Category:    "Credit",
		SubCategory: "Spend",
		Description: "Lỗi ghi nhận trừ credit",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusiness = ErrorCode{
		Code:        "BIZ",
		Category:    "Business",
		SubCategory: "General",
		Description: "Lỗi logic nghiệp vụ chung",
	}

	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Lỗi trạng thái nghiệp vụ",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Lỗi thao tác nghiệp vụ",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is kiểm tra xem error có phải là target error không (hỗ trợ errors.Is)
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if targetErr, ok := target.(*Error); ok {
		return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
	}

	return false
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	// Authentication Errors
	ErrTokenExpired = NewError(ErrCodeAuthToken, "Phiên đăng nhập đã hết hạn", StatusUnauthorized, nil)
	ErrTokenInvalid = NewError(ErrCodeAuthToken, "Token không hợp lệ", StatusUnauthorized, nil)
	ErrTokenMissing = NewError(ErrCodeAuthToken, "Thiếu token xác thực", StatusUnauthorized, nil)
	ErrNotOwner     = NewError(ErrCodeAuthOwnership, "Chỉ chủ sở hữu dự án mới được thực hiện thao tác này", StatusForbidden, nil)
	ErrUserNotFound = NewError(ErrCodeAuthToken, "Không tìm thấy thông tin người dùng", StatusNotFound, nil)

	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound   = NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "Dữ liệu đã tồn tại", StatusConflict, nil)
	ErrConstraint = NewError(ErrCodeDatabaseQuery, "Vi phạm ràng buộc dữ liệu", StatusBadRequest, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusServiceUnavailable, nil)

	// Provider Errors
	ErrProviderNotConfigured = NewError(ErrCodeProviderConfig, "Provider chưa được cấu hình hoặc thiếu credential", StatusBadRequest, nil)
	ErrProviderRequest       = NewError(ErrCodeProviderRequest, "Provider trả về lỗi khi sinh media", StatusBadGateway, nil)
	ErrArtifactFetch         = NewError(ErrCodeProviderFetch, "Không tải được artifact từ provider", StatusBadGateway, nil)

	// Credit Errors
	ErrInsufficientCredits = NewError(ErrCodeCreditBalance, "Số dư credit không đủ", StatusPaymentRequired, nil)
	ErrSpendDuplicate      = NewError(ErrCodeCreditSpend, "Job này đã được trừ credit trước đó", StatusConflict, nil)

	// Business Logic Errors
	ErrInvalidState     = NewError(ErrCodeBusinessState, "Trạng thái không hợp lệ", StatusBadRequest, nil)
	ErrInvalidOperation = NewError(ErrCodeBusinessOperation, "Thao tác không hợp lệ", StatusBadRequest, nil)
	ErrAttemptsExceeded = NewError(ErrCodeBusinessOperation, "Đã dùng hết số lần sinh lại cho phép", StatusBadRequest, nil)
)

// NewInsufficientCreditsError tạo lỗi thiếu credit kèm số liệu để client
// hiển thị hộp thoại quyết định (dùng credit chung hoặc nhập API key riêng).
func NewInsufficientCreditsError(required float64, balance float64) error {
	return &Error{
		Code:       ErrCodeCreditBalance,
		Message:    "Số dư credit không đủ",
		StatusCode: StatusPaymentRequired,
		Details: map[string]any{
			"required": required,
			"balance":  balance,
		},
	}
}

// NewValidationError tạo lỗi dữ liệu đầu vào kèm hướng dẫn khắc phục cho từng unit.
func NewValidationError(message string, remedy string) error {
	return &Error{
		Code:       ErrCodeValidationInput,
		Message:    message,
		StatusCode: StatusBadRequest,
		Details:    map[string]any{"remedy": remedy},
	}
}

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Không convert ErrNotFound - giữ nguyên để tầng trên xử lý
	if errors.Is(err, ErrNotFound) {
		return err
	}

	var mongoErr mongo.CommandError
	if errors.As(err, &mongoErr) {
		switch {
		case mongoErr.Code >= 100 && mongoErr.Code < 200:
			return NewError(ErrCodeDatabaseConnection, "Lỗi kết nối MongoDB", StatusServiceUnavailable, err)
		case mongoErr.Code >= 200 && mongoErr.Code < 300:
			return NewError(ErrCodeAuth, "Lỗi xác thực MongoDB", StatusUnauthorized, err)
		case mongoErr.Code >= 300 && mongoErr.Code < 400:
			return NewError(ErrCodeDatabaseQuery, "Lỗi truy vấn MongoDB", StatusInternalServerError, err)
		case mongoErr.Code >= 400 && mongoErr.Code < 500:
			return NewError(ErrCodeDatabaseQuery, "Lỗi ghi dữ liệu MongoDB", StatusInternalServerError, err)
		case mongoErr.Code >= 500:
			return NewError(ErrCodeDatabase, "Lỗi hệ thống MongoDB", StatusInternalServerError, err)
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if mongo.IsNetworkError(err) {
		return NewError(ErrCodeDatabaseConnection, "Lỗi mạng khi kết nối MongoDB", StatusServiceUnavailable, err)
	}
	if mongo.IsTimeout(err) {
		return NewError(ErrCodeDatabaseConnection, "Kết nối MongoDB bị timeout", StatusServiceUnavailable, err)
	}

	return NewError(ErrCodeDatabase, "Lỗi tương tác với cơ sở dữ liệu", StatusInternalServerError, err)
}
