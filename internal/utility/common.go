package utility

import (
	"fmt"
	"regexp"

	"film_studio/internal/common"
)

// GoProtect bao một hàm chạy nền: panic trong f() được bắt lại và in ra thay vì
// làm sập tiến trình. Dùng cho các goroutine không gắn với vòng đời request.
func GoProtect(f func()) {
	defer func() {
		if err := recover(); err != nil {
			fmt.Printf("Đã bắt lỗi panic: %v\n", err)
		}
	}()

	f()
}

// ValidateEmail kiểm tra định dạng email
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return common.NewError(common.ErrCodeValidationInput, "Email không đúng định dạng", common.StatusBadRequest, nil)
	}
	return nil
}

// ValidatePassword kiểm tra độ mạnh của mật khẩu
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return common.NewError(common.ErrCodeValidationInput, "Mật khẩu phải có ít nhất 8 ký tự", common.StatusBadRequest, nil)
	}
	return nil
}
