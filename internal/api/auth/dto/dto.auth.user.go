package authdto

// UserCreateInput đầu vào tạo người dùng (CRUD).
type UserCreateInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// UserRegisterInput đầu vào đăng ký tài khoản.
type UserRegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Hwid     string `json:"hwid" validate:"required"`
}

// UserLoginInput đầu vào đăng nhập người dùng.
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Hwid     string `json:"hwid" validate:"required"`
}

// UserLogoutInput đầu vào đăng xuất người dùng.
type UserLogoutInput struct {
	Hwid string `json:"hwid" validate:"required"`
}

// UserChangeInfoInput đầu vào thay đổi thông tin người dùng.
type UserChangeInfoInput struct {
	Name string `json:"name"`
}

// UserChangePasswordInput đầu vào đổi mật khẩu.
type UserChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// BlockUserInput đầu vào khóa người dùng.
type BlockUserInput struct {
	Email string `json:"email" validate:"required"`
	Note  string `json:"note" validate:"required"`
}

// UnBlockUserInput đầu vào mở khóa người dùng.
type UnBlockUserInput struct {
	Email string `json:"email" validate:"required"`
}
