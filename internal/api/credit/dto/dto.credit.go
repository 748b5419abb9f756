// Package creditdto chứa các cấu trúc dữ liệu đầu vào cho domain credit.
package creditdto

// TopupInput là yêu cầu nạp credit vào tài khoản của người gọi.
type TopupInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// CreditAccountCreateInput / CreditAccountUpdateInput chỉ tồn tại để thỏa
// generic của BaseHandler — tài khoản tạo tự động, số dư do service quản lý.
type CreditAccountCreateInput struct{}

// CreditAccountUpdateInput - xem CreditAccountCreateInput.
type CreditAccountUpdateInput struct{}

// CreditSpendCreateInput - spend chỉ được pipeline ghi.
type CreditSpendCreateInput struct{}

// CreditSpendUpdateInput - spend bất biến sau khi ghi.
type CreditSpendUpdateInput struct{}
