package utility

import (
	"fmt"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

// TokenLifetime thời gian sống của JWT token.
const TokenLifetime = 30 * 24 * time.Hour

// CreateToken tạo JWT token chứa userId, time và randomNumber.
// Trả về map có key "token" để tương thích với các caller cũ.
func CreateToken(secret string, userID string, timeHex string, randomNumber string) (map[string]string, error) {
	claims := jwt.MapClaims{
		"userId":       userID,
		"time":         timeHex,
		"randomNumber": randomNumber,
		"exp":          time.Now().Add(TokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("không thể ký JWT token: %w", err)
	}
	return map[string]string{"token": signed}, nil
}

// VerifyToken kiểm tra chữ ký và hạn của JWT token, trả về userId trong claims.
func VerifyToken(secret string, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("thuật toán ký không hợp lệ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("token không hợp lệ")
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("token thiếu userId")
	}
	return userID, nil
}
