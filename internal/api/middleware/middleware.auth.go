package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	models "film_studio/internal/api/auth/models"
	authsvc "film_studio/internal/api/auth/service"
	"film_studio/internal/common"
	"film_studio/internal/global"
	"film_studio/internal/logger"
	"film_studio/internal/utility"
)

// AuthManager quản lý xác thực người dùng
type AuthManager struct {
	UserCRUD *authsvc.UserService
	Cache    *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager (private constructor)
func newAuthManager() (*AuthManager, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}

	return &AuthManager{
		UserCRUD: userService,
		// Cache token -> user để giảm số lần query DB khi xác thực
		Cache: utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// findUserByToken tìm user theo token, ưu tiên cache.
func (am *AuthManager) findUserByToken(ctx context.Context, token string) (models.User, error) {
	cacheKey := "auth_token:" + token
	if cached, found := am.Cache.Get(cacheKey); found {
		return cached.(models.User), nil
	}

	// Ưu tiên query field "token" (token mới nhất) trước vì nó được cập nhật mỗi lần login
	// Nếu không tìm thấy, query trong array "tokens" (tokens theo hwid)
	user, err := am.UserCRUD.FindOne(ctx, bson.M{"token": token}, nil)
	if err != nil {
		user, err = am.UserCRUD.FindOne(ctx, bson.M{"tokens.jwtToken": token}, nil)
		if err != nil {
			return models.User{}, err
		}
	}

	am.Cache.Set(cacheKey, user)
	return user, nil
}

// AuthMiddleware middleware xác thực cho Fiber.
// Kiểm tra chữ ký + hạn của JWT token rồi đối chiếu với token đang lưu trong user.
// Lưu userID và user vào context để các handler phía sau sử dụng.
func AuthMiddleware() fiber.Handler {
	// Sử dụng singleton instance của AuthManager
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("AUTH: Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		token := parts[1]

		// Kiểm tra chữ ký và hạn của JWT token
		tokenUserID, err := utility.VerifyToken(global.MongoDB_ServerConfig.JwtSecret, token)
		if err != nil {
			HandleErrorResponse(c, common.ErrTokenExpired)
			return nil
		}

		// Đối chiếu token với user trong database (token có thể đã bị thu hồi khi logout/block)
		user, err := authManager.findUserByToken(c.Context(), token)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("AUTH: Token not found in database")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// userId trong claims phải trùng với chủ sở hữu token
		if user.ID.Hex() != tokenUserID {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Kiểm tra user có bị block không
		if user.IsBlock {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuth,
				"Tài khoản đã bị khóa: "+user.BlockNote,
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("userID", user.ID.Hex())
		c.Locals("user", user)

		return c.Next()
	}
}
