// Package authsvc - service người dùng (User).
package authsvc

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand"
	"strconv"
	"time"

	authdto "film_studio/internal/api/auth/dto"
	models "film_studio/internal/api/auth/models"
	basesvc "film_studio/internal/api/base/service"
	"film_studio/internal/common"
	"film_studio/internal/global"
	"film_studio/internal/utility"

	"github.com/sirupsen/logrus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService là cấu trúc chứa các phương thức liên quan đến người dùng
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
}

// NewUserService tạo mới UserService
func NewUserService() (*UserService, error) {
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
	}, nil
}

// generateSalt sinh salt ngẫu nhiên cho mật khẩu.
func generateSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("không thể sinh salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// hashPassword băm mật khẩu với salt.
func hashPassword(password string, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// Register đăng ký tài khoản mới và trả về user kèm token đăng nhập.
func (s *UserService) Register(ctx context.Context, input *authdto.UserRegisterInput) (*models.User, error) {
	if err := utility.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := utility.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	// Kiểm tra email đã tồn tại chưa
	if _, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil); err == nil {
		return nil, common.NewError(common.ErrCodeAuth, "Email đã được sử dụng", common.StatusConflict, nil)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	salt, err := generateSalt()
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, err.Error(), common.StatusInternalServerError, err)
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashPassword(input.Password, salt),
		Salt:     salt,
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, common.NewError(common.ErrCodeAuth, "Email đã được sử dụng", common.StatusConflict, nil)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": created.ID.Hex(), "email": created.Email}).Info("Register: Đăng ký tài khoản thành công")

	return s.issueToken(ctx, &created, input.Hwid)
}

// Login đăng nhập bằng email + mật khẩu, trả về user kèm token mới.
func (s *UserService) Login(ctx context.Context, input *authdto.UserLoginInput) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": input.Email}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeAuth, "Email hoặc mật khẩu không đúng", common.StatusUnauthorized, nil)
		}
		return nil, err
	}

	if hashPassword(input.Password, user.Salt) != user.Password {
		logrus.WithFields(logrus.Fields{"email": input.Email}).Warn("Login: Sai mật khẩu")
		return nil, common.NewError(common.ErrCodeAuth, "Email hoặc mật khẩu không đúng", common.StatusUnauthorized, nil)
	}

	if user.IsBlock {
		return nil, common.NewError(common.ErrCodeAuth, "Tài khoản đã bị khóa: "+user.BlockNote, common.StatusForbidden, nil)
	}

	return s.issueToken(ctx, &user, input.Hwid)
}

// issueToken tạo JWT token mới cho user và cập nhật vào danh sách tokens theo hwid.
func (s *UserService) issueToken(ctx context.Context, user *models.User, hwid string) (*models.User, error) {
	rdNumber := mrand.Intn(100)
	currentTime := time.Now().Unix()
	tokenMap, err := utility.CreateToken(global.MongoDB_ServerConfig.JwtSecret, user.ID.Hex(), strconv.FormatInt(currentTime, 16), strconv.Itoa(rdNumber))
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Không thể tạo token", common.StatusInternalServerError, err)
	}

	user.Token = tokenMap["token"]
	var idTokenExist int = -1
	for i, _token := range user.Tokens {
		if _token.Hwid == hwid {
			idTokenExist = i
			break
		}
	}
	if idTokenExist == -1 {
		user.Tokens = append(user.Tokens, models.Token{Hwid: hwid, JwtToken: tokenMap["token"]})
	} else {
		user.Tokens[idTokenExist].JwtToken = tokenMap["token"]
	}

	tokenUpdateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"token":  user.Token,
			"tokens": user.Tokens,
		},
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, tokenUpdateData)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "error": err.Error()}).Error("issueToken: Lỗi khi cập nhật token vào user")
		return nil, err
	}

	return &updatedUser, nil
}

// Logout đăng xuất người dùng (xóa token theo hwid)
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID, input *authdto.UserLogoutInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	newTokens := make([]models.Token, 0)
	for _, t := range user.Tokens {
		if t.Hwid != input.Hwid {
			newTokens = append(newTokens, t)
		}
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"tokens": newTokens,
			"token":  "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// ChangePassword đổi mật khẩu người dùng, thu hồi toàn bộ token hiện có.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, input *authdto.UserChangePasswordInput) error {
	user, err := s.BaseServiceMongoImpl.FindOneById(ctx, userID)
	if err != nil {
		return err
	}
	if hashPassword(input.OldPassword, user.Salt) != user.Password {
		return common.NewError(common.ErrCodeAuth, "Mật khẩu cũ không đúng", common.StatusUnauthorized, nil)
	}
	if err := utility.ValidatePassword(input.NewPassword); err != nil {
		return err
	}

	salt, err := generateSalt()
	if err != nil {
		return common.NewError(common.ErrCodeInternalServer, err.Error(), common.StatusInternalServerError, err)
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"password": hashPassword(input.NewPassword, salt),
			"salt":     salt,
			"tokens":   []models.Token{},
			"token":    "",
		},
	}
	_, err = s.BaseServiceMongoImpl.UpdateById(ctx, userID, updateData)
	return err
}

// SetBlock khóa hoặc mở khóa tài khoản theo email.
func (s *UserService) SetBlock(ctx context.Context, email string, isBlock bool, note string) (*models.User, error) {
	user, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"email": email}, nil)
	if err != nil {
		return nil, err
	}
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"isBlock":   isBlock,
			"blockNote": note,
		},
	}
	if isBlock {
		// Thu hồi token khi khóa tài khoản
		updateData.Set["tokens"] = []models.Token{}
		updateData.Set["token"] = ""
	}
	updatedUser, err := s.BaseServiceMongoImpl.UpdateById(ctx, user.ID, updateData)
	if err != nil {
		return nil, err
	}
	return &updatedUser, nil
}
