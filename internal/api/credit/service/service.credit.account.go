// Package creditsvc - service quản lý credit: số dư, kiểm tra trước khi sinh
// media và trừ credit sau khi artifact đã được materialize.
package creditsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basesvc "film_studio/internal/api/base/service"
	models "film_studio/internal/api/credit/models"
	"film_studio/internal/common"
	"film_studio/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BalanceCheck là kết quả kiểm tra số dư trước một lần sinh media.
type BalanceCheck struct {
	HasEnough bool    `json:"hasEnough"`
	Required  float64 `json:"required"`
	Balance   float64 `json:"balance"`
}

// CreditAccountService là cấu trúc chứa các phương thức liên quan đến tài khoản credit
type CreditAccountService struct {
	*basesvc.BaseServiceMongoImpl[models.CreditAccount]
}

// NewCreditAccountService tạo mới CreditAccountService
func NewCreditAccountService() (*CreditAccountService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.CreditAccounts)
	if !exist {
		return nil, fmt.Errorf("failed to get credit_accounts collection: %v", common.ErrNotFound)
	}

	return &CreditAccountService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.CreditAccount](col),
	}, nil
}

// EnsureAccount trả về tài khoản credit của người dùng, tạo mới số dư 0 nếu chưa có.
func (s *CreditAccountService) EnsureAccount(ctx context.Context, userID primitive.ObjectID) (models.CreditAccount, error) {
	account, err := s.FindOne(ctx, bson.M{"ownerId": userID}, nil)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return models.CreditAccount{}, err
	}

	now := time.Now().UnixMilli()
	account = models.CreditAccount{
		OwnerID:   userID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.InsertOne(ctx, account)
	if err != nil {
		// Hai request cùng tạo tài khoản: đọc lại bản đã thắng
		if errors.Is(err, common.ErrDuplicate) {
			return s.FindOne(ctx, bson.M{"ownerId": userID}, nil)
		}
		return models.CreditAccount{}, err
	}
	return created, nil
}

// CheckBalance kiểm tra số dư trước khi submit một lần sinh media.
// Không trừ credit — việc trừ chỉ xảy ra sau khi artifact đã materialize.
func (s *CreditAccountService) CheckBalance(ctx context.Context, userID primitive.ObjectID, cost float64) (*BalanceCheck, error) {
	account, err := s.EnsureAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BalanceCheck{
		HasEnough: account.Balance >= cost,
		Required:  cost,
		Balance:   account.Balance,
	}, nil
}

// AddBalance cộng credit vào tài khoản (nạp tiền, hoàn trả).
// Dùng $inc trực tiếp để không mất update khi hai thao tác chạy song song.
func (s *CreditAccountService) AddBalance(ctx context.Context, userID primitive.ObjectID, amount float64) (models.CreditAccount, error) {
	if _, err := s.EnsureAccount(ctx, userID); err != nil {
		return models.CreditAccount{}, err
	}

	_, err := s.Collection().UpdateOne(ctx, bson.M{"ownerId": userID}, bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"updatedAt": time.Now().UnixMilli()},
	})
	if err != nil {
		return models.CreditAccount{}, common.ConvertMongoError(err)
	}

	return s.FindOne(ctx, bson.M{"ownerId": userID}, nil)
}
