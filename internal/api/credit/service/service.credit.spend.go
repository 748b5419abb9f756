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
	"film_studio/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreditSpendService là cấu trúc chứa các phương thức liên quan đến lịch sử trừ credit
type CreditSpendService struct {
	*basesvc.BaseServiceMongoImpl[models.CreditSpend]
	accountService *CreditAccountService
}

// NewCreditSpendService tạo mới CreditSpendService
func NewCreditSpendService() (*CreditSpendService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.CreditSpends)
	if !exist {
		return nil, fmt.Errorf("failed to get credit_spends collection: %v", common.ErrNotFound)
	}

	accountService, err := NewCreditAccountService()
	if err != nil {
		return nil, err
	}

	return &CreditSpendService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.CreditSpend](col),
		accountService:       accountService,
	}, nil
}

// Spend trừ credit cho một job đã materialize artifact thành công.
// Idempotent theo jobId: lần gọi thứ hai cho cùng job trả về ErrSpendDuplicate
// và không trừ thêm — index unique trên jobId là chốt chặn cuối cùng.
func (s *CreditSpendService) Spend(ctx context.Context, spend models.CreditSpend) (models.CreditSpend, error) {
	var zero models.CreditSpend

	if spend.Amount <= 0 {
		return zero, common.NewError(
			common.ErrCodeCreditSpend,
			"Số credit cần trừ phải lớn hơn 0",
			common.StatusBadRequest,
			nil,
		)
	}

	spend.CreatedAt = time.Now().UnixMilli()
	created, err := s.InsertOne(ctx, spend)
	if err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return zero, common.ErrSpendDuplicate
		}
		return zero, err
	}

	// Bản ghi spend đã ghi xong, giờ mới chạm vào số dư
	if _, err := s.accountService.AddBalance(ctx, spend.OwnerID, -spend.Amount); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(map[string]interface{}{
			"jobId":   spend.JobID.Hex(),
			"ownerId": spend.OwnerID.Hex(),
			"amount":  spend.Amount,
		}).Error("Đã ghi credit spend nhưng không trừ được số dư")
		return created, err
	}

	return created, nil
}

// FindByJob tìm bản ghi trừ credit của một job.
func (s *CreditSpendService) FindByJob(ctx context.Context, jobID primitive.ObjectID) (models.CreditSpend, error) {
	return s.FindOne(ctx, bson.M{"jobId": jobID}, nil)
}
