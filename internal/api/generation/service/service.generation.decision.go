package generationsvc

import (
	"context"
	"sync"
	"time"

	creditsvc "film_studio/internal/api/credit/service"
	"film_studio/internal/common"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cách người dùng giải quyết một yêu cầu bị chặn vì thiếu credit.
const (
	DecisionUseOwnKey = "own_key" // Nạp API key riêng, sinh lại với paysWithOwnKey=true
	DecisionUseShared = "shared"  // Đã nạp thêm credit, thử lại qua gate
	DecisionAbandon   = "abandon" // Bỏ yêu cầu
)

// decisionTTL - yêu cầu chờ quá lâu bị coi là bỏ rơi và dọn khỏi registry.
const decisionTTL = 30 * time.Minute

// ParkedRequest là một yêu cầu sinh media đang chờ người dùng quyết định
// nguồn thanh toán. Chỉ sống trong bộ nhớ, không lưu DB.
type ParkedRequest struct {
	Request   GenerateRequest
	Check     *creditsvc.BalanceCheck
	CreatedAt time.Time
}

// DecisionRegistry giữ các yêu cầu đang chờ quyết định credit theo decision id.
type DecisionRegistry struct {
	mu      sync.Mutex
	pending map[string]*ParkedRequest
}

// NewDecisionRegistry tạo registry rỗng.
func NewDecisionRegistry() *DecisionRegistry {
	return &DecisionRegistry{pending: make(map[string]*ParkedRequest)}
}

// Park giữ lại một yêu cầu bị chặn, trả về decision id để client resume.
func (r *DecisionRegistry) Park(req GenerateRequest, check *creditsvc.BalanceCheck) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpiredLocked()

	id := uuid.NewString()
	r.pending[id] = &ParkedRequest{
		Request:   req,
		Check:     check,
		CreatedAt: time.Now(),
	}
	return id
}

// Take lấy và xóa một yêu cầu đang chờ. Yêu cầu không tồn tại hoặc đã hết
// hạn trả về lỗi — mỗi decision chỉ resume được một lần.
func (r *DecisionRegistry) Take(decisionID string) (*ParkedRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpiredLocked()

	parked, ok := r.pending[decisionID]
	if !ok {
		return nil, common.NewError(
			common.ErrCodeBusinessState,
			"Yêu cầu chờ quyết định không tồn tại hoặc đã hết hạn",
			common.StatusNotFound,
			nil,
		)
	}
	delete(r.pending, decisionID)
	return parked, nil
}

// put trả một yêu cầu về registry (giữ nguyên id).
func (r *DecisionRegistry) put(decisionID string, parked *ParkedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[decisionID] = parked
}

func (r *DecisionRegistry) evictExpiredLocked() {
	cutoff := time.Now().Add(-decisionTTL)
	for id, parked := range r.pending {
		if parked.CreatedAt.Before(cutoff) {
			delete(r.pending, id)
		}
	}
}

// ResumeDecision xử lý quyết định của người dùng cho một yêu cầu đã park:
//   - own_key: nạp API key riêng cho provider rồi sinh lại (gate bị bỏ qua
//     vì paysWithOwnKey được tính lại và thấy key mới)
//   - shared: thử lại qua credit gate (người dùng vừa nạp thêm credit)
//   - abandon: bỏ yêu cầu, không sinh
func (s *GenerationJobService) ResumeDecision(ctx context.Context, decisionID string, mode string, apiKey string, callerID primitive.ObjectID) (*GenerateResult, error) {
	parked, err := s.decisions.Take(decisionID)
	if err != nil {
		return nil, err
	}

	// Chỉ người đã tạo yêu cầu mới được resume; trả lại registry khi từ chối
	if parked.Request.OwnerID != callerID {
		s.decisions.put(decisionID, parked)
		return nil, common.ErrNotOwner
	}

	switch mode {
	case DecisionUseOwnKey:
		if apiKey == "" {
			return nil, common.NewValidationError(
				"Chế độ own_key cần API key",
				"Gửi kèm trường apiKey với key riêng của bạn cho provider",
			)
		}
		// Resolve lại để biết provider nào sẽ nhận key
		unit, err := s.unitService.FindOneById(ctx, parked.Request.UnitID)
		if err != nil {
			return nil, err
		}
		project, err := s.projectService.FindOneById(ctx, unit.ProjectID)
		if err != nil {
			return nil, err
		}
		kind := parked.Request.Kind
		if kind == "" {
			kind = kindForUnit(&unit)
		}
		prefs := project.Preferences
		applyOverrides(&prefs, kind, parked.Request.Provider, parked.Request.Model)
		resolution, err := s.resolver.Resolve(prefs, kind, parked.Request.OwnerID)
		if err != nil {
			return nil, err
		}
		s.credentials.Set(parked.Request.OwnerID, resolution.Provider.Name, apiKey)
		return s.Generate(ctx, parked.Request, false)

	case DecisionUseShared:
		return s.Generate(ctx, parked.Request, false)

	case DecisionAbandon:
		return &GenerateResult{Outcome: OutcomeError}, nil

	default:
		return nil, common.NewValidationError(
			"Chế độ quyết định không hợp lệ: "+mode,
			"Dùng một trong các giá trị: own_key, shared, abandon",
		)
	}
}
