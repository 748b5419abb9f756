package generationsvc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	basesvc "film_studio/internal/api/base/service"
	models "film_studio/internal/api/generation/models"
	"film_studio/internal/api/generation/providers"
	storymodels "film_studio/internal/api/story/models"
	storysvc "film_studio/internal/api/story/service"
	"film_studio/internal/common"
	"film_studio/internal/global"
	"film_studio/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BatchRunRequest là yêu cầu sinh media hàng loạt cho một phân cảnh hoặc cả dự án.
type BatchRunRequest struct {
	ProjectID primitive.ObjectID
	SceneID   *primitive.ObjectID // nil = cả dự án
	OwnerID   primitive.ObjectID

	Kind     string // speech hoặc music — chọn loại unit cần sinh
	Provider string // Override provider (rỗng = theo preferences dự án)
	Model    string
	Language string // Rỗng = ngôn ngữ dự án

	SkipCreditCheck bool
}

// batchUnitSource đọc unit theo id (tầng lưu trữ hoặc fake trong test).
type batchUnitSource interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (storymodels.ContentUnit, error)
}

// batchGenerator chạy một yêu cầu sinh media cho một unit.
type batchGenerator interface {
	Generate(ctx context.Context, req GenerateRequest, wait bool) (*GenerateResult, error)
}

// batchProgressSink nhận tiến độ sau mỗi unit.
type batchProgressSink interface {
	updateProgress(ctx context.Context, batchID primitive.ObjectID, completed, skipped, failed int)
}

// BatchService điều phối sinh media hàng loạt: duyệt unit tuần tự, bỏ qua
// unit đã có version mục tiêu, nghỉ giữa các request theo provider và hỗ trợ
// hủy giữa chừng.
type BatchService struct {
	*basesvc.BaseServiceMongoImpl[models.GenerationBatch]

	jobService   *GenerationJobService
	unitService  *storysvc.StoryUnitService
	sceneService *storysvc.StorySceneService

	mu          sync.Mutex
	cancelFlags map[string]*atomic.Bool // batchId hex -> cờ hủy
}

var (
	batchServiceInstance *BatchService
	batchServiceOnce     sync.Once
	batchServiceErr      error
)

// GetBatchService trả về singleton BatchService.
// Cờ hủy phải dùng chung giữa handler run và handler cancel.
func GetBatchService() (*BatchService, error) {
	batchServiceOnce.Do(func() {
		batchServiceInstance, batchServiceErr = newBatchService()
	})
	return batchServiceInstance, batchServiceErr
}

func newBatchService() (*BatchService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.GenerationBatches)
	if !exist {
		return nil, fmt.Errorf("failed to get generation_batches collection: %v", common.ErrNotFound)
	}

	jobService, err := GetJobService()
	if err != nil {
		return nil, err
	}
	unitService, err := storysvc.NewStoryUnitService()
	if err != nil {
		return nil, err
	}
	sceneService, err := storysvc.NewStorySceneService()
	if err != nil {
		return nil, err
	}

	return &BatchService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.GenerationBatch](col),
		jobService:           jobService,
		unitService:          unitService,
		sceneService:         sceneService,
		cancelFlags:          make(map[string]*atomic.Bool),
	}, nil
}

// unitKindForBatch ánh xạ loại media của batch sang loại unit cần duyệt.
func unitKindForBatch(kind string) string {
	if kind == providers.KindMusic {
		return storymodels.UnitKindMusic
	}
	return storymodels.UnitKindDialogue
}

// RunBatch tạo bản ghi batch, khởi động vòng chạy nền và trả về batch ngay.
// Tiến độ theo dõi qua bản ghi batch (CRUD đọc) hoặc job của từng unit.
func (s *BatchService) RunBatch(ctx context.Context, req BatchRunRequest) (*models.GenerationBatch, error) {
	if req.Kind == "" {
		req.Kind = providers.KindSpeech
	}

	// Gom unit theo phạm vi, giữ thứ tự phân cảnh
	var units []storymodels.ContentUnit
	var err error
	scope := models.BatchScopeProject
	if req.SceneID != nil {
		scope = models.BatchScopeScene
		units, err = s.unitService.FindByScene(ctx, *req.SceneID)
	} else {
		units, err = s.unitService.FindByProject(ctx, req.ProjectID)
	}
	if err != nil {
		return nil, err
	}

	unitKind := unitKindForBatch(req.Kind)
	var unitIDs []primitive.ObjectID
	for _, u := range units {
		if u.Kind == unitKind {
			unitIDs = append(unitIDs, u.ID)
		}
	}
	if len(unitIDs) == 0 {
		return nil, common.NewValidationError(
			"Không có unit nào thuộc loại "+unitKind+" trong phạm vi đã chọn",
			"Thêm unit vào phân cảnh hoặc chọn loại media khác",
		)
	}

	// Resolve một lần để biết cặp (provider, language) mục tiêu của batch
	project, err := s.jobService.projectService.FindOneById(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	prefs := project.Preferences
	applyOverrides(&prefs, req.Kind, req.Provider, req.Model)
	resolution, err := s.jobService.resolver.Resolve(prefs, req.Kind, req.OwnerID)
	if err != nil {
		return nil, err
	}
	language := req.Language
	if language == "" {
		language = project.Language
	}

	now := time.Now().UnixMilli()
	batch := models.GenerationBatch{
		ProjectID:  req.ProjectID,
		SceneID:    req.SceneID,
		Scope:      scope,
		Provider:   resolution.Provider.Name,
		Language:   language,
		Kind:       req.Kind,
		UnitIDs:    unitIDs,
		Status:     models.BatchStatusRunning,
		TotalUnits: len(unitIDs),
		OwnerID:    req.OwnerID,
		StartedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	batch, err = s.InsertOne(ctx, batch)
	if err != nil {
		return nil, err
	}

	flag := &atomic.Bool{}
	s.mu.Lock()
	s.cancelFlags[batch.ID.Hex()] = flag
	s.mu.Unlock()

	go s.runLoop(batch, req, resolution.Provider, language, flag)

	return &batch, nil
}

// batchOutcome là kết quả tổng hợp của một vòng chạy batch.
type batchOutcome struct {
	completed   int
	skipped     int
	failed      int
	status      string
	abortReason string
}

// batchRunner là vòng duyệt unit của batch, tách khỏi tầng lưu trữ qua các
// interface hẹp để chạy được với fake.
type batchRunner struct {
	units    batchUnitSource
	jobs     batchGenerator
	progress batchProgressSink
	sleep    func(time.Duration)
}

// run duyệt tuần tự qua từng unit. Cờ hủy được kiểm tra TRƯỚC mỗi unit — một
// unit đã submit được phép chạy đến cùng, kết quả của nó vẫn ghi vào store kể
// cả khi batch đã bị hủy ngay sau đó.
func (r *batchRunner) run(ctx context.Context, batch models.GenerationBatch, req BatchRunRequest, spec *providers.ProviderSpec, language string, flag *atomic.Bool) batchOutcome {
	log := logger.GetAppLogger()

	out := batchOutcome{status: models.BatchStatusCompleted}

	for i, unitID := range batch.UnitIDs {
		if flag.Load() {
			out.status = models.BatchStatusCancelled
			break
		}

		// Đọc unit mới nhất — version có thể vừa được sinh bởi phiên khác
		unit, err := r.units.FindOneById(ctx, unitID)
		if err != nil {
			out.failed++
			r.progress.updateProgress(ctx, batch.ID, out.completed, out.skipped, out.failed)
			continue
		}

		// Unit đã có version mục tiêu: không sinh lại, không tốn credit
		if unit.HasVersion(spec.Name, language) {
			out.skipped++
			r.progress.updateProgress(ctx, batch.ID, out.completed, out.skipped, out.failed)
			continue
		}

		result, err := r.jobs.Generate(ctx, GenerateRequest{
			UnitID:          unitID,
			OwnerID:         req.OwnerID,
			Provider:        req.Provider,
			Model:           req.Model,
			Language:        language,
			Kind:            req.Kind,
			SkipCreditCheck: req.SkipCreditCheck,
			BatchID:         &batch.ID,
		}, true)

		switch {
		case result != nil && result.Outcome == OutcomeInsufficientCredits:
			// Hết credit: dừng cả batch ngay, không tiêu thêm
			out.status = models.BatchStatusAborted
			out.abortReason = fmt.Sprintf("Không đủ credit tại unit %s (cần %.1f, còn %.1f)",
				unitID.Hex(), result.Check.Required, result.Check.Balance)
		case result != nil && result.Outcome == OutcomeComplete:
			out.completed++
		default:
			// Lỗi per-unit không dừng batch
			out.failed++
			if err != nil {
				log.WithError(err).WithFields(map[string]interface{}{
					"batchId": batch.ID.Hex(),
					"unitId":  unitID.Hex(),
				}).Warn("🎬 [BATCH] Unit thất bại, tiếp tục unit kế")
			}
		}

		r.progress.updateProgress(ctx, batch.ID, out.completed, out.skipped, out.failed)

		if out.status == models.BatchStatusAborted {
			break
		}

		// Nghỉ theo rate limit của provider — không nghỉ sau unit cuối
		if result != nil && result.Outcome == OutcomeComplete && i < len(batch.UnitIDs)-1 && spec.Delay() > 0 {
			r.sleep(spec.Delay())
		}
	}

	return out
}

func (s *BatchService) runLoop(batch models.GenerationBatch, req BatchRunRequest, spec *providers.ProviderSpec, language string, flag *atomic.Bool) {
	ctx := context.Background()

	defer func() {
		s.mu.Lock()
		delete(s.cancelFlags, batch.ID.Hex())
		s.mu.Unlock()
	}()

	runner := &batchRunner{
		units:    s.unitService,
		jobs:     s.jobService,
		progress: s,
		sleep:    time.Sleep,
	}
	out := runner.run(ctx, batch, req, spec, language, flag)

	now := time.Now().UnixMilli()
	set := map[string]interface{}{
		"status":      out.status,
		"completedAt": now,
		"updatedAt":   now,
	}
	if out.abortReason != "" {
		set["abortReason"] = out.abortReason
	}
	if _, err := s.UpdateById(ctx, batch.ID, &basesvc.UpdateData{Set: set}); err != nil {
		logger.GetErrorLogger().WithError(err).WithField("batchId", batch.ID.Hex()).
			Error("🎬 [BATCH] Không cập nhật được trạng thái kết thúc của batch")
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"batchId":   batch.ID.Hex(),
		"status":    out.status,
		"completed": out.completed,
		"skipped":   out.skipped,
		"failed":    out.failed,
	}).Info("🎬 [BATCH] Batch kết thúc")
}

func (s *BatchService) updateProgress(ctx context.Context, batchID primitive.ObjectID, completed, skipped, failed int) {
	_, _ = s.UpdateById(ctx, batchID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"completedUnits": completed,
			"skippedUnits":   skipped,
			"failedUnits":    failed,
			"updatedAt":      time.Now().UnixMilli(),
		},
	})
}

// Cancel bật cờ hủy của một batch đang chạy. Batch dừng trước unit kế tiếp,
// unit đang chạy dở được phép hoàn thành.
func (s *BatchService) Cancel(batchID primitive.ObjectID) error {
	s.mu.Lock()
	flag, ok := s.cancelFlags[batchID.Hex()]
	s.mu.Unlock()

	if !ok {
		return common.NewError(
			common.ErrCodeBusinessState,
			"Batch không còn chạy, không thể hủy",
			common.StatusConflict,
			nil,
		)
	}
	flag.Store(true)
	return nil
}
