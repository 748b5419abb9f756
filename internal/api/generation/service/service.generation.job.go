package generationsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	basesvc "film_studio/internal/api/base/service"
	creditmodels "film_studio/internal/api/credit/models"
	creditsvc "film_studio/internal/api/credit/service"
	models "film_studio/internal/api/generation/models"
	"film_studio/internal/api/generation/providers"
	storymodels "film_studio/internal/api/story/models"
	storysvc "film_studio/internal/api/story/service"
	"film_studio/internal/common"
	"film_studio/internal/global"
	"film_studio/internal/logger"
	"film_studio/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome của một lần gọi Generate.
const (
	OutcomeComplete            = "complete"             // Artifact đã materialize (sync hoặc wait=true)
	OutcomeQueued              = "queued"               // Job bất đồng bộ đã submit, poller chạy nền
	OutcomeError               = "error"                // Job kết thúc error (terminal)
	OutcomeInsufficientCredits = "insufficient_credits" // Bị chặn bởi credit gate, đã park decision
)

// GenerateRequest là yêu cầu sinh media cho một content unit.
type GenerateRequest struct {
	UnitID  primitive.ObjectID
	OwnerID primitive.ObjectID // Người trả phí (chủ dự án)

	// Override cấu hình dự án (rỗng = dùng preferences của dự án)
	Provider string
	Model    string
	Language string
	Voice    string
	Kind     string // Rỗng = suy ra từ loại unit

	SkipCreditCheck bool // Batch đã xác nhận dùng credit chung thì bỏ qua gate từng unit
	CandidateOnly   bool // Kết quả chỉ là bản ứng viên, không ghi vào version store của unit
	BatchID         *primitive.ObjectID
}

// GenerateResult là kết quả một lần gọi Generate.
type GenerateResult struct {
	Outcome    string                       `json:"outcome"`
	Job        *models.GenerationJob        `json:"job,omitempty"`
	Unit       *storymodels.ContentUnit     `json:"unit,omitempty"`
	DecisionID string                       `json:"decisionId,omitempty"` // Có khi outcome=insufficient_credits
	Check      *creditsvc.BalanceCheck      `json:"check,omitempty"`
	Version    *storymodels.ArtifactVersion `json:"version,omitempty"`
}

// GenerationJobService điều phối toàn bộ vòng đời sinh media:
// resolve provider → credit gate → submit → poll → materialize → upsert version → trừ credit.
type GenerationJobService struct {
	*basesvc.BaseServiceMongoImpl[models.GenerationJob]

	unitService    *storysvc.StoryUnitService
	projectService *storysvc.StoryProjectService
	accountService *creditsvc.CreditAccountService
	spendService   *creditsvc.CreditSpendService

	catalog     *providers.Catalog
	resolver    *ProviderResolver
	credentials *CredentialRegistry
	objectStore *storage.ObjectStore
	decisions   *DecisionRegistry
}

var (
	jobServiceInstance *GenerationJobService
	jobServiceOnce     sync.Once
	jobServiceErr      error
)

// GetJobService trả về singleton GenerationJobService.
// Registry credential và decision phải dùng chung giữa mọi handler nên
// service này không được tạo nhiều instance.
func GetJobService() (*GenerationJobService, error) {
	jobServiceOnce.Do(func() {
		jobServiceInstance, jobServiceErr = newJobService()
	})
	return jobServiceInstance, jobServiceErr
}

func newJobService() (*GenerationJobService, error) {
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.GenerationJobs)
	if !exist {
		return nil, fmt.Errorf("failed to get generation_jobs collection: %v", common.ErrNotFound)
	}

	unitService, err := storysvc.NewStoryUnitService()
	if err != nil {
		return nil, err
	}
	projectService, err := storysvc.NewStoryProjectService()
	if err != nil {
		return nil, err
	}
	accountService, err := creditsvc.NewCreditAccountService()
	if err != nil {
		return nil, err
	}
	spendService, err := creditsvc.NewCreditSpendService()
	if err != nil {
		return nil, err
	}

	cfg := global.MongoDB_ServerConfig
	catalog, err := providers.LoadCatalog(cfg.ProviderCatalogPath)
	if err != nil {
		return nil, err
	}

	credentials := NewCredentialRegistry()
	resolver := NewProviderResolver(catalog, credentials, map[string]string{
		providers.KindSpeech: cfg.SpeechAPIKey,
		providers.KindMusic:  cfg.MusicAPIKey,
		providers.KindImage:  cfg.ImageAPIKey,
		providers.KindVideo:  cfg.VideoAPIKey,
	})

	return &GenerationJobService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.GenerationJob](col),
		unitService:          unitService,
		projectService:       projectService,
		accountService:       accountService,
		spendService:         spendService,
		catalog:              catalog,
		resolver:             resolver,
		credentials:          credentials,
		objectStore:          storage.NewObjectStore(cfg),
		decisions:            NewDecisionRegistry(),
	}, nil
}

// Catalog trả về catalog provider đang dùng (batch cần delay theo provider).
func (s *GenerationJobService) Catalog() *providers.Catalog {
	return s.catalog
}

// Credentials trả về registry key riêng (handler resume cần nạp key).
func (s *GenerationJobService) Credentials() *CredentialRegistry {
	return s.credentials
}

// Decisions trả về registry các yêu cầu đang chờ quyết định credit.
func (s *GenerationJobService) Decisions() *DecisionRegistry {
	return s.decisions
}

// kindForUnit suy ra loại media cần sinh từ loại unit.
func kindForUnit(unit *storymodels.ContentUnit) string {
	if unit.Kind == storymodels.UnitKindMusic {
		return providers.KindMusic
	}
	return providers.KindSpeech
}

// costFor trả về chi phí credit của một lần sinh theo loại media.
func costFor(kind string) float64 {
	cfg := global.MongoDB_ServerConfig
	switch kind {
	case providers.KindMusic:
		return cfg.CreditCostMusic
	case providers.KindImage:
		return cfg.CreditCostImage
	case providers.KindVideo:
		return cfg.CreditCostVideo
	default:
		return cfg.CreditCostSpeech
	}
}

// Generate xử lý một yêu cầu sinh media. wait=true chạy poll ngay trong lời
// gọi (batch, approval); wait=false trả về job queued và poll chạy nền (API).
//
// Thứ tự bắt buộc: resolve → validate → credit gate → submit. Credit chỉ bị
// trừ sau khi artifact đã materialize, không bao giờ trừ trước.
func (s *GenerationJobService) Generate(ctx context.Context, req GenerateRequest, wait bool) (*GenerateResult, error) {
	log := logger.GetAppLogger()

	// Đọc unit mới nhất — không dùng bản unit cũ từ caller
	unit, err := s.unitService.FindOneById(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.OwnerID != req.OwnerID {
		return nil, common.ErrNotOwner
	}

	project, err := s.projectService.FindOneById(ctx, unit.ProjectID)
	if err != nil {
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = kindForUnit(&unit)
	}

	// Overlay override của request lên preferences của dự án
	prefs := project.Preferences
	applyOverrides(&prefs, kind, req.Provider, req.Model)

	resolution, err := s.resolver.Resolve(prefs, kind, req.OwnerID)
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = project.Language
	}
	voice := req.Voice
	if voice == "" {
		voice = unit.Voice
	}
	if voice == "" {
		voice = prefs.SpeechVoice
	}

	if kind == providers.KindSpeech && voice == "" {
		return nil, common.NewValidationError(
			fmt.Sprintf("Unit %s chưa được gán giọng đọc cho provider %s", unit.ID.Hex(), resolution.Provider.Name),
			"Gán giọng đọc cho unit hoặc đặt giọng mặc định trong cấu hình dự án",
		)
	}
	if unit.Text == "" {
		return nil, common.NewValidationError(
			fmt.Sprintf("Unit %s không có nội dung để sinh media", unit.ID.Hex()),
			"Nhập lời thoại hoặc prompt cho unit trước khi sinh",
		)
	}

	cost := costFor(kind)

	// Credit gate — bỏ qua hoàn toàn khi người dùng trả bằng key riêng
	if !resolution.PaysWithOwnKey && !req.SkipCreditCheck {
		check, err := s.accountService.CheckBalance(ctx, req.OwnerID, cost)
		if err != nil {
			return nil, err
		}
		if !check.HasEnough {
			decisionID := s.decisions.Park(req, check)
			log.WithFields(map[string]interface{}{
				"unitId":     req.UnitID.Hex(),
				"required":   check.Required,
				"balance":    check.Balance,
				"decisionId": decisionID,
			}).Warn("🎬 [GENERATION] Không đủ credit, yêu cầu được giữ lại chờ quyết định")
			return &GenerateResult{
				Outcome:    OutcomeInsufficientCredits,
				DecisionID: decisionID,
				Check:      check,
			}, nil
		}
	}

	// Tạo bản ghi job trước khi gọi provider
	now := time.Now().UnixMilli()
	job := models.GenerationJob{
		ProviderJobID:  uuid.NewString(), // Provider bất đồng bộ sẽ ghi đè bằng job id thật
		UnitID:         unit.ID,
		ProjectID:      unit.ProjectID,
		BatchID:        req.BatchID,
		Kind:           kind,
		Provider:       resolution.Provider.Name,
		Model:          resolution.Model,
		Language:       language,
		Voice:          voice,
		Status:         models.JobStatusQueued,
		TotalItems:     1,
		PaysWithOwnKey: resolution.PaysWithOwnKey,
		CreditCost:     cost,
		CandidateOnly:  req.CandidateOnly,
		OwnerID:        req.OwnerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	job, err = s.InsertOne(ctx, job)
	if err != nil {
		return nil, err
	}

	adapter, err := providers.NewAdapter(resolution.Provider)
	if err != nil {
		s.markJobError(ctx, job.ID, err.Error())
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"jobId":    job.ID.Hex(),
		"unitId":   unit.ID.Hex(),
		"provider": resolution.Provider.Name,
		"model":    resolution.Model,
		"kind":     kind,
		"ownKey":   resolution.PaysWithOwnKey,
	}).Info("🎬 [GENERATION] Submit yêu cầu sinh media")

	submitted, err := adapter.Submit(ctx, providers.GenerationParams{
		Text:     unit.Text,
		Voice:    voice,
		Language: language,
		Model:    resolution.Model,
		APIKey:   resolution.APIKey,
	})
	if err != nil {
		// Submit thất bại là terminal cho job này — retry tạo job mới
		failed := s.markJobError(ctx, job.ID, err.Error())
		return &GenerateResult{Outcome: OutcomeError, Job: failed}, err
	}

	if submitted.Sync {
		// Provider đồng bộ: artifact có ngay, phát cùng chuỗi hiệu ứng như async
		return s.completeJob(ctx, job, resolution, completionInput{
			RawURL:     submitted.ResultURL,
			DurationMs: submitted.DurationMs,
			Title:      submitted.Title,
		})
	}

	// Provider bất đồng bộ: lưu job id thật rồi poll
	job, err = s.UpdateById(ctx, job.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"providerJobId": submitted.ProviderJobID,
			"status":        models.JobStatusProcessing,
			"startedAt":     time.Now().UnixMilli(),
			"updatedAt":     time.Now().UnixMilli(),
		},
	})
	if err != nil {
		return nil, err
	}

	if wait {
		return s.pollUntilTerminal(ctx, job, adapter, resolution)
	}

	go func() {
		// Poll chạy nền, không gắn với vòng đời request HTTP
		if _, err := s.pollUntilTerminal(context.Background(), job, adapter, resolution); err != nil {
			logger.GetErrorLogger().WithError(err).WithField("jobId", job.ID.Hex()).
				Error("🎬 [GENERATION] Poll nền kết thúc với lỗi")
		}
	}()

	return &GenerateResult{Outcome: OutcomeQueued, Job: &job}, nil
}

// applyOverrides ghi đè provider/model của request lên preferences theo kind.
func applyOverrides(prefs *storymodels.ProviderPreferences, kind string, provider string, model string) {
	if provider == "" && model == "" {
		return
	}
	switch kind {
	case providers.KindMusic:
		if provider != "" {
			prefs.MusicProvider = provider
			prefs.MusicModel = ""
		}
		if model != "" {
			prefs.MusicModel = model
		}
	case providers.KindImage:
		if provider != "" {
			prefs.ImageProvider = provider
			prefs.ImageModel = ""
		}
		if model != "" {
			prefs.ImageModel = model
		}
	case providers.KindVideo:
		if provider != "" {
			prefs.VideoProvider = provider
			prefs.VideoModel = ""
		}
		if model != "" {
			prefs.VideoModel = model
		}
	default:
		if provider != "" {
			prefs.SpeechProvider = provider
			prefs.SpeechModel = ""
		}
		if model != "" {
			prefs.SpeechModel = model
		}
	}
}

// pollUntilTerminal hỏi trạng thái job theo chu kỳ cố định cho đến khi gặp
// trạng thái terminal, context bị hủy, hoặc chạm trần số lần poll.
func (s *GenerationJobService) pollUntilTerminal(ctx context.Context, job models.GenerationJob, adapter providers.Adapter, resolution *Resolution) (*GenerateResult, error) {
	cfg := global.MongoDB_ServerConfig
	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	log := logger.GetAppLogger()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for iteration := 0; iteration < cfg.PollMaxIterations; iteration++ {
		select {
		case <-ctx.Done():
			failed := s.markJobError(ctx, job.ID, "poll bị hủy: "+ctx.Err().Error())
			return &GenerateResult{Outcome: OutcomeError, Job: failed}, ctx.Err()
		case <-ticker.C:
		}

		poll, err := adapter.Poll(ctx, job.ProviderJobID, resolution.APIKey)
		if err != nil {
			// Lỗi mạng đơn lẻ không kết thúc job — thử lại ở tick sau
			log.WithError(err).WithField("jobId", job.ID.Hex()).
				Warn("🎬 [GENERATION] Poll thất bại, thử lại")
			continue
		}

		canonical := NormalizeProviderStatus(poll.Status)

		switch canonical {
		case models.JobStatusComplete:
			url := ResolveResultURL(poll.Payload)
			if url == "" {
				failed := s.markJobError(ctx, job.ID, "provider báo hoàn thành nhưng không có URL kết quả")
				return &GenerateResult{Outcome: OutcomeError, Job: failed}, common.ErrProviderRequest
			}
			return s.completeJob(ctx, job, resolution, completionInput{
				RawURL:     url,
				DurationMs: ResolveResultDuration(poll.Payload),
				Title:      ResolveResultTitle(poll.Payload),
			})

		case models.JobStatusError:
			detail := "provider báo thất bại"
			if msg, ok := poll.Payload["error"].(string); ok && msg != "" {
				detail = msg
			}
			failed := s.markJobError(ctx, job.ID, detail)
			return &GenerateResult{Outcome: OutcomeError, Job: failed}, common.ErrProviderRequest

		default:
			// processing hoặc trạng thái không nhận dạng (giữ verbatim, chưa terminal)
			_, _ = s.UpdateById(ctx, job.ID, &basesvc.UpdateData{
				Set: map[string]interface{}{
					"status":         models.JobStatusProcessing,
					"providerStatus": poll.Status,
					"updatedAt":      time.Now().UnixMilli(),
				},
			})
		}
	}

	failed := s.markJobError(ctx, job.ID, fmt.Sprintf("job không kết thúc sau %d lần poll", cfg.PollMaxIterations))
	return &GenerateResult{Outcome: OutcomeError, Job: failed}, common.ErrProviderRequest
}

// completionInput gom dữ liệu kết quả từ provider trước khi materialize.
type completionInput struct {
	RawURL     string
	DurationMs int64
	Title      string
}

// completeJob materialize artifact, ghi version vào unit, trừ credit (sau
// materialize, idempotent theo jobId) và đóng job ở trạng thái complete.
// Đường đi chung của cả provider đồng bộ lẫn bất đồng bộ.
func (s *GenerationJobService) completeJob(ctx context.Context, job models.GenerationJob, resolution *Resolution, input completionInput) (*GenerateResult, error) {
	log := logger.GetAppLogger()

	finalURL := s.materializeArtifact(ctx, input.RawURL)

	version := storymodels.ArtifactVersion{
		URL:        finalURL,
		Provider:   job.Provider,
		Language:   job.Language,
		Voice:      job.Voice,
		DurationMs: input.DurationMs,
		Title:      input.Title,
		CreatedAt:  time.Now().UnixMilli(),
	}

	// Job ứng viên (quy trình duyệt) không được chạm vào version store —
	// bản ghi chỉ nằm trên yêu cầu duyệt cho đến khi chủ sở hữu chọn
	var resultUnit *storymodels.ContentUnit
	if !job.CandidateOnly {
		unit, err := s.unitService.UpsertArtifactVersion(ctx, job.UnitID, version)
		if err != nil {
			failed := s.markJobError(ctx, job.ID, "không ghi được version vào unit: "+err.Error())
			return &GenerateResult{Outcome: OutcomeError, Job: failed}, err
		}
		resultUnit = &unit
	}

	// Trừ credit CHỈ sau khi artifact đã nằm trong store
	creditSpent := false
	if !job.PaysWithOwnKey && job.CreditCost > 0 {
		_, err := s.spendService.Spend(ctx, creditmodels.CreditSpend{
			OwnerID:     job.OwnerID,
			JobID:       job.ID,
			Amount:      job.CreditCost,
			Category:    job.Kind,
			Description: fmt.Sprintf("Sinh %s bằng %s (%s)", job.Kind, job.Provider, job.Language),
			ProjectID:   job.ProjectID,
			Provider:    job.Provider,
			Metadata: map[string]interface{}{
				"unitId": job.UnitID.Hex(),
				"model":  job.Model,
			},
		})
		switch {
		case err == nil:
			creditSpent = true
		case errors.Is(err, common.ErrSpendDuplicate):
			// Job này đã từng trừ — không trừ lại
			creditSpent = true
		default:
			log.WithError(err).WithField("jobId", job.ID.Hex()).
				Error("🎬 [GENERATION] Artifact đã lưu nhưng trừ credit thất bại")
		}
	}

	now := time.Now().UnixMilli()
	updated, err := s.UpdateById(ctx, job.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":         models.JobStatusComplete,
			"resultUrl":      finalURL,
			"completedItems": 1,
			"creditSpent":    creditSpent,
			"completedAt":    now,
			"updatedAt":      now,
		},
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"jobId":    job.ID.Hex(),
		"unitId":   job.UnitID.Hex(),
		"provider": job.Provider,
	}).Info("🎬 [GENERATION] Job hoàn thành, artifact đã materialize")

	return &GenerateResult{
		Outcome: OutcomeComplete,
		Job:     &updated,
		Unit:    resultUnit,
		Version: &version,
	}, nil
}

// materializeArtifact tải artifact về và lưu bền:
//  1. Tải binary từ URL provider; tải thất bại → dùng luôn URL gốc (degrade,
//     không fail unit)
//  2. Upload lên object store; upload thất bại hoặc store chưa cấu hình →
//     inline base64 data URL
func (s *GenerationJobService) materializeArtifact(ctx context.Context, rawURL string) string {
	log := logger.GetAppLogger()

	data, contentType, err := storage.Download(ctx, rawURL)
	if err != nil {
		log.WithError(err).WithField("url", rawURL).
			Warn("🎬 [GENERATION] Không tải được artifact, dùng URL gốc của provider")
		return rawURL
	}

	if s.objectStore.Enabled() {
		stored, err := s.objectStore.Upload(ctx, data, contentType, extForContentType(contentType))
		if err == nil {
			return stored
		}
		log.WithError(err).Warn("🎬 [GENERATION] Upload object store thất bại, chuyển sang inline base64")
	}

	return storage.InlineDataURL(data, contentType)
}

// extForContentType suy ra phần mở rộng file từ content type (chỉ các loại media phổ biến).
func extForContentType(contentType string) string {
	// Bỏ tham số kèm theo kiểu "audio/mpeg; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	switch contentType {
	case "audio/mpeg":
		return "mp3"
	case "audio/wav", "audio/x-wav":
		return "wav"
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "video/mp4":
		return "mp4"
	default:
		return ""
	}
}

// markJobError đóng job ở trạng thái error với chi tiết lỗi. Ghi bằng context
// tách khỏi cancel của caller: client ngắt kết nối giữa chừng vẫn phải chốt
// được trạng thái terminal, nếu không job kẹt ở processing.
func (s *GenerationJobService) markJobError(ctx context.Context, jobID primitive.ObjectID, detail string) *models.GenerationJob {
	ctx = context.WithoutCancel(ctx)
	now := time.Now().UnixMilli()
	updated, err := s.UpdateById(ctx, jobID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":      models.JobStatusError,
			"errorDetail": detail,
			"failedItems": 1,
			"completedAt": now,
			"updatedAt":   now,
		},
	})
	if err != nil {
		logger.GetErrorLogger().WithError(err).WithField("jobId", jobID.Hex()).
			Error("🎬 [GENERATION] Không cập nhật được job sang trạng thái error")
		return nil
	}
	return &updated
}
