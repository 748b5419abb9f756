// Package worker - JobRequeueWorker quét các generation job kẹt ở trạng thái
// processing mà poller không còn cập nhật (server restart, goroutine chết) và
// đóng chúng ở trạng thái error. Job không bao giờ được hồi sinh: retry tạo
// job mới, nên đóng job mồ côi là an toàn.
package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	approvalmodels "film_studio/internal/api/approval/models"
	approvalsvc "film_studio/internal/api/approval/service"
	basesvc "film_studio/internal/api/base/service"
	generationmodels "film_studio/internal/api/generation/models"
	generationsvc "film_studio/internal/api/generation/service"
	"film_studio/internal/logger"
)

// JobRequeueWorker đóng các job processing bị bỏ rơi theo chu kỳ. Cùng lượt
// quét, các yêu cầu sinh lại kẹt ở generating (tiến trình chết giữa lần sinh)
// được trả về trạng thái hành động được.
type JobRequeueWorker struct {
	jobService   *generationsvc.GenerationJobService
	regenService *approvalsvc.RegenerationService
	interval   time.Duration // Khoảng thời gian giữa các lần quét (vd: 5m)
	staleAfter time.Duration // Job processing không cập nhật quá ngưỡng này là mồ côi (vd: 30m)
	batchSize  int           // Số job tối đa xử lý mỗi lần quét
}

// NewJobRequeueWorker tạo worker mới.
//
// Tham số:
//   - interval: Khoảng cách giữa các lần quét (mặc định: 5m)
//   - staleAfter: Ngưỡng coi job là mồ côi (mặc định: 30m — lớn hơn nhiều
//     so với tổng thời gian poll tối đa của một job)
func NewJobRequeueWorker(interval time.Duration, staleAfter time.Duration) (*JobRequeueWorker, error) {
	jobService, err := generationsvc.GetJobService()
	if err != nil {
		return nil, err
	}
	regenService, err := approvalsvc.GetRegenerationService()
	if err != nil {
		return nil, err
	}
	if interval < time.Minute {
		interval = 5 * time.Minute
	}
	if staleAfter < 5*time.Minute {
		staleAfter = 30 * time.Minute
	}
	return &JobRequeueWorker{
		jobService:   jobService,
		regenService: regenService,
		interval:     interval,
		staleAfter:   staleAfter,
		batchSize:    200,
	}, nil
}

// Start chạy worker trong vòng lặp.
func (w *JobRequeueWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":   w.interval.String(),
		"staleAfter": w.staleAfter.String(),
	}).Info("🎬 [JOB_REQUEUE] Starting Job Requeue Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🎬 [JOB_REQUEUE] Job Requeue Worker stopped")
			return
		case <-ticker.C:
			w.runSweep(ctx, log)
			w.sweepStuckRegenerations(ctx, log)
		}
	}
}

// runSweep quét một lượt: tìm job processing có updatedAt quá cũ và đóng error.
func (w *JobRequeueWorker) runSweep(ctx context.Context, log *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🎬 [JOB_REQUEUE] Panic khi quét, sẽ tiếp tục lần chạy tiếp theo")
		}
	}()

	cutoff := time.Now().Add(-w.staleAfter).UnixMilli()
	filter := bson.M{
		"status":    generationmodels.JobStatusProcessing,
		"updatedAt": bson.M{"$lt": cutoff},
	}

	jobs, err := w.jobService.Find(ctx, filter, nil)
	if err != nil {
		log.WithError(err).Error("🎬 [JOB_REQUEUE] Lỗi tìm job processing mồ côi")
		return
	}
	if len(jobs) == 0 {
		return
	}

	closed := 0
	for i := range jobs {
		if i >= w.batchSize {
			break
		}
		now := time.Now().UnixMilli()
		if _, err := w.jobService.UpdateById(ctx, jobs[i].ID, &basesvc.UpdateData{
			Set: map[string]interface{}{
				"status":      generationmodels.JobStatusError,
				"errorDetail": "poller không còn cập nhật job, đóng bởi worker dọn dẹp",
				"failedItems": 1,
				"completedAt": now,
				"updatedAt":   now,
			},
		}); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"jobId": jobs[i].ID.Hex(),
			}).Warn("🎬 [JOB_REQUEUE] Không đóng được job mồ côi, bỏ qua")
			continue
		}
		closed++
	}

	log.WithFields(map[string]interface{}{
		"found":  len(jobs),
		"closed": closed,
	}).Info("🎬 [JOB_REQUEUE] Đã đóng các job processing mồ côi")
}

// sweepStuckRegenerations trả các yêu cầu sinh lại kẹt ở generating về trạng
// thái hành động được. generating chỉ đi ra từ approved hoặc selecting, nên:
// đã từng có ứng viên -> selecting, chưa -> approved.
func (w *JobRequeueWorker) sweepStuckRegenerations(ctx context.Context, log *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🎬 [JOB_REQUEUE] Panic khi quét yêu cầu sinh lại, sẽ tiếp tục lần chạy tiếp theo")
		}
	}()

	cutoff := time.Now().Add(-w.staleAfter).UnixMilli()
	filter := bson.M{
		"status":    approvalmodels.RegenStatusGenerating,
		"updatedAt": bson.M{"$lt": cutoff},
	}

	requests, err := w.regenService.Find(ctx, filter, nil)
	if err != nil {
		log.WithError(err).Error("🎬 [JOB_REQUEUE] Lỗi tìm yêu cầu sinh lại kẹt ở generating")
		return
	}
	if len(requests) == 0 {
		return
	}

	reverted := 0
	for i := range requests {
		if i >= w.batchSize {
			break
		}
		status := approvalmodels.RegenStatusApproved
		if requests[i].AttemptsUsed > 0 {
			status = approvalmodels.RegenStatusSelecting
		}
		if _, err := w.regenService.UpdateById(ctx, requests[i].ID, &basesvc.UpdateData{
			Set: map[string]interface{}{
				"status":    status,
				"updatedAt": time.Now().UnixMilli(),
			},
		}); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"requestId": requests[i].ID.Hex(),
			}).Warn("🎬 [JOB_REQUEUE] Không trả được yêu cầu sinh lại về trạng thái trước, bỏ qua")
			continue
		}
		reverted++
	}

	log.WithFields(map[string]interface{}{
		"found":    len(requests),
		"reverted": reverted,
	}).Info("🎬 [JOB_REQUEUE] Đã trả các yêu cầu sinh lại kẹt ở generating về trạng thái hành động được")
}
