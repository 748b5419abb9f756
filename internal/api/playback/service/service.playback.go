// Package playbacksvc - sequencer phát tuần tự media của một phân cảnh hoặc cả
// dự án. Trạng thái phát chỉ nằm trong bộ nhớ, gắn với phiên của người dùng:
// mỗi phiên có đúng một slot đang phát, bắt đầu phát mới sẽ thay thế phiên cũ.
package playbacksvc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"film_studio/internal/api/events"
	storymodels "film_studio/internal/api/story/models"
	storysvc "film_studio/internal/api/story/service"
	"film_studio/internal/common"
	"film_studio/internal/global"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của một phiên phát.
const (
	SessionStatusPlaying  = "playing"  // Đang phát entry tại cursor
	SessionStatusStopped  = "stopped"  // Người dùng dừng
	SessionStatusFinished = "finished" // Đã phát hết danh sách
)

// PlaybackEntry là một mục trong danh sách phát: unit và phiên bản đang dùng
// của nó tại thời điểm dựng danh sách (URL được làm mới nếu phiên bản đổi
// trong lúc phát).
type PlaybackEntry struct {
	UnitID     primitive.ObjectID `json:"unitId"`
	VersionKey string             `json:"versionKey"`
	URL        string             `json:"url"`
	Title      string             `json:"title,omitempty"`
	DurationMs int64              `json:"durationMs,omitempty"`
}

// PlaybackSession là trạng thái phát của một phiên người dùng.
type PlaybackSession struct {
	SessionID string              `json:"sessionId"`
	ProjectID primitive.ObjectID  `json:"projectId"`
	SceneID   *primitive.ObjectID `json:"sceneId,omitempty"` // nil = phát cả dự án

	Entries []PlaybackEntry `json:"entries"`
	Cursor  int             `json:"cursor"`
	Status  string          `json:"status"`

	// Mốc lần khởi động lại slot hiện tại gần nhất (đổi phiên bản giữa chừng)
	RestartedAt int64 `json:"restartedAt,omitempty"`

	StartedAt int64 `json:"startedAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Current trả về entry đang phát (nil nếu phiên không ở trạng thái playing).
func (s *PlaybackSession) Current() *PlaybackEntry {
	if s.Status != SessionStatusPlaying || s.Cursor < 0 || s.Cursor >= len(s.Entries) {
		return nil
	}
	return &s.Entries[s.Cursor]
}

// Sequencer giữ toàn bộ phiên phát đang hoạt động, key theo phiên người dùng.
type Sequencer struct {
	mu       sync.Mutex
	sessions map[string]*PlaybackSession

	unitService    *storysvc.StoryUnitService
	sceneService   *storysvc.StorySceneService
	projectService *storysvc.StoryProjectService
}

var (
	sequencerInstance *Sequencer
	sequencerOnce     sync.Once
	sequencerErr      error
)

// GetSequencer trả về singleton Sequencer. Slot phát là trạng thái dùng chung
// của cả phiên nên không được tạo nhiều instance.
func GetSequencer() (*Sequencer, error) {
	sequencerOnce.Do(func() {
		sequencerInstance, sequencerErr = newSequencer()
	})
	return sequencerInstance, sequencerErr
}

func newSequencer() (*Sequencer, error) {
	unitService, err := storysvc.NewStoryUnitService()
	if err != nil {
		return nil, err
	}
	sceneService, err := storysvc.NewStorySceneService()
	if err != nil {
		return nil, err
	}
	projectService, err := storysvc.NewStoryProjectService()
	if err != nil {
		return nil, err
	}

	s := &Sequencer{
		sessions:       make(map[string]*PlaybackSession),
		unitService:    unitService,
		sceneService:   sceneService,
		projectService: projectService,
	}

	// Đổi phiên bản đang dùng của unit trong lúc phát → slot hiện tại phải
	// khởi động lại từ URL mới
	events.OnDataChanged(s.onUnitChanged)

	return s, nil
}

// Play dựng danh sách phát cho một phân cảnh (sceneID != nil) hoặc cả dự án,
// bỏ qua các unit chưa có phiên bản đang dùng, và thay thế phiên phát cũ của
// cùng session nếu có.
func (s *Sequencer) Play(ctx context.Context, sessionID string, ownerID primitive.ObjectID, projectID primitive.ObjectID, sceneID *primitive.ObjectID) (*PlaybackSession, error) {
	if _, err := s.projectService.ValidateProjectOwner(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	var units []storymodels.ContentUnit
	var err error
	if sceneID != nil {
		units, err = s.unitService.FindByScene(ctx, *sceneID)
	} else {
		units, err = s.unitService.FindByProject(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]PlaybackEntry, 0, len(units))
	for i := range units {
		active := units[i].ActiveVersion()
		if active == nil {
			continue // unit chưa có phiên bản đang dùng thì không vào danh sách phát
		}
		entries = append(entries, PlaybackEntry{
			UnitID:     units[i].ID,
			VersionKey: active.Key(),
			URL:        active.URL,
			Title:      active.Title,
			DurationMs: active.DurationMs,
		})
	}
	if len(entries) == 0 {
		return nil, common.NewValidationError(
			"Không có unit nào có phiên bản media đang dùng trong phạm vi phát",
			"Sinh media và chọn phiên bản cho ít nhất một unit trước khi phát",
		)
	}

	now := time.Now().UnixMilli()
	session := &PlaybackSession{
		SessionID: sessionID,
		ProjectID: projectID,
		SceneID:   sceneID,
		Entries:   entries,
		Cursor:    0,
		Status:    SessionStatusPlaying,
		StartedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	// Một slot phát cho mỗi phiên: phát mới thay thế (tức là dừng) phiên cũ
	s.sessions[sessionID] = session
	snapshot := session.snapshot()
	s.mu.Unlock()

	return snapshot, nil
}

// Advance chuyển sang entry kế tiếp khi entry hiện tại phát xong tự nhiên.
// Hết danh sách thì phiên chuyển sang finished.
func (s *Sequencer) Advance(sessionID string) (*PlaybackSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionStatusPlaying {
		return nil, common.NewError(
			common.ErrCodeBusinessState,
			fmt.Sprintf("Phiên phát đang ở trạng thái %s", session.Status),
			common.StatusConflict,
			nil,
		)
	}

	session.Cursor++
	session.RestartedAt = 0
	session.UpdatedAt = time.Now().UnixMilli()
	if session.Cursor >= len(session.Entries) {
		session.Status = SessionStatusFinished
	}
	return session.snapshot(), nil
}

// Stop dừng phiên phát hiện tại.
func (s *Sequencer) Stop(sessionID string) (*PlaybackSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}
	session.Status = SessionStatusStopped
	session.UpdatedAt = time.Now().UnixMilli()
	return session.snapshot(), nil
}

// Status trả về trạng thái phiên phát hiện tại của session.
func (s *Sequencer) Status(sessionID string) (*PlaybackSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return session.snapshot(), nil
}

func (s *Sequencer) activeLocked(sessionID string) (*PlaybackSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, common.NewError(
			common.ErrCodeBusinessState,
			"Phiên này chưa bắt đầu phát",
			common.StatusNotFound,
			nil,
		)
	}
	return session, nil
}

// snapshot sao chép session để trả ra ngoài lock.
func (s *PlaybackSession) snapshot() *PlaybackSession {
	out := *s
	out.Entries = make([]PlaybackEntry, len(s.Entries))
	copy(out.Entries, s.Entries)
	return &out
}

// onUnitChanged phản ứng khi một content unit thay đổi: nếu unit đang là entry
// hiện tại của một phiên playing và phiên bản đang dùng của nó đã đổi, slot
// hiện tại khởi động lại từ URL mới.
func (s *Sequencer) onUnitChanged(ctx context.Context, e events.DataChangeEvent) {
	if e.CollectionName != global.MongoDB_ColNames.StoryUnits {
		return
	}
	if e.Operation != events.OpUpdate && e.Operation != events.OpUpsert {
		return
	}

	var unit *storymodels.ContentUnit
	switch doc := e.Document.(type) {
	case storymodels.ContentUnit:
		unit = &doc
	case *storymodels.ContentUnit:
		unit = doc
	default:
		return
	}
	if unit == nil {
		return
	}

	active := unit.ActiveVersion()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		current := session.Current()
		if current == nil || current.UnitID != unit.ID {
			continue
		}
		if active == nil {
			continue // phiên bản đang phát bị xóa hết: giữ slot, client phát nốt URL cũ
		}
		if active.Key() == current.VersionKey && active.URL == current.URL {
			continue
		}
		current.VersionKey = active.Key()
		current.URL = active.URL
		current.Title = active.Title
		current.DurationMs = active.DurationMs
		session.RestartedAt = time.Now().UnixMilli()
		session.UpdatedAt = session.RestartedAt
	}
}
