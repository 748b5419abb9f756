// Package playbacksvc - Test máy trạng thái phiên phát và phản ứng khi đổi phiên bản.
package playbacksvc

import (
	"context"
	"testing"

	"film_studio/internal/api/events"
	storymodels "film_studio/internal/api/story/models"
	"film_studio/internal/global"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newTestSequencer tạo sequencer trống không gắn service Mongo — các test ở
// đây chỉ đụng tới máy trạng thái trong bộ nhớ.
func newTestSequencer() *Sequencer {
	return &Sequencer{sessions: make(map[string]*PlaybackSession)}
}

func playingSession(sessionID string, entries ...PlaybackEntry) *PlaybackSession {
	return &PlaybackSession{
		SessionID: sessionID,
		ProjectID: primitive.NewObjectID(),
		Entries:   entries,
		Cursor:    0,
		Status:    SessionStatusPlaying,
	}
}

func TestAdvance_HetDanhSachChuyenSangFinished(t *testing.T) {
	s := newTestSequencer()
	s.sessions["u1"] = playingSession("u1",
		PlaybackEntry{UnitID: primitive.NewObjectID(), URL: "a"},
		PlaybackEntry{UnitID: primitive.NewObjectID(), URL: "b"},
	)

	snap, err := s.Advance("u1")
	if err != nil {
		t.Fatalf("Advance lỗi: %v", err)
	}
	if snap.Cursor != 1 || snap.Status != SessionStatusPlaying {
		t.Errorf("sau advance đầu: cursor=%d status=%s", snap.Cursor, snap.Status)
	}

	snap, err = s.Advance("u1")
	if err != nil {
		t.Fatalf("Advance lỗi: %v", err)
	}
	if snap.Status != SessionStatusFinished {
		t.Errorf("hết danh sách phải finished, status=%s", snap.Status)
	}

	// Phiên đã finished không advance tiếp được
	if _, err := s.Advance("u1"); err == nil {
		t.Error("advance phiên finished phải lỗi")
	}
}

func TestStop_VaStatus(t *testing.T) {
	s := newTestSequencer()
	s.sessions["u1"] = playingSession("u1", PlaybackEntry{UnitID: primitive.NewObjectID(), URL: "a"})

	snap, err := s.Stop("u1")
	if err != nil {
		t.Fatalf("Stop lỗi: %v", err)
	}
	if snap.Status != SessionStatusStopped {
		t.Errorf("Stop phải chuyển sang stopped, status=%s", snap.Status)
	}

	snap, err = s.Status("u1")
	if err != nil {
		t.Fatalf("Status lỗi: %v", err)
	}
	if snap.Status != SessionStatusStopped {
		t.Errorf("Status đọc sai: %s", snap.Status)
	}
}

func TestStatus_PhienChuaBatDau(t *testing.T) {
	s := newTestSequencer()
	if _, err := s.Status("khong-co"); err == nil {
		t.Error("phiên chưa bắt đầu phải trả lỗi")
	}
}

func TestOnUnitChanged_DoiPhienBanDangPhatKhoiDongLaiSlot(t *testing.T) {
	global.MongoDB_ColNames.StoryUnits = "story_units"

	s := newTestSequencer()
	unitID := primitive.NewObjectID()
	s.sessions["u1"] = playingSession("u1", PlaybackEntry{
		UnitID:     unitID,
		VersionKey: "vbee:vi",
		URL:        "https://cdn/cu",
	})

	unit := storymodels.ContentUnit{
		ID:               unitID,
		ActiveVersionKey: "elevenlabs:vi",
		Versions: []storymodels.ArtifactVersion{
			{URL: "https://cdn/moi", Provider: "elevenlabs", Language: "vi"},
		},
	}
	s.onUnitChanged(context.Background(), events.DataChangeEvent{
		CollectionName: "story_units",
		Operation:      events.OpUpdate,
		Document:       unit,
	})

	session := s.sessions["u1"]
	current := session.Current()
	if current == nil {
		t.Fatal("slot hiện tại không được nil")
	}
	if current.URL != "https://cdn/moi" || current.VersionKey != "elevenlabs:vi" {
		t.Errorf("slot phải cập nhật sang phiên bản mới: url=%q key=%q", current.URL, current.VersionKey)
	}
	if session.RestartedAt == 0 {
		t.Error("đổi phiên bản giữa chừng phải đánh dấu RestartedAt")
	}
}

func TestOnUnitChanged_UnitKhacKhongAnhHuong(t *testing.T) {
	global.MongoDB_ColNames.StoryUnits = "story_units"

	s := newTestSequencer()
	s.sessions["u1"] = playingSession("u1", PlaybackEntry{
		UnitID:     primitive.NewObjectID(),
		VersionKey: "vbee:vi",
		URL:        "https://cdn/cu",
	})

	other := storymodels.ContentUnit{
		ID:               primitive.NewObjectID(),
		ActiveVersionKey: "vbee:vi",
		Versions:         []storymodels.ArtifactVersion{{URL: "https://cdn/khac", Provider: "vbee", Language: "vi"}},
	}
	s.onUnitChanged(context.Background(), events.DataChangeEvent{
		CollectionName: "story_units",
		Operation:      events.OpUpdate,
		Document:       other,
	})

	if s.sessions["u1"].RestartedAt != 0 {
		t.Error("unit không nằm trong slot hiện tại thì không được restart")
	}
}

func TestOnUnitChanged_XoaHetPhienBanGiuSlotCu(t *testing.T) {
	global.MongoDB_ColNames.StoryUnits = "story_units"

	s := newTestSequencer()
	unitID := primitive.NewObjectID()
	s.sessions["u1"] = playingSession("u1", PlaybackEntry{
		UnitID:     unitID,
		VersionKey: "vbee:vi",
		URL:        "https://cdn/cu",
	})

	// Unit mất active version: client phát nốt URL cũ, slot không restart
	s.onUnitChanged(context.Background(), events.DataChangeEvent{
		CollectionName: "story_units",
		Operation:      events.OpUpdate,
		Document:       storymodels.ContentUnit{ID: unitID},
	})

	current := s.sessions["u1"].Current()
	if current == nil || current.URL != "https://cdn/cu" {
		t.Error("mất active version thì slot phải giữ URL cũ")
	}
}
