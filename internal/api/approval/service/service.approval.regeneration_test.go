// Package approvalsvc - Test vòng đời yêu cầu sinh lại qua service với store
// và generator giả lập.
package approvalsvc

import (
	"context"
	"testing"

	models "film_studio/internal/api/approval/models"
	basesvc "film_studio/internal/api/base/service"
	genmodels "film_studio/internal/api/generation/models"
	generationsvc "film_studio/internal/api/generation/service"
	storymodels "film_studio/internal/api/story/models"
	"film_studio/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRegenStore giữ yêu cầu trong bộ nhớ và áp UpdateData như Mongo. Ghi trên
// context đã hủy thất bại giống driver thật.
type fakeRegenStore struct {
	requests map[primitive.ObjectID]models.RegenerationRequest
}

func (f *fakeRegenStore) FindOneById(ctx context.Context, id primitive.ObjectID) (models.RegenerationRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return models.RegenerationRequest{}, common.ErrNotFound
	}
	return req, nil
}

func (f *fakeRegenStore) InsertOne(ctx context.Context, data models.RegenerationRequest) (models.RegenerationRequest, error) {
	data.ID = primitive.NewObjectID()
	f.requests[data.ID] = data
	return data, nil
}

func (f *fakeRegenStore) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (models.RegenerationRequest, error) {
	if err := ctx.Err(); err != nil {
		return models.RegenerationRequest{}, err
	}
	req, ok := f.requests[id]
	if !ok {
		return models.RegenerationRequest{}, common.ErrNotFound
	}
	if ud, ok := data.(*basesvc.UpdateData); ok {
		if v, ok := ud.Set["status"].(string); ok {
			req.Status = v
		}
		if v, ok := ud.Set["attemptsUsed"].(int); ok {
			req.AttemptsUsed = v
		}
		if v, ok := ud.Set["provider"].(string); ok {
			req.Provider = v
		}
		if v, ok := ud.Set["language"].(string); ok {
			req.Language = v
		}
		if v, ok := ud.Set["voice"].(string); ok {
			req.Voice = v
		}
		if v, ok := ud.Push["candidates"].(string); ok {
			req.Candidates = append(req.Candidates, v)
		}
	}
	f.requests[id] = req
	return req, nil
}

type fakeRegenUnitStore struct {
	upserted []storymodels.ArtifactVersion
}

func (f *fakeRegenUnitStore) FindOneById(ctx context.Context, id primitive.ObjectID) (storymodels.ContentUnit, error) {
	return storymodels.ContentUnit{ID: id}, nil
}

func (f *fakeRegenUnitStore) UpsertArtifactVersion(ctx context.Context, id primitive.ObjectID, version storymodels.ArtifactVersion) (storymodels.ContentUnit, error) {
	f.upserted = append(f.upserted, version)
	return storymodels.ContentUnit{ID: id, Versions: f.upserted}, nil
}

type fakeCandidateGenerator struct {
	calls      int
	onGenerate func(ctx context.Context, req generationsvc.GenerateRequest) (*generationsvc.GenerateResult, error)
}

func (f *fakeCandidateGenerator) Generate(ctx context.Context, req generationsvc.GenerateRequest, wait bool) (*generationsvc.GenerateResult, error) {
	f.calls++
	return f.onGenerate(ctx, req)
}

func newTestRegenService(store *fakeRegenStore, units *fakeRegenUnitStore, gen *fakeCandidateGenerator) *RegenerationService {
	return &RegenerationService{
		requests:  store,
		units:     units,
		generator: gen,
	}
}

func seedRequest(store *fakeRegenStore, req models.RegenerationRequest) models.RegenerationRequest {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	store.requests[req.ID] = req
	return req
}

func TestRegenerate_SinhThanhCongTieuMotLuot(t *testing.T) {
	store := &fakeRegenStore{requests: map[primitive.ObjectID]models.RegenerationRequest{}}
	units := &fakeRegenUnitStore{}
	gen := &fakeCandidateGenerator{onGenerate: func(ctx context.Context, req generationsvc.GenerateRequest) (*generationsvc.GenerateResult, error) {
		if !req.CandidateOnly {
			t.Error("lần sinh của quy trình duyệt phải là candidate-only")
		}
		return &generationsvc.GenerateResult{
			Outcome: generationsvc.OutcomeComplete,
			Job: &genmodels.GenerationJob{
				Provider:  "vbee",
				Language:  "vi",
				Voice:     "bac",
				ResultURL: "https://cdn/c1",
			},
		}, nil
	}}
	svc := newTestRegenService(store, units, gen)

	requester := primitive.NewObjectID()
	request := seedRequest(store, models.RegenerationRequest{
		UnitID:      primitive.NewObjectID(),
		RequestedBy: requester,
		OwnerID:     primitive.NewObjectID(),
		Status:      models.RegenStatusApproved,
		MaxAttempts: 3,
	})

	got, err := svc.Regenerate(context.Background(), request.ID, requester)
	if err != nil {
		t.Fatalf("Regenerate thất bại: %v", err)
	}
	if got.Status != models.RegenStatusSelecting {
		t.Errorf("còn lượt sinh thì chuyển sang selecting, got %s", got.Status)
	}
	if got.AttemptsUsed != 1 {
		t.Errorf("lượt sinh phải bị tiêu, got attemptsUsed=%d", got.AttemptsUsed)
	}
	if len(got.Candidates) != 1 || got.Candidates[0] != "https://cdn/c1" {
		t.Errorf("ứng viên phải được nối vào yêu cầu, got %v", got.Candidates)
	}
	if len(units.upserted) != 0 {
		t.Error("version store của unit không được chạm tới khi chưa chọn ứng viên")
	}
}

func TestRegenerate_HetLuotBiTuChoiNhungSelectVanGoiDuoc(t *testing.T) {
	store := &fakeRegenStore{requests: map[primitive.ObjectID]models.RegenerationRequest{}}
	units := &fakeRegenUnitStore{}
	gen := &fakeCandidateGenerator{onGenerate: func(ctx context.Context, req generationsvc.GenerateRequest) (*generationsvc.GenerateResult, error) {
		t.Error("hết lượt sinh thì generator không được gọi")
		return nil, common.ErrProviderRequest
	}}
	svc := newTestRegenService(store, units, gen)

	requester := primitive.NewObjectID()
	request := seedRequest(store, models.RegenerationRequest{
		UnitID:       primitive.NewObjectID(),
		RequestedBy:  requester,
		OwnerID:      primitive.NewObjectID(),
		Status:       models.RegenStatusAwaitingFinal,
		AttemptsUsed: 3,
		MaxAttempts:  3,
		Candidates:   []string{"https://cdn/c1", "https://cdn/c2"},
		Provider:     "vbee",
		Language:     "vi",
	})

	if _, err := svc.Regenerate(context.Background(), request.ID, requester); err == nil {
		t.Fatal("hết lượt sinh thì Regenerate phải bị từ chối")
	}
	if gen.calls != 0 {
		t.Errorf("generator không được gọi, got %d lần", gen.calls)
	}

	// Select vẫn gọi được trên ứng viên đã sinh
	got, err := svc.Select(context.Background(), request.ID, requester, "https://cdn/c2")
	if err != nil {
		t.Fatalf("Select phải gọi được sau khi hết lượt sinh: %v", err)
	}
	if got.Status != models.RegenStatusCompleted {
		t.Errorf("chọn ứng viên phải đóng yêu cầu ở completed, got %s", got.Status)
	}
	if len(units.upserted) != 1 || units.upserted[0].URL != "https://cdn/c2" {
		t.Errorf("ứng viên được chọn phải ghi vào version store của unit, got %v", units.upserted)
	}
}

func TestRegenerate_ClientNgatKetNoiGiuaChungVanTraVeTrangThaiTruoc(t *testing.T) {
	store := &fakeRegenStore{requests: map[primitive.ObjectID]models.RegenerationRequest{}}
	units := &fakeRegenUnitStore{}

	// Generator hủy context giữa chừng rồi trả lỗi, giống client ngắt kết nối
	// trong lúc đang poll provider
	ctx, cancel := context.WithCancel(context.Background())
	gen := &fakeCandidateGenerator{onGenerate: func(ctx context.Context, req generationsvc.GenerateRequest) (*generationsvc.GenerateResult, error) {
		cancel()
		return nil, ctx.Err()
	}}
	svc := newTestRegenService(store, units, gen)

	requester := primitive.NewObjectID()
	request := seedRequest(store, models.RegenerationRequest{
		UnitID:       primitive.NewObjectID(),
		RequestedBy:  requester,
		OwnerID:      primitive.NewObjectID(),
		Status:       models.RegenStatusSelecting,
		AttemptsUsed: 1,
		MaxAttempts:  3,
		Candidates:   []string{"https://cdn/c1"},
	})

	if _, err := svc.Regenerate(ctx, request.ID, requester); err == nil {
		t.Fatal("lần sinh lỗi phải trả về lỗi")
	}

	// Yêu cầu không được kẹt ở generating: phải quay về trạng thái trước đó
	// dù context của caller đã bị hủy
	after := store.requests[request.ID]
	if after.Status != models.RegenStatusSelecting {
		t.Errorf("yêu cầu phải quay về selecting, got %s", after.Status)
	}
	if after.AttemptsUsed != 1 {
		t.Errorf("lần sinh lỗi không tiêu lượt, got attemptsUsed=%d", after.AttemptsUsed)
	}
}
