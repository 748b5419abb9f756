// Package generationsvc - Test vòng chạy batch với unit store và generator giả lập.
package generationsvc

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	creditsvc "film_studio/internal/api/credit/service"
	models "film_studio/internal/api/generation/models"
	"film_studio/internal/api/generation/providers"
	storymodels "film_studio/internal/api/story/models"
	"film_studio/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUnitSource struct {
	units map[primitive.ObjectID]storymodels.ContentUnit
}

func (f *fakeUnitSource) FindOneById(ctx context.Context, id primitive.ObjectID) (storymodels.ContentUnit, error) {
	u, ok := f.units[id]
	if !ok {
		return storymodels.ContentUnit{}, common.ErrNotFound
	}
	return u, nil
}

type fakeGenerator struct {
	calls      []primitive.ObjectID
	onGenerate func(call int, req GenerateRequest) (*GenerateResult, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, req GenerateRequest, wait bool) (*GenerateResult, error) {
	call := len(f.calls)
	f.calls = append(f.calls, req.UnitID)
	return f.onGenerate(call, req)
}

type fakeProgress struct {
	updates int
}

func (f *fakeProgress) updateProgress(ctx context.Context, batchID primitive.ObjectID, completed, skipped, failed int) {
	f.updates++
}

func testBatch(unitIDs []primitive.ObjectID) models.GenerationBatch {
	return models.GenerationBatch{
		ID:      primitive.NewObjectID(),
		UnitIDs: unitIDs,
		Status:  models.BatchStatusRunning,
	}
}

func TestBatchRunner_BoQuaUnitDaCoVersionMucTieu(t *testing.T) {
	ownerID := primitive.NewObjectID()
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}

	units := map[primitive.ObjectID]storymodels.ContentUnit{
		ids[0]: {ID: ids[0], Kind: storymodels.UnitKindDialogue, Text: "a", OwnerID: ownerID},
		ids[1]: {ID: ids[1], Kind: storymodels.UnitKindDialogue, Text: "b", OwnerID: ownerID,
			Versions: []storymodels.ArtifactVersion{{URL: "https://cdn/x", Provider: "vbee", Language: "vi"}}},
		ids[2]: {ID: ids[2], Kind: storymodels.UnitKindDialogue, Text: "c", OwnerID: ownerID},
	}

	gen := &fakeGenerator{onGenerate: func(call int, req GenerateRequest) (*GenerateResult, error) {
		return &GenerateResult{Outcome: OutcomeComplete}, nil
	}}
	var slept int
	runner := &batchRunner{
		units:    &fakeUnitSource{units: units},
		jobs:     gen,
		progress: &fakeProgress{},
		sleep:    func(time.Duration) { slept++ },
	}

	spec := &providers.ProviderSpec{Name: "vbee", Kind: providers.KindSpeech, DelayMs: 100}
	out := runner.run(context.Background(), testBatch(ids), BatchRunRequest{OwnerID: ownerID}, spec, "vi", &atomic.Bool{})

	if out.status != models.BatchStatusCompleted {
		t.Fatalf("batch phải kết thúc completed, got %s", out.status)
	}
	if out.completed != 2 || out.skipped != 1 || out.failed != 0 {
		t.Errorf("muốn completed=2 skipped=1 failed=0, got %+v", out)
	}
	if len(gen.calls) != 2 {
		t.Errorf("unit đã có version mục tiêu không được sinh lại, generator bị gọi %d lần", len(gen.calls))
	}
	for _, id := range gen.calls {
		if id == ids[1] {
			t.Errorf("unit %s đã có version (vbee, vi) nhưng vẫn bị gọi sinh", id.Hex())
		}
	}
	// Unit cuối không có khoảng nghỉ sau nó
	if slept != 1 {
		t.Errorf("chỉ nghỉ giữa hai unit sinh thành công, muốn 1 lần, got %d", slept)
	}
}

func TestBatchRunner_HuyGiuaChungUnitDangChayVanHoanThanh(t *testing.T) {
	ownerID := primitive.NewObjectID()
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}

	units := map[primitive.ObjectID]storymodels.ContentUnit{}
	for _, id := range ids {
		units[id] = storymodels.ContentUnit{ID: id, Kind: storymodels.UnitKindDialogue, Text: "t", OwnerID: ownerID}
	}

	// Hủy đến NGAY TRONG LÚC unit đầu tiên đang sinh: kết quả của nó vẫn
	// được ghi nhận, các unit chưa bắt đầu không được chạy
	flag := &atomic.Bool{}
	gen := &fakeGenerator{onGenerate: func(call int, req GenerateRequest) (*GenerateResult, error) {
		flag.Store(true)
		return &GenerateResult{Outcome: OutcomeComplete}, nil
	}}
	runner := &batchRunner{
		units:    &fakeUnitSource{units: units},
		jobs:     gen,
		progress: &fakeProgress{},
		sleep:    func(time.Duration) {},
	}

	spec := &providers.ProviderSpec{Name: "vbee", Kind: providers.KindSpeech}
	out := runner.run(context.Background(), testBatch(ids), BatchRunRequest{OwnerID: ownerID}, spec, "vi", flag)

	if out.status != models.BatchStatusCancelled {
		t.Fatalf("batch phải kết thúc cancelled, got %s", out.status)
	}
	if out.completed != 1 {
		t.Errorf("kết quả của unit đang chạy dở vẫn phải được ghi nhận, got completed=%d", out.completed)
	}
	if len(gen.calls) != 1 {
		t.Errorf("unit chưa bắt đầu không được chạy sau khi hủy, generator bị gọi %d lần", len(gen.calls))
	}
}

func TestBatchRunner_HetCreditDungCaBatch(t *testing.T) {
	ownerID := primitive.NewObjectID()
	ids := make([]primitive.ObjectID, 5)
	units := map[primitive.ObjectID]storymodels.ContentUnit{}
	for i := range ids {
		ids[i] = primitive.NewObjectID()
		units[ids[i]] = storymodels.ContentUnit{ID: ids[i], Kind: storymodels.UnitKindDialogue, Text: "t", OwnerID: ownerID}
	}

	// Hai unit đầu sinh được, unit thứ ba chạm đáy credit
	gen := &fakeGenerator{onGenerate: func(call int, req GenerateRequest) (*GenerateResult, error) {
		if call < 2 {
			return &GenerateResult{Outcome: OutcomeComplete}, nil
		}
		return &GenerateResult{
			Outcome: OutcomeInsufficientCredits,
			Check:   &creditsvc.BalanceCheck{Required: 1, Balance: 0.5},
		}, nil
	}}
	runner := &batchRunner{
		units:    &fakeUnitSource{units: units},
		jobs:     gen,
		progress: &fakeProgress{},
		sleep:    func(time.Duration) {},
	}

	spec := &providers.ProviderSpec{Name: "vbee", Kind: providers.KindSpeech}
	out := runner.run(context.Background(), testBatch(ids), BatchRunRequest{OwnerID: ownerID}, spec, "vi", &atomic.Bool{})

	if out.status != models.BatchStatusAborted {
		t.Fatalf("hết credit phải dừng batch ở aborted, got %s", out.status)
	}
	if out.completed != 2 {
		t.Errorf("hai unit trước điểm hết credit phải hoàn thành, got completed=%d", out.completed)
	}
	if len(gen.calls) != 3 {
		t.Errorf("các unit sau điểm hết credit không được chạy, generator bị gọi %d lần", len(gen.calls))
	}
	if out.abortReason == "" {
		t.Error("batch aborted phải mang lý do dừng")
	}
}

func TestBatchRunner_LoiMotUnitKhongDungBatch(t *testing.T) {
	ownerID := primitive.NewObjectID()
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	units := map[primitive.ObjectID]storymodels.ContentUnit{}
	for _, id := range ids {
		units[id] = storymodels.ContentUnit{ID: id, Kind: storymodels.UnitKindDialogue, Text: "t", OwnerID: ownerID}
	}

	gen := &fakeGenerator{onGenerate: func(call int, req GenerateRequest) (*GenerateResult, error) {
		if call == 1 {
			return nil, common.ErrProviderRequest
		}
		return &GenerateResult{Outcome: OutcomeComplete}, nil
	}}
	runner := &batchRunner{
		units:    &fakeUnitSource{units: units},
		jobs:     gen,
		progress: &fakeProgress{},
		sleep:    func(time.Duration) {},
	}

	spec := &providers.ProviderSpec{Name: "vbee", Kind: providers.KindSpeech}
	out := runner.run(context.Background(), testBatch(ids), BatchRunRequest{OwnerID: ownerID}, spec, "vi", &atomic.Bool{})

	if out.status != models.BatchStatusCompleted {
		t.Fatalf("lỗi đơn lẻ không được dừng batch, got %s", out.status)
	}
	if out.completed != 2 || out.failed != 1 {
		t.Errorf("muốn completed=2 failed=1, got %+v", out)
	}
	if len(gen.calls) != 3 {
		t.Errorf("cả ba unit phải được thử, generator bị gọi %d lần", len(gen.calls))
	}
}
