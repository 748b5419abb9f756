// Package generationsvc - Test registry các yêu cầu chờ quyết định credit.
package generationsvc

import (
	"testing"

	creditsvc "film_studio/internal/api/credit/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecisionRegistry_ParkRoiTakeMotLan(t *testing.T) {
	registry := NewDecisionRegistry()
	ownerID := primitive.NewObjectID()

	req := GenerateRequest{UnitID: primitive.NewObjectID(), OwnerID: ownerID}
	check := &creditsvc.BalanceCheck{HasEnough: false, Required: 5, Balance: 2}

	id := registry.Park(req, check)
	if id == "" {
		t.Fatal("Park phải trả về decision id")
	}

	parked, err := registry.Take(id)
	if err != nil {
		t.Fatalf("Take lần đầu phải thành công: %v", err)
	}
	if parked.Request.UnitID != req.UnitID {
		t.Error("yêu cầu lấy ra không khớp yêu cầu đã park")
	}
	if parked.Check.Required != 5 {
		t.Errorf("BalanceCheck phải được giữ nguyên, Required = %v", parked.Check.Required)
	}

	// Mỗi decision chỉ resume được một lần
	if _, err := registry.Take(id); err == nil {
		t.Error("Take lần hai phải lỗi")
	}
}

func TestDecisionRegistry_TakeIdKhongTonTai(t *testing.T) {
	registry := NewDecisionRegistry()
	if _, err := registry.Take("khong-ton-tai"); err == nil {
		t.Error("Take id không tồn tại phải lỗi")
	}
}

func TestDecisionRegistry_HaiParkDocLap(t *testing.T) {
	registry := NewDecisionRegistry()

	id1 := registry.Park(GenerateRequest{OwnerID: primitive.NewObjectID()}, &creditsvc.BalanceCheck{})
	id2 := registry.Park(GenerateRequest{OwnerID: primitive.NewObjectID()}, &creditsvc.BalanceCheck{})
	if id1 == id2 {
		t.Fatal("hai lần park phải sinh id khác nhau")
	}

	if _, err := registry.Take(id1); err != nil {
		t.Errorf("Take id1 lỗi: %v", err)
	}
	// id2 vẫn còn sau khi lấy id1
	if _, err := registry.Take(id2); err != nil {
		t.Errorf("Take id2 lỗi: %v", err)
	}
}
