// Package models - Test các helper quản lý phiên bản media của content unit.
package models

import (
	"testing"
)

func TestUpsertVersion_ThemMoiVaThayTheTaiCho(t *testing.T) {
	versions, key := UpsertVersion(nil, ArtifactVersion{URL: "u1", Provider: "vbee", Language: "vi"})
	if key != "vbee:vi" {
		t.Fatalf("key sai: %q", key)
	}
	if len(versions) != 1 {
		t.Fatalf("phải có 1 phiên bản, có %d", len(versions))
	}

	versions, _ = UpsertVersion(versions, ArtifactVersion{URL: "u2", Provider: "suno", Language: "vi"})

	// Upsert lại cùng key: thay thế tại chỗ, không thêm phiên bản mới
	versions, _ = UpsertVersion(versions, ArtifactVersion{URL: "u1-moi", Provider: "vbee", Language: "vi"})
	if len(versions) != 2 {
		t.Fatalf("upsert cùng key phải giữ nguyên số phiên bản, có %d", len(versions))
	}
	if versions[0].URL != "u1-moi" {
		t.Errorf("phiên bản cùng key phải được thay thế tại chỗ, URL = %q", versions[0].URL)
	}
	if versions[1].URL != "u2" {
		t.Errorf("phiên bản khác key không được đổi, URL = %q", versions[1].URL)
	}
}

func TestUpsertVersion_ConTroActiveTuTroSangPayloadMoi(t *testing.T) {
	unit := ContentUnit{}
	unit.Versions, unit.ActiveVersionKey = UpsertVersion(unit.Versions, ArtifactVersion{URL: "cu", Provider: "vbee", Language: "vi"})

	unit.Versions, _ = UpsertVersion(unit.Versions, ArtifactVersion{URL: "x", Provider: "vbee", Language: "vi"})

	active := unit.ActiveVersion()
	if active == nil {
		t.Fatal("active version không được nil sau khi upsert cùng key")
	}
	if active.URL != "x" {
		t.Errorf("con trỏ active phải trỏ sang payload mới, URL = %q", active.URL)
	}
}

func TestRemoveVersion_XoaActivePromotePhienBanDauTien(t *testing.T) {
	versions := []ArtifactVersion{
		{URL: "a", Provider: "vbee", Language: "vi"},
		{URL: "b", Provider: "elevenlabs", Language: "vi"},
		{URL: "c", Provider: "vbee", Language: "en"},
	}

	out, activeKey := RemoveVersion(versions, "elevenlabs:vi", "elevenlabs:vi")
	if len(out) != 2 {
		t.Fatalf("phải còn 2 phiên bản, còn %d", len(out))
	}
	// Xóa active: promote phiên bản đầu tiên còn lại theo thứ tự chèn
	if activeKey != "vbee:vi" {
		t.Errorf("active phải promote sang phiên bản đầu tiên còn lại, activeKey = %q", activeKey)
	}
}

func TestRemoveVersion_XoaPhienBanCuoiCungXoaConTro(t *testing.T) {
	versions := []ArtifactVersion{{URL: "a", Provider: "vbee", Language: "vi"}}
	out, activeKey := RemoveVersion(versions, "vbee:vi", "vbee:vi")
	if len(out) != 0 {
		t.Fatalf("phải hết phiên bản, còn %d", len(out))
	}
	if activeKey != "" {
		t.Errorf("không còn phiên bản nào thì active phải rỗng, activeKey = %q", activeKey)
	}
}

func TestRemoveVersion_XoaPhienBanKhongActive_ConTroGiuNguyen(t *testing.T) {
	versions := []ArtifactVersion{
		{URL: "a", Provider: "vbee", Language: "vi"},
		{URL: "b", Provider: "vbee", Language: "en"},
	}
	out, activeKey := RemoveVersion(versions, "vbee:vi", "vbee:en")
	if len(out) != 1 {
		t.Fatalf("phải còn 1 phiên bản, còn %d", len(out))
	}
	if activeKey != "vbee:vi" {
		t.Errorf("xóa phiên bản không active thì con trỏ giữ nguyên, activeKey = %q", activeKey)
	}
}

func TestRemoveVersion_KeyKhongTonTai_DuLieuKhongDoi(t *testing.T) {
	versions := []ArtifactVersion{{URL: "a", Provider: "vbee", Language: "vi"}}
	out, activeKey := RemoveVersion(versions, "vbee:vi", "suno:vi")
	if len(out) != 1 || activeKey != "vbee:vi" {
		t.Errorf("key không tồn tại phải trả về dữ liệu không đổi: %d phiên bản, activeKey %q", len(out), activeKey)
	}
}

func TestHasVersion(t *testing.T) {
	unit := ContentUnit{Versions: []ArtifactVersion{{Provider: "vbee", Language: "vi"}}}
	if !unit.HasVersion("vbee", "vi") {
		t.Error("HasVersion phải true cho phiên bản đã có")
	}
	if unit.HasVersion("vbee", "en") {
		t.Error("HasVersion phải false cho phiên bản chưa có")
	}
}
