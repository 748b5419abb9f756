package approvalsvc

import "testing"

func TestSplitVersionKey(t *testing.T) {
	provider, language, ok := splitVersionKey("vbee:vi")
	if !ok || provider != "vbee" || language != "vi" {
		t.Errorf("splitVersionKey(vbee:vi) = (%q, %q, %v)", provider, language, ok)
	}

	// Language có dấu hai chấm: chỉ tách ở dấu đầu tiên
	provider, language, ok = splitVersionKey("vbee:vi:bac")
	if !ok || provider != "vbee" || language != "vi:bac" {
		t.Errorf("splitVersionKey(vbee:vi:bac) = (%q, %q, %v)", provider, language, ok)
	}

	if _, _, ok := splitVersionKey("khong-co-dau-hai-cham"); ok {
		t.Error("key thiếu dấu hai chấm phải trả về ok=false")
	}
}
