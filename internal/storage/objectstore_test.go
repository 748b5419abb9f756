package storage

import (
	"context"
	"strings"
	"testing"

	"film_studio/config"
)

func TestInlineDataURL(t *testing.T) {
	url := InlineDataURL([]byte("abc"), "audio/mpeg")
	if !strings.HasPrefix(url, "data:audio/mpeg;base64,") {
		t.Errorf("data URL sai prefix: %q", url)
	}
	if !strings.HasSuffix(url, "YWJj") {
		t.Errorf("payload base64 sai: %q", url)
	}
}

func TestInlineDataURL_ContentTypeRong(t *testing.T) {
	url := InlineDataURL([]byte{0x01}, "")
	if !strings.HasPrefix(url, "data:application/octet-stream;base64,") {
		t.Errorf("content type rỗng phải fallback octet-stream: %q", url)
	}
}

func TestUpload_KhongCauHinhTraLoi(t *testing.T) {
	store := NewObjectStore(&config.Configuration{})
	if store.Enabled() {
		t.Fatal("endpoint rỗng thì store phải disabled")
	}
	if _, err := store.Upload(context.Background(), []byte("x"), "audio/mpeg", "mp3"); err == nil {
		t.Error("Upload khi chưa cấu hình phải trả lỗi")
	}
}
