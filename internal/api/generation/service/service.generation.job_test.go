// Package generationsvc - Test các helper của vòng đời job.
package generationsvc

import (
	"testing"

	"film_studio/internal/api/generation/providers"
	storymodels "film_studio/internal/api/story/models"
)

func TestExtForContentType(t *testing.T) {
	cases := []struct {
		contentType string
		want        string
	}{
		{"audio/mpeg", "mp3"},
		{"audio/wav", "wav"},
		{"audio/x-wav", "wav"},
		{"image/png", "png"},
		{"image/jpeg", "jpg"},
		{"video/mp4", "mp4"},
		{"audio/mpeg; charset=utf-8", "mp3"}, // tham số kèm theo phải bị bỏ
		{"video/mp4;codecs=avc1", "mp4"},
		{"application/octet-stream", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := extForContentType(tc.contentType); got != tc.want {
			t.Errorf("extForContentType(%q) = %q, muốn %q", tc.contentType, got, tc.want)
		}
	}
}

func TestApplyOverrides_TheoKind(t *testing.T) {
	prefs := storymodels.ProviderPreferences{
		SpeechProvider: "vbee",
		SpeechModel:    "vbee-tts-v2",
	}

	// Override provider phải xóa model cũ của kind đó
	applyOverrides(&prefs, providers.KindSpeech, "elevenlabs", "")
	if prefs.SpeechProvider != "elevenlabs" || prefs.SpeechModel != "" {
		t.Errorf("override provider phải xóa model cũ, got %+v", prefs)
	}

	// Override kind video không chạm vào cấu hình speech
	applyOverrides(&prefs, providers.KindVideo, "vectcut", "vectcut-4k")
	if prefs.VideoProvider != "vectcut" || prefs.VideoModel != "vectcut-4k" {
		t.Errorf("override video không được ghi nhận, got %+v", prefs)
	}
	if prefs.SpeechProvider != "elevenlabs" {
		t.Errorf("override video không được chạm vào speech, got %+v", prefs)
	}
}
