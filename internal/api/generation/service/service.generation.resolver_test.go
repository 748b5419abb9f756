// Package generationsvc - Test thứ tự resolve provider và nguồn thanh toán.
package generationsvc

import (
	"testing"

	"film_studio/internal/api/generation/providers"
	storymodels "film_studio/internal/api/story/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testCatalog() *providers.Catalog {
	return &providers.Catalog{
		Providers: []providers.ProviderSpec{
			{Name: "vbee", Kind: providers.KindSpeech, DefaultModel: "vbee-tts-v2", Models: []string{"vbee-tts-v2", "vbee-tts-hn-thanhtung"}},
			{Name: "elevenlabs", Kind: providers.KindSpeech, DefaultModel: "eleven_multilingual_v2", Models: []string{"eleven_multilingual_v2"}},
			{Name: "suno", Kind: providers.KindMusic, DefaultModel: "chirp-v4", Models: []string{"chirp-v4"}, Async: true},
			{Name: "vectcut", Kind: providers.KindVideo, DefaultModel: "vectcut-hd", Models: []string{"vectcut-hd", "vectcut-4k"}},
		},
		Baselines: map[string]string{
			providers.KindSpeech: "vbee",
			providers.KindMusic:  "suno",
			providers.KindVideo:  "vectcut",
		},
	}
}

func testResolver() (*ProviderResolver, *CredentialRegistry) {
	creds := NewCredentialRegistry()
	resolver := NewProviderResolver(testCatalog(), creds, map[string]string{
		providers.KindSpeech: "sys-speech-key",
		providers.KindMusic:  "sys-music-key",
		providers.KindVideo:  "sys-video-key",
	})
	return resolver, creds
}

func TestResolve_ModelCuTheSuyRaProvider(t *testing.T) {
	resolver, _ := testResolver()
	userID := primitive.NewObjectID()

	// Model cấu hình rõ ràng thắng cả provider cấu hình rõ ràng
	prefs := storymodels.ProviderPreferences{
		SpeechProvider: "vbee",
		SpeechModel:    "eleven_multilingual_v2",
	}
	res, err := resolver.Resolve(prefs, providers.KindSpeech, userID)
	require.NoError(t, err)
	assert.Equal(t, "elevenlabs", res.Provider.Name)
	assert.Equal(t, "eleven_multilingual_v2", res.Model)
}

func TestResolve_ProviderCuTheDungModelMacDinh(t *testing.T) {
	resolver, _ := testResolver()
	userID := primitive.NewObjectID()

	prefs := storymodels.ProviderPreferences{SpeechProvider: "elevenlabs"}
	res, err := resolver.Resolve(prefs, providers.KindSpeech, userID)
	require.NoError(t, err)
	assert.Equal(t, "elevenlabs", res.Provider.Name)
	assert.Equal(t, "eleven_multilingual_v2", res.Model)
}

func TestResolve_KhongCauHinhDungBaseline(t *testing.T) {
	resolver, _ := testResolver()
	userID := primitive.NewObjectID()

	res, err := resolver.Resolve(storymodels.ProviderPreferences{}, providers.KindSpeech, userID)
	require.NoError(t, err)
	assert.Equal(t, "vbee", res.Provider.Name)
	assert.Equal(t, "vbee-tts-v2", res.Model)
}

func TestResolve_KindVideoDungCauHinhRieng(t *testing.T) {
	resolver, _ := testResolver()
	userID := primitive.NewObjectID()

	// Không cấu hình gì: baseline video của hệ thống
	res, err := resolver.Resolve(storymodels.ProviderPreferences{}, providers.KindVideo, userID)
	require.NoError(t, err)
	assert.Equal(t, "vectcut", res.Provider.Name)
	assert.Equal(t, "vectcut-hd", res.Model)
	assert.Equal(t, "sys-video-key", res.APIKey)

	// Model video cấu hình rõ ràng suy ra provider hỗ trợ
	prefs := storymodels.ProviderPreferences{VideoModel: "vectcut-4k"}
	res, err = resolver.Resolve(prefs, providers.KindVideo, userID)
	require.NoError(t, err)
	assert.Equal(t, "vectcut", res.Provider.Name)
	assert.Equal(t, "vectcut-4k", res.Model)

	// Provider speech không nhận được yêu cầu video
	_, err = resolver.Resolve(storymodels.ProviderPreferences{VideoProvider: "vbee"}, providers.KindVideo, userID)
	assert.Error(t, err)
}

func TestResolve_ProviderKhongTonTai(t *testing.T) {
	resolver, _ := testResolver()
	userID := primitive.NewObjectID()

	_, err := resolver.Resolve(storymodels.ProviderPreferences{SpeechProvider: "khong-co"}, providers.KindSpeech, userID)
	assert.Error(t, err)

	// Provider tồn tại nhưng sai kind cũng bị từ chối
	_, err = resolver.Resolve(storymodels.ProviderPreferences{SpeechProvider: "suno"}, providers.KindSpeech, userID)
	assert.Error(t, err)
}

func TestResolve_PaysWithOwnKeyTinhLaiMoiLanGoi(t *testing.T) {
	resolver, creds := testResolver()
	userID := primitive.NewObjectID()

	res, err := resolver.Resolve(storymodels.ProviderPreferences{}, providers.KindSpeech, userID)
	require.NoError(t, err)
	assert.False(t, res.PaysWithOwnKey)
	assert.Equal(t, "sys-speech-key", res.APIKey)

	// Người dùng nạp key riêng giữa phiên: lần resolve sau phải thấy
	creds.Set(userID, "vbee", "key-rieng")
	res, err = resolver.Resolve(storymodels.ProviderPreferences{}, providers.KindSpeech, userID)
	require.NoError(t, err)
	assert.True(t, res.PaysWithOwnKey)
	assert.Equal(t, "key-rieng", res.APIKey)

	// Xóa key: quay về credit chung
	creds.Clear(userID, "vbee")
	res, err = resolver.Resolve(storymodels.ProviderPreferences{}, providers.KindSpeech, userID)
	require.NoError(t, err)
	assert.False(t, res.PaysWithOwnKey)

	// Key riêng của người khác không ảnh hưởng
	creds.Set(primitive.NewObjectID(), "vbee", "key-nguoi-khac")
	res, err = resolver.Resolve(storymodels.ProviderPreferences{}, providers.KindSpeech, userID)
	require.NoError(t, err)
	assert.False(t, res.PaysWithOwnKey)
}
