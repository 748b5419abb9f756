// Package generationsvc - service điều phối sinh media: resolve provider,
// kiểm tra credit, submit và poll job, materialize artifact, chạy batch.
package generationsvc

import (
	"fmt"
	"sync"

	"film_studio/internal/api/generation/providers"
	storymodels "film_studio/internal/api/story/models"
	"film_studio/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolution là kết quả resolve provider cho một lần sinh media.
type Resolution struct {
	Provider       *providers.ProviderSpec
	Model          string
	PaysWithOwnKey bool   // true = người dùng trả bằng key riêng, bỏ qua credit gate
	APIKey         string // Key dùng cho lần gọi (key riêng nếu có, không thì key hệ thống)
}

// CredentialRegistry giữ API key riêng của người dùng theo (userId, provider).
// Key riêng sống theo phiên làm việc, không lưu DB; người dùng nạp key khi
// resume một yêu cầu bị chặn vì thiếu credit.
type CredentialRegistry struct {
	mu   sync.RWMutex
	keys map[string]string // userIdHex + ":" + providerName -> key
}

// NewCredentialRegistry tạo registry rỗng.
func NewCredentialRegistry() *CredentialRegistry {
	return &CredentialRegistry{keys: make(map[string]string)}
}

// Set ghi key riêng của người dùng cho một provider.
func (r *CredentialRegistry) Set(userID primitive.ObjectID, provider string, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[userID.Hex()+":"+provider] = key
}

// Get trả về key riêng của người dùng cho một provider (rỗng nếu chưa nạp).
func (r *CredentialRegistry) Get(userID primitive.ObjectID, provider string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keys[userID.Hex()+":"+provider]
}

// Clear xóa key riêng của người dùng cho một provider.
func (r *CredentialRegistry) Clear(userID primitive.ObjectID, provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keys, userID.Hex()+":"+provider)
}

// ProviderResolver chọn provider + model cho một lần sinh media và quyết định
// nguồn thanh toán (credit chung hay key riêng của người dùng).
type ProviderResolver struct {
	catalog     *providers.Catalog
	credentials *CredentialRegistry
	systemKeys  map[string]string // kind -> API key hệ thống
}

// NewProviderResolver tạo resolver từ catalog và bộ key hệ thống theo kind.
func NewProviderResolver(catalog *providers.Catalog, credentials *CredentialRegistry, systemKeys map[string]string) *ProviderResolver {
	return &ProviderResolver{
		catalog:     catalog,
		credentials: credentials,
		systemKeys:  systemKeys,
	}
}

// preferencesFor tách cặp (provider, model) người dùng cấu hình cho một kind.
func preferencesFor(prefs storymodels.ProviderPreferences, kind string) (string, string) {
	switch kind {
	case providers.KindSpeech:
		return prefs.SpeechProvider, prefs.SpeechModel
	case providers.KindMusic:
		return prefs.MusicProvider, prefs.MusicModel
	case providers.KindImage:
		return prefs.ImageProvider, prefs.ImageModel
	case providers.KindVideo:
		return prefs.VideoProvider, prefs.VideoModel
	default:
		return "", ""
	}
}

// Resolve chọn provider và model cho một lần sinh media theo thứ tự ưu tiên:
//  1. Model cấu hình rõ ràng -> provider hỗ trợ model đó
//  2. Provider cấu hình rõ ràng -> model mặc định của provider
//  3. Không cấu hình gì -> provider baseline của hệ thống
//
// PaysWithOwnKey được tính lại MỖI LẦN gọi từ registry key riêng — người dùng
// có thể nạp hoặc xóa key giữa phiên, không được cache kết quả cũ.
func (r *ProviderResolver) Resolve(prefs storymodels.ProviderPreferences, kind string, userID primitive.ObjectID) (*Resolution, error) {
	providerName, modelName := preferencesFor(prefs, kind)

	var spec *providers.ProviderSpec
	var model string

	switch {
	case modelName != "":
		found, ok := r.catalog.ProviderForModel(kind, modelName)
		if !ok {
			return nil, common.NewError(
				common.ErrCodeProviderConfig,
				fmt.Sprintf("Không có provider %s nào hỗ trợ model %s", kind, modelName),
				common.StatusBadRequest,
				nil,
			)
		}
		spec = found
		model = modelName

	case providerName != "":
		found, ok := r.catalog.Provider(providerName)
		if !ok || found.Kind != kind {
			return nil, common.NewError(
				common.ErrCodeProviderConfig,
				fmt.Sprintf("Provider không tồn tại hoặc không hỗ trợ %s: %s", kind, providerName),
				common.StatusBadRequest,
				nil,
			)
		}
		spec = found
		model = found.DefaultModel

	default:
		found, ok := r.catalog.Baseline(kind)
		if !ok {
			return nil, common.NewError(
				common.ErrCodeProviderConfig,
				fmt.Sprintf("Hệ thống chưa cấu hình provider baseline cho %s", kind),
				common.StatusBadRequest,
				nil,
			)
		}
		spec = found
		model = found.DefaultModel
	}

	ownKey := r.credentials.Get(userID, spec.Name)
	resolution := &Resolution{
		Provider:       spec,
		Model:          model,
		PaysWithOwnKey: ownKey != "",
		APIKey:         ownKey,
	}
	if resolution.APIKey == "" {
		resolution.APIKey = r.systemKeys[kind]
	}
	return resolution, nil
}
