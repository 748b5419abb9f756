package main

import (
	"film_studio/internal/api/generation/providers"
	"film_studio/internal/global"
	"film_studio/internal/logger"
)

// InitDefaultData kiểm tra dữ liệu cấu hình bắt buộc trước khi server nhận request.
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	cfg := global.MongoDB_ServerConfig

	// Catalog provider là điều kiện tiên quyết của toàn bộ domain generation —
	// thiếu hoặc sai format thì fail ngay lúc khởi động thay vì lúc có request
	catalog, err := providers.LoadCatalog(cfg.ProviderCatalogPath)
	if err != nil {
		log.Fatalf("Failed to load provider catalog from %s: %v", cfg.ProviderCatalogPath, err)
	}
	log.Infof("✅ [INIT] Provider catalog loaded: %d providers", len(catalog.Providers))

	for kind, name := range catalog.Baselines {
		log.Infof("✅ [INIT] Baseline provider for %s: %s", kind, name)
	}

	// Cảnh báo các API key hệ thống còn trống — người dùng vẫn sinh được bằng
	// key riêng, nhưng credit chung sẽ không dùng được với provider thiếu key
	if cfg.SpeechAPIKey == "" {
		log.Warn("⚠️ [INIT] SPEECH_API_KEY chưa cấu hình, sinh giọng đọc bằng credit chung sẽ thất bại")
	}
	if cfg.MusicAPIKey == "" {
		log.Warn("⚠️ [INIT] MUSIC_API_KEY chưa cấu hình, sinh nhạc bằng credit chung sẽ thất bại")
	}
	if cfg.ImageAPIKey == "" {
		log.Warn("⚠️ [INIT] IMAGE_API_KEY chưa cấu hình, sinh ảnh bằng credit chung sẽ thất bại")
	}
	if cfg.VideoAPIKey == "" {
		log.Warn("⚠️ [INIT] VIDEO_API_KEY chưa cấu hình, dựng video bằng credit chung sẽ thất bại")
	}

	if cfg.ObjectStoreEndpoint == "" {
		log.Info("ℹ️ [INIT] Object store chưa cấu hình, artifact sẽ lưu inline base64")
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
