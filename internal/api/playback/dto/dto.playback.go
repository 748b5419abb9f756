// Package playbackdto chứa các cấu trúc dữ liệu đầu vào cho playback.
package playbackdto

// PlayInput xác định phạm vi phát: một phân cảnh hoặc cả dự án.
type PlayInput struct {
	ProjectID string `json:"projectId" validate:"required"`
	SceneID   string `json:"sceneId,omitempty"` // Rỗng = phát toàn bộ dự án
}
