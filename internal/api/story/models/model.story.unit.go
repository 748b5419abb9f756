package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnitKind định nghĩa các loại content unit
const (
	UnitKindDialogue = "dialogue" // Lời thoại (sinh giọng đọc)
	UnitKindMusic    = "music"    // Nhạc nền (sinh nhạc)
)

// ArtifactVersion là một phiên bản media đã sinh cho content unit.
// Bất biến sau khi tạo: thay thế phiên bản = upsert phiên bản mới cùng key.
type ArtifactVersion struct {
	URL        string `json:"url" bson:"url"`                                   // URL media (remote hoặc data: inline)
	Provider   string `json:"provider" bson:"provider"`                         // Provider đã sinh
	Language   string `json:"language" bson:"language"`                         // Ngôn ngữ của phiên bản
	Voice      string `json:"voice,omitempty" bson:"voice,omitempty"`           // Giọng đọc / phong cách
	DurationMs int64  `json:"durationMs,omitempty" bson:"durationMs,omitempty"` // Thời lượng (ms)
	Title      string `json:"title,omitempty" bson:"title,omitempty"`           // Tên hiển thị (vd: tên bài nhạc)
	CreatedAt  int64  `json:"createdAt" bson:"createdAt"`                       // Thời gian sinh
}

// Key trả về khóa định danh phiên bản: mỗi cặp (provider, language) chỉ có một phiên bản.
func (v ArtifactVersion) Key() string {
	return VersionKey(v.Provider, v.Language)
}

// VersionKey ghép (provider, language) thành khóa phiên bản.
func VersionKey(provider string, language string) string {
	return provider + ":" + language
}

// ContentUnit đại diện cho một đơn vị nội dung cần sinh media (lời thoại hoặc nhạc nền)
type ContentUnit struct {
	_Relationships struct{}           `relationship:"collection:generation_jobs,field:unitId,message:Không thể xóa unit vì có %d job sinh media gắn với unit này.,optional:true|collection:approval_regenerations,field:unitId,message:Không thể xóa unit vì có %d yêu cầu sinh lại gắn với unit này.,optional:true"`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	ProjectID primitive.ObjectID `json:"projectId" bson:"projectId" index:"single:1"` // Dự án chứa unit
	SceneID   primitive.ObjectID `json:"sceneId" bson:"sceneId" index:"single:1"`     // Phân cảnh chứa unit
	Kind      string             `json:"kind" bson:"kind" index:"single:1"`           // Loại unit: dialogue, music
	Order     int                `json:"order" bson:"order"`                          // Thứ tự trong phân cảnh

	Text    string `json:"text" bson:"text"`                           // Lời thoại hoặc prompt nhạc
	Speaker string `json:"speaker,omitempty" bson:"speaker,omitempty"` // Nhân vật nói (dialogue)
	Voice   string `json:"voice,omitempty" bson:"voice,omitempty"`     // Giọng đọc chỉ định riêng cho unit

	// Các phiên bản media đã sinh, tối đa một phiên bản cho mỗi (provider, language)
	Versions []ArtifactVersion `json:"versions,omitempty" bson:"versions,omitempty"`
	// Khóa phiên bản đang dùng (rỗng = chưa chọn)
	ActiveVersionKey string `json:"activeVersionKey,omitempty" bson:"activeVersionKey,omitempty"`

	OwnerID primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"` // Người sở hữu (kế thừa từ dự án)

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// ActiveVersion trả về phiên bản đang dùng của unit (nil nếu chưa chọn hoặc key không còn tồn tại).
func (u *ContentUnit) ActiveVersion() *ArtifactVersion {
	if u.ActiveVersionKey == "" {
		return nil
	}
	return FindVersion(u.Versions, u.ActiveVersionKey)
}

// HasVersion kiểm tra unit đã có phiên bản cho (provider, language) chưa.
func (u *ContentUnit) HasVersion(provider string, language string) bool {
	return FindVersion(u.Versions, VersionKey(provider, language)) != nil
}

// FindVersion tìm phiên bản theo key trong danh sách (nil nếu không có).
func FindVersion(versions []ArtifactVersion, key string) *ArtifactVersion {
	for i := range versions {
		if versions[i].Key() == key {
			return &versions[i]
		}
	}
	return nil
}

// UpsertVersion thay thế phiên bản cùng key tại chỗ (giữ vị trí cũ) hoặc thêm
// vào cuối nếu chưa có. Trả về danh sách mới và key của phiên bản vừa ghi.
// Con trỏ active không đổi: nếu đang trỏ vào key bị thay thế thì nó tự trỏ
// sang payload mới.
func UpsertVersion(versions []ArtifactVersion, v ArtifactVersion) ([]ArtifactVersion, string) {
	key := v.Key()
	out := make([]ArtifactVersion, len(versions))
	copy(out, versions)
	for i := range out {
		if out[i].Key() == key {
			out[i] = v
			return out, key
		}
	}
	return append(out, v), key
}

// RemoveVersion xóa phiên bản theo key và tính lại con trỏ active:
// - Xóa phiên bản không phải active: con trỏ giữ nguyên.
// - Xóa phiên bản active: trỏ sang phiên bản đầu tiên còn lại (theo thứ tự
//   chèn), hoặc rỗng nếu không còn phiên bản nào.
// Key không tồn tại: trả về dữ liệu không đổi.
func RemoveVersion(versions []ArtifactVersion, activeKey string, key string) ([]ArtifactVersion, string) {
	idx := -1
	for i := range versions {
		if versions[i].Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return versions, activeKey
	}

	out := make([]ArtifactVersion, 0, len(versions)-1)
	out = append(out, versions[:idx]...)
	out = append(out, versions[idx+1:]...)

	if activeKey == key {
		if len(out) > 0 {
			activeKey = out[0].Key()
		} else {
			activeKey = ""
		}
	}
	return out, activeKey
}
