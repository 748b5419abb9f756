package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderPreferences chứa cấu hình provider mặc định của một dự án.
// Model rỗng nghĩa là dùng model mặc định của provider trong catalog.
type ProviderPreferences struct {
	SpeechProvider string `json:"speechProvider,omitempty" bson:"speechProvider,omitempty"` // Provider giọng đọc
	SpeechModel    string `json:"speechModel,omitempty" bson:"speechModel,omitempty"`       // Model giọng đọc
	SpeechVoice    string `json:"speechVoice,omitempty" bson:"speechVoice,omitempty"`       // Giọng đọc mặc định
	MusicProvider  string `json:"musicProvider,omitempty" bson:"musicProvider,omitempty"`   // Provider nhạc nền
	MusicModel     string `json:"musicModel,omitempty" bson:"musicModel,omitempty"`         // Model nhạc nền
	ImageProvider  string `json:"imageProvider,omitempty" bson:"imageProvider,omitempty"`   // Provider ảnh minh họa
	ImageModel     string `json:"imageModel,omitempty" bson:"imageModel,omitempty"`         // Model ảnh minh họa
	VideoProvider  string `json:"videoProvider,omitempty" bson:"videoProvider,omitempty"`   // Provider dựng video
	VideoModel     string `json:"videoModel,omitempty" bson:"videoModel,omitempty"`         // Model dựng video
}

// StoryProject đại diện cho một dự án phim (câu chuyện được chuyển thành video)
type StoryProject struct {
	_Relationships struct{}           `relationship:"collection:story_scenes,field:projectId,message:Không thể xóa dự án vì có %d phân cảnh thuộc dự án này. Vui lòng xóa các phân cảnh trước.|collection:story_units,field:projectId,message:Không thể xóa dự án vì có %d content unit thuộc dự án này.,optional:true"`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Title    string `json:"title" bson:"title" index:"text"`               // Tên dự án
	Language string `json:"language" bson:"language" index:"single:1"`     // Ngôn ngữ mặc định của dự án (vd: vi, en)
	OwnerID  primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"` // Người sở hữu dự án (phân quyền)

	// Cấu hình provider mặc định cho các thao tác sinh media
	Preferences ProviderPreferences `json:"preferences,omitempty" bson:"preferences,omitempty"`

	// Thứ tự phân cảnh trong dự án
	SceneOrder []primitive.ObjectID `json:"sceneOrder,omitempty" bson:"sceneOrder,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
