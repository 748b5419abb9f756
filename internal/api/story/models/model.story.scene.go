package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryScene đại diện cho một phân cảnh trong dự án phim
type StoryScene struct {
	_Relationships struct{}           `relationship:"collection:story_units,field:sceneId,message:Không thể xóa phân cảnh vì có %d content unit thuộc phân cảnh này. Vui lòng xóa các unit trước."`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	ProjectID   primitive.ObjectID `json:"projectId" bson:"projectId" index:"single:1"` // Dự án chứa phân cảnh
	Order       int                `json:"order" bson:"order" index:"single:1"`         // Thứ tự trong dự án
	Title       string             `json:"title" bson:"title"`                          // Tên phân cảnh
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId" index:"single:1"` // Người sở hữu (kế thừa từ dự án)

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
