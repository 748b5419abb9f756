package storydto

import (
	storymodels "film_studio/internal/api/story/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryProjectCreateInput dữ liệu đầu vào khi tạo dự án
type StoryProjectCreateInput struct {
	Title       string                           `json:"title" validate:"required"`
	Language    string                           `json:"language,omitempty" transform:"string,default=vi"`
	Preferences *storymodels.ProviderPreferences `json:"preferences,omitempty"`
}

// StoryProjectUpdateInput dữ liệu đầu vào khi cập nhật dự án
type StoryProjectUpdateInput struct {
	Title       string                           `json:"title,omitempty"`
	Language    string                           `json:"language,omitempty"`
	Preferences *storymodels.ProviderPreferences `json:"preferences,omitempty"`
	SceneOrder  []primitive.ObjectID             `json:"sceneOrder,omitempty"`
}
