package storydto

// StorySceneCreateInput là dữ liệu đầu vào khi tạo mới một cảnh trong dự án.
type StorySceneCreateInput struct {
	ProjectID   string `json:"projectId" validate:"required" transform:"str_objectid"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order,omitempty"`
}

// StorySceneUpdateInput là dữ liệu đầu vào khi cập nhật một cảnh.
type StorySceneUpdateInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order,omitempty"`
}
