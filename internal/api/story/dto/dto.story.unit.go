package storydto

// ContentUnitCreateInput là dữ liệu đầu vào khi tạo mới một đơn vị nội dung
// (lời thoại hoặc nhạc nền) trong một cảnh.
type ContentUnitCreateInput struct {
	ProjectID string `json:"projectId" validate:"required" transform:"str_objectid"`
	SceneID   string `json:"sceneId" validate:"required" transform:"str_objectid"`
	Kind      string `json:"kind" validate:"required,oneof=dialogue music"`
	Text      string `json:"text,omitempty"`
	Speaker   string `json:"speaker,omitempty"`
	Voice     string `json:"voice,omitempty"`
	Order     int    `json:"order,omitempty"`
}

// ContentUnitUpdateInput là dữ liệu đầu vào khi cập nhật một đơn vị nội dung.
// Danh sách phiên bản sản phẩm không được sửa trực tiếp qua API này mà phải
// đi qua các endpoint chọn / xóa phiên bản.
type ContentUnitUpdateInput struct {
	Text    string `json:"text,omitempty"`
	Speaker string `json:"speaker,omitempty"`
	Voice   string `json:"voice,omitempty"`
	Order   int    `json:"order,omitempty"`
}

// VersionSelectInput chỉ định phiên bản sản phẩm cần kích hoạt cho một đơn vị
// nội dung, theo cặp (nhà cung cấp, ngôn ngữ).
type VersionSelectInput struct {
	Provider string `json:"provider" validate:"required"`
	Language string `json:"language" validate:"required"`
}

// VersionRemoveInput chỉ định phiên bản sản phẩm cần xóa khỏi một đơn vị nội dung.
type VersionRemoveInput struct {
	Provider string `json:"provider" validate:"required"`
	Language string `json:"language" validate:"required"`
}
