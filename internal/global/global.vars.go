package global

import (
	"film_studio/config"
	"film_studio/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	// Auth Collections
	Users string // Tên collection cho người dùng

	// Story Collections
	StoryProjects string // Tên collection cho dự án phim
	StoryScenes   string // Tên collection cho phân cảnh
	StoryUnits    string // Tên collection cho content unit (lời thoại, nhạc nền)

	// Generation Collections
	GenerationJobs    string // Tên collection cho job sinh media
	GenerationBatches string // Tên collection cho batch sinh hàng loạt

	// Credit Collections
	CreditAccounts string // Tên collection cho tài khoản credit
	CreditSpends   string // Tên collection cho lịch sử trừ credit

	// Approval Collections
	ApprovalRegenerations string // Tên collection cho yêu cầu sinh lại
	ApprovalDeletions     string // Tên collection cho yêu cầu xóa version
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName    // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
