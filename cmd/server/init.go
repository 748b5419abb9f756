package main

import (
	"context"

	"film_studio/config"
	approvalmodels "film_studio/internal/api/approval/models"
	authmodels "film_studio/internal/api/auth/models"
	creditmodels "film_studio/internal/api/credit/models"
	generationmodels "film_studio/internal/api/generation/models"
	storymodels "film_studio/internal/api/story/models"
	"film_studio/internal/database"
	"film_studio/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	// Auth
	global.MongoDB_ColNames.Users = "auth_users"

	// Story (tiền tố story_)
	global.MongoDB_ColNames.StoryProjects = "story_projects"
	global.MongoDB_ColNames.StoryScenes = "story_scenes"
	global.MongoDB_ColNames.StoryUnits = "story_units"

	// Generation (tiền tố generation_)
	global.MongoDB_ColNames.GenerationJobs = "generation_jobs"
	global.MongoDB_ColNames.GenerationBatches = "generation_batches"

	// Credit (tiền tố credit_)
	global.MongoDB_ColNames.CreditAccounts = "credit_accounts"
	global.MongoDB_ColNames.CreditSpends = "credit_spends"

	// Approval (tiền tố approval_)
	global.MongoDB_ColNames.ApprovalRegenerations = "approval_regenerations"
	global.MongoDB_ColNames.ApprovalDeletions = "approval_deletions"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các db và collections nếu chưa có
	database.EnsureDatabaseAndCollections(global.MongoDB_Session)
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khởi tạo các index cho các collection
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName_Data
	db := global.MongoDB_Session.Database(dbName)

	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), authmodels.User{})

	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.StoryProjects), storymodels.StoryProject{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.StoryScenes), storymodels.StoryScene{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.StoryUnits), storymodels.ContentUnit{})

	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.GenerationJobs), generationmodels.GenerationJob{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.GenerationBatches), generationmodels.GenerationBatch{})

	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.CreditAccounts), creditmodels.CreditAccount{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.CreditSpends), creditmodels.CreditSpend{})

	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ApprovalRegenerations), approvalmodels.RegenerationRequest{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ApprovalDeletions), approvalmodels.DeletionRequest{})

	// Index compound / nested field không biểu diễn được qua model tags
	if err := database.CreateGenerationAdditionalIndexes(context.TODO(), db); err != nil {
		logrus.Errorf("Failed to create additional generation indexes: %v", err)
	}
}
