package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
// Nó chứa thông tin cơ sở dữ liệu và cấu hình các provider sinh media
type Configuration struct {
	InitMode              bool   `env:"INITMODE" envDefault:"false"`               // Chế độ khởi tạo
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName_Data   string `env:"MONGODB_DBNAME_DATA,required"`              // Tên cơ sở dữ liệu data
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Provider Configuration
	ProviderCatalogPath string `env:"PROVIDER_CATALOG_PATH" envDefault:"config/providers.yaml"` // Đường dẫn file catalog provider (YAML)
	SpeechAPIKey        string `env:"SPEECH_API_KEY"`                                           // API key hệ thống cho provider giọng đọc
	MusicAPIKey         string `env:"MUSIC_API_KEY"`                                            // API key hệ thống cho provider nhạc nền
	ImageAPIKey         string `env:"IMAGE_API_KEY"`                                            // API key hệ thống cho provider ảnh minh họa
	VideoAPIKey         string `env:"VIDEO_API_KEY"`                                            // API key hệ thống cho provider dựng video

	// Job Polling Configuration
	PollIntervalSeconds int `env:"POLL_INTERVAL_SECONDS" envDefault:"2"` // Chu kỳ hỏi trạng thái job provider
	PollMaxIterations   int `env:"POLL_MAX_ITERATIONS" envDefault:"150"` // Số lần hỏi tối đa trước khi coi là timeout

	// Object Store Configuration (lưu artifact lâu dài)
	ObjectStoreEndpoint  string `env:"OBJECT_STORE_ENDPOINT"`                      // Endpoint HTTP của object store (rỗng = dùng inline base64)
	ObjectStoreBucket    string `env:"OBJECT_STORE_BUCKET" envDefault:"artifacts"` // Bucket chứa artifact
	ObjectStoreAccessKey string `env:"OBJECT_STORE_ACCESS_KEY"`                    // Access key của object store
	ObjectStorePublicURL string `env:"OBJECT_STORE_PUBLIC_URL"`                    // Base URL công khai để đọc artifact

	// Credit Configuration
	CreditCostSpeech float64 `env:"CREDIT_COST_SPEECH" envDefault:"1"` // Chi phí credit cho một lần sinh giọng đọc
	CreditCostMusic  float64 `env:"CREDIT_COST_MUSIC" envDefault:"5"`  // Chi phí credit cho một lần sinh nhạc
	CreditCostImage  float64 `env:"CREDIT_COST_IMAGE" envDefault:"2"`  // Chi phí credit cho một lần sinh ảnh
	CreditCostVideo  float64 `env:"CREDIT_COST_VIDEO" envDefault:"10"` // Chi phí credit cho một lần dựng video

	// Approval Configuration
	RegenMaxAttempts int `env:"REGEN_MAX_ATTEMPTS" envDefault:"3"` // Số lần sinh lại tối đa cho một yêu cầu đã duyệt

	// SMTP Configuration (thông báo email cho chủ dự án)
	SMTPHost     string `env:"SMTP_HOST"`                                   // SMTP host (rỗng = tắt thông báo email)
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`                  // SMTP port
	SMTPUser     string `env:"SMTP_USER"`                                   // Tài khoản SMTP
	SMTPPassword string `env:"SMTP_PASSWORD"`                               // Mật khẩu SMTP
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"noreply@filmstudio.io"` // Địa chỉ gửi

	// Frontend URL
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"` // URL frontend

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
