// Package providers chứa catalog provider sinh media và các adapter gọi API
// của từng provider (giọng đọc, nhạc nền, ảnh minh họa).
package providers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind của provider — trùng với loại media cần sinh.
const (
	KindSpeech = "speech"
	KindMusic  = "music"
	KindImage  = "image"
	KindVideo  = "video"
)

// ProviderSpec mô tả một provider trong catalog.
type ProviderSpec struct {
	Name         string   `yaml:"name"`         // Tên provider (định danh duy nhất)
	Kind         string   `yaml:"kind"`         // Loại media: speech, music, image, video
	Endpoint     string   `yaml:"endpoint"`     // Base URL API của provider
	DefaultModel string   `yaml:"defaultModel"` // Model dùng khi người dùng không chỉ định
	Models       []string `yaml:"models"`       // Danh sách model hỗ trợ
	Async        bool     `yaml:"async"`        // true = submit trả về job id, phải poll
	DelayMs      int      `yaml:"delayMs"`      // Khoảng nghỉ giữa hai request liên tiếp (rate limit)
}

// Delay trả về khoảng nghỉ giữa hai request liên tiếp tới provider.
func (p *ProviderSpec) Delay() time.Duration {
	return time.Duration(p.DelayMs) * time.Millisecond
}

// HasModel kiểm tra provider có hỗ trợ model không.
func (p *ProviderSpec) HasModel(model string) bool {
	for _, m := range p.Models {
		if m == model {
			return true
		}
	}
	return false
}

// Catalog là danh mục provider load từ file YAML.
type Catalog struct {
	Providers []ProviderSpec    `yaml:"providers"`
	Baselines map[string]string `yaml:"baselines"` // kind -> tên provider mặc định của hệ thống
}

// LoadCatalog đọc catalog provider từ file YAML.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("không đọc được catalog provider tại %s: %w", path, err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("catalog provider không đúng định dạng YAML: %w", err)
	}

	// Kiểm tra baseline trỏ đến provider tồn tại
	for kind, name := range catalog.Baselines {
		if _, ok := catalog.Provider(name); !ok {
			return nil, fmt.Errorf("baseline %s trỏ đến provider không tồn tại: %s", kind, name)
		}
	}

	return &catalog, nil
}

// Provider tìm provider theo tên (không phân biệt hoa thường).
func (c *Catalog) Provider(name string) (*ProviderSpec, bool) {
	for i := range c.Providers {
		if strings.EqualFold(c.Providers[i].Name, name) {
			return &c.Providers[i], true
		}
	}
	return nil, false
}

// ProviderForModel tìm provider hỗ trợ một model cụ thể.
// Model cấu hình rõ ràng cho một provider thì suy ra provider đó.
func (c *Catalog) ProviderForModel(kind string, model string) (*ProviderSpec, bool) {
	for i := range c.Providers {
		if c.Providers[i].Kind == kind && c.Providers[i].HasModel(model) {
			return &c.Providers[i], true
		}
	}
	return nil, false
}

// Baseline trả về provider mặc định của hệ thống cho một loại media.
func (c *Catalog) Baseline(kind string) (*ProviderSpec, bool) {
	name, ok := c.Baselines[kind]
	if !ok {
		return nil, false
	}
	return c.Provider(name)
}
