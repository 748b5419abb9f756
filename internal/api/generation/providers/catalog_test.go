// Package providers - Test load và tra cứu catalog provider.
package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
providers:
  - name: vbee
    kind: speech
    endpoint: https://api.vbee.vn
    defaultModel: vbee-tts-v2
    models:
      - vbee-tts-v2
    async: false
    delayMs: 500
  - name: suno
    kind: music
    endpoint: https://api.sunoapi.org
    defaultModel: chirp-v4
    models:
      - chirp-v4
      - chirp-v3-5
    async: true
    delayMs: 1000
  - name: vectcut
    kind: video
    endpoint: https://filmstudio--vectcut-processor.modal.run
    defaultModel: vectcut-hd
    models:
      - vectcut-hd
      - vectcut-4k
    async: false
    delayMs: 2000
baselines:
  speech: vbee
  music: suno
  video: vectcut
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t, catalogYAML))
	require.NoError(t, err)
	require.Len(t, catalog.Providers, 3)

	spec, ok := catalog.Provider("vbee")
	require.True(t, ok)
	assert.Equal(t, KindSpeech, spec.Kind)
	assert.False(t, spec.Async)
	assert.Equal(t, int64(500), spec.Delay().Milliseconds())

	// Tra cứu không phân biệt hoa thường
	_, ok = catalog.Provider("SUNO")
	assert.True(t, ok)

	baseline, ok := catalog.Baseline(KindMusic)
	require.True(t, ok)
	assert.Equal(t, "suno", baseline.Name)

	baseline, ok = catalog.Baseline(KindVideo)
	require.True(t, ok)
	assert.Equal(t, "vectcut", baseline.Name)

	_, ok = catalog.Baseline(KindImage)
	assert.False(t, ok, "kind không có baseline phải trả về false")
}

func TestLoadCatalog_BaselineTroProviderKhongTonTai(t *testing.T) {
	_, err := LoadCatalog(writeCatalog(t, `
providers:
  - name: vbee
    kind: speech
baselines:
  speech: khong-ton-tai
`))
	assert.Error(t, err)
}

func TestLoadCatalog_FileKhongTonTai(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProviderForModel(t *testing.T) {
	catalog, err := LoadCatalog(writeCatalog(t, catalogYAML))
	require.NoError(t, err)

	spec, ok := catalog.ProviderForModel(KindMusic, "chirp-v3-5")
	require.True(t, ok)
	assert.Equal(t, "suno", spec.Name)

	// Model đúng nhưng kind sai không khớp
	_, ok = catalog.ProviderForModel(KindSpeech, "chirp-v3-5")
	assert.False(t, ok)
}
