package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/filipesarturi/summoner/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, game.Region{Left: 168, Top: 242, Width: 472, Height: 654}, cfg.Region(PackFrame))
	assert.Equal(t, game.Point{X: 1031, Y: 517}, cfg.SellConfirmPoint)
	assert.Len(t, cfg.Templates.Files, 11)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summoner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logLevel: debug
confidence: 0.8
packs: [Dragon Realm Pack, Pirate Realm Pack]
regions:
  PackFrame: {left: 10, top: 20, width: 30, height: 40}
chime:
  enabled: true
  duration: 250ms
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 0.8, cfg.Confidence, 1e-9)
	assert.Equal(t, []string{"Dragon Realm Pack", "Pirate Realm Pack"}, cfg.Packs)
	assert.Equal(t, game.Region{Left: 10, Top: 20, Width: 30, Height: 40}, cfg.Region(PackFrame))
	// regions not mentioned keep their defaults
	assert.Equal(t, Default().Region(XButton), cfg.Region(XButton))
	assert.True(t, cfg.Chime.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Chime.Duration)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summoner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
confidence: 1.5
regions:
  XButton: {left: 1, top: 1, width: 0, height: 5}
discord:
  enabled: true
`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confidence")
	assert.Contains(t, err.Error(), "XButton")
	assert.Contains(t, err.Error(), "discord")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "summoner.yaml")
	cfg := Default()
	cfg.Packs = []string{"Shinobi Realm Pack"}

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestTemplateDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("conf", "images"), cfg.TemplateDir(filepath.Join("conf", "summoner.yaml")))

	abs, err := filepath.Abs("templates")
	require.NoError(t, err)
	cfg.Templates.Directory = abs
	assert.Equal(t, abs, cfg.TemplateDir("whatever.yaml"))
}

func TestResolveSecretPlain(t *testing.T) {
	s, err := ResolveSecret("plain-token")
	require.NoError(t, err)
	assert.Equal(t, "plain-token", s)

	if runtime.GOOS != "windows" {
		_, err = ResolveSecret("dpapi:AAAA")
		assert.Error(t, err)
	}
}

func TestInstallTemplates(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "bundle")
	dst := filepath.Join(root, "images")
	require.NoError(t, os.MkdirAll(src, os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(src, "NoStock.png"), []byte("png"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip me"), 0644))

	require.NoError(t, os.MkdirAll(dst, os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "Old.png"), []byte("old"), 0644))

	require.NoError(t, InstallTemplates(src, dst))

	assert.FileExists(t, filepath.Join(dst, "NoStock.png"))
	assert.NoFileExists(t, filepath.Join(dst, "notes.txt"))
	assert.NoFileExists(t, filepath.Join(dst, "Old.png"))
	assert.FileExists(t, filepath.Join(dst+".bkp", "Old.png"))

	missing := MissingTemplates(dst, map[string]string{"NoStock": "NoStock.png", "XButton": "XButton.png"})
	assert.Equal(t, []string{"XButton"}, missing)

	assert.Error(t, InstallTemplates(filepath.Join(root, "absent"), dst))
}
