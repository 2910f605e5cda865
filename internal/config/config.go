package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/filipesarturi/summoner/internal/game"
	"gopkg.in/yaml.v3"
)

// Screen regions and templates the shop automation relies on.
const (
	PackFrame        = "PackFrame"
	PurchaseLocation = "PurchaseLocation"
	SummonScreen     = "SummonScreen"
	XButton          = "XButton"
	SummonButton     = "SummonButton"
	SellButton       = "SellButton"
	NoStock          = "NoStock"
)

var requiredRegions = []string{PackFrame, PurchaseLocation, SummonScreen, XButton, SummonButton, SellButton}

type DiscordCfg struct {
	Enabled    bool     `yaml:"enabled"`
	Token      string   `yaml:"token"`
	ChannelID  string   `yaml:"channelId"`
	Categories []string `yaml:"categories"`
}

type TelegramCfg struct {
	Enabled    bool     `yaml:"enabled"`
	Token      string   `yaml:"token"`
	ChatID     int64    `yaml:"chatId"`
	Categories []string `yaml:"categories"`
}

type Config struct {
	LogLevel         string `yaml:"logLevel"`
	LogSaveDirectory string `yaml:"logSaveDirectory"`
	Templates        struct {
		Directory string            `yaml:"directory"`
		Files     map[string]string `yaml:"files"`
	} `yaml:"templates"`
	Regions          map[string]game.Region `yaml:"regions"`
	DefaultCursor    game.Point             `yaml:"defaultCursor"`
	SellConfirmPoint game.Point             `yaml:"sellConfirmPoint"`
	Confidence       float64                `yaml:"confidence"`
	Keys             struct {
		OpenShop    string `yaml:"openShop"`
		ConfirmSell string `yaml:"confirmSell"`
	} `yaml:"keys"`
	Packs    []string    `yaml:"packs,omitempty"`
	Discord  DiscordCfg  `yaml:"discord"`
	Telegram TelegramCfg `yaml:"telegram"`
	HTTP     struct {
		Enabled    bool   `yaml:"enabled"`
		ListenAddr string `yaml:"listenAddr"`
	} `yaml:"http"`
	Chime struct {
		Enabled     bool          `yaml:"enabled"`
		FrequencyHz float64       `yaml:"frequencyHz"`
		Duration    time.Duration `yaml:"duration"`
	} `yaml:"chime"`
}

// Default returns the layout of the reference 1920x1080 deployment.
func Default() *Config {
	cfg := &Config{
		LogLevel:         "info",
		LogSaveDirectory: "logs",
		Regions: map[string]game.Region{
			PackFrame:        {Left: 168, Top: 242, Width: 472, Height: 654},
			PurchaseLocation: {Left: 821, Top: 800, Width: 220, Height: 48},
			SummonScreen:     {Left: 692, Top: 218, Width: 380, Height: 79},
			XButton:          {Left: 1445, Top: 181, Width: 107, Height: 127},
			SummonButton:     {Left: 360, Top: 79, Width: 537, Height: 110},
			SellButton:       {Left: 972, Top: 78, Width: 537, Height: 110},
		},
		DefaultCursor:    game.Point{X: 799, Y: 824},
		SellConfirmPoint: game.Point{X: 1031, Y: 517},
		Confidence:       0.7,
	}

	cfg.Templates.Directory = "images"
	cfg.Templates.Files = map[string]string{
		SummonScreen:        "SummonScreen.png",
		NoStock:             "NoStock.png",
		XButton:             "XButton.png",
		SummonButton:        "SummonButton.png",
		SellButton:          "SellButton.png",
		"DragonRealmPack":   "DragonRealmPack.png",
		"SorcererRealmPack": "SorcererRealmPack.png",
		"PirateRealmPack":   "PirateRealmPack.png",
		"DemonRealmPack":    "DemonRealmPack.png",
		"HunterRealmPack":   "HunterRealmPack.png",
		"ShinobiRealmPack":  "ShinobiRealmPack.png",
	}
	cfg.Keys.OpenShop = "e"
	cfg.Keys.ConfirmSell = "e"
	cfg.Discord.Categories = []string{"success", "error", "system"}
	cfg.Telegram.Categories = []string{"success", "error", "system"}
	cfg.HTTP.ListenAddr = "127.0.0.1:8087"
	cfg.Chime.FrequencyHz = 880
	cfg.Chime.Duration = 400 * time.Millisecond

	return cfg
}

// Load overlays the yaml file at path on top of Default. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}

	if err = yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", path, err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration as yaml, creating the parent directory when needed.
func (c *Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	for _, name := range requiredRegions {
		r, found := c.Regions[name]
		if !found {
			errs = append(errs, fmt.Errorf("region %s is missing", name))
			continue
		}
		if r.Empty() {
			errs = append(errs, fmt.Errorf("region %s has no area", name))
		}
	}

	if c.Confidence <= 0 || c.Confidence > 1 {
		errs = append(errs, fmt.Errorf("confidence must be in (0, 1], got %v", c.Confidence))
	}
	if c.Keys.OpenShop == "" || c.Keys.ConfirmSell == "" {
		errs = append(errs, errors.New("openShop and confirmSell keys are required"))
	}
	if c.Discord.Enabled && (c.Discord.Token == "" || c.Discord.ChannelID == "") {
		errs = append(errs, errors.New("discord is enabled but token or channelId is empty"))
	}
	if c.Telegram.Enabled && (c.Telegram.Token == "" || c.Telegram.ChatID == 0) {
		errs = append(errs, errors.New("telegram is enabled but token or chatId is empty"))
	}

	return errors.Join(errs...)
}

func (c *Config) Region(name string) game.Region {
	return c.Regions[name]
}

// TemplateDir resolves the template directory relative to the config file location.
func (c *Config) TemplateDir(configPath string) string {
	if filepath.IsAbs(c.Templates.Directory) {
		return c.Templates.Directory
	}
	return filepath.Join(filepath.Dir(configPath), c.Templates.Directory)
}
