package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath   string `json:"selfpath"`
	Port       string `json:"port"`
	Blocksize  int    `json:"blocksize"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	TickMs     int    `json:"tick_ms"`
	OutputDir  string `json:"output_dir"`
	SpritesDir string `json:"sprites_dir"`
	DBPath     string `json:"db_path"` // 为空时不记录战绩
	LogLevel   string `json:"log_level"`
}

var (
	instance *AppConfig
	loadErr  error
	once     sync.Once
)

// Defaults returns the settings used when no config file exists. The board
// is the classic 3x3 with a 200ms tick.
func Defaults() *AppConfig {
	return &AppConfig{
		SelfPath:   "127.0.0.1:38870",
		Port:       "38870",
		Blocksize:  20,
		Rows:       3,
		Cols:       3,
		TickMs:     200,
		OutputDir:  "./output",
		SpritesDir: "./sprites",
		DBPath:     "game.db",
		LogLevel:   "info",
	}
}

// LoadConfig initializes the shared instance once and returns it. Later calls
// return the same instance and error regardless of filePath.
func LoadConfig(filePath string) (*AppConfig, error) {
	once.Do(func() {
		instance, loadErr = Load(filePath)
	})
	return instance, loadErr
}

// Load reads filePath, creating it with defaults if it does not exist, then
// applies SNAKE_* environment overrides and validates the result.
func Load(filePath string) (*AppConfig, error) {
	cfg := Defaults()
	// Load the config file if it exists, otherwise create one
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := saveConfig(filePath, cfg); err != nil {
			return nil, err
		}
	} else if err := loadConfig(filePath, cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads .env style files into the process environment. Missing
// files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

func applyEnv(cfg *AppConfig) error {
	strs := map[string]*string{
		"SNAKE_SELFPATH":    &cfg.SelfPath,
		"SNAKE_PORT":        &cfg.Port,
		"SNAKE_OUTPUT_DIR":  &cfg.OutputDir,
		"SNAKE_SPRITES_DIR": &cfg.SpritesDir,
		"SNAKE_DB_PATH":     &cfg.DBPath,
		"LOG_LEVEL":         &cfg.LogLevel,
	}
	for k, p := range strs {
		if v, ok := os.LookupEnv(k); ok {
			*p = v
		}
	}

	ints := map[string]*int{
		"SNAKE_BLOCKSIZE": &cfg.Blocksize,
		"SNAKE_ROWS":      &cfg.Rows,
		"SNAKE_COLS":      &cfg.Cols,
		"SNAKE_TICK_MS":   &cfg.TickMs,
	}
	for k, p := range ints {
		v, ok := os.LookupEnv(k)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		*p = n
	}
	return nil
}

// Validate checks the values the game cannot start without.
func (c *AppConfig) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("board must be at least 1x1, got %dx%d", c.Rows, c.Cols)
	}
	if c.TickMs < 1 {
		return fmt.Errorf("tick_ms must be at least 1, got %d", c.TickMs)
	}
	if c.Blocksize < 1 {
		return fmt.Errorf("blocksize must be at least 1, got %d", c.Blocksize)
	}
	return nil
}

// TickPeriod returns TickMs as a duration.
func (c *AppConfig) TickPeriod() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	if instance == nil {
		return ""
	}
	switch key {
	case "selfpath":
		return instance.SelfPath
	case "port":
		return instance.Port
	case "blocksize":
		return instance.Blocksize
	case "rows":
		return instance.Rows
	case "cols":
		return instance.Cols
	case "tick_ms":
		return instance.TickMs
	case "output_dir":
		return instance.OutputDir
	case "sprites_dir":
		return instance.SpritesDir
	case "db_path":
		return instance.DBPath
	case "log_level":
		return instance.LogLevel
	default:
		return ""
	}
}
