package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

const appName = "goban-local"

var (
	cfgFile = appName + "/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board"`
	BoardColorAlt     int `json:"board_alt"`
	BlackColor        int `json:"black"`
	BlackColorAlt     int `json:"black_alt"`
	WhiteColor        int `json:"white"`
	WhiteColorAlt     int `json:"white_alt"`
	LineColor         int `json:"line"`
	CursorColorFG     int `json:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
	MoveNumberColor   int `json:"move_number"`
}

type ConfigSymbols struct {
	BlackStone  rune `json:"black"`
	WhiteStone  rune `json:"white"`
	BoardSquare rune `json:"board"`
	Cursor      rune `json:"cursor"`
	LastPlayed  rune `json:"last_played"`
}

type Theme struct {
	DrawStoneBackground      bool          `json:"draw_stone_bg"`
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	FullWidthLetters         bool          `json:"fullwidth_letters"`
	UseGridLines             bool          `json:"use_grid_lines"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// GameConfig holds the defaults for new games.
type GameConfig struct {
	DefaultBoardSize int     `json:"default_board_size" env:"GOBAN_BOARD_SIZE"`
	DefaultKomi      float64 `json:"default_komi" env:"GOBAN_KOMI"`
	ShowMoveNumbers  bool    `json:"show_move_numbers" env:"GOBAN_MOVE_NUMBERS"`
	RecordSGF        bool    `json:"record_sgf" env:"GOBAN_RECORD_SGF"`
}

// LogConfig controls the JSON log file.
type LogConfig struct {
	Level string `json:"level" env:"GOBAN_LOG_LEVEL"`
	File  string `json:"file" env:"GOBAN_LOG_FILE"` // empty means the XDG state dir
}

// StoreConfig selects where saved games live.
type StoreConfig struct {
	Backend       string `json:"backend" env:"GOBAN_STORE_BACKEND"` // file or redis
	Dir           string `json:"dir" env:"GOBAN_STORE_DIR"`         // empty means the XDG data dir
	RedisAddr     string `json:"redis_addr" env:"GOBAN_REDIS_ADDR"`
	RedisPassword string `json:"redis_password" env:"GOBAN_REDIS_PASSWORD"`
	RedisDB       int    `json:"redis_db" env:"GOBAN_REDIS_DB"`
}

type Config struct {
	Theme Theme       `json:"theme"`
	Game  GameConfig  `json:"game"`
	Log   LogConfig   `json:"log"`
	Store StoreConfig `json:"store"`
}

// InitConfig loads the config file from the XDG config dirs if there is one,
// then applies GOBAN_* environment overrides.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		absPath = ""
	}
	return Load(absPath)
}

// Load reads the config at path over the defaults. An empty path reads only
// the environment.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	if path != "" {
		if err := cleanenv.ReadConfig(path, &config); err != nil {
			return nil, fmt.Errorf("unable to load config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("unable to read config from environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.BlackStone, c.Theme.Symbols.WhiteStone, c.Theme.Symbols.BoardSquare} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	switch c.Game.DefaultBoardSize {
	case 9, 13, 19:
	default:
		return &InvalidConfig{fmt.Sprintf("default board size must be 9, 13 or 19, got %d", c.Game.DefaultBoardSize)}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log level %q", c.Log.Level)}
	}
	switch c.Store.Backend {
	case "file":
	case "redis":
		if c.Store.RedisAddr == "" {
			return &InvalidConfig{"redis store needs an address"}
		}
	default:
		return &InvalidConfig{fmt.Sprintf("unknown store backend %q", c.Store.Backend)}
	}
	return nil
}

// Save writes the config to the user's XDG config dir.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

// LogFile returns the path of the log file, creating its directory.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, os.MkdirAll(filepath.Dir(c.Log.File), 0755)
	}
	return xdg.StateFile(appName + "/goban.log")
}

// GamesDir returns the directory of the file store.
func (c *Config) GamesDir() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return filepath.Join(xdg.DataHome, appName, "games")
}

// SGFDir returns the directory SGF copies are written to.
func (c *Config) SGFDir() string {
	return filepath.Join(filepath.Dir(c.GamesDir()), "sgf")
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, jsonData, perm); err != nil {
		return fmt.Errorf("unable to save config: %w", err)
	}
	return nil
}
