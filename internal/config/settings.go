// internal/config/settings.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings are the runtime knobs read from the environment (and an optional .env file).
type Settings struct {
	LogLevel   string
	LogFormat  string
	Addr       string
	TickRate   int
	Map        string
	TowerDefs  string // путь к JSON; пусто = встроенная библиотека
	MobDefs    string
	SaveDir    string
	Seed       int64
	StartGold  int
	StartLives int
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		LogLevel:   "info",
		LogFormat:  "text",
		Addr:       DefaultAddr,
		TickRate:   TickRate,
		Map:        DefaultMap,
		SaveDir:    "saves",
		StartGold:  DefaultStartGold,
		StartLives: DefaultStartLives,
	}
}

// Load reads .env if present and overlays environment variables on Defaults.
func Load() (Settings, error) {
	// .env необязателен
	_ = godotenv.Load()

	s := Defaults()
	s.LogLevel = envString("LOG_LEVEL", s.LogLevel)
	s.LogFormat = envString("LOG_FORMAT", s.LogFormat)
	s.Addr = envString("TD_ADDR", s.Addr)
	s.Map = envString("TD_MAP", s.Map)
	s.TowerDefs = envString("TD_TOWER_DEFS", s.TowerDefs)
	s.MobDefs = envString("TD_MOB_DEFS", s.MobDefs)
	s.SaveDir = envString("TD_SAVE_DIR", s.SaveDir)

	var err error
	if s.TickRate, err = envInt("TD_TICK_RATE", s.TickRate); err != nil {
		return s, err
	}
	if s.StartGold, err = envInt("TD_START_GOLD", s.StartGold); err != nil {
		return s, err
	}
	if s.StartLives, err = envInt("TD_START_LIVES", s.StartLives); err != nil {
		return s, err
	}
	if v, ok := os.LookupEnv("TD_SEED"); ok && v != "" {
		seed, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return s, fmt.Errorf("invalid TD_SEED %q: %w", v, perr)
		}
		s.Seed = seed
	}
	if s.TickRate <= 0 {
		return s, fmt.Errorf("TD_TICK_RATE must be positive, got %d", s.TickRate)
	}
	return s, nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
