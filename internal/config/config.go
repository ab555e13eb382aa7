package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"price_wheel/internal/game"
	"price_wheel/internal/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppPort       string
	JWTSecret     string
	AllowedOrigin string
	TokenTTL      time.Duration

	// Redis backs the rate limiters; empty addr falls back to in-process limiting
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit     int
	APIRateWindow    time.Duration
	GameRateLimit    int
	GameRateWindow   time.Duration
	TableIdleTimeout time.Duration

	LogLevel string
	LogJSON  bool
	LogFile  string

	WheelConfigFile string
	Wheel           game.Tuning
}

// Load reads .env and the environment. Any error is fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds the config from the current environment only.
func FromEnv() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	var errs []error
	num := func(key string, def int) int {
		n, err := intEnv(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	cfg := &Config{
		AppPort:          port,
		JWTSecret:        jwtSecret,
		AllowedOrigin:    os.Getenv("ALLOWED_ORIGIN"),
		TokenTTL:         time.Duration(num("TOKEN_TTL_HOURS", 24)) * time.Hour,
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          num("REDIS_DB", 0),
		APIRateLimit:     num("API_RATE_LIMIT", 10),
		APIRateWindow:    time.Duration(num("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		GameRateLimit:    num("GAME_RATE_LIMIT", 60),
		GameRateWindow:   time.Duration(num("GAME_RATE_WINDOW", 60)) * time.Second,
		TableIdleTimeout: time.Duration(num("TABLE_IDLE_MINUTES", 60)) * time.Minute,
		LogLevel:         os.Getenv("LOG_LEVEL"),
		LogJSON:          os.Getenv("LOG_JSON") == "true",
		LogFile:          os.Getenv("LOG_FILE"),
		WheelConfigFile:  os.Getenv("WHEEL_CONFIG_FILE"),
		Wheel:            game.DefaultTuning(),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if cfg.WheelConfigFile != "" {
		if err := loadWheelFile(cfg.WheelConfigFile, &cfg.Wheel); err != nil {
			return nil, err
		}
	}
	if err := wheelFromEnv(&cfg.Wheel); err != nil {
		return nil, err
	}
	if err := cfg.Wheel.Validate(); err != nil {
		return nil, fmt.Errorf("wheel tuning: %w", err)
	}
	return cfg, nil
}

// loadWheelFile overlays the YAML file onto t. Keys missing from the file keep
// their current value.
func loadWheelFile(path string, t *game.Tuning) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read wheel config: %w", err)
	}
	var file struct {
		Wheel game.Tuning `yaml:"wheel"`
	}
	file.Wheel = *t
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse wheel config %s: %w", path, err)
	}
	*t = file.Wheel
	return nil
}

func wheelFromEnv(t *game.Tuning) error {
	if v := os.Getenv("MIN_PUSH_PIXELS_Y"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MIN_PUSH_PIXELS_Y: %w", err)
		}
		t.MinPushPixelsY = f
	}
	if v := os.Getenv("SPIN_MULTIPLIER"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SPIN_MULTIPLIER: %w", err)
		}
		t.SpinMultiplier = f
	}
	if v := os.Getenv("WHEEL_DAMPENING"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("WHEEL_DAMPENING: %w", err)
		}
		t.Dampening = f
	}
	if v := os.Getenv("WHEEL_STOP_STEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WHEEL_STOP_STEP: %w", err)
		}
		t.StopStep = n
	}
	if v := os.Getenv("TARGET_SCORE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TARGET_SCORE: %w", err)
		}
		t.TargetScore = n
	}

	// faces are comma separated, clockwise from segment 0
	if v := os.Getenv("WHEEL_FACES"); v != "" {
		var faces []int
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("WHEEL_FACES: %q: %w", s, err)
			}
			faces = append(faces, n)
		}
		t.Faces = faces
	}
	return nil
}

// intEnv returns the non-negative integer in key, or def when unset.
func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be >= 0, got %d", key, n)
	}
	return n, nil
}
