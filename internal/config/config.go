package config

import (
	"fmt"
	"os"
	"time"

	"trivia-room-service/internal/answer"
	"trivia-room-service/internal/app"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// JoinURL is the player-facing page encoded in room QR codes.
		JoinURL string `yaml:"join_url"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"catalog"`
	Game struct {
		QuestionCount  int    `yaml:"question_count"`
		Intermission   string `yaml:"intermission"`
		AnswerWindow   string `yaml:"answer_window"`
		MaxTries       int    `yaml:"max_tries"`
		MinPoints      int    `yaml:"min_points"`
		MaxPoints      int    `yaml:"max_points"`
		RoomCodeLength int    `yaml:"room_code_length"`
	} `yaml:"game"`
	Answer struct {
		RightThreshold  float64 `yaml:"right_threshold"`
		AlmostThreshold float64 `yaml:"almost_threshold"`
	} `yaml:"answer"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if _, err := cfg.evaluator(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Settings turns the game and answer sections into service settings; unset fields keep their defaults
// and an inverted threshold pair falls back to the default evaluator.
func (c Config) Settings() app.Settings {
	s := app.DefaultSettings()
	if c.Game.QuestionCount > 0 {
		s.QuestionCount = c.Game.QuestionCount
	}
	s.Intermission = TTLDuration(c.Game.Intermission, s.Intermission)
	s.AnswerWindow = TTLDuration(c.Game.AnswerWindow, s.AnswerWindow)
	if c.Game.MaxTries > 0 {
		s.MaxTries = c.Game.MaxTries
	}
	if c.Game.RoomCodeLength > 0 {
		s.RoomCodeLength = c.Game.RoomCodeLength
	}
	if c.Game.MinPoints > 0 {
		s.Scoring.MinPoints = c.Game.MinPoints
	}
	if c.Game.MaxPoints > 0 {
		s.Scoring.MaxPoints = c.Game.MaxPoints
	}
	if s.Scoring.MaxPoints < s.Scoring.MinPoints {
		s.Scoring.MaxPoints = s.Scoring.MinPoints
	}
	if ev, err := c.evaluator(); err == nil {
		s.Evaluator = ev
	}
	return s
}

// evaluator resolves the answer thresholds; each unset one keeps its default.
func (c Config) evaluator() (answer.Evaluator, error) {
	ev := answer.Evaluator{
		RightThreshold:  orDefault(c.Answer.RightThreshold, answer.Default.RightThreshold),
		AlmostThreshold: orDefault(c.Answer.AlmostThreshold, answer.Default.AlmostThreshold),
	}
	if ev.RightThreshold > 1 || ev.AlmostThreshold >= ev.RightThreshold {
		return answer.Default, fmt.Errorf("answer thresholds: almost_threshold %.2f must be below right_threshold %.2f, both at most 1",
			ev.AlmostThreshold, ev.RightThreshold)
	}
	return ev, nil
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
