// internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Company struct {
	Slug string `yaml:"slug" json:"slug"`
	Name string `yaml:"name" json:"name"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"` // 0 disables the HTTP surface
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Polling struct {
		Interval       time.Duration `yaml:"interval" json:"interval"`
		SourceDelay    time.Duration `yaml:"source_delay" json:"source_delay"`
		NotifyDelay    time.Duration `yaml:"notify_delay" json:"notify_delay"`
		RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
		RequestsPerSec float64       `yaml:"requests_per_sec" json:"requests_per_sec"`
	} `yaml:"polling" json:"polling"`

	// Interests are matched case-insensitively against title, organization
	// and description. An empty list matches nothing.
	Interests []string `yaml:"interests" json:"interests"`

	Seen struct {
		Backend    string `yaml:"backend" json:"backend"` // file | sqlite | redis
		File       string `yaml:"file" json:"file"`
		SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
		RedisAddr  string `yaml:"redis_addr" json:"redis_addr"`
		RedisKey   string `yaml:"redis_key" json:"redis_key"`
		Capacity   int    `yaml:"capacity" json:"capacity"`
	} `yaml:"seen" json:"seen"`

	Sources struct {
		AICTE struct {
			Enabled bool   `yaml:"enabled" json:"enabled"`
			URL     string `yaml:"url" json:"url"`
		} `yaml:"aicte" json:"aicte"`

		Internshala struct {
			Enabled  bool   `yaml:"enabled" json:"enabled"`
			BaseURL  string `yaml:"base_url" json:"base_url"`
			MaxTerms int    `yaml:"max_terms" json:"max_terms"`
		} `yaml:"internshala" json:"internshala"`

		Lever struct {
			Enabled   bool      `yaml:"enabled" json:"enabled"`
			Companies []Company `yaml:"companies" json:"companies"`
		} `yaml:"lever" json:"lever"`

		Greenhouse struct {
			Enabled   bool      `yaml:"enabled" json:"enabled"`
			Companies []Company `yaml:"companies" json:"companies"`
		} `yaml:"greenhouse" json:"greenhouse"`

		AlertMail struct {
			Enabled     bool     `yaml:"enabled" json:"enabled"`
			IMAPHost    string   `yaml:"imap_host" json:"imap_host"`
			IMAPPort    int      `yaml:"imap_port" json:"imap_port"`
			Username    string   `yaml:"username" json:"username"`
			AppPassword string   `yaml:"app_password" json:"-"`
			Mailbox     string   `yaml:"mailbox" json:"mailbox"`
			SubjectAny  []string `yaml:"subject_any" json:"subject_any"`
			MaxMessages int      `yaml:"max_messages" json:"max_messages"`
		} `yaml:"alertmail" json:"alertmail"`
	} `yaml:"sources" json:"sources"`

	Notify struct {
		Timezone string `yaml:"timezone" json:"timezone"`

		Telegram struct {
			Enabled  bool   `yaml:"enabled" json:"enabled"`
			BotToken string `yaml:"bot_token" json:"-"`
			ChatID   string `yaml:"chat_id" json:"chat_id"`
			APIBase  string `yaml:"api_base" json:"api_base"`
		} `yaml:"telegram" json:"telegram"`

		Kafka struct {
			Enabled bool   `yaml:"enabled" json:"enabled"`
			Broker  string `yaml:"broker" json:"broker"`
			Topic   string `yaml:"topic" json:"topic"`
		} `yaml:"kafka" json:"kafka"`

		Log struct {
			Enabled bool `yaml:"enabled" json:"enabled"`
		} `yaml:"log" json:"log"`
	} `yaml:"notify" json:"notify"`
}

// Default mirrors config/config.yml and is used when neither exists.
func Default() Config {
	var c Config
	c.App.DataDir = "."

	c.Polling.Interval = time.Hour
	c.Polling.SourceDelay = 3 * time.Second
	c.Polling.NotifyDelay = 2 * time.Second
	c.Polling.RequestTimeout = 30 * time.Second
	c.Polling.RequestsPerSec = 1

	c.Interests = []string{
		"data science", "machine learning", "artificial intelligence", "ai", "ml",
		"data analyst", "ai/ml",
	}

	c.Seen.Backend = "file"
	c.Seen.File = "seen_internships.json"
	c.Seen.SQLitePath = "internwatch.db"
	c.Seen.RedisKey = "internwatch:seen"
	c.Seen.Capacity = 2000

	c.Sources.AICTE.Enabled = true
	c.Sources.Internshala.Enabled = true
	c.Sources.Internshala.MaxTerms = 3
	c.Sources.AlertMail.IMAPPort = 993
	c.Sources.AlertMail.Mailbox = "INBOX"
	c.Sources.AlertMail.MaxMessages = 50

	c.Notify.Timezone = "Asia/Kolkata"
	c.Notify.Telegram.Enabled = true
	return c
}

// Load reads path on top of Default, so keys missing from the file keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
