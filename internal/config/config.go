package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	Site       Site
	Database   Database
	Logger     Logger
	OpenAI     OpenAI
	Browser    Browser
	Migrations Migrations
	Suite      Suite
}

type Site struct {
	BaseURL string
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Enabled сообщает, настроен ли журнал прогонов.
func (d Database) Enabled() bool {
	return d.Host != ""
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// URL возвращает строку подключения в формате, который понимает golang-migrate.
func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env   string
	Level string
	File  string
}

type OpenAI struct {
	KeyAI     string
	Model     string
	MaxTokens int
	// Timeout ограничивает ожидание ответа при поиске оверлея.
	Timeout   time.Duration
}

type Browser struct {
	Engine          string
	Display         string
	Headless        bool
	SlowMo          time.Duration
	UserDataDir     string
	Timeout         time.Duration
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
}

// Suite настраивает прогон сценариев. Visual передается в раннер явно,
// сценарии не читают окружение сами.
type Suite struct {
	Workers         int
	Visual          bool
	UpdateBaseline  bool
	ScreenshotsDir  string
	ScenarioTimeout time.Duration
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Site: Site{
			BaseURL: strings.TrimRight(env("SITE_BASE_URL", "https://www.ifs.com"), "/"),
		},
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		OpenAI: OpenAI{
			KeyAI:     os.Getenv("OPENAI_API_KEY"),
			Model:     env("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: envInt("OPENAI_MAX_TOKENS", 1000),
			Timeout:   envDuration("OPENAI_TIMEOUT", 3*time.Second),
		},
		Browser: Browser{
			Engine:          env("PW_ENGINE", "chromium"),
			Display:         os.Getenv("DISPLAY"),
			Headless:        envBoolDefault("PW_HEADLESS", true),
			SlowMo:          envDuration("PW_SLOW_MO", 0),
			UserDataDir:     os.Getenv("PW_USER_DATA_DIR"),
			Timeout:         envDuration("PW_TIMEOUT", 30*time.Second),
			NavigateTimeout: envDuration("PW_NAVIGATE_TIMEOUT", 60*time.Second),
			ActionTimeout:   envDuration("PW_ACTION_TIMEOUT", 10*time.Second),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
		Suite: Suite{
			Workers:         envInt("SUITE_WORKERS", 2),
			Visual:          envBool("ENABLE_VISUAL_TESTS"),
			UpdateBaseline:  envBool("UPDATE_BASELINE"),
			ScreenshotsDir:  env("SCREENSHOTS_DIR", "screenshots"),
			ScenarioTimeout: envDuration("SCENARIO_TIMEOUT", 90*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SITE_BASE_URL должен быть абсолютным URL, получено %q", c.Site.BaseURL)
	}

	switch c.Browser.Engine {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("неизвестный движок браузера %q", c.Browser.Engine)
	}

	if c.Suite.Workers < 1 {
		return fmt.Errorf("SUITE_WORKERS должен быть >= 1, получено %d", c.Suite.Workers)
	}

	if c.Database.Enabled() && c.Database.Name == "" {
		return fmt.Errorf("DB_NAME обязателен, если задан DB_HOST")
	}

	return nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func envBoolDefault(key string, defaultValue bool) bool {
	if os.Getenv(key) == "" {
		return defaultValue
	}
	return envBool(key)
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
