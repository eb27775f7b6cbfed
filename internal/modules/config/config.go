package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"trade_console/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	serviceBaseENV    = "SERVICE_BASE_URL"
	serviceWSENV      = "SERVICE_WS_URL"
)

// Config ...
type Config struct {
	Service struct {
		BaseURL string `yaml:"base_url"`
		WSURL   string `yaml:"ws_url"`
	} `yaml:"service"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	BaseCurrency string `yaml:"base_currency"`

	// Хвост живого лога стратегии, сколько строк держим на экране
	LogTail int `yaml:"log_tail"`

	// Пары, которые показывает консоль. Аналог таблицы, которую сервер
	// рендерил в страницу при загрузке: список живёт сессию и может
	// устаревать до перезапуска так же, как устаревала страница.
	Pairs []models.PairIdentity `yaml:"pairs"`

	// Интервалы опроса — только из env, с дефолтами контракта
	FullRefreshEvery   time.Duration
	StatusPollEvery    time.Duration
	NotificationsEvery time.Duration
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		BaseCurrency: "USDC",
		LogTail:      intFromEnv("LOG_TAIL", 200),

		FullRefreshEvery:   durationFromEnv("FULL_REFRESH_INTERVAL", "30s"),
		StatusPollEvery:    durationFromEnv("STATUS_POLL_INTERVAL", "5s"),
		NotificationsEvery: durationFromEnv("NOTIFICATIONS_POLL_INTERVAL", "10s"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if base := os.Getenv(serviceBaseENV); base != "" {
		config.Service.BaseURL = base
	}
	if ws := os.Getenv(serviceWSENV); ws != "" {
		config.Service.WSURL = ws
	}

	return &config, nil
}

// PairByID ...
func (c *Config) PairByID(id int) (models.PairIdentity, bool) {
	for _, p := range c.Pairs {
		if p.ID == id {
			return p, true
		}
	}
	return models.PairIdentity{}, false
}

// PairBySymbol — символ не глобально уникален, но в пределах одной
// конфигурации консоли берём первое совпадение (так же разрешала
// неоднозначность и страница).
func (c *Config) PairBySymbol(symbol string) (models.PairIdentity, bool) {
	for _, p := range c.Pairs {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return models.PairIdentity{}, false
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
