package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	HTTP     HTTPConfig   `yaml:"http"`
	DB       DBConfig     `yaml:"db"`
	Kafka    KafkaConfig  `yaml:"kafka"`
	Services Services     `yaml:"services"`
	Worker   WorkerConfig `yaml:"worker"`
}

type HTTPConfig struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"` //nolint:gosec // config struct, not hardcoded cred
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

type Services struct {
	StudentService ServiceConfig `yaml:"student_service"`
	FileService    ServiceConfig `yaml:"file_service"`
}

type ServiceConfig struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

type WorkerConfig struct {
	ReminderInterval time.Duration `yaml:"reminder_interval"`
	DueSoonWindow    time.Duration `yaml:"due_soon_window"`
}

func Load() (*Config, error) {
	configPath := getConfigPath()
	data, err := os.ReadFile(configPath) //nolint:gosec // config path from env/flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	possiblePaths := []string{
		"config/config.yaml",
		"/etc/internship-service/config.yaml",
		"./config.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "config.yaml"
}

func setDefaults(cfg *Config) {
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}

	if cfg.Services.StudentService.Timeout == 0 {
		cfg.Services.StudentService.Timeout = 10 * time.Second
	}

	if cfg.Services.FileService.Timeout == 0 {
		cfg.Services.FileService.Timeout = 10 * time.Second
	}

	if cfg.Worker.ReminderInterval == 0 {
		cfg.Worker.ReminderInterval = time.Minute
	}

	if cfg.Worker.DueSoonWindow == 0 {
		cfg.Worker.DueSoonWindow = 24 * time.Hour
	}
}

func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("HTTP_ADDRESS"); val != "" {
		cfg.HTTP.Address = val
	}
	if val := os.Getenv("HTTP_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil {
			cfg.HTTP.Timeout = time.Duration(timeout) * time.Second
		}
	}

	if val := os.Getenv("DB_HOST"); val != "" {
		cfg.DB.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.DB.Port = port
		}
	}
	if val := os.Getenv("DB_USER"); val != "" {
		cfg.DB.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		cfg.DB.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		cfg.DB.DBName = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		cfg.DB.SSLMode = val
	}

	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		cfg.Kafka.Brokers = strings.Split(val, ",")
	}

	if val := os.Getenv("STUDENT_SERVICE_ADDRESS"); val != "" {
		cfg.Services.StudentService.Address = val
	}
	if val := os.Getenv("STUDENT_SERVICE_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil {
			cfg.Services.StudentService.Timeout = time.Duration(timeout) * time.Second
		}
	}
	if val := os.Getenv("FILE_SERVICE_ADDRESS"); val != "" {
		cfg.Services.FileService.Address = val
	}
	if val := os.Getenv("FILE_SERVICE_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil {
			cfg.Services.FileService.Timeout = time.Duration(timeout) * time.Second
		}
	}

	if val := os.Getenv("WORKER_REMINDER_INTERVAL"); val != "" {
		if interval, err := strconv.Atoi(val); err == nil {
			cfg.Worker.ReminderInterval = time.Duration(interval) * time.Second
		}
	}
	if val := os.Getenv("WORKER_DUE_SOON_WINDOW"); val != "" {
		if window, err := strconv.Atoi(val); err == nil {
			cfg.Worker.DueSoonWindow = time.Duration(window) * time.Second
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.HTTP.Address == "" {
		return fmt.Errorf("HTTP address must be set")
	}

	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("at least one Kafka broker must be specified")
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.DBName == "" {
		return fmt.Errorf("database configuration is incomplete")
	}

	if cfg.Services.StudentService.Address == "" {
		return fmt.Errorf("student service address must be specified")
	}

	if cfg.Services.FileService.Address == "" {
		return fmt.Errorf("file service address must be specified")
	}

	return nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}
