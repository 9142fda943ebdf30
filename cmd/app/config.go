package main

import (
	"fmt"
	"strings"

	"dopamind/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config      `yaml:"database"`
	Redis    repository.RedisConfig `yaml:"redis"`
	Server   ServerConfig           `yaml:"server"`

	Auth AuthConfig `yaml:"auth"`
	Boss BossConfig `yaml:"boss"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	DebugMode bool   `yaml:"debugMode"`
}

// BossConfig seeds the raid that the weekly rotation job spawns when no
// raid is active.
type BossConfig struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	TotalHP       int    `yaml:"totalHp"`
	RewardXP      int    `yaml:"rewardXp"`
	RewardCredits int    `yaml:"rewardCredits"`
	RewardTickets int    `yaml:"rewardTickets"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Boss.TotalHP <= 0 {
		cfg.Boss = defaultBossConfig()
	}

	return &cfg, nil
}

func defaultBossConfig() BossConfig {
	return BossConfig{
		Name:          "The Procrastination Hydra",
		Description:   "Every skipped task grows another head. Burn them all down before Sunday.",
		TotalHP:       50000,
		RewardXP:      500,
		RewardCredits: 150,
		RewardTickets: 2,
	}
}
