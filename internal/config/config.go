package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type AffiliateConfig struct {
	Env            string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	AffiliateDB    `yaml:"affiliate_db"`
	LogConfig      `yaml:"log_config"`
	KafkaService   `yaml:"kafka-service"`
	RedisService   `yaml:"redis-service"`
	ConfigService  `yaml:"config-service"`
	Engine         `yaml:"engine"`
	MigrationsPath string `yaml:"migrations_path"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type AffiliateDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type RedisService struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ConfigService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	// CacheTTLSeconds bounds how stale a cached table snapshot may be.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
}

type Engine struct {
	MaxHierarchyLevels int    `yaml:"max_hierarchy_levels" env-default:"5"`
	SettlementCron     string `yaml:"settlement_cron" env-default:"0 3 * * 1"`
	InactivityCron     string `yaml:"inactivity_cron" env-default:"30 4 * * *"`
	ConfigRefreshSecs  int    `yaml:"config_refresh_seconds" env-default:"300"`
}

func MustLoad() *AffiliateConfig {

	// Processing env config variable and file
	configPath := os.Getenv("AFFILIATE_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("AFFILIATE_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg AffiliateConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
