// Package config 載入服務配置：
// config.yaml 為基底，.env 與環境變數可以覆蓋資料庫連線參數
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/nominatim"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// Store 儲存層種類
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Config struct {
	Server   ServerConfig     `yaml:"server"`
	Store    string           `yaml:"store"`    // "mysql" 或 "memory"
	WALPath  string           `yaml:"wal_path"` // memory store 的日誌位置
	MySQL    mysql.Config     `yaml:"mysql"`
	Logger   logger.Config    `yaml:"logger"`
	Geocoder nominatim.Config `yaml:"geocoder"`
}

// Load 讀取 yaml 配置並套用環境變數覆蓋與預設值
func Load(path string) (Config, error) {
	// .env 不存在不是錯誤，本機開發才會用到
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

// applyEnvOverrides 環境變數覆蓋資料庫連線參數，名稱沿用原系統
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		cfg.MySQL.Host = v
	}
	if v := os.Getenv("MYSQL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MySQL.Port = port
		}
	}
	if v := os.Getenv("MYSQL_USER"); v != "" {
		cfg.MySQL.User = v
	}
	if v := os.Getenv("MYSQL_PWD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := os.Getenv("MYSQL_DB"); v != "" {
		cfg.MySQL.DBName = v
	}
}

// applyDefaults 補全 yaml 沒寫的欄位
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Store == "" {
		cfg.Store = StoreMySQL
	}
	if cfg.WALPath == "" {
		cfg.WALPath = "ledger.wal"
	}
	if cfg.MySQL.Port == 0 {
		cfg.MySQL.Port = 3306
	}
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
	if cfg.MySQL.ConnMaxLifetime == 0 {
		cfg.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
}
