package eurailnet

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port int `yaml:"port" validate:"omitempty,gt=0"`
}

type DataConfig struct {
	CSVPath      string `yaml:"csvPath" validate:"omitempty"`
	DBPath       string `yaml:"dbPath" validate:"omitempty"`
	SnapshotPath string `yaml:"snapshotPath" validate:"omitempty"`
}

type CacheConfig struct {
	Size       int `yaml:"size" validate:"gte=0"`
	TTLSeconds int `yaml:"ttlSeconds" validate:"gte=0"`
}

type AppConfig struct {
	Server ServerConfig `yaml:"server" validate:"required"`
	Data   DataConfig   `yaml:"data"`
	Cache  CacheConfig  `yaml:"cache"`
}

var Config AppConfig

func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return err
	}
	if err := v.Struct(cfg.Data); err != nil {
		return err
	}
	Config = cfg
	if Config.Server.Port == 0 {
		Config.Server.Port = 8316
	}
	if Config.Cache.Size == 0 {
		Config.Cache.Size = 512
	}
	if Config.Cache.TTLSeconds == 0 {
		Config.Cache.TTLSeconds = 300
	}
	return nil
}
