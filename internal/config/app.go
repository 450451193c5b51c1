package config

import (
	"log"
	"os"
	"strconv"
	"sync"
)

type AppConfig struct {
	Name          string
	Env           string
	Port          string
	BaseURL       string
	MaxUploadSize int64
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		maxUpload := int64(20 * 1024 * 1024)
		if v := os.Getenv("APP_MAX_UPLOAD_BYTES"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				maxUpload = n
			}
		}
		appConfig = &AppConfig{
			Name:          os.Getenv("APP_NAME"),
			Env:           env,
			Port:          os.Getenv("APP_PORT"),
			BaseURL:       os.Getenv("APP_URL"),
			MaxUploadSize: maxUpload,
		}
	})
	return appConfig
}
