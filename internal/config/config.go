package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"gopkg.in/gcfg.v1"
)

type (
	Config struct {
		DOSHII struct {
			BaseURL         string
			SocketURL       string
			Token           string
			Vendor          string
			LivenessTimeout int
		}
		SERVICE struct {
			PORT int
		}
		ALERT struct {
			BotToken string
			ChatID   int64
			Debug    int
		}
		LOG struct {
			Debug int
		}
		DBSQLITE struct {
			DB string
		}
	}
)

var cfg Config
var once sync.Once

func GetConfig() *Config {
	once.Do(func() {
		err := os.MkdirAll("logs", 0770)
		if err != nil {
			fmt.Println(err)
		}

		file, err := os.OpenFile("logs/config.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			fmt.Println(err)
		}

		multiWriter := io.MultiWriter(file, os.Stdout)

		logger := log.New(multiWriter, "MAIN ", log.Ldate|log.Ltime|log.Lshortfile)

		logger.Print("Config:>Read application configurations")

		err = gcfg.ReadFileInto(&cfg, "./config/config.ini")
		if err != nil {
			logger.Fatalf("Config:>Failed to parse gcfg data: %s", err)
		} else {
			logger.Print("Config:>Config is read")
		}

		if cfg.DOSHII.LivenessTimeout == 0 {
			cfg.DOSHII.LivenessTimeout = 30
		}
	})

	return &cfg
}
