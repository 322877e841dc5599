package main

import (
	"os"

	"github.com/DRSN-tech/vending-machine/internal/app"
	config "github.com/DRSN-tech/vending-machine/internal/cfg"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
)

//	@title			Vending Machine API
//	@version		1.0
//	@description	Торговый автомат: выбор товара, приём монет и выдача сдачи
//	@BasePath		/api/v1
func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
