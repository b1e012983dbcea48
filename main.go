package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"DoshiiWithPos/internal/config"
	"DoshiiWithPos/internal/controller"
	"DoshiiWithPos/internal/handlers/httphandler"
	"DoshiiWithPos/internal/refpos"
	"DoshiiWithPos/internal/telegram"
	"DoshiiWithPos/internal/version"
	"DoshiiWithPos/pkg/logging"
)

func main() {
	logger := logging.GetLogger()
	logger.Info("Start Main")
	v := version.GetVersion()
	logger.Infof("Version %s", v.String())
	defer logger.Info("End Main")

	cfg := config.GetConfig()
	if cfg.LOG.Debug == 1 {
		logging.SetDebug()
	}

	posImpl, err := refpos.New(cfg.DBSQLITE.DB)
	if err != nil {
		logger.Fatalf("failed in refpos.New(), error: %v", err)
	}
	defer posImpl.Close()

	notifier := telegram.NewNotifier()

	doshii := controller.NewDoshiiController(posImpl, posImpl, posImpl, posImpl, posImpl, notifier)
	err = doshii.Initialize(cfg.DOSHII.BaseURL, cfg.DOSHII.SocketURL,
		cfg.DOSHII.Token, cfg.DOSHII.Vendor, cfg.DOSHII.LivenessTimeout)
	if err != nil {
		logger.Fatalf("failed in doshii.Initialize(), error: %v", err)
	}
	defer doshii.Close()

	handlers := &httphandler.Handlers{Controller: doshii}

	router := httprouter.New()
	router.GET("/", handlers.HandlerVersion)
	router.POST("/orderahead/decision", handlers.HandlerOrderAheadDecision)

	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", cfg.SERVICE.PORT), router))
}
