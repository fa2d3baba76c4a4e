package main

import (
	"log"
	"runtime"

	"depixel/internal/app"
	"depixel/internal/config"
	"depixel/internal/logger"
)

func main() {
	// Inference allocates large float buffers per run.
	runtime.SetGCPercent(200)

	cfg, cfgErr := config.Load()

	appLogger := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if cfgErr != nil {
		appLogger.Warning("Main", "config not loaded, using defaults", map[string]interface{}{
			"error": cfgErr.Error(),
		})
	}

	application, err := app.NewApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application execution failed: %v", err)
	}
}
