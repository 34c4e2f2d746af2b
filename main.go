package main

import (
	"embed"
	"os"

	"smashlog/internal/config"
	"smashlog/internal/logger"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	// Create an instance of the app structure
	app := NewApp(cfg, log)

	// Create application with options
	err = wails.Run(&options.App{
		Title:         "SmashLog",
		Width:         1280,
		Height:        800,
		StartHidden:   false,
		Fullscreen:    true,
		DisableResize: false,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 20, G: 20, B: 20, A: 255},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
		Windows: &windows.Options{
			DisableWindowIcon: true,
		},
	})

	if err != nil {
		log.Fatal().Err(err).Msg("Application exited with error")
	}
}
