package main

import (
	"log"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/ytget/captube/internal/app"
	"github.com/ytget/captube/internal/config"
	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.captube"
	AppName = "CapTube"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	logger.Printf("%s v%s starting...", AppName, version)

	myApp := fyneapp.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	newService := func(opts config.Options) (download.Executor, error) {
		svc, err := app.NewService(opts, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	ui.NewRootUI(myWindow, myApp, newService, logger)

	myWindow.ShowAndRun()
}
