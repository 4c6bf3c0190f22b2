// Lofty Launcher
// This is the main entry point for the Wails application.
package main

import (
	"embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	"lofty-launcher/internal/app"
	"lofty-launcher/internal/build"
	"lofty-launcher/internal/config"
	"lofty-launcher/internal/library"
	"lofty-launcher/internal/lofty"
	"lofty-launcher/internal/logging"
)

//go:embed frontend/dist
var assets embed.FS

func main() {
	resolve := flag.String("resolve-classpath", "", "print the deduplicated classpath of a JSON list of jar paths and exit")
	librariesRoot := flag.String("libraries-root", "", "libraries root used with -resolve-classpath")
	flag.Parse()

	if *resolve != "" {
		if err := resolveClasspath(*resolve, *librariesRoot); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	if cfg.DataDir != "" {
		lofty.SetStorageDir(cfg.DataDir)
	}
	layout := lofty.Default()

	if err := logging.Init(layout.Logs(), build.DebugLogging() || cfg.Debug); err != nil {
		slog.Warn("unable to open log file", "error", err)
	}
	defer logging.Close()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Release:     build.VersionString(),
			Environment: build.Release,
		}); err != nil {
			slog.Warn("unable to initialize sentry", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	slog.Info("starting Lofty Launcher",
		"version", build.VersionString(),
		"release", build.Release,
		"platform", build.OS(),
		"arch", build.Arch(),
		"storage", layout.Root,
	)

	application := app.New(*cfg, layout)

	err = wails.Run(&options.App{
		Title:     "Lofty Launcher",
		Width:     1280,
		Height:    800,
		MinWidth:  980,
		MinHeight: 552,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        application.Startup,
		OnDomReady:       application.DomReady,
		OnShutdown:       application.Shutdown,
		Bind: []interface{}{
			application,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				FullSizeContent:            true,
				HideToolbarSeparator:       true,
			},
		},
		Linux: &linux.Options{
			ProgramName: "Lofty Launcher",
		},
	})

	if err != nil {
		sentry.CaptureException(err)
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// resolveClasspath prints the deduplicated classpath of the JSON path list
// stored in file.
func resolveClasspath(file, librariesRoot string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	paths, err := library.DecodeList(f)
	if err != nil {
		return err
	}
	cp, err := library.Deduplicate(paths, library.Options{LibrariesRoot: librariesRoot})
	if err != nil {
		return err
	}
	fmt.Println(cp.Join(build.OS()))
	return nil
}
