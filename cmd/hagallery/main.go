package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hagallery/internal/adapter"
	"github.com/mmcdole/hagallery/internal/adapter/source"
	"github.com/mmcdole/hagallery/internal/adapter/source/homeassistant"
	"github.com/mmcdole/hagallery/internal/gallery"
	"github.com/mmcdole/hagallery/internal/service"
	"github.com/mmcdole/hagallery/internal/store"
	"github.com/mmcdole/hagallery/internal/tui"
	"github.com/mmcdole/hagallery/internal/web"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `Usage: hagallery [flags] [serve|tui|setup|logout]

Commands:
  serve    Serve the gallery page over HTTP (default)
  tui      Browse the gallery in the terminal
  setup    Connect to Home Assistant and save credentials
  logout   Forget credentials and download history

Flags:
`

// options holds command-line settings
type options struct {
	configFile string
	listen     string
	attrs      gallery.AttributeMap // Element-level card attributes
}

func main() {
	var (
		showVersion bool
		opts        options
		path        string
		limit       string
		refresh     string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configFile, "config", "", "config file (default ~/.config/hagallery/config.yaml)")
	flag.StringVar(&opts.listen, "listen", "", "HTTP listen address, overrides http.listen")
	flag.StringVar(&path, "path", "", "media-source directory, used when the card config has none")
	flag.StringVar(&limit, "limit", "", "maximum images, used when the card config has none")
	flag.StringVar(&refresh, "refresh", "", "refresh interval in seconds, used when the card config has none")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("hagallery %s\n", Version)
		return
	}

	opts.attrs = gallery.AttributeMap{"path": path, "limit": limit, "refresh": refresh}

	command := flag.Arg(0)
	if command == "" {
		command = "serve"
	}

	if err := run(command, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, opts options) error {
	loader := adapter.NewLoader(opts.configFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.listen != "" {
		cfg.HTTP.Listen = opts.listen
	}

	// The terminal UI owns stdout, so it always logs to a file
	var logOut io.Writer
	if command != "tui" {
		logOut = os.Stderr
	}
	logger, err := adapter.SetupLogger(&cfg.Logging, logOut)
	if err != nil {
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting hagallery", "version", Version, "command", command, "config", loader.ConfigFileUsed())

	switch command {
	case "setup":
		return runSetupFlow(loader, cfg, logger)
	case "logout":
		if err := service.NewSessionService(loader).Logout(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Logged out.")
		return nil
	case "serve", "tui":
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	if !cfg.IsConfigured() {
		return runSetupFlow(loader, cfg, logger)
	}

	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create Home Assistant client: %w", err)
	}

	history, err := store.NewDownloadStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		logger.Warn("download history unavailable, keeping it in memory", "error", err)
		if history, err = store.NewDownloadStore("", ""); err != nil {
			return fmt.Errorf("failed to open download history: %w", err)
		}
	}
	defer history.Close()

	downloads := service.NewDownloadService(history, logger)

	card := service.NewCard(homeassistant.NewBrowser(logger), logger, service.WithLocation(cfg.Location()))
	card.SetConfig(cfg.Card, opts.attrs)
	defer card.Dispose()

	// A changed config file re-assigns the runtime, which re-renders the card
	loader.Watch(func(next *adapter.Config, err error) {
		if err != nil {
			logger.Error("config reload failed", "error", err)
			return
		}
		rt, err := source.NewClientFromConfig(next, logger)
		if err != nil {
			logger.Error("config reload produced an unusable server config", "error", err)
			return
		}
		// The startup runtime must land first or it would replace this one
		<-card.Activated()

		logger.Info("config changed, reassigning runtime", "file", loader.ConfigFileUsed())
		card.SetConfig(next.Card, opts.attrs)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := card.SetRuntime(ctx, rt); err != nil {
			logger.Warn("runtime reassignment skipped", "error", err)
		}
	})

	if command == "tui" {
		return runTUI(card, downloads, client, cfg, logger)
	}
	return runServer(card, downloads, client, cfg, logger)
}

// runServer serves the gallery until SIGINT or SIGTERM
func runServer(card *service.Card, downloads *service.DownloadService, client *homeassistant.Client, cfg *adapter.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           web.NewServer(card, downloads, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		attachCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := card.SetRuntime(attachCtx, client); err != nil {
			logger.Warn("initial render skipped", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.HTTP.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	card.Dispose()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		_ = srv.Close()
	}
	return nil
}

// runTUI runs the terminal gallery until the user quits
func runTUI(card *service.Card, downloads *service.DownloadService, client *homeassistant.Client, cfg *adapter.Config, logger *slog.Logger) error {
	launcher := adapter.NewLauncher(cfg.Viewer.Command, cfg.Viewer.Args, logger)
	model := tui.NewModel(card, downloads, launcher, client, cfg.Downloads.Dir)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the server URL and an access token, then saves them
func runSetupFlow(loader *adapter.Loader, cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to hagallery!")
	fmt.Println()

	var serverURL string
	for {
		url, err := homeassistant.PromptForServerURL(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		if _, err := source.NewClient(&source.SourceConfig{URL: url, Token: "probe"}, logger); err != nil {
			fmt.Printf("✗ %v. Please try again.\n", err)
			continue
		}

		fmt.Println()
		if err := detectServerWithSpinner(url); err != nil {
			fmt.Printf("\n✗ %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		serverURL = url
		break
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	token, err := source.NewAuthFlow(logger).Run(ctx, serverURL)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := service.NewSessionService(loader).Login(cfg, serverURL, token); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run hagallery again to start the gallery.")

	return nil
}

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// detectServerWithSpinner probes the server with a visual spinner
func detectServerWithSpinner(serverURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- homeassistant.DetectServer(ctx, serverURL)
	}()

	frames := spinner.Dot.Frames
	frame := 0
	fmt.Printf("\r%s Looking for Home Assistant...", frames[frame])

	ticker := time.NewTicker(spinner.Dot.FPS)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ Found Home Assistant")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Looking for Home Assistant...", frames[frame%len(frames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("detection timed out")
		}
	}
}
