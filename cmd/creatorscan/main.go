package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/creatorscan"
	"github.com/fwojciec/creatorscan/config"
	"github.com/fwojciec/creatorscan/feishu"
	"github.com/fwojciec/creatorscan/rod"
	csslog "github.com/fwojciec/creatorscan/slog"
	"github.com/fwojciec/creatorscan/sqlite"
)

// renderDelay gives the profile page time to render its first batch of posts.
const renderDelay = 2 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	_ = m.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Empty means ~/.creatorscan/config.yaml.
	ConfigPath string

	// SQLite database used by the history service.
	DB *sqlite.DB

	// Services for end-to-end testing. Nil fields are built from config.
	Scanner   creatorscan.Scanner
	Runs      creatorscan.RunService
	Table     TableService
	TableSink creatorscan.Sink

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases the browser and database.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("creatorscan"),
		kong.Description("Discover popular posts on a creator profile feed"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'creatorscan --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfgPath := cli.Config
	if cfgPath == "" {
		cfgPath = m.ConfigPath
	}
	if cfgPath == "" {
		if cfgPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}
	deps.Config = cfg
	deps.ConfigPath = cfgPath

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cmd == "history" || (cmd == "scan" && cli.Scan.History) {
		if err := m.openRuns(cfg, stderr); err != nil {
			return err
		}
		deps.Runs = m.Runs
	}

	if cmd == "check" || (cmd == "scan" && cli.Scan.Feishu) {
		if err := m.openTable(cfg, deps.Logger); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", creatorscan.ErrorMessage(err))
			return err
		}
		deps.Table = m.Table
		deps.TableSink = m.TableSink
	}

	if cmd == "scan" {
		if err := m.openScanner(cfg, deps.Logger, stderr); err != nil {
			return err
		}
		deps.Scanner = csslog.NewLoggingScanner(m.Scanner, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func (m *Main) openRuns(cfg *config.Config, stderr io.Writer) error {
	if m.Runs != nil {
		return nil
	}
	m.DB = sqlite.NewDB(cfg.Storage.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", config.EnvDB)
		return fmt.Errorf("failed to open database at %q: %w", cfg.Storage.DB, err)
	}
	m.closers = append(m.closers, m.DB.Close)
	m.Runs = sqlite.NewRunService(m.DB)
	return nil
}

// openTable builds the Feishu client. An unconfigured integration leaves
// both services nil so commands can explain what to set.
func (m *Main) openTable(cfg *config.Config, logger *slog.Logger) error {
	if m.Table != nil || m.TableSink != nil || !cfg.Feishu.Configured() {
		return nil
	}
	client, err := feishu.NewClient(cfg.Feishu, feishu.WithLogger(logger))
	if err != nil {
		return err
	}
	m.Table = client
	m.TableSink = feishu.NewTableSink(client)
	return nil
}

func (m *Main) openScanner(cfg *config.Config, logger *slog.Logger, stderr io.Writer) error {
	if m.Scanner != nil {
		return nil
	}

	opts := []rod.ManagerOption{
		rod.WithHeadless(cfg.IsHeadless()),
		rod.WithRenderDelay(renderDelay),
	}
	if cfg.Browser.Proxy != "" {
		opts = append(opts, rod.WithProxy(cfg.Browser.Proxy))
	}
	if cfg.Browser.UserDataDir != "" {
		opts = append(opts, rod.WithUserDataDir(cfg.Browser.UserDataDir))
	}

	browser, err := rod.NewBrowserManager(opts...)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	m.closers = append(m.closers, browser.Close)

	m.Scanner = &BrowserScanner{
		Open: func(ctx context.Context, profileURL string) (Session, error) {
			s, err := browser.Open(ctx, profileURL)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		AllowedHosts: cfg.Scan.AllowedHosts,
		MaxAttempts:  cfg.Browser.MaxAttempts,
		Logger:       logger,
	}
	return nil
}
