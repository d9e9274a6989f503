package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/creatorscan"
	"github.com/fwojciec/creatorscan/config"
)

// TableService is the remote table connection used by the check command.
type TableService interface {
	Check(ctx context.Context) error
	WriteProbe(ctx context.Context) error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *config.Config
	Now    func() time.Time

	// ConfigPath is the settings file the config command edits.
	ConfigPath string

	Scanner   creatorscan.Scanner
	Runs      creatorscan.RunService
	Table     TableService
	TableSink creatorscan.Sink
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `help:"Config file (default ~/.creatorscan/config.yaml)" type:"path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Scan    ScanCmd    `cmd:"" help:"Scan a creator profile for popular posts"`
	History HistoryCmd `cmd:"" help:"List stored scans or show one scan's posts"`
	Check   CheckCmd   `cmd:"" help:"Test the Feishu table connection"`
	Setup   ConfigCmd  `cmd:"" name:"config" help:"Show or update saved settings"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	URL       string `arg:"" help:"Creator profile URL"`
	Threshold int    `short:"t" default:"-1" help:"Minimum like count (default from config, else 0)"`
	Output    string `short:"o" help:"Export file (default douyin_videos_<date>.txt)" type:"path"`
	NoFile    bool   `help:"Skip the text export"`
	Feishu    bool   `help:"Append results to the configured Feishu table"`
	History   bool   `help:"Store results in the local history database"`
	Chart     string `help:"Write an HTML engagement chart to this file" type:"path"`
	JSON      bool   `name:"json" help:"Print records as JSON"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	RunID   string `arg:"" optional:"" help:"Run ID to show"`
	Profile string `help:"Only list runs of this profile URL"`
	Limit   int    `short:"n" default:"20" help:"Maximum runs to list"`
	Delete  bool   `help:"Delete the given run"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Write bool `help:"Also write a test row to the table"`
}

// ConfigCmd is the "config" subcommand. Without flags it prints the saved
// settings.
type ConfigCmd struct {
	AppID     string `name:"app-id" help:"Feishu app ID"`
	AppSecret string `name:"app-secret" help:"Feishu app secret"`
	BaseURL   string `name:"base-url" help:"Feishu open API base URL"`
	AppToken  string `name:"app-token" help:"Bitable app token"`
	TableID   string `name:"table-id" help:"Bitable table ID"`
	Proxy     string `help:"Browser proxy URL"`
	DB        string `name:"db" help:"History database path" type:"path"`
	Threshold int    `short:"t" default:"-1" help:"Default minimum like count"`
	Headless  bool   `help:"Run Chrome without a window"`
	Headed    bool   `help:"Run Chrome with a visible window"`
}
