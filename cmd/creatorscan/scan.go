package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fwojciec/creatorscan"
	"github.com/fwojciec/creatorscan/chart"
	"github.com/fwojciec/creatorscan/fs"
	csslog "github.com/fwojciec/creatorscan/slog"
	"github.com/fwojciec/creatorscan/sqlite"
	"golang.org/x/sync/errgroup"
)

// namedSink pairs a sink with the destination reported to the user.
type namedSink struct {
	name string
	dest string
	sink creatorscan.Sink
}

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	threshold := c.Threshold
	if threshold == -1 {
		threshold = deps.Config.Scan.Threshold
	}
	req := creatorscan.ScanRequest{ProfileURL: c.URL, Threshold: threshold}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}

	if err := c.checkSinks(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}

	result, err := deps.Scanner.Scan(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}

	printSummary(deps, result, threshold)

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Records); err != nil {
			return err
		}
	}

	if len(result.Records) == 0 {
		fmt.Fprintln(deps.Stdout, "No posts reached the threshold; nothing exported.")
		return nil
	}

	return exportAll(deps, c.sinks(deps, req, result), result.Records)
}

// checkSinks reports missing services before the scan starts.
func (c *ScanCmd) checkSinks(deps *Dependencies) error {
	if c.NoFile && !c.Feishu && !c.History && c.Chart == "" && !c.JSON {
		return creatorscan.Errorf(creatorscan.EINVALID, "nothing to do: --no-file given without another destination")
	}
	if c.Feishu && deps.TableSink == nil {
		return creatorscan.Errorf(creatorscan.EINVALID,
			"feishu is not configured; set the feishu section of the config file or FEISHU_APP_ID, FEISHU_APP_SECRET, FEISHU_APP_TOKEN and FEISHU_TABLE_ID")
	}
	if c.History && deps.Runs == nil {
		return creatorscan.Errorf(creatorscan.EINVALID, "history database unavailable")
	}
	return nil
}

// sinks builds the requested destinations for a finished pass.
func (c *ScanCmd) sinks(deps *Dependencies, req creatorscan.ScanRequest, result *creatorscan.ScanResult) []namedSink {
	var sinks []namedSink

	if !c.NoFile {
		path := c.Output
		if path == "" {
			path = fs.DefaultFileName(deps.Now())
		}
		sinks = append(sinks, namedSink{name: "text", dest: path, sink: fs.NewTextSink(path)})
	}

	if c.Feishu {
		sinks = append(sinks, namedSink{name: "feishu", dest: "Feishu table", sink: deps.TableSink})
	}

	if c.History {
		run := creatorscan.Run{
			ProfileURL: req.ProfileURL,
			Threshold:  req.Threshold,
			Harvested:  result.Harvested,
			CeilingHit: result.Scroll.CeilingHit,
		}
		sinks = append(sinks, namedSink{name: "history", dest: "history database", sink: sqlite.NewHistorySink(deps.Runs, run)})
	}

	if c.Chart != "" {
		sinks = append(sinks, namedSink{name: "chart", dest: c.Chart,
			sink: chart.NewReportSink(c.Chart, "Posts of "+req.ProfileURL)})
	}

	return sinks
}

// exportAll runs every sink concurrently over the same read-only records.
// Every sink runs to completion; failures are reported together.
func exportAll(deps *Dependencies, sinks []namedSink, records []*creatorscan.ContentRecord) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []string
		done = make([]bool, len(sinks))
	)
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for i, s := range sinks {
		sink := csslog.NewLoggingSink(s.sink, s.name, logger)
		g.Go(func() error {
			if err := sink.Export(deps.Ctx, records); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("%s: %v", s.name, err))
				mu.Unlock()
				return fmt.Errorf("%s export: %w", s.name, err)
			}
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	for i, s := range sinks {
		if done[i] {
			fmt.Fprintf(deps.Stdout, "Saved %d posts to %s\n", len(records), s.dest)
		}
	}
	for _, e := range errs {
		fmt.Fprintf(deps.Stderr, "error: %s\n", e)
	}
	return err
}

func printSummary(deps *Dependencies, result *creatorscan.ScanResult, threshold int) {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d posts with at least %d likes", len(result.Records), threshold)
	fmt.Fprintf(&b, " (%d candidates", result.Harvested)
	if result.ExpectedCount > 0 {
		fmt.Fprintf(&b, ", profile lists %d", result.ExpectedCount)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", result.Skipped)
	}
	b.WriteString(")")
	fmt.Fprintln(deps.Stdout, b.String())

	if result.Scroll.CeilingHit {
		fmt.Fprintf(deps.Stderr, "warning: feed kept growing after %d scroll attempts; results may be incomplete\n",
			result.Scroll.Attempts)
	}
}
