// Package chart renders scan results as an HTML engagement report.
package chart

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/creatorscan"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// MaxLabelRunes truncates post titles on the category axis.
const MaxLabelRunes = 16

// Ensure ReportSink implements creatorscan.Sink at compile time.
var _ creatorscan.Sink = (*ReportSink)(nil)

// ReportSink writes an HTML page with an engagement bar chart and a
// content-type breakdown.
type ReportSink struct {
	path  string
	title string
}

// NewReportSink creates a ReportSink writing to path.
func NewReportSink(path, title string) *ReportSink {
	return &ReportSink{path: path, title: title}
}

// Export renders records to the report file, replacing it on success.
func (s *ReportSink) Export(ctx context.Context, records []*creatorscan.ContentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return creatorscan.Errorf(creatorscan.EINVALID, "no records to chart")
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := Render(f, s.title, records); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing report: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing report: %w", err)
	}
	return nil
}

// Render writes the report page for records to w.
func Render(w io.Writer, title string, records []*creatorscan.ContentRecord) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(engagementBar(title, records), typePie(records))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func engagementBar(title string, records []*creatorscan.ContentRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d posts", len(records))}),
		charts.WithThemeOpts(opts.Theme{Theme: types.ThemeWesteros}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
	)

	labels := make([]string, len(records))
	likes := make([]opts.BarData, len(records))
	comments := make([]opts.BarData, len(records))
	for i, r := range records {
		labels[i] = Label(r)
		likes[i] = opts.BarData{Name: r.URL, Value: r.Likes}
		comments[i] = opts.BarData{Name: r.URL, Value: r.Comments}
	}

	bar.SetXAxis(labels).
		AddSeries("点赞", likes).
		AddSeries("评论", comments)
	return bar
}

func typePie(records []*creatorscan.ContentRecord) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "类型"}),
		charts.WithThemeOpts(opts.Theme{Theme: types.ThemeWesteros}),
	)

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		label := r.Type.Label()
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}

	items := make([]opts.PieData, 0, len(order))
	for _, label := range order {
		items = append(items, opts.PieData{Name: label, Value: counts[label]})
	}
	pie.AddSeries("类型", items)
	return pie
}

// Label returns the axis label for a record: its title truncated to
// MaxLabelRunes, or its URL when untitled.
func Label(r *creatorscan.ContentRecord) string {
	label := r.Title
	if label == "" {
		label = r.URL
	}
	runes := []rune(label)
	if len(runes) > MaxLabelRunes {
		return string(runes[:MaxLabelRunes]) + "…"
	}
	return label
}
