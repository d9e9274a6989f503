package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/creatorscan"
	main "github.com/fwojciec/creatorscan/cmd/creatorscan"
	"github.com/fwojciec/creatorscan/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file with an isolated history database.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "storage:\n  db: " + filepath.Join(dir, "history.db") + "\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "creatorscan")
	assert.Contains(t, stdout.String(), "scan")
	assert.Contains(t, stdout.String(), "history")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_ScanRequiresURL(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"scan"}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_Scan(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.txt")
	var got creatorscan.ScanRequest
	m := main.NewMain()
	m.ConfigPath = writeConfig(t, "scan:\n  threshold: 500\n")
	m.Scanner = &mock.Scanner{
		ScanFn: func(_ context.Context, req creatorscan.ScanRequest) (*creatorscan.ScanResult, error) {
			got = req
			return &creatorscan.ScanResult{
				Records: []*creatorscan.ContentRecord{
					{URL: "https://www.douyin.com/video/1", Type: creatorscan.ContentVideo, Likes: 900},
				},
				Harvested: 3,
			}, nil
		},
	}
	defer m.Close()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"scan", "https://www.douyin.com/user/abc", "-o", out}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "https://www.douyin.com/user/abc", got.ProfileURL)
	assert.Equal(t, 500, got.Threshold, "threshold defaults to the configured value")
	assert.Contains(t, stdout.String(), "Found 1 posts with at least 500 likes")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "https://www.douyin.com/video/1\n", string(data))
}

func TestMain_Run_ScanWithHistory(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.ConfigPath = writeConfig(t, "")
	m.Scanner = &mock.Scanner{
		ScanFn: func(_ context.Context, req creatorscan.ScanRequest) (*creatorscan.ScanResult, error) {
			return &creatorscan.ScanResult{
				Records: []*creatorscan.ContentRecord{
					{URL: "https://www.douyin.com/video/1", Type: creatorscan.ContentVideo, Likes: 10},
				},
			}, nil
		},
	}
	defer m.Close()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"scan", "https://www.douyin.com/user/abc", "--no-file", "--history"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Saved 1 posts to history database")

	runs, err := m.Runs.FindRuns(context.Background(), creatorscan.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "https://www.douyin.com/user/abc", runs[0].ProfileURL)
}

func TestMain_Run_ScanFeishuUnconfigured(t *testing.T) {
	t.Parallel()

	scanned := false
	m := main.NewMain()
	m.ConfigPath = writeConfig(t, "")
	m.Scanner = &mock.Scanner{
		ScanFn: func(context.Context, creatorscan.ScanRequest) (*creatorscan.ScanResult, error) {
			scanned = true
			return &creatorscan.ScanResult{}, nil
		},
	}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"scan", "https://www.douyin.com/user/abc", "--feishu"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, creatorscan.EINVALID, creatorscan.ErrorCode(err))
	assert.False(t, scanned, "configuration errors surface before scanning")
	assert.Contains(t, stderr.String(), "feishu is not configured")
}

func TestMain_Run_Check(t *testing.T) {
	t.Parallel()

	checked := false
	m := main.NewMain()
	m.ConfigPath = writeConfig(t, "")
	m.Table = &fakeTable{check: func() error { checked = true; return nil }}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"check"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.True(t, checked)
	assert.Contains(t, stdout.String(), "Connection OK")
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [broken"), 0644))
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--config", path, "check"}, &stdout, &stderr)

	assert.Equal(t, creatorscan.EINVALID, creatorscan.ErrorCode(err))
}
