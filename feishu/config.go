// Package feishu writes scan results to a Feishu (Lark) bitable over the
// open platform HTTP API.
package feishu

import (
	"strings"

	"github.com/fwojciec/creatorscan"
)

// DefaultBaseURL is the open platform API root.
const DefaultBaseURL = "https://open.feishu.cn/open-apis"

// Config identifies the app credentials and the destination table.
type Config struct {
	AppID     string `yaml:"app_id"`
	AppSecret string `yaml:"app_secret"`
	BaseURL   string `yaml:"base_url"`
	AppToken  string `yaml:"app_token"`
	TableID   string `yaml:"table_id"`
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case c.AppID == "":
		return creatorscan.Errorf(creatorscan.EINVALID, "feishu app id required")
	case c.AppSecret == "":
		return creatorscan.Errorf(creatorscan.EINVALID, "feishu app secret required")
	case c.AppToken == "":
		return creatorscan.Errorf(creatorscan.EINVALID, "feishu app token required")
	case c.TableID == "":
		return creatorscan.Errorf(creatorscan.EINVALID, "feishu table id required")
	}
	return nil
}

// Configured reports whether any credential is set. An unconfigured
// integration is skipped rather than reported as invalid.
func (c Config) Configured() bool {
	return c.AppID != "" || c.AppSecret != "" || c.AppToken != "" || c.TableID != ""
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}
