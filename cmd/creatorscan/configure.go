package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/creatorscan"
	"github.com/fwojciec/creatorscan/config"
)

// Run executes the config command.
func (c *ConfigCmd) Run(deps *Dependencies) error {
	// Only the file is edited; environment overrides are never persisted.
	cfg, err := config.LoadFile(deps.ConfigPath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}

	changed, err := c.apply(cfg)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}
	if !changed {
		printConfig(deps, cfg)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}
	if err := config.Save(deps.ConfigPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved settings to %s\n", deps.ConfigPath)
	return nil
}

// apply copies the given flags onto cfg and reports whether any were set.
func (c *ConfigCmd) apply(cfg *config.Config) (bool, error) {
	if c.Headless && c.Headed {
		return false, creatorscan.Errorf(creatorscan.EINVALID, "--headless and --headed are mutually exclusive")
	}

	changed := false
	set := func(v string, dst *string) {
		if v != "" {
			*dst = v
			changed = true
		}
	}
	set(c.AppID, &cfg.Feishu.AppID)
	set(c.AppSecret, &cfg.Feishu.AppSecret)
	set(c.BaseURL, &cfg.Feishu.BaseURL)
	set(c.AppToken, &cfg.Feishu.AppToken)
	set(c.TableID, &cfg.Feishu.TableID)
	set(c.Proxy, &cfg.Browser.Proxy)
	set(c.DB, &cfg.Storage.DB)

	if c.Threshold >= 0 {
		cfg.Scan.Threshold = c.Threshold
		changed = true
	}
	if c.Headless || c.Headed {
		headless := c.Headless
		cfg.Browser.Headless = &headless
		changed = true
	}
	return changed, nil
}

func printConfig(deps *Dependencies, cfg *config.Config) {
	w := deps.Stdout
	fmt.Fprintf(w, "Config file: %s\n", deps.ConfigPath)
	fmt.Fprintf(w, "feishu.app_id:     %s\n", cfg.Feishu.AppID)
	fmt.Fprintf(w, "feishu.app_secret: %s\n", mask(cfg.Feishu.AppSecret))
	fmt.Fprintf(w, "feishu.base_url:   %s\n", cfg.Feishu.BaseURL)
	fmt.Fprintf(w, "feishu.app_token:  %s\n", cfg.Feishu.AppToken)
	fmt.Fprintf(w, "feishu.table_id:   %s\n", cfg.Feishu.TableID)
	fmt.Fprintf(w, "browser.headless:  %t\n", cfg.IsHeadless())
	fmt.Fprintf(w, "browser.proxy:     %s\n", cfg.Browser.Proxy)
	fmt.Fprintf(w, "scan.threshold:    %d\n", cfg.Scan.Threshold)
	fmt.Fprintf(w, "storage.db:        %s\n", cfg.Storage.DB)
}

// mask hides all but the last four characters of a secret.
func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
