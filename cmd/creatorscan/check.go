package main

import (
	"fmt"

	"github.com/fwojciec/creatorscan"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	if deps.Table == nil {
		err := creatorscan.Errorf(creatorscan.EINVALID, "feishu is not configured")
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		fmt.Fprintln(deps.Stderr, "Hint: set FEISHU_APP_ID, FEISHU_APP_SECRET, FEISHU_APP_TOKEN and FEISHU_TABLE_ID or the feishu section of the config file")
		return err
	}

	fmt.Fprintln(deps.Stdout, "Testing connection...")
	if err := deps.Table.Check(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: connection failed: %s\n", creatorscan.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Connection OK: token issued and table readable.")

	if c.Write {
		if err := deps.Table.WriteProbe(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: writing test row failed: %s\n", creatorscan.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, "Test row written to the table.")
	}
	return nil
}
