package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/creatorscan"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.RunID == "" {
		if c.Delete {
			err := creatorscan.Errorf(creatorscan.EINVALID, "run ID required for --delete")
			fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
			return err
		}
		return c.list(deps)
	}
	if c.Delete {
		if err := deps.Runs.DeleteRun(deps.Ctx, c.RunID); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.RunID)
		return nil
	}
	return c.show(deps)
}

func (c *HistoryCmd) list(deps *Dependencies) error {
	filter := creatorscan.RunFilter{Limit: c.Limit}
	if c.Profile != "" {
		filter.ProfileURL = &c.Profile
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No scans stored. Use 'creatorscan scan --history' to record one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tPOSTS\tTHRESHOLD\tDIGEST\tPROFILE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.RecordCount, r.Threshold, r.Digest, r.ProfileURL)
	}
	return w.Flush()
}

func (c *HistoryCmd) show(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}
	records, err := deps.Runs.FindRecords(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", creatorscan.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s  %s  threshold %d\n", run.ProfileURL, run.CreatedAt.Local().Format("2006-01-02 15:04"), run.Threshold)
	if run.CeilingHit {
		fmt.Fprintln(deps.Stdout, "(feed did not settle; results may be incomplete)")
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tLIKES\tCOMMENTS\tPUBLISHED\tTITLE\tURL")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n",
			r.Type.Label(), r.Likes, r.Comments, r.PublishTime, r.Title, r.URL)
	}
	return w.Flush()
}
