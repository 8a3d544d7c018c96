package command

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"sprinkler-jobs/internal/domain"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

func checkOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	}
	return errors.Errorf("unknown output format %q, want table, json or yaml", format)
}

func renderJobs(w io.Writer, format string, jobs []domain.Job) error {
	switch format {
	case OutputJSON:
		return renderJSON(w, jobs)
	case OutputYAML:
		return renderYAML(w, jobs)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB ID\tSPRINKLER\tDURATION\tHIGH PRIORITY\tSTART TIME")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
			jobID(j), j.SprinklerID, j.Duration, j.HighPriority, startTime(j))
	}
	return tw.Flush()
}

func renderCourts(w io.Writer, format string, courts []domain.Court) error {
	switch format {
	case OutputJSON:
		return renderJSON(w, courts)
	case OutputYAML:
		return renderYAML(w, courts)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SPRINKLER\tSTATUS\tJOB ID\tDURATION")
	for _, c := range courts {
		id, duration := "-", "-"
		if c.Job != nil {
			id, duration = jobID(*c.Job), c.Job.Duration.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.SprinklerID, c.Status, id, duration)
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to encode json")
}

func renderYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode yaml")
	}
	return errors.Wrap(enc.Close(), "failed to encode yaml")
}

func jobID(j domain.Job) string {
	if j.JobID == 0 {
		return "-"
	}
	return strconv.Itoa(j.JobID)
}

func startTime(j domain.Job) string {
	if j.StartTime == nil {
		return "-"
	}
	return strconv.FormatFloat(*j.StartTime, 'f', -1, 64)
}
