package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewRunCmd создаёт группу команд для прогонов на сервере.
func NewRunCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage case runs on the API server",
	}

	cmd.AddCommand(
		newRunListCmd(clientFn, outputFn),
		newRunStartCmd(clientFn, outputFn),
		newRunShowCmd(clientFn, outputFn),
	)

	return cmd
}

var runHeaders = []string{"ID", "CASE", "NAME", "STATUS", "DURATION", "CREATED"}

func runRow(r RunResponse) []string {
	return []string{
		r.ID,
		strconv.Itoa(r.CaseNumber),
		r.CaseName,
		r.Status,
		(time.Duration(r.DurationMS) * time.Millisecond).String(),
		r.CreatedAt,
	}
}

func newRunListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var caseNumber int
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List case runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			runs, err := client.ListRuns(ListRunsOpts{
				Case:   caseNumber,
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = runRow(r)
			}

			out.Print(runHeaders, rows, runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&caseNumber, "case", 0, "Filter by case number")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, PASSED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newRunStartCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var planFile string
	var wait bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "start [NUMBER]",
		Short: "Queue a catalog case or a plan file on the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var run *RunResponse
			switch {
			case planFile != "" && len(args) == 0:
				data, err := os.ReadFile(planFile)
				if err != nil {
					return fmt.Errorf("read plan: %w", err)
				}
				if run, err = client.StartPlan(data); err != nil {
					return err
				}
			case planFile == "" && len(args) == 1:
				number, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid case number %q", args[0])
				}
				if run, err = client.StartCase(number); err != nil {
					return err
				}
			default:
				return fmt.Errorf("pass either a case NUMBER or --plan FILE")
			}

			out.Success(fmt.Sprintf("Run queued: %s", run.ID))
			if wait {
				finished, err := client.WaitRun(run.ID, 500*time.Millisecond, timeout)
				if err != nil {
					return err
				}
				run = finished
			}

			out.Print(runHeaders, [][]string{runRow(*run)}, run)
			if wait && run.Status != "PASSED" {
				return fmt.Errorf("run %s %s: %s", run.ID, strings.ToLower(run.Status), run.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planFile, "plan", "", "Plan file (YAML or JSON) instead of a catalog case")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the run finishes")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long --wait polls")

	return cmd
}

func newRunShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show case run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			run, err := client.GetRun(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "CASE", "STATUS", "FILE", "STEPS", "FAILURES", "ERROR"},
				[][]string{{
					run.ID,
					run.CaseName,
					run.Status,
					run.FileName,
					strings.Join(run.Dispatched, " -> "),
					strings.Join(run.Failures, "; "),
					run.Error,
				}},
				run,
			)
			return nil
		},
	}
}
