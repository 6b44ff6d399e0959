package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/plan"
	"github.com/laiyoufafa/multimedia-player-framework/internal/sim"
	"github.com/laiyoufafa/multimedia-player-framework/internal/suite"
)

// BackendSim — симулированная платформа рекордера и камеры.
const BackendSim = "sim"

// ErrCasesFailed — хотя бы один кейс локального прогона не прошёл.
var ErrCasesFailed = errors.New("case run failed")

// NewCaseCmd создаёт группу команд для локальных прогонов каталога.
func NewCaseCmd(outputFn func() *Output, loggerFn func() *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "List and run recorder cases locally",
	}

	cmd.AddCommand(
		newCaseListCmd(outputFn),
		newCaseRunCmd(outputFn, loggerFn),
	)

	return cmd
}

func newCaseListCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			catalog := suite.Catalog()

			rows := make([][]string, len(catalog))
			for i, tc := range catalog {
				rows[i] = []string{strconv.Itoa(tc.Number), tc.Name, tc.Description, strconv.Itoa(len(tc.Steps))}
			}

			out.Print([]string{"NUMBER", "NAME", "DESCRIPTION", "STEPS"}, rows, catalog)
			return nil
		},
	}
}

func newCaseRunCmd(outputFn func() *Output, loggerFn func() *slog.Logger) *cobra.Command {
	var planFile string
	var backend string
	var outputDir string
	var profile string
	var recordInterval time.Duration
	var pauseInterval time.Duration
	var caseTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "run [NUMBER...]",
		Short: "Run catalog cases (all by default) or a plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			logger := loggerFn()

			if backend != BackendSim {
				return fmt.Errorf("unsupported backend %q (available: %s)", backend, BackendSim)
			}

			cases, err := selectCases(args, planFile)
			if err != nil {
				return err
			}

			cfg := suite.ConfigFromEnv()
			cfg.Logger = logger
			flags := cmd.Flags()
			if flags.Changed("output-dir") {
				cfg.OutputDir = outputDir
			}
			if flags.Changed("profile") {
				cfg.Profile = suite.ParseProfile(profile)
			}
			if flags.Changed("record") {
				cfg.RecordInterval = recordInterval
			}
			if flags.Changed("pause") {
				cfg.PauseInterval = pauseInterval
			}
			if flags.Changed("timeout") {
				cfg.CaseTimeout = caseTimeout
			}

			platform := sim.NewPlatform(sim.Config{Logger: logger})
			s := suite.New(platform.Media(), cfg)

			report := suite.NewReport(s.RunAll(cmd.Context(), cases))
			printReport(out, report)

			if !report.OK() {
				return fmt.Errorf("%w: %d of %d", ErrCasesFailed, report.Total-report.Passed, report.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&planFile, "plan", "", "Plan file (YAML or JSON) to run instead of catalog cases")
	cmd.Flags().StringVar(&backend, "backend", BackendSim, "Platform backend")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for recorded files")
	cmd.Flags().StringVar(&profile, "profile", "", "Recording profile (av, video, audio)")
	cmd.Flags().DurationVar(&recordInterval, "record", 0, "Recording time after start")
	cmd.Flags().DurationVar(&pauseInterval, "pause", 0, "Pause time after pause")
	cmd.Flags().DurationVar(&caseTimeout, "timeout", 0, "Per-case deadline")

	return cmd
}

// selectCases выбирает кейсы: план, номера из аргументов или весь каталог.
func selectCases(args []string, planFile string) ([]domain.TestCase, error) {
	if planFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass either case numbers or --plan, not both")
		}
		p, err := plan.Load(planFile)
		if err != nil {
			return nil, err
		}
		tc, err := p.TestCase()
		if err != nil {
			return nil, err
		}
		return []domain.TestCase{tc}, nil
	}

	if len(args) == 0 {
		return suite.Catalog(), nil
	}

	cases := make([]domain.TestCase, 0, len(args))
	for _, arg := range args {
		number, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid case number %q", arg)
		}
		tc, err := suite.Find(number)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

func printReport(out *Output, report suite.Report) {
	rows := make([][]string, len(report.Runs))
	for i, run := range report.Runs {
		rows[i] = []string{
			run.CaseName,
			string(run.Status),
			run.Duration().Round(time.Millisecond).String(),
			strconv.Itoa(len(run.Dispatched)),
			strings.Join(run.Failures, "; "),
		}
	}

	out.Print([]string{"CASE", "STATUS", "DURATION", "STEPS", "FAILURES"}, rows, report)
	out.Success(fmt.Sprintf("%d passed, %d failed, %d total", report.Passed, report.Failed, report.Total))
}
