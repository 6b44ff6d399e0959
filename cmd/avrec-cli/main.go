// avrec — инструмент командной строки раннера функциональных кейсов рекордера.
//
// Использование:
//
//	avrec [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	case  Локальный прогон каталога или плана на симуляторе
//	run   Прогоны на сервере через HTTP API
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/laiyoufafa/multimedia-player-framework/internal/cli"
	"github.com/laiyoufafa/multimedia-player-framework/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "avrec",
		Short:         "avrec — AV recorder functional test runner",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := "http://localhost:8080"
	if v := os.Getenv("AVREC_API_URL"); v != "" {
		defaultURL = v
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }
	// Логи раннера идут в stderr, чтобы не смешиваться с отчётом.
	loggerFn := func() *slog.Logger { return telemetry.SetupLoggerTo(os.Stderr) }

	rootCmd.AddCommand(
		cli.NewCaseCmd(outputFn, loggerFn),
		cli.NewRunCmd(clientFn, outputFn),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
