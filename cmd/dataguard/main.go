// Command dataguard scans files for sensitive data from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	dataguard "github.com/SamuelRCrider/dataguard-go"
	"github.com/SamuelRCrider/dataguard-go/config"
	"github.com/SamuelRCrider/dataguard-go/core"
	"github.com/SamuelRCrider/dataguard-go/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each command owns its flag variables;
// nothing is shared across commands except the persistent --config flag.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "dataguard",
		Short:        "Scan documents for sensitive data",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")

	root.AddCommand(
		newScanCmd(&configPath),
		newRedactCmd(&configPath),
		newHistoryCmd(&configPath),
	)
	return root
}

func newScanCmd(configPath *string) *cobra.Command {
	var (
		jsonOutput  bool
		redactStyle string
	)

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan a file and report findings and risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd, *configPath)
			if err != nil {
				return err
			}
			defer svc.Close()

			result, err := svc.ScanFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			} else {
				printResult(cmd, result)
			}

			if redactStyle != "" {
				redacted, err := svc.Redact(result.ExtractedTextSample, result, core.Style(redactStyle))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "---")
				fmt.Fprintln(cmd.OutOrStdout(), redacted)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the full result as JSON")
	cmd.Flags().StringVar(&redactStyle, "redact", "", "also print redacted text (full, partial, asterisk, block)")
	return cmd
}

func newRedactCmd(configPath *string) *cobra.Command {
	var (
		style      string
		resultPath string
	)

	cmd := &cobra.Command{
		Use:   "redact <file>",
		Short: "Print a file with sensitive spans masked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd, *configPath)
			if err != nil {
				return err
			}
			defer svc.Close()

			var result *core.ScanResult
			if resultPath != "" {
				data, err := os.ReadFile(resultPath)
				if err != nil {
					return fmt.Errorf("failed to read result file: %w", err)
				}
				result = &core.ScanResult{}
				if err := json.Unmarshal(data, result); err != nil {
					return fmt.Errorf("failed to parse result file: %w", err)
				}
			} else {
				result, err = svc.ScanFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			redacted, err := svc.Redact(string(data), result, core.Style(style))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), redacted)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "full", "mask style (full, partial, asterisk, block)")
	cmd.Flags().StringVar(&resultPath, "result", "", "reuse findings from a prior --json result instead of rescanning")
	return cmd
}

func newHistoryCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent scans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService(cmd, *configPath)
			if err != nil {
				return err
			}
			defer svc.Close()

			entries, err := svc.RecentScans(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no scans recorded")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s score=%-3d findings=%-2d %s\n",
					e.Timestamp, e.RiskLevel, e.FusedScore, e.FindingCount, e.Filename)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	return cmd
}

func newService(cmd *cobra.Command, configPath string) (*dataguard.Service, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	svc, err := dataguard.NewService(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("failed to start scanner", zap.Error(err))
		return nil, err
	}
	return svc, nil
}

func printResult(cmd *cobra.Command, result *core.ScanResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "risk: %s (score %d", result.RiskLevel, result.FusedScore)
	if result.AiScore != nil {
		fmt.Fprintf(out, ", deterministic %d, ai %d", result.DeterministicScore, *result.AiScore)
	}
	fmt.Fprintln(out, ")")
	if result.Cached {
		fmt.Fprintln(out, "cached: true")
	}
	if result.AiSummary != "" {
		fmt.Fprintf(out, "summary: %s\n", result.AiSummary)
	}
	for _, f := range result.Findings {
		display := f.DisplayText
		if display == "" {
			display = f.Description
		}
		fmt.Fprintf(out, "  [%s] %s  %s\n", f.Severity, f.Kind, display)
	}
}
