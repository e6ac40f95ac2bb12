package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/forensia/internal/worker"
)

var (
	batchWorkers int
	batchTimeout time.Duration
	batchOutput  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <cases.yaml>",
	Short: "Justify many cases from a YAML file in parallel",
	Long: `Batch reads cases from a YAML file and justifies them concurrently.
Each case is an independent single attempt; a failed case does not stop
the others. Results are written as YAML in input order.

Case file format:
  cases:
    - id: sample-01
      classification: synthetic
      features:
        pause_entropy: 0.4
        pitch_jitter: 0.12
        language: English

Example:
  forensia batch cases.yaml
  forensia batch cases.yaml --workers 8 --output results.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "total timeout for batch processing (default from config)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write results to file instead of stdout")
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if batchWorkers > 0 {
		cfg.Batch.Workers = batchWorkers
	}
	if batchTimeout > 0 {
		cfg.Batch.Timeout = batchTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Batch.Timeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Batch.Workers)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", cfg.Batch.Timeout)
	fmt.Fprintf(os.Stderr, "  Backend:      %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "\n")

	processor := worker.NewBatchProcessor(buildJustifier(cfg, logger), cfg.Batch.Workers)

	start := time.Now()
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if batchOutput != "" {
		var f *os.File
		f, err = os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}
	if err := worker.WriteResults(out, results); err != nil {
		return err
	}

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			logger.Debug("case failed", zap.String("id", r.ID), zap.Error(r.Err))
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d cases\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", len(results)-failures)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	fmt.Fprintf(os.Stderr, "  Elapsed:   %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
