package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/forensia/internal/controller"
	"github.com/ppiankov/forensia/internal/model"
	"github.com/ppiankov/forensia/internal/state"
)

var (
	explainFlags featureFlags
	explainJSON  bool
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Generate one justification from the command line",
	Long: `Explain sends a single request for the given feature values and
classification and prints the justification sentence.

Example:
  forensia explain --classification synthetic --pause-entropy 0.4 --pitch-jitter 0.12
  forensia explain --language Hindi --classification altered --json`,
	Args: cobra.NoArgs,
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainFlags.register(explainCmd.Flags(), true)
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "print the explanation record as JSON")
}

func runExplain(cmd *cobra.Command, args []string) error {
	features, classification, err := explainFlags.resolve()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	res, err := explain(cmd.Context(), buildJustifier(cfg, logger), features, classification)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if explainJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if res.Error != "" {
		return errors.New(res.Error)
	}
	_, err = fmt.Fprintln(out, res.Text)
	return err
}

// explain runs one generate cycle through a throwaway controller
func explain(ctx context.Context, svc controller.Service, f model.Features, c model.Classification) (model.Explanation, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctrl := controller.New(state.NewFeatureStore(f), state.NewSelector(c), svc, logger)
	return ctrl.GenerateAndWait(ctx)
}
