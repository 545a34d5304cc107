package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pitwall/config"
	"github.com/kilianp07/pitwall/core/features"
	"github.com/kilianp07/pitwall/infra/artifacts"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Model artifact commands",
}

var modelsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the model artifacts and report their compounds",
	RunE:  runModelsCheck,
}

func init() {
	modelsCmd.AddCommand(modelsCheckCmd)
	rootCmd.AddCommand(modelsCmd)
}

func runModelsCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	bundle, err := artifacts.LoadBundle(cfg.Models)
	if err != nil {
		return err
	}
	return writeModelsReport(cmd.OutOrStdout(), cfg.Models.Dir, bundle.Codec().Classes())
}

func writeModelsReport(w io.Writer, dir string, compounds []string) error {
	_, err := fmt.Fprintf(w, "models: %s\nfeatures: %d columns ok\ncompounds: %s\n",
		dir, len(features.Columns), strings.Join(compounds, ", "))
	return err
}
