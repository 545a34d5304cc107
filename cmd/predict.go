package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	apistrategy "github.com/kilianp07/pitwall/api/strategy"
	"github.com/kilianp07/pitwall/config"
	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/core/strategy"
	"github.com/kilianp07/pitwall/infra/artifacts"
	"github.com/kilianp07/pitwall/infra/logger"
)

// Output formats of the predict command.
const (
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
)

var (
	predictInput  string
	predictFormat string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a pit strategy from a JSON race context",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&predictInput, "input", "i", "-", "race context JSON file, - for stdin")
	predictCmd.Flags().StringVarP(&predictFormat, "format", "f", formatText, "output format: text, table or json")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	in := cmd.InOrStdin()
	if predictInput != "-" {
		f, err := os.Open(predictInput)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	rc, err := apistrategy.DecodeRaceContext(in)
	if err != nil {
		return err
	}
	bundle, err := artifacts.LoadBundle(cfg.Models)
	if err != nil {
		return err
	}
	sim, err := strategy.NewSimulator(bundle, cfg.Strategy, strategy.WithLogger(logger.New("strategy")))
	if err != nil {
		return err
	}
	plan, err := sim.Predict(cmd.Context(), rc)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	return writePlan(cmd.OutOrStdout(), plan, predictFormat)
}

func writePlan(w io.Writer, plan model.StrategyPlan, format string) error {
	switch strings.ToLower(format) {
	case formatText, "":
		_, err := io.WriteString(w, planText(plan))
		return err
	case formatTable:
		_, err := io.WriteString(w, planTable(plan)+"\n")
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// planText renders the plan as the plain pit wall summary.
func planText(plan model.StrategyPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Pit Stops: %d\n", plan.TotalPitStops)
	fmt.Fprintf(&b, "Pit Stop Laps: %v\n", plan.PitStopLaps)
	b.WriteString("Tire Strategy:\n")
	for _, st := range plan.TireStrategy {
		fmt.Fprintf(&b, "  - Lap %d: Switch to %s\n", st.Lap, st.Tire)
	}
	return b.String()
}

// planTable renders the stops as a table under a one-line race heading.
// The heading stays outside the table so narrow plans do not wrap it.
func planTable(plan model.StrategyPlan) string {
	title := fmt.Sprintf("%s %d - %s (%s)", plan.Track, plan.Year, plan.Driver, plan.Team)
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Stop", "Lap", "Tire"})
	for i, st := range plan.TireStrategy {
		t.AppendRow(table.Row{i + 1, st.Lap, st.Tire})
	}
	t.AppendFooter(table.Row{"Total", plan.TotalPitStops, ""})
	return title + "\n" + t.Render()
}
