package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pitwall/config"
	corehistory "github.com/kilianp07/pitwall/core/history"
	"github.com/kilianp07/pitwall/infra/history"
	"github.com/kilianp07/pitwall/pkg/export"
)

var (
	historyFormat string
	historyTrack  string
	historyDriver string
	historySince  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prediction history commands",
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded predictions as CSV or JSON",
	RunE:  runHistoryExport,
}

func init() {
	historyExportCmd.Flags().StringVarP(&historyFormat, "format", "f", "csv", "output format: csv or json")
	historyExportCmd.Flags().StringVar(&historyTrack, "track", "", "only export this track")
	historyExportCmd.Flags().StringVar(&historyDriver, "driver", "", "only export this driver")
	historyExportCmd.Flags().StringVar(&historySince, "since", "", "only export records after this RFC3339 time")
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	q := corehistory.Query{Track: historyTrack, Driver: historyDriver}
	if historySince != "" {
		q.Start, err = time.Parse(time.RFC3339, historySince)
		if err != nil {
			return fmt.Errorf("invalid --since: %w", err)
		}
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()
	records, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	return writeRecords(cmd.OutOrStdout(), records, historyFormat)
}

func writeRecords(w io.Writer, records []corehistory.Record, format string) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, records)
	case formatJSON:
		return export.WriteJSON(w, records)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
