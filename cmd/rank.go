package cmd

import (
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/causaltools/looprank/core/orchestrator"
)

var (
	rankMode        string
	rankCase        string
	rankWriteOutput bool
	rankPreprocess  bool
	rankWorkers     int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank network nodes from previously generated gain matrices",
	Long: `Rank the nodes of a causal network for every configured scenario,
weight method and rank method, one ranking per time-window box.

Results are written under the noderank directory, mirroring the layout
of the weightdata directory the gain matrices are read from.

Examples:
  looprank rank --mode tests --case weightcalc_tests
  looprank rank --mode plants --case compressor_plant --write-output=false
  looprank rank --mode plants --case compressor_plant --preprocess`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankMode, "mode", "tests", "configuration namespace (tests or a production mode)")
	rankCmd.Flags().StringVar(&rankCase, "case", "", "case name selecting the scenario bundle")
	rankCmd.Flags().BoolVar(&rankWriteOutput, "write-output", true, "persist ranking artifacts")
	rankCmd.Flags().BoolVar(&rankPreprocess, "preprocess", false, "experimental gain matrix rescaling (unstable, keep off)")
	rankCmd.Flags().IntVar(&rankWorkers, "workers", runtime.NumCPU(), "concurrent window computations")
	_ = rankCmd.MarkFlagRequired("case")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	orch, err := orchestrator.New(orchestrator.Config{
		Mode:        rankMode,
		Case:        rankCase,
		WriteOutput: rankWriteOutput,
		Preprocess:  rankPreprocess,
		Workers:     rankWorkers,
		Logger:      slog.Default(),
	})
	if err != nil {
		return err
	}
	return orch.Run()
}
