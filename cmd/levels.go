package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alconley/sps-plot/internal/config"
)

var levelsCmd = &cobra.Command{
	Use:   "levels <isotope>",
	Short: "Print the excitation levels of a nuclide",
	Long: `Levels prints the adopted excitation levels of a nuclide (e.g. "13C") in
MeV, fetching from NNDC on a cache miss. With --refresh the cached entry is
discarded first.`,
	Args: cobra.ExactArgs(1),
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().Bool("refresh", false, "discard the cached entry and refetch")
	rootCmd.AddCommand(levelsCmd)
}

func runLevels(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	isotope := args[0]
	ctx := cmd.Context()

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
		if err := source.Store.Forget(ctx, isotope); err != nil {
			return err
		}
	}

	levels, err := source.Levels(ctx, isotope)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no tabulated levels for %s\n", isotope)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d levels (MeV)\n", isotope, len(levels))
	for _, ex := range levels {
		fmt.Fprintf(out, "  %.3f\n", ex)
	}
	return nil
}
