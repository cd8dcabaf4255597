package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alconley/sps-plot/internal/config"
)

var massCmd = &cobra.Command{
	Use:   "mass <Z> <A>",
	Short: "Look up a nuclide in the mass table",
	Args:  cobra.ExactArgs(2),
	RunE:  runMass,
}

func init() {
	rootCmd.AddCommand(massCmd)
}

func runMass(cmd *cobra.Command, args []string) error {
	z, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("charge number %q: %w", args[0], err)
	}
	a, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("mass number %q: %w", args[1], err)
	}

	table, err := loadMassTable(config.Load())
	if err != nil {
		return err
	}

	data, ok := table.Lookup(z, a)
	if !ok {
		return fmt.Errorf("no mass-table entry for Z=%d A=%d", z, a)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  Z=%d A=%d  mass %.4f MeV\n", data.Isotope, data.Z, data.A, data.Mass)
	return nil
}
