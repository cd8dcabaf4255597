package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"

	"github.com/alconley/sps-plot/internal/catalog"
	"github.com/alconley/sps-plot/internal/config"
	"github.com/alconley/sps-plot/internal/kinematics"
	"github.com/alconley/sps-plot/internal/levelcache"
	"github.com/alconley/sps-plot/internal/massdata"
	"github.com/alconley/sps-plot/internal/nndc"
)

// loadMassTable returns the external table from config when set, otherwise
// the embedded AME2020 extract.
func loadMassTable(cfg config.Config) (*massdata.Table, error) {
	if cfg.MassTable != "" {
		return massdata.Load(cfg.MassTable)
	}
	return massdata.Default()
}

// openSource wires the excitation-level source: SQLite cache in front of the
// NuDat client. The returned closer releases the cache database.
func openSource(ctx context.Context, cfg config.Config) (*levelcache.Source, func(), error) {
	store, err := levelcache.Open(ctx, cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	client := &nndc.Client{
		BaseURL:    cfg.NNDCURL,
		HTTPClient: &http.Client{Timeout: cfg.FetchTimeout},
	}
	source := &levelcache.Source{Store: store, Fetcher: client, Offline: cfg.Offline}
	return source, func() { store.Close() }, nil
}

// runEvaluation is the shared core of calc and watch: load the catalog,
// resolve every reaction, attach excitation levels, evaluate, and print the
// resulting spectrum.
func runEvaluation(ctx context.Context, out io.Writer, cfg config.Config) error {
	table, err := loadMassTable(cfg)
	if err != nil {
		return err
	}
	logf(cfg.Verbose, "mass table loaded: %d nuclides", table.Len())

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}
	if len(cat.Reactions) == 0 {
		fmt.Fprintf(out, "no reactions in %s — add [[reactions]] entries to begin\n", cfg.Catalog)
		return nil
	}

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	set := &kinematics.ReactionSet{}
	// Fetch failures are isolated per reaction, reported next to its output.
	levelErrs := make(map[int]error)
	for i, entry := range cat.Reactions {
		r := entry.Reaction()
		r.Resolve(table)
		set.Add(r)

		if !r.Resolved() {
			continue // evaluation will report the unresolved nuclide
		}
		isotope := r.Residual.Data.Isotope
		levels, err := source.Levels(ctx, isotope)
		if err != nil {
			levelErrs[i] = err
			continue
		}
		logf(cfg.Verbose, "%s: %d levels for %s", r.Identifier, len(levels), isotope)
		r.ExcitationLevels = levels
	}

	params := kinematics.Parameters{
		BeamEnergy:    cfg.BeamEnergy,
		MagneticField: cfg.MagneticField,
		Angle:         cfg.Angle,
	}
	reports := set.Evaluate(params)
	printSpectrum(out, set, reports, levelErrs, cfg)
	return nil
}

// printSpectrum renders the per-reaction (Ex, rho) tables with acceptance
// marks. Reactions keep their catalog order; the plotting layer uses the
// same order for colors and z-order.
func printSpectrum(out io.Writer, set *kinematics.ReactionSet, reports []kinematics.Report, levelErrs map[int]error, cfg config.Config) {
	fmt.Fprintf(out, "Eb = %g MeV   B = %g kG   theta = %g°   acceptance %g–%g cm\n",
		cfg.BeamEnergy, cfg.MagneticField, cfg.Angle, cfg.RhoMin, cfg.RhoMax)

	for i, r := range set.Reactions {
		fmt.Fprintf(out, "\n[%d] %s\n", i, r.Identifier)

		if err, ok := levelErrs[i]; ok {
			fmt.Fprintf(out, "    excitation levels unavailable: %v\n", err)
		}

		rep := reports[i]
		if rep.Err != nil {
			switch {
			case errors.Is(rep.Err, kinematics.ErrUnresolved):
				fmt.Fprintln(out, "    unresolved nuclide — check Z and A against the mass table")
			case errors.Is(rep.Err, kinematics.ErrNoLevels):
				fmt.Fprintln(out, "    no excitation levels to evaluate")
			default:
				fmt.Fprintf(out, "    %v\n", rep.Err)
			}
			continue
		}

		tw := tabwriter.NewWriter(out, 4, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "\tEx (MeV)\trho (cm)\t\t")
		for _, point := range r.RhoValues {
			mark := "out"
			if point.Rho >= cfg.RhoMin && point.Rho <= cfg.RhoMax {
				mark = "in"
			}
			fmt.Fprintf(tw, "\t%.3f\t%.2f\t%s\t\n", point.Excitation, point.Rho, mark)
		}
		tw.Flush()

		for _, ex := range rep.Forbidden {
			fmt.Fprintf(out, "    Ex = %.3f MeV skipped: kinematically forbidden at this angle\n", ex)
		}
	}
}
