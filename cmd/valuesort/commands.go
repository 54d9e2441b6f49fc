package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jask/valuesort/internal/service"
	"github.com/jask/valuesort/internal/tabular"
)

func newShowCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			ranked := a.svc.Ranking()
			if len(ranked) == 0 {
				fmt.Fprintln(out, "Nothing ranked yet.")
			}
			for i, e := range ranked {
				fmt.Fprintf(out, "%2d. %s\n", i+1, e.Name)
			}
			pool := a.svc.Unranked()
			if all && len(pool) > 0 {
				fmt.Fprintln(out, "\nNot yet ranked:")
				for _, e := range pool {
					fmt.Fprintf(out, "    %s\n", e.Name)
				}
			}
			if t := a.svc.LastSaved(); !t.IsZero() {
				fmt.Fprintf(out, "\n%d of %d ranked, saved %s\n", len(ranked), a.svc.Catalog().Len(), humanize.Time(t))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list unranked values")
	return cmd
}

func newExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ranking to a name,position CSV file",
		Long: `Write the ranking to a CSV file. Without --out the file is named
values_YYYY-MM-DD.csv inside export.dir. Use --out - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			if out == "-" {
				return a.svc.ExportCSV(cmd.OutOrStdout())
			}
			if out == "" {
				out = filepath.Join(a.cfg.Export.Dir, tabular.FileName(time.Now()))
			}
			path, err := a.svc.ExportFile(out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d values to %s\n", a.svc.Len(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory, - for stdout")
	return cmd
}

func newImportCommand() *cobra.Command {
	var trust bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the ranking with one read from a CSV file",
		Long: `Replace the ranking with the one in a name,position CSV file. Names are
matched to the catalog ignoring case; values the file does not mention end
up unranked. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			if cmd.Flags().Changed("trust-positions") {
				a.svc.TrustPositions = trust
			}

			var res importResult
			if args[0] == "-" {
				res.ImportResult, err = a.svc.ImportCSV(cmd.Context(), cmd.InOrStdin())
			} else {
				res.ImportResult, err = a.svc.ImportFile(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			res.print(cmd)
			if err := a.svc.PersistErr(); err != nil {
				return fmt.Errorf("ranking imported but not saved: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&trust, "trust-positions", false, "keep positions exactly as written instead of renumbering 1..K")
	return cmd
}

func newResetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Return every value to the unranked pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			a, err := openApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			a.svc.Reset(cmd.Context())
			if err := a.svc.PersistErr(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ranking cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

type importResult struct {
	service.ImportResult
}

func (r importResult) print(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d of %d rows\n", r.Applied, r.Rows)
	for _, u := range r.Unmatched {
		if u.Suggestion != "" {
			fmt.Fprintf(out, "  not recognised: %q (did you mean %q?)\n", u.Row.Name, u.Suggestion)
			continue
		}
		fmt.Fprintf(out, "  not recognised: %q\n", u.Row.Name)
	}
	for _, row := range r.Ambiguous {
		fmt.Fprintf(out, "  ambiguous name: %q\n", row.Name)
	}
	for _, row := range r.Invalid {
		fmt.Fprintf(out, "  bad position for %q: %d\n", row.Name, row.Position)
	}
	if r.Renumbered {
		fmt.Fprintln(out, "  positions renumbered to 1..K")
	}
}
