package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JustBryant/YGOMod-Card-Database/internal/catalog"
	"github.com/JustBryant/YGOMod-Card-Database/internal/progress"
	"github.com/JustBryant/YGOMod-Card-Database/internal/registry"
	"github.com/JustBryant/YGOMod-Card-Database/internal/report"
)

func validateCmd() *cobra.Command {
	var (
		sourceURI    string
		registryPath string
		orphans      bool
		issuesCSV    string
		cardsCSV     string
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a card repository and report every consistency issue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := registry.Load(registryPath)
			if err != nil {
				return err
			}
			uri, err := resolveURI(cfg, sourceURI)
			if err != nil {
				return err
			}

			ind := progress.New("Loading "+uri, !quiet)
			ld, err := newLoader(cfg, uri, orphans, ind.Update)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cat, err := ld.Load(ctx)
			if err != nil {
				ind.FinishWithError(err)
				return err
			}
			ind.Finish()

			printReport(cat)

			if issuesCSV != "" {
				if err := writeCSV(issuesCSV, func(f *os.File) error {
					return report.WriteIssues(f, cat.Issues())
				}); err != nil {
					return err
				}
			}
			if cardsCSV != "" {
				if err := writeCSV(cardsCSV, func(f *os.File) error {
					return report.WriteCards(f, cat)
				}); err != nil {
					return err
				}
			}

			for _, issue := range cat.Issues() {
				if issue.Severity == catalog.SeverityError {
					return fmt.Errorf("repository is not fully consistent")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceURI, "source", "", "index document path or URL (overrides the registry)")
	cmd.Flags().StringVar(&registryPath, "registry", "", "repository registry JSON file")
	cmd.Flags().BoolVar(&orphans, "orphans", false, "warn about JSON files the index never references")
	cmd.Flags().StringVar(&issuesCSV, "issues-csv", "", "write the issue list to a CSV file")
	cmd.Flags().StringVar(&cardsCSV, "cards-csv", "", "write all loaded cards to a CSV file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar")
	return cmd
}

func printReport(cat *catalog.Catalog) {
	info := cat.Info()
	fmt.Printf("%s %s: %d sets, %d cards\n", info.Name, info.Version, cat.NumSets(), cat.NumCards())

	if cat.Consistent() {
		color.Green("Repository is fully consistent.")
		return
	}

	var errs, warns []catalog.Issue
	for _, issue := range cat.Issues() {
		if issue.Severity == catalog.SeverityError {
			errs = append(errs, issue)
		} else {
			warns = append(warns, issue)
		}
	}

	if len(errs) > 0 {
		color.Red("Errors (%d):", len(errs))
		for _, issue := range errs {
			fmt.Printf("  - %s\n", issue)
		}
	}
	if len(warns) > 0 {
		color.Yellow("Warnings (%d):", len(warns))
		for _, issue := range warns {
			fmt.Printf("  - %s\n", issue)
		}
	}
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
