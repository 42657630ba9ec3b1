package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JustBryant/YGOMod-Card-Database/internal/manifest"
)

func manifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Generate or verify the repository file manifest",
	}
	cmd.AddCommand(manifestGenerateCmd())
	cmd.AddCommand(manifestVerifyCmd())
	return cmd
}

func manifestGenerateCmd() *cobra.Command {
	var (
		sources []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a manifest of every JSON file with its Git blob SHA-1 and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := parseSources(sources)
			if err != nil {
				return err
			}

			m, err := manifest.Build(srcs)
			if err != nil {
				return err
			}
			if err := m.Write(output); err != nil {
				return err
			}

			fmt.Printf("Wrote manifest to %s (%d files)\n", output, len(m.Files))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sources, "source", "s", nil, `source directory, "key=path" or just "path" (repeatable)`)
	cmd.Flags().StringVarP(&output, "output", "o", "cards_manifest.json", "output manifest path")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func manifestVerifyCmd() *cobra.Command {
	var (
		sources      []string
		manifestPath string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the repository files against an existing manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := parseSources(sources)
			if err != nil {
				return err
			}

			m, err := manifest.Read(manifestPath)
			if err != nil {
				return err
			}
			result, err := manifest.Verify(m, srcs)
			if err != nil {
				return err
			}

			if result.Clean() {
				color.Green("All %d files match the manifest.", len(m.Files))
				return nil
			}

			for _, name := range result.Missing {
				color.Red("missing:  %s", name)
			}
			for _, name := range result.Modified {
				color.Red("modified: %s", name)
			}
			for _, name := range result.Unlisted {
				color.Yellow("unlisted: %s", name)
			}
			return fmt.Errorf("repository files diverge from %s", manifestPath)
		},
	}

	cmd.Flags().StringArrayVarP(&sources, "source", "s", nil, `source directory, "key=path" or just "path" (repeatable)`)
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "cards_manifest.json", "manifest path to verify against")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// parseSources turns "key=path" or "path" flags into manifest sources; a
// bare path uses its base name as the key.
func parseSources(flags []string) ([]manifest.Source, error) {
	if len(flags) == 0 {
		return nil, fmt.Errorf("at least one --source is required")
	}

	var srcs []manifest.Source
	for _, flag := range flags {
		var key, path string
		if i := strings.IndexByte(flag, '='); i >= 0 {
			key = strings.TrimSpace(flag[:i])
			path = strings.TrimSpace(flag[i+1:])
		} else {
			path = flag
			key = filepath.Base(filepath.Clean(flag))
		}

		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("source directory does not exist: %s", path)
		}
		srcs = append(srcs, manifest.Source{Key: key, Path: path})
	}
	return srcs, nil
}
