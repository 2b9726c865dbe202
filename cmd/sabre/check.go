package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/WaleedSymbyo/sabre/internal/diagfmt"
	"github.com/WaleedSymbyo/sabre/internal/driver"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Type-check a sabre package",
	Long:  "Type-check every .sabre file of a package directory; with --output, write the codegen payload on success.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  checkExecution,
}

func init() {
	checkCmd.Flags().StringP("output", "o", "", "write the codegen payload (msgpack) to this path")
	checkCmd.Flags().Bool("symbols", false, "print the reachable symbol list")
}

func checkExecution(cmd *cobra.Command, args []string) error {
	dir, err := resolvePackageDir(args)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	showSymbols, err := cmd.Flags().GetBool("symbols")
	if err != nil {
		return err
	}

	u, pkg, err := driver.CheckDir(dir, driver.Options{MaxDiagnostics: maxDiagnostics, Jobs: jobs})
	if err != nil {
		return err
	}

	diagfmt.Pretty(os.Stderr, u.Bag, u.FileSet, diagfmt.PrettyOpts{
		Color:       useColor(cmd, os.Stderr),
		ShowPreview: true,
	})

	if pkg.Stage == unit.StageFailed {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("check failed with %d diagnostics", u.Bag.Len())
	}

	if showSymbols {
		for _, sym := range pkg.ReachableSymbols {
			typeName := ""
			if sym.Type != nil {
				typeName = sym.Type.String()
			}
			fmt.Fprintf(os.Stdout, "%s %s: %s\n", sym.Kind, sym.PackageName, typeName)
		}
	}

	if output != "" {
		payload := driver.BuildPayload(u, pkg)
		if err := driver.WritePayload(payload, output); err != nil {
			return err
		}
	}
	return nil
}
