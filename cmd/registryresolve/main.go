// Command registryresolve loads a YAML plugin-registry fixture, runs the
// resolver over it, and prints a tabular report of the outcome using
// text/tabwriter.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mbarbero/eclipse.platform.runtime/diag"
	"github.com/mbarbero/eclipse.platform.runtime/registry"
	"github.com/mbarbero/eclipse.platform.runtime/resolver"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("registryresolve failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		noTrim     bool
		noCrossLink bool
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "registryresolve <registry.yaml>",
		Short: "Resolve a plugin registry fixture and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(args[0])
			if err != nil {
				return err
			}

			r := resolver.New(
				resolver.WithTrimPlugins(!noTrim),
				resolver.WithCrossLink(!noCrossLink),
				resolver.WithDebugResolve(debug),
			)

			status, err := r.Resolve(context.Background(), reg)
			if err != nil {
				return errors.Wrap(err, "resolving registry")
			}

			report(cmd, reg, status)
			if !status.OK() {
				return errStatusHadDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noTrim, "no-trim", false, "keep disabled plugins in the report instead of removing them")
	cmd.Flags().BoolVar(&noCrossLink, "no-cross-link", false, "skip extension/extension-point cross-linking")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable verbose resolve tracing (registry/debug/resolve)")

	return cmd
}

func requiresSummary(d *registry.Descriptor) string {
	if len(d.PrereqList) == 0 {
		return "-"
	}
	summary := ""
	for i, p := range d.PrereqList {
		if i > 0 {
			summary += ", "
		}
		resolved := p.ResolvedVersion
		if resolved == "" {
			resolved = "?"
		}
		summary += fmt.Sprintf("%s@%s(%s)", p.PluginID, resolved, describeMatch(p))
	}
	return summary
}

// errStatusHadDiagnostics is a sentinel used only to give the process a
// non-zero exit code when the status carried any diagnostic; the
// diagnostics themselves were already printed by report.
var errStatusHadDiagnostics = errors.New("resolve completed with diagnostics")

func report(cmd *cobra.Command, reg *registry.Registry, status *diag.Status) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLUGIN\tVERSION\tENABLED\tREQUIRES")
	for _, d := range reg.All() {
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", d.PluginID, d.Version, d.Enabled(), requiresSummary(d))
	}
	w.Flush()

	if status.OK() {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nDIAGNOSTICS")
	for _, d := range status.Diagnostics() {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", d.Severity, d.Error())
	}
}
