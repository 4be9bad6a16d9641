package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HorseArcher567/octolog/pkg/configurator"
	"github.com/HorseArcher567/octolog/pkg/subst"
)

// errStrict 严格模式下存在 ERROR 条目
var errStrict = errors.New("configuration reported errors")

var checkCmd = &cobra.Command{
	Use:   "check <document>",
	Short: "Interpret a document and print the resulting hierarchy",
	Long: `Interpret a configuration document and print its loggers, appenders and
diagnostics. Exits non-zero when the document cannot be interpreted, or with
--strict when any error was reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		props, _ := cmd.Flags().GetStringToString("prop")
		return runCheck(contextOf(cmd), cmd.OutOrStdout(), args[0], props, strict)
	},
}

func init() {
	checkCmd.Flags().Bool("strict", false, "fail when any error entry is reported")
	checkCmd.Flags().StringToStringP("prop", "D", nil, "property for ${name} substitution (repeatable)")
}

func runCheck(ctx context.Context, w io.Writer, path string, props map[string]string, strict bool) error {
	c := configurator.New(
		configurator.WithLookup(subst.Chain{subst.Map(props), subst.Env{}}),
		configurator.WithLogger(slog.New(slog.DiscardHandler)),
	)
	cfg, err := c.ConfigureFile(ctx, path)
	if err != nil {
		return err
	}
	defer cfg.Close()

	printConfiguration(w, cfg)

	if strict && cfg.Status().HasErrors() {
		return fmt.Errorf("%w: %d error(s)", errStrict, len(cfg.Status().Errors()))
	}
	return nil
}

func printConfiguration(w io.Writer, cfg *configurator.Configuration) {
	h := cfg.Hierarchy()

	fmt.Fprintln(w, "Loggers:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	nodes := append([]string{""}, h.Loggers()...)
	for _, name := range nodes {
		n := h.Root()
		if name != "" {
			n = h.Logger(name)
		}
		lvl := "-"
		if l, ok := n.Level(); ok {
			lvl = l.String()
		}
		var refs []string
		for _, a := range n.Appenders() {
			refs = append(refs, a.Name())
		}
		fmt.Fprintf(tw, "  %s\t%s\tadditive=%t\t[%s]\n", n.Name(), lvl, n.Additive(), strings.Join(refs, ", "))
	}
	tw.Flush()

	fmt.Fprintln(w, "Appenders:")
	for _, a := range cfg.Appenders() {
		fmt.Fprintf(w, "  %s (%T)\n", a.Name(), a)
	}

	if entries := cfg.Status().Entries(); len(entries) > 0 {
		fmt.Fprintln(w, "Status:")
		for _, e := range entries {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}
