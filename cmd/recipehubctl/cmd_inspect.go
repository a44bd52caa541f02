package main

import (
	"context"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/recipehub/recipehub-server/internal/store"
)

func newInspectCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print key counts for the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := global.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runInspect(commandContext(cmd), cmd, a)
		},
	}
}

func runInspect(ctx context.Context, cmd *cobra.Command, a *app) error {
	prefixes := store.KnownPrefixes()
	counts, err := a.store.CountByPrefix(ctx, prefixes)
	if err != nil {
		return err
	}
	slices.Sort(prefixes)

	docs, err := a.search.DocumentCount()
	if err != nil {
		return fmt.Errorf("count search documents: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Data path: %s\n\n", a.cfg.Data.BasePath)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PREFIX\tKEYS")
	for _, p := range prefixes {
		fmt.Fprintf(w, "%s\t%d\n", p, counts[p])
	}
	fmt.Fprintf(w, "search documents\t%d\n", docs)
	return w.Flush()
}
