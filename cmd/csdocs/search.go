package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/csdocs/internal/searcher"
	"github.com/dshills/csdocs/pkg/types"
)

// newSearchCommand creates the search command
func newSearchCommand(a *app) *cobra.Command {
	var (
		kinds     []string
		namespace string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "search <assembly> <query>...",
		Short: "Search stored declarations and documentation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := make([]types.DeclarationKind, 0, len(kinds))
			for _, k := range kinds {
				kind, err := types.ParseDeclarationKind(k)
				if err != nil {
					return err
				}
				filter = append(filter, kind)
			}

			db, err := a.openStorage()
			if err != nil {
				return err
			}
			defer db.Close()

			program, err := db.GetProgram(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("assembly %s: %w", args[0], err)
			}

			s, err := searcher.NewSearcher(db, searcher.Options{CacheSize: a.cfg.Search.CacheSize})
			if err != nil {
				return err
			}
			resp, err := s.Search(cmd.Context(), searcher.Request{
				ProgramID: program.ID,
				Query:     strings.Join(args[1:], " "),
				Kinds:     filter,
				Namespace: namespace,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			id := color.New(color.FgCyan).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()
			out := cmd.OutOrStdout()
			for _, r := range resp.Results {
				fmt.Fprintf(out, "%2d. %s %s\n    %s\n",
					r.Rank, id(r.Declaration.DocID), dim(fmt.Sprintf("(%.3f)", r.RelevanceScore)),
					r.Declaration.Declaration)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d results\n", resp.TotalResults)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "filter by kind (Type, Delegate, Method, Event, Property, Field)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "restrict to one namespace")
	cmd.Flags().IntVarP(&limit, "limit", "n", searcher.DefaultLimit, "maximum results")
	return cmd
}
