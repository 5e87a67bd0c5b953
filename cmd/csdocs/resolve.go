package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/csdocs/internal/docfile"
	"github.com/dshills/csdocs/internal/metadata"
	"github.com/dshills/csdocs/internal/render"
	"github.com/dshills/csdocs/internal/resolver"
)

// newResolveCommand creates the resolve command
func newResolveCommand(a *app) *cobra.Command {
	var xmlDocs string

	cmd := &cobra.Command{
		Use:   "resolve <model> <id>...",
		Short: "Resolve documentation identifiers against a metadata model",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := metadata.NewLoader(a.logger).LoadFile(args[0])
			if err != nil {
				return err
			}
			r := resolver.New(model, resolver.Options{
				StrictOverloads: a.cfg.Resolver.StrictOverloads,
				Logger:          a.logger,
			})

			if xmlDocs != "" {
				f, err := docfile.Load(xmlDocs)
				if err != nil {
					return err
				}
				docfile.Apply(f, r, a.logger)
			}

			engine := render.NewEngine()
			id := color.New(color.FgCyan).SprintFunc()
			bad := color.New(color.FgRed).SprintFunc()
			out := cmd.OutOrStdout()

			failed := 0
			for _, arg := range args[1:] {
				e, err := r.Resolve(arg)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s\n  %s\n", id(arg), bad(err.Error()))
					continue
				}

				decl, err := engine.Render(e)
				if err != nil {
					decl = bad(err.Error())
				}
				fmt.Fprintf(out, "%s\n  %s\n", id(e.DocID), decl)
				if e.Documentation != "" {
					fmt.Fprintf(out, "  %s\n", e.Documentation)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d identifiers did not resolve", failed, len(args)-1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xmlDocs, "xml-docs", "", "XML documentation file to attach")
	return cmd
}
