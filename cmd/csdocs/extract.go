package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/csdocs/internal/output"
	"github.com/dshills/csdocs/internal/pipeline"
)

// newExtractCommand creates the extract command
func newExtractCommand(a *app) *cobra.Command {
	var (
		xmlDocs      string
		outPath      string
		store        bool
		validateRefs bool
	)

	cmd := &cobra.Command{
		Use:   "extract <model>",
		Short: "Extract declaration records from a metadata model snapshot",
		Long: `Extract renders every documented type and member of a metadata model
snapshot (.json, .yaml or .yml). Without --out or --store the payload is
written to stdout as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []pipeline.Option{
				pipeline.WithLogger(a.logger),
				pipeline.WithStrictOverloads(a.cfg.Resolver.StrictOverloads),
			}
			if store {
				db, err := a.openStorage()
				if err != nil {
					return err
				}
				defer db.Close()
				opts = append(opts, pipeline.WithStorage(db))
			}

			if !cmd.Flags().Changed("validate-refs") {
				validateRefs = a.cfg.Extract.ValidateReferences
			}

			result, err := pipeline.New(opts...).Run(cmd.Context(), pipeline.Request{
				ModelPath:          args[0],
				XMLDocs:            xmlDocs,
				OutputPath:         outPath,
				Store:              store,
				Workers:            a.cfg.Workers,
				ValidateReferences: validateRefs,
			})
			if err != nil {
				return err
			}

			if outPath == "" && !store {
				if err := output.Write(cmd.OutOrStdout(), result.Payload); err != nil {
					return err
				}
			}
			printSummary(cmd.ErrOrStderr(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&xmlDocs, "xml-docs", "", "XML documentation file to attach")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the payload as JSON to this file")
	cmd.Flags().BoolVar(&store, "store", false, "persist the payload to the database")
	cmd.Flags().BoolVar(&validateRefs, "validate-refs", false, "resolve every cref in the documentation")
	return cmd
}

func printSummary(w io.Writer, result *pipeline.Result) {
	ok := color.New(color.FgGreen, color.Bold).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	stats := result.Stats

	fmt.Fprintf(w, "%s %s: %s types, %s members in %d namespaces (%s)\n",
		ok("Extracted"),
		result.Payload.AssemblyFile,
		humanize.Comma(int64(stats.TypesEmitted)),
		humanize.Comma(int64(stats.MembersEmitted)),
		len(result.Payload.Declarations),
		result.Duration.Round(time.Millisecond))

	if result.Docs != nil {
		fmt.Fprintf(w, "  documentation: %d attached", result.Docs.Attached)
		if n := len(result.Docs.Unresolved); n > 0 {
			fmt.Fprintf(w, ", %s", warn(fmt.Sprintf("%d unresolved", n)))
		}
		fmt.Fprintln(w)
	}
	if stats.EntitiesFailed > 0 {
		fmt.Fprintf(w, "  %s\n", warn(fmt.Sprintf("%d entities failed to render", stats.EntitiesFailed)))
		for _, msg := range stats.ErrorMessages {
			fmt.Fprintf(w, "    %s\n", msg)
		}
	}
	if stats.UnresolvedReferences > 0 {
		fmt.Fprintf(w, "  %s\n", warn(fmt.Sprintf("%d references did not resolve", stats.UnresolvedReferences)))
	}
	if result.Program != nil {
		fmt.Fprintf(w, "  stored as program %d (run %s)\n", result.Program.ID, result.Program.RunID)
	}
}
