package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/csdocs/internal/storage"
)

// newStatusCommand creates the status command
func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [assembly]",
		Short: "Show extracted programs and their statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStorage()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			title := color.New(color.FgCyan, color.Bold).SprintFunc()

			if len(args) == 0 {
				programs, err := db.ListPrograms(ctx)
				if err != nil {
					return err
				}
				if len(programs) == 0 {
					fmt.Fprintln(out, "No programs extracted.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, title("ASSEMBLY")+"\t"+title("TYPES")+"\t"+title("DECLARATIONS")+"\t"+title("EXTRACTED"))
				for _, p := range programs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.AssemblyFile,
						humanize.Comma(int64(p.TotalTypes)),
						humanize.Comma(int64(p.TotalDeclarations)),
						humanize.Time(p.LastExtractedAt))
				}
				return tw.Flush()
			}

			program, err := db.GetProgram(ctx, args[0])
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintf(out, "%s has not been extracted.\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			status, err := db.GetStatus(ctx, program.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s %s\n", title("Assembly:"), program.AssemblyFile)
			fmt.Fprintf(out, "%s %s (%s)\n", title("Last run:"), program.RunID, humanize.Time(program.LastExtractedAt))
			fmt.Fprintf(out, "%s %s types, %s members, %d namespaces\n", title("Declarations:"),
				humanize.Comma(int64(status.TypesCount)),
				humanize.Comma(int64(status.MembersCount)),
				status.NamespacesCount)
			fmt.Fprintf(out, "%s %s (schema %s)\n", title("Database:"),
				humanize.Bytes(uint64(status.DatabaseSizeBytes)), program.SchemaVersion)
			fmt.Fprintf(out, "%s accessible=%t fts=%t\n", title("Health:"),
				status.Health.DatabaseAccessible, status.Health.FTSIndexesBuilt)
			return nil
		},
	}
}
