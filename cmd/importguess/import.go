package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/importguess/internal/core"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a file into a model",
		Long: `Preview the file to learn its formats, then convert and load every row.
Columns go to the fields given with --fields, in file order; without it the
matched fields from the preview are used. Nothing is loaded when any cell
fails to convert.`,
		Example: `  importguess import contacts.csv --model res.partner
  importguess import contacts.csv --fields "name,,email,country_id" --dry-run`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(cmd, "preview", previewFlags...); err != nil {
				return err
			}
			return bindFlags(cmd, "import", "fields", "dry-run")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := newService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := openSession(ctx, svc, viper.GetString("preview.model"), args[0])
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.DeleteSession(ctx, id); err != nil {
					cmd.PrintErrln("warning: could not delete session:", err)
				}
			}()

			resp, err := svc.ParsePreview(ctx, id, previewOptions())
			if err != nil {
				return errors.New(core.FormatUserError(err))
			}
			if resp.Error != "" {
				return errors.New(resp.Error)
			}

			fields := fieldsFromMatches(resp.Headers, resp.Matches)
			if list := viper.GetString("import.fields"); list != "" {
				fields = parseFieldList(list)
			}

			dryRun := viper.GetBool("import.dry_run")
			result, err := svc.Execute(ctx, id, fields, resp.Headers, dryRun)
			if err != nil {
				return errors.New(core.FormatUserError(err))
			}

			out := cmd.OutOrStdout()
			if err := writeResult(out, result); err != nil {
				return err
			}
			if result.HasErrors() {
				return fmt.Errorf("import failed with %d errors", result.ErrorCount())
			}
			return nil
		},
	}

	addPreviewFlags(cmd)
	cmd.Flags().String("fields", "", "comma-separated field paths per column; empty entries skip a column")
	cmd.Flags().Bool("dry-run", false, "validate without committing")
	return cmd
}

func writeResult(out io.Writer, result *core.ImportResult) error {
	if !result.HasErrors() {
		verb := "imported"
		if result.DryRun {
			verb = "validated"
		}
		fmt.Fprintf(out, "%d rows %s\n", result.Rows, verb)
	}
	if len(result.Messages) == 0 {
		return nil
	}

	msgs := make([]core.Message, len(result.Messages))
	copy(msgs, result.Messages)
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Line < msgs[j].Line })

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tTYPE\tFIELD\tMESSAGE")
	for _, m := range msgs {
		line := "-"
		if m.Line > 0 {
			line = fmt.Sprint(m.Line)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", line, m.Type, m.Field, m.Message)
	}
	return w.Flush()
}
