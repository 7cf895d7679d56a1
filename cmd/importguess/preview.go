package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/guess"
)

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Match headers and guess column types of a file",
		Long: `Read the first rows of a CSV or XLSX file, match its headers to the
fields of --model and print the types each column could be imported as,
together with the date and number formats found.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(cmd, "preview", previewFlags...); err != nil {
				return err
			}
			return bindFlags(cmd, "preview", "json")
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
			resp, err := svc.ParsePreview(ctx, id, previewOptions())
			if err != nil {
				return errors.New(core.FormatUserError(err))
			}

			out := cmd.OutOrStdout()
			if viper.GetBool("preview.json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			if resp.Error != "" {
				fmt.Fprintln(out, resp.RawPreview)
				return errors.New(resp.Error)
			}
			return writePreview(out, resp)
		},
	}

	addPreviewFlags(cmd)
	cmd.Flags().Bool("json", false, "print the full preview as JSON")
	return cmd
}

func writePreview(out io.Writer, resp *core.PreviewResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCOLUMN\tFIELD\tTYPES\tFORMAT")
	for i, header := range resp.Headers {
		field := "-"
		if path, ok := resp.Matches[i]; ok {
			field = strings.Join(path, "/")
		}
		var types []string
		if i < len(resp.HeaderTypes) {
			for _, t := range resp.HeaderTypes[i] {
				types = append(types, string(t))
			}
		}
		format := ""
		if i < len(resp.ColumnOptions) {
			format = describeFormat(resp.ColumnOptions[i])
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, header, field, strings.Join(types, ","), format)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(resp.Preview) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(resp.Headers, "\t"))
	for _, row := range resp.Preview {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// describeFormat renders the learned formats of one column.
func describeFormat(o guess.Options) string {
	var parts []string
	if o.DateFormat != "" {
		parts = append(parts, "date="+o.DateFormat)
	}
	if o.DatetimeFormat != "" {
		parts = append(parts, "datetime="+o.DatetimeFormat)
	}
	if o.FloatThousandSeparator != "" || o.FloatDecimalSeparator != "" {
		parts = append(parts, fmt.Sprintf("thousands=%q decimal=%q", o.FloatThousandSeparator, o.FloatDecimalSeparator))
	}
	return strings.Join(parts, " ")
}
