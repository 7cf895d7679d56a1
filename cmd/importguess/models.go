package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/importguess/internal/core"
)

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List importable models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := core.NewService(defaultImportConfig(), core.Dependencies{})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tLABEL")
			for _, m := range svc.ListModels() {
				fmt.Fprintf(w, "%s\t%s\n", m.Key, m.Label)
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(fieldsCmd())
	return cmd
}

func fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <model>",
		Short: "Show the importable field tree of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := core.NewService(defaultImportConfig(), core.Dependencies{})
			fields, err := svc.ModelFields(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tLABEL\tTYPE\tREQUIRED")
			writeFields(w, fields, 0)
			return w.Flush()
		},
	}
}

func writeFields(w io.Writer, fields []core.Field, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		typ := string(f.Type)
		if f.Relation != "" {
			typ += " (" + f.Relation + ")"
		}
		required := ""
		if f.Required {
			required = "yes"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", indent, f.ID, f.Label, typ, required)
		writeFields(w, f.Fields, depth+1)
	}
}
