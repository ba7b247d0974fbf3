package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage lists of files",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "ls",
			Short: "Show lists owned by the authenticated user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				lists, err := a.pd.Lists.All(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tFILES\tCREATED\tTITLE")
				for _, l := range lists {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", l.ID, l.FileCount, l.DateCreated.Format("2006-01-02"), l.Title)
				}

				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "info <id>",
			Short: "Show a list and its files",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := a.pd.Lists.Info(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%d files)\n", list.Title, len(list.Files))

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, f := range list.Files {
					fmt.Fprintf(w, "%s\t%d\t%s\n", f.ID, f.Size, f.Name)
				}

				return w.Flush()
			},
		},
		newListWriteCmd(a, "create <title> [file-id]...", "Create a list", 1),
		newListWriteCmd(a, "update <id> <title> [file-id]...", "Replace a list's title and files", 2),
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.pd.Lists.Delete(cmd.Context(), args[0])
			},
		},
	)

	return cmd
}

// newListWriteCmd builds create and update, which differ only in
// whether a list id precedes the title.
func newListWriteCmd(a *app, use, short string, fixed int) *cobra.Command {
	var anonymous bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(fixed),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args[fixed:]

			if fixed == 1 {
				id, err := a.pd.Lists.Create(cmd.Context(), args[0], files, anonymous)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\thttps://pixeldrain.com/l/%s\n", id, id)
				return nil
			}

			return a.pd.Lists.Update(cmd.Context(), args[0], args[1], files, anonymous)
		},
	}

	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Do not link the list to the account")

	return cmd
}
