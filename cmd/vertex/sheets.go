package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vertex/internal/domain/model"
	"vertex/internal/importer"
	"vertex/internal/usecase"
)

func (c *cli) importCmd() *cobra.Command {
	var (
		title  string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a sheet from an .xlsx, .csv, .tsv or .html file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := importer.Import(f, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			if strings.TrimSpace(title) != "" {
				res.Title = strings.TrimSpace(title)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d questions from %s\n", res.Title, len(res.Questions), res.Format)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTitle\tDifficulty\tTopics\tURL")
			for i, q := range res.Preview() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, q.Title, q.Difficulty, strings.Join(q.Topics, ", "), q.URL)
			}
			w.Flush()
			if dryRun {
				return nil
			}

			tracker, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			created := tracker.Sheets.CreateSheet(cmd.Context(), usecase.CreateSheetInput{
				Title:     res.Title,
				Questions: res.Questions,
			})
			if !created.Success {
				return fmt.Errorf("import %s: %s", args[0], created.Error)
			}
			fmt.Fprintf(out, "Created sheet %s\n", created.SheetID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "sheet title (default: file name)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only show the mapped preview")
	return cmd
}

func (c *cli) sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "List your sheets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			sheets := tracker.Sheets.GetSheets(cmd.Context())
			out := cmd.OutOrStdout()
			if len(sheets) == 0 {
				fmt.Fprintln(out, "No sheets yet. Try `vertex import <file>`.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tID\tTitle\tSolved\tProgress\tCreated")
			for i, s := range sheets {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d\t%d%%\t%s\n",
					i+1, s.ID, s.Title, s.SolvedQuestions, s.TotalQuestions, s.Percent(), s.CreatedAt.Local().Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	var filter model.DetailFilter
	cmd := &cobra.Command{
		Use:   "show <sheet>",
		Short: "Show the questions of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			sheet, err := resolveSheet(cmd.Context(), tracker, args[0])
			if err != nil {
				return err
			}
			detail, err := tracker.Dashboard.SheetDetail(cmd.Context(), sheet.ID, filter)
			if err != nil {
				return err
			}
			if detail == nil {
				return model.ErrSheetNotFound
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %d/%d solved (%d%%)\n\n",
				detail.Sheet.Title, detail.Sheet.SolvedQuestions, detail.Sheet.TotalQuestions, detail.Percent)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tStatus\t\tTitle\tDifficulty\tTopics")
			for _, row := range detail.Rows {
				q := row.Question
				if row.IsHeader {
					fmt.Fprintf(w, "%d\t\t\t== %s ==\t\t\n", row.Index, q.Title)
					continue
				}
				mark := ""
				if q.IsBookmarked {
					mark = "★"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					row.Index, q.Status, mark, q.Title, q.Difficulty, strings.Join(q.Topics, ", "))
			}
			if len(detail.Rows) == 0 {
				fmt.Fprintln(w, "\t\t\tno matching questions\t\t")
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "filter by title substring")
	cmd.Flags().StringVar(&filter.Status, "status", "ALL", "filter by status (ALL, PENDING, SOLVED, REVISION)")
	return cmd
}

func (c *cli) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <sheet> <title>",
		Short: "Rename a sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			sheet, err := resolveSheet(cmd.Context(), tracker, args[0])
			if err != nil {
				return err
			}
			if err := tracker.Sheets.UpdateSheetTitle(cmd.Context(), sheet.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", sheet.Title, args[1])
			return nil
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete <sheet>",
		Short: "Delete a sheet and all of its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			sheet, err := resolveSheet(cmd.Context(), tracker, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "Delete %q and its %d questions? (y/N): ", sheet.Title, sheet.TotalQuestions)
				input, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				input = strings.TrimSpace(strings.ToLower(input))
				if input != "y" && input != "yes" {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			if err := tracker.Sheets.DeleteSheet(cmd.Context(), sheet.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %q\n", sheet.Title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
