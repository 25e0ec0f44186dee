package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vertex/internal/domain/model"
	"vertex/internal/importer"
)

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <sheet> <question> <PENDING|SOLVED|REVISION>",
		Short: "Set the status of a question",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := model.ParseStatus(args[2])
			if err != nil {
				return err
			}
			return c.setStatus(cmd, args[0], args[1], status)
		},
	}
}

func (c *cli) setStatusCmd(use, short string, status model.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <sheet> <question>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.setStatus(cmd, args[0], args[1], status)
		},
	}
}

func (c *cli) setStatus(cmd *cobra.Command, sheetArg, questionArg string, status model.Status) error {
	tracker, sheet, q, err := c.target(cmd.Context(), sheetArg, questionArg)
	if err != nil {
		return err
	}
	if err := tracker.Sheets.ToggleStatus(cmd.Context(), sheet.ID, q.ID, status); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", q.Title, status)
	return nil
}

func (c *cli) bookmarkCmd() *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "bookmark <sheet> <question>",
		Short: "Bookmark a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, sheet, q, err := c.target(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := tracker.Sheets.ToggleBookmark(cmd.Context(), sheet.ID, q.ID, !off); err != nil {
				return err
			}
			if off {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed bookmark from %s\n", q.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s\n", q.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "remove the bookmark")
	return cmd
}

func (c *cli) noteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <sheet> <question> <text>",
		Short: "Replace the notes of a question (empty text clears them)",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, sheet, q, err := c.target(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			notes := strings.Join(args[2:], " ")
			if err := tracker.Sheets.UpdateNotes(cmd.Context(), sheet.ID, q.ID, notes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved notes for %s\n", q.Title)
			return nil
		},
	}
}

type detailFlags struct {
	title      string
	url        string
	topics     string
	difficulty string
}

func (f *detailFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "question title")
	cmd.Flags().StringVar(&f.url, "url", "", "problem link")
	cmd.Flags().StringVar(&f.topics, "topics", "", "comma-separated topics")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "", "difficulty label")
}

// apply overlays the flags the user actually set onto d.
func (f *detailFlags) apply(cmd *cobra.Command, d *model.QuestionDetails) {
	if cmd.Flags().Changed("title") {
		d.Title = f.title
	}
	if cmd.Flags().Changed("url") {
		d.URL = f.url
	}
	if cmd.Flags().Changed("topics") {
		d.Topics = importer.SplitTopics(f.topics)
	}
	if cmd.Flags().Changed("difficulty") {
		d.Difficulty = f.difficulty
	}
}

func (c *cli) addCmd() *cobra.Command {
	var (
		flags detailFlags
		at    int
	)
	cmd := &cobra.Command{
		Use:   "add <sheet>",
		Short: "Add a question to a sheet",
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

			details := model.QuestionDetails{
				Topics:     []string{model.DefaultTopic},
				Difficulty: model.DefaultDifficulty,
			}
			flags.apply(cmd, &details)
			if strings.TrimSpace(details.Title) == "" {
				return fmt.Errorf("--title is required")
			}

			var index *int
			if cmd.Flags().Changed("at") {
				i := at - 1
				index = &i
			}
			id, err := tracker.Sheets.AddQuestion(cmd.Context(), sheet.ID, details, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) to %s\n", details.Title, id, sheet.Title)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&at, "at", 0, "1-based row to insert at (default: append)")
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var flags detailFlags
	cmd := &cobra.Command{
		Use:   "edit <sheet> <question>",
		Short: "Edit the title, link, topics or difficulty of a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, sheet, q, err := c.target(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			details := q.Details()
			flags.apply(cmd, &details)
			if err := tracker.Sheets.UpdateQuestionDetails(cmd.Context(), sheet.ID, q.ID, details); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", details.Title)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <sheet> <question>",
		Short: "Remove a question from a sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, sheet, q, err := c.target(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := tracker.Sheets.DeleteQuestion(cmd.Context(), sheet.ID, q.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", q.Title, sheet.Title)
			return nil
		},
	}
}

func (c *cli) enrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich <sheet>",
		Short: "Fill in difficulty and topics from LeetCode",
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
			res, err := tracker.Enricher.EnrichSheet(cmd.Context(), sheet.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d updated, %d unchanged, %d failed\n",
				sheet.Title, res.Updated, res.Skipped, res.Failed)
			return nil
		},
	}
}
