package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gtmd/internal/models"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(&c.flags)
		},
	}
}

func (c *cli) commitsCmd() *cobra.Command {
	var from, to, message string
	cmd := &cobra.Command{
		Use:   "commits",
		Short: "Print annotated commits as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := models.ParseDateFilter(from, to, message)
			if err != nil {
				return err
			}
			service, err := c.newService(&c.flags)
			if err != nil {
				return err
			}
			result, err := service.RefreshCommits()
			if err != nil {
				return err
			}
			if result.Skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d undecodable notes\n", result.Skipped)
			}
			commits := service.GetCommits(filter)
			if commits == nil {
				commits = []models.Commit{}
			}
			return c.printJSON(commits)
		},
	}
	bindFilterFlags(cmd.Flags(), &from, &to, &message)
	return cmd
}

func bindFilterFlags(fs *pflag.FlagSet, from, to, message *string) {
	fs.StringVar(from, "from", "", "first day to include, YYYY-MM-DD")
	fs.StringVar(to, "to", "", "last day to include, YYYY-MM-DD")
	fs.StringVar(message, "message", "", "case-insensitive commit message filter")
}

func (c *cli) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List registered projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := c.newService(&c.flags)
			if err != nil {
				return err
			}
			for _, project := range service.GetProjects() {
				fmt.Fprintln(c.out, project)
			}
			return nil
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show time not yet committed per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := c.newService(&c.flags)
			if err != nil {
				return err
			}
			if err := service.RefreshStatus(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			status := service.GetStatus()
			for _, project := range service.GetProjects() {
				st, ok := status[project]
				if !ok {
					continue
				}
				fmt.Fprintf(c.out, "%s %s\n", labelStyle.Render(project+":"), st.Label)
			}
			return nil
		},
	}
}

func (c *cli) recordCmd() *cobra.Command {
	var (
		project string
		file    string
		at      int64
	)
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a file activity event in the project event directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if at == 0 {
				at = time.Now().Unix()
			}
			service, err := c.newService(&c.flags)
			if err != nil {
				return err
			}
			if err := service.AddEvent(project, models.FileEvent{Timestamp: at, Path: file}); err != nil {
				return err
			}
			written, err := service.AggregateEvents()
			if err != nil {
				return err
			}
			if written == 0 {
				return errors.New("event was not written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project key")
	cmd.Flags().StringVar(&file, "file", "", "file path relative to the project root")
	cmd.Flags().Int64Var(&at, "at", 0, "unix timestamp of the event, defaults to now")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode annotation text to JSON, reading stdin without a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(c.in)
			}
			if err != nil {
				return err
			}
			record, err := models.DecodeNote(string(data))
			if err != nil {
				return err
			}
			return c.printJSON(record)
		},
	}
}

func (c *cli) noteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <project> <commit>",
		Short: "Print the decoded time annotation of one commit as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := c.newService(&c.flags)
			if err != nil {
				return err
			}
			record, err := service.GetNote(args[0], args[1])
			if err != nil {
				return err
			}
			return c.printJSON(record)
		},
	}
}

func (c *cli) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(data))
	return err
}
