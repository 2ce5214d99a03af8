package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gtmd/internal/di"
	"gtmd/internal/services"
	"gtmd/internal/structures"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

type cli struct {
	flags      structures.CliFlags
	out        io.Writer
	in         io.Reader
	newService func(*structures.CliFlags) (services.TimeServiceInterface, error)
	serve      func(*structures.CliFlags) error
}

func main() {
	c := &cli{
		out:        os.Stdout,
		in:         os.Stdin,
		newService: di.InitTimeService,
		serve: func(flags *structures.CliFlags) error {
			_, err := di.InitApp(flags)
			return err
		},
	}
	if err := c.rootCmd().Execute(); err != nil {
		renderError(os.Stderr, err)
		os.Exit(1)
	}
}

func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error:")+" "+err.Error())
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gtmd",
		Short:         "Git time metric daemon",
		Long:          "gtmd attributes editing time to files and serves time annotations stored in git notes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&c.flags.ConfigPath, "config", "c", "config.yml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&c.flags.DebugMode, "debug", "d", false, "mirror logs to stderr")

	root.AddCommand(c.serveCmd())
	root.AddCommand(c.commitsCmd())
	root.AddCommand(c.projectsCmd())
	root.AddCommand(c.statusCmd())
	root.AddCommand(c.recordCmd())
	root.AddCommand(c.decodeCmd())
	root.AddCommand(c.noteCmd())
	return root
}
