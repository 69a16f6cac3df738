package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aaronch12Ch/portafolio-sp/cmd"
	"github.com/aaronch12Ch/portafolio-sp/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cmd.ErrReported) {
			fmt.Fprintln(os.Stderr, tui.RenderError(err.Error()))
		}
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site server and project admin CLI",
	Long: `portfolio serves the portfolio landing page and manages its projects.

  portfolio serve              Run the web front
  portfolio login              Sign in to the projects backend
  portfolio projects list      List projects
  portfolio projects create    Create a project, optionally with a video
  portfolio sphere             Show the technology sphere

Configuration is read from the environment and an optional .env file.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(c *cobra.Command, args []string) {
		cmd.Setup()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cmd.ServeCmd)
	rootCmd.AddCommand(cmd.LoginCmd)
	rootCmd.AddCommand(cmd.LogoutCmd)
	rootCmd.AddCommand(cmd.WhoamiCmd)
	rootCmd.AddCommand(cmd.ProjectsCmd)
	rootCmd.AddCommand(cmd.VideoCmd)
	rootCmd.AddCommand(cmd.SphereCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(c *cobra.Command, args []string) {
		fmt.Printf("portfolio %s\n", version)
	},
}
