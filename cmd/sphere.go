package cmd

import (
	"github.com/aaronch12Ch/portafolio-sp/sphere"
	"github.com/aaronch12Ch/portafolio-sp/tui"
	"github.com/spf13/cobra"
)

var sphereFPS int

var SphereCmd = &cobra.Command{
	Use:   "sphere",
	Short: "Show the rotating technology sphere",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.RunSphere(cmd.Context(), sphere.DefaultLabels, sphereFPS)
	},
}

func init() {
	SphereCmd.Flags().IntVar(&sphereFPS, "fps", 30, "Frames per second")
}
