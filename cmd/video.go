package cmd

import (
	"fmt"

	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/spf13/cobra"
)

var VideoCmd = &cobra.Command{
	Use:   "video",
	Short: "Manage project videos",
}

var videoUploadCmd = &cobra.Command{
	Use:   "upload <id> <file>",
	Short: "Upload or replace the video of a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		video, err := readVideo(args[1])
		if err != nil {
			return err
		}

		shell, _ := newShell(nil)
		p, err := shell.UploadVideo(cmd.Context(), id, video)
		if err != nil {
			return reported(err)
		}
		fmt.Println(projectTable([]models.Project{p}))
		return nil
	},
}

var videoDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove the video of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		shell, _ := newShell(nil)
		p, err := shell.DeleteVideo(cmd.Context(), id)
		if err != nil {
			return reported(err)
		}
		fmt.Println(projectTable([]models.Project{p}))
		return nil
	},
}

func init() {
	VideoCmd.AddCommand(videoUploadCmd, videoDeleteCmd)
}
