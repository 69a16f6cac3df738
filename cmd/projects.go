package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/aaronch12Ch/portafolio-sp/admin"
	"github.com/aaronch12Ch/portafolio-sp/assets"
	"github.com/aaronch12Ch/portafolio-sp/client"
	"github.com/aaronch12Ch/portafolio-sp/display"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/aaronch12Ch/portafolio-sp/pipeline"
	"github.com/aaronch12Ch/portafolio-sp/tui"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	listPublic bool

	projectTitle       string
	projectDescription string
	projectImage       string
	projectLink        string
	projectAvailable   bool
	projectVideo       string

	deleteYes bool

	browseViewport string
	browseNoPlay   bool
)

var ProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage portfolio projects",
	Long: `List, create, update and delete portfolio projects.

Every command except "projects list --public" and "projects browse" needs a
session with the ADMIN or JEFE role (see "portfolio login").
`,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the public listing as a carousel",
	Args:  cobra.NoArgs,
	RunE:  runProjectsBrowse,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Long: `Create a project from flags. Missing required fields are prompted for
when running in a terminal.

Example:
  portfolio projects create --title "Tienda" --description "E-commerce" \
    --image https://example.com/shot.png --link https://example.com --video demo.mp4
`,
	Args: cobra.NoArgs,
	RunE: runProjectsCreate,
}

var projectsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a project",
	Long: `Update the fields given as flags; the others keep their stored values.
The stored video is kept unless --video is given.
`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectsUpdate,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project and its video",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

func init() {
	ProjectsCmd.AddCommand(projectsListCmd, projectsBrowseCmd, projectsCreateCmd, projectsUpdateCmd, projectsDeleteCmd)

	projectsListCmd.Flags().BoolVar(&listPublic, "public", false, "List the public projects without signing in")

	projectsBrowseCmd.Flags().StringVar(&browseViewport, "viewport", "", "narrow or wide (defaults to the terminal width)")
	projectsBrowseCmd.Flags().BoolVar(&browseNoPlay, "no-autoplay", false, "Do not advance pages automatically")

	for _, c := range []*cobra.Command{projectsCreateCmd, projectsUpdateCmd} {
		c.Flags().StringVarP(&projectTitle, "title", "t", "", "Project title")
		c.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
		c.Flags().StringVar(&projectImage, "image", "", "Image URL (http or https)")
		c.Flags().StringVar(&projectLink, "link", "", "Project URL (http or https)")
		c.Flags().BoolVar(&projectAvailable, "available", true, "Whether the project link is shown")
		c.Flags().StringVar(&projectVideo, "video", "", "Path of a video file to upload")
	}

	projectsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	var projects []models.Project
	if listPublic {
		projects = client.New(settings).ListPublicProjects(cmd.Context())
	} else {
		shell, _ := newShell(nil)
		if err := shell.Mount(cmd.Context()); err != nil {
			return reported(err)
		}
		projects = shell.Projects()
	}

	if len(projects) == 0 {
		fmt.Println(tui.RenderInfo("No projects yet"))
		return nil
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].IDValue() < projects[j].IDValue() })
	fmt.Println(projectTable(projects))
	return nil
}

func projectTable(projects []models.Project) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tui.MutedStyle).
		Headers("ID", "TITLE", "AVAILABLE", "VIDEO", "LINK")
	for _, p := range projects {
		video := ""
		if p.HasVideo() {
			video = p.VideoKeyValue()
		}
		t.Row(
			strconv.FormatInt(p.IDValue(), 10),
			display.Truncate(p.Title, 32),
			strconv.FormatBool(p.Available),
			video,
			p.Link,
		)
	}
	return t.String()
}

func runProjectsBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	resolver, err := assets.New(ctx, settings)
	if err != nil {
		return err
	}

	projects := client.New(settings).ListPublicProjects(ctx)
	viewport := display.Wide
	if browseViewport != "" {
		viewport = display.ParseViewport(browseViewport)
	}
	autoplay := settings.CarouselAutoplay
	if browseNoPlay {
		autoplay = 0
	}
	return tui.RunCarousel(ctx, projects, display.Cards(ctx, projects, resolver), viewport, autoplay)
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	if err := promptMissingFields(); err != nil {
		return err
	}

	shell, _ := newShell(nil)
	if err := shell.Mount(cmd.Context()); err != nil {
		return reported(err)
	}
	form := shell.OpenCreate()
	if err := form.Edit(func(d *models.Draft) {
		d.Title = projectTitle
		d.Description = projectDescription
		d.ImageURL = projectImage
		d.Link = projectLink
		d.Available = projectAvailable
	}); err != nil {
		return err
	}
	return submit(cmd, shell, form)
}

func runProjectsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	shell, _ := newShell(nil)
	if err := shell.Mount(cmd.Context()); err != nil {
		return reported(err)
	}
	form, err := shell.OpenEdit(id)
	if err != nil {
		return reported(err)
	}

	flags := cmd.Flags()
	if err := form.Edit(func(d *models.Draft) {
		if flags.Changed("title") {
			d.Title = projectTitle
		}
		if flags.Changed("description") {
			d.Description = projectDescription
		}
		if flags.Changed("image") {
			d.ImageURL = projectImage
		}
		if flags.Changed("link") {
			d.Link = projectLink
		}
		if flags.Changed("available") {
			d.Available = projectAvailable
		}
	}); err != nil {
		return err
	}

	if key, ok := form.CurrentVideoNotice(); ok && projectVideo == "" {
		fmt.Println(tui.RenderInfo("Current video: " + key + " (kept)"))
	}
	return submit(cmd, shell, form)
}

// submit stages --video, if given, and runs the form through the shell.
func submit(cmd *cobra.Command, shell *admin.Shell, form *pipeline.Form) error {
	if projectVideo != "" {
		video, err := readVideo(projectVideo)
		if err != nil {
			return err
		}
		if err := form.StageVideo(video); err != nil {
			return err
		}
	}

	res, err := shell.Submit(cmd.Context())
	if err != nil {
		for field, msg := range form.FieldErrors() {
			fmt.Println(tui.MutedStyle.Render(fmt.Sprintf("  %s: %s", field, msg)))
		}
		if res.Outcome == pipeline.OutcomePartialSuccess && res.Project != nil {
			fmt.Println(tui.RenderInfo(fmt.Sprintf("Retry with: portfolio video upload %d %s", res.Project.IDValue(), projectVideo)))
		}
		return reported(err)
	}
	if res.Project != nil {
		fmt.Println(projectTable([]models.Project{*res.Project}))
	}
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var confirmer admin.Confirmer = tui.Confirmer{}
	if deleteYes {
		confirmer = admin.Always(true)
	}
	shell, _ := newShell(confirmer)
	if err := shell.Mount(cmd.Context()); err != nil {
		return reported(err)
	}

	deleted, err := shell.Delete(cmd.Context(), id)
	if err != nil {
		return reported(err)
	}
	if !deleted {
		fmt.Println(tui.RenderInfo("Nothing deleted"))
	}
	return nil
}

// promptMissingFields asks for empty required create flags when attached to a terminal.
func promptMissingFields() error {
	if !tui.IsTTY() {
		return nil
	}
	prompts := []struct {
		target  *string
		message string
	}{
		{&projectTitle, "Title:"},
		{&projectDescription, "Description:"},
		{&projectImage, "Image URL:"},
		{&projectLink, "Project URL:"},
	}
	for _, p := range prompts {
		if *p.target != "" {
			continue
		}
		if err := survey.AskOne(&survey.Input{Message: p.message}, p.target); err != nil {
			return fmt.Errorf("failed to read %s: %w", p.message, err)
		}
	}
	return nil
}
