package main

import (
	"fmt"
	"strings"

	"floorplan/internal/editor/project"
	"floorplan/internal/editor/scene"

	"github.com/spf13/cobra"
)

var templateOutput string

var templateCmd = &cobra.Command{
	Use:   "template [name]",
	Short: "Write an apartment template as a project file",
	Long:  "Without a name the available templates are listed.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplate,
}

func init() {
	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "Output project file (default: <name>.json)")
	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintln(out, strings.Join(scene.TemplateNames(), "\n"))
		return nil
	}

	name := args[0]
	walls, err := scene.TemplateWalls(name)
	if err != nil {
		return err
	}
	dst := templateOutput
	if dst == "" {
		dst = name + ".json"
	}
	if err := project.Save(dst, project.New(name), walls); err != nil {
		return err
	}
	fmt.Fprintf(out, "Template %s (%d walls) -> %s\n", name, len(walls), dst)
	return nil
}
