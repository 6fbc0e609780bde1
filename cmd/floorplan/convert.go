package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"floorplan/internal/editor/project"
	"floorplan/internal/editor/svgexport"
	"floorplan/internal/editor/svgimport"

	"github.com/spf13/cobra"
)

var (
	importOutput  string
	importName    string
	importScale   float64
	importOffsetX float64
	importOffsetY float64

	exportOutput string
)

var importCmd = &cobra.Command{
	Use:   "import-svg [plan.svg]",
	Short: "Convert an SVG floor plan into a project file",
	Long: `Walls (ids Wall_*) become centerline walls, Door_* and Window_* become
openings, rooms and balconies become floor zones. Unknown elements are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export-svg [project.json]",
	Short: "Render a project file as SVG",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output project file (default: input name with .json)")
	importCmd.Flags().StringVar(&importName, "name", "", "Project name (default: input file name)")
	importCmd.Flags().Float64Var(&importScale, "scale", 1, "Scale applied to SVG coordinates")
	importCmd.Flags().Float64Var(&importOffsetX, "offset-x", 0, "X offset applied after scaling")
	importCmd.Flags().Float64Var(&importOffsetY, "offset-y", 0, "Y offset applied after scaling")

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output SVG file (default: stdout)")

	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	src := args[0]
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open svg: %w", err)
	}
	defer f.Close()

	res, err := svgimport.Import(f, svgimport.Options{Scale: importScale, OffsetX: importOffsetX, OffsetY: importOffsetY})
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := importName
	if name == "" {
		name = base
	}
	dst := importOutput
	if dst == "" {
		dst = filepath.Join(filepath.Dir(src), base+".json")
	}

	if err := project.Save(dst, project.New(name), res.Entities); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %s -> %s\n", src, dst)
	fmt.Fprintf(out, "  Walls: %d, Openings: %d, Zones: %d\n", res.Walls, res.Openings, res.Zones)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(out, "  Skipped: %s\n", strings.Join(res.Skipped, ", "))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	_, entities, err := project.Load(args[0])
	if err != nil {
		return err
	}
	svg := svgexport.Render(entities)

	if exportOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), svg)
		return err
	}
	if err := os.WriteFile(exportOutput, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entities -> %s\n", len(entities), exportOutput)
	return nil
}
