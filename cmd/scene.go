package cmd

import (
	"bytes"
	"fmt"

	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/scene/preset"
	"github.com/aezaqiel/Silmaril/scene/reader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	closeLog, err := setupLogging(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description"})
	for _, p := range preset.List() {
		table.Append([]string{p.Name, p.Description})
	}
	table.Render()

	logger.Noticef("built-in scenes\n%s", buf.String())
	return nil
}

// Load the scene file passed as an argument or fall back to the preset
// selected by the scene flag.
func loadScene(ctx *cli.Context, frameW, frameH uint32) (*scene.Scene, error) {
	switch ctx.NArg() {
	case 0:
		name := ctx.String("scene")
		logger.Noticef("building built-in scene %q", name)
		return preset.Build(name, frameW, frameH)
	case 1:
		return reader.ReadScene(ctx.Args().First(), frameW, frameH)
	}
	return nil, fmt.Errorf("expected at most 1 scene file argument; got %d", ctx.NArg())
}
