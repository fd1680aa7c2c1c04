package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/aezaqiel/Silmaril/renderer"
	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	closeLog, err := setupLogging(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	if info, err := probeHost(); err == nil {
		logger.Infof("host: %s, %d logical cores, %s memory", info.cpuModel, info.logicalCPUs, formatBytes(info.totalMem))
	}

	// Load scene
	sc, err := loadScene(ctx, opts.FrameW, opts.FrameH)
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewCPU(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	// Cancel the render on the first interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			logger.Warning("interrupted; cancelling render")
			r.Cancel()
		case <-done:
		}
	}()

	err = r.Render()
	if err != nil && !errors.Is(err, renderer.ErrInterrupted) {
		return err
	}

	// Display stats
	logger.Noticef("frame statistics\n%s", formatFrameStats(r.Stats()))
	if err == nil && opts.Output != "" {
		logger.Noticef("wrote frame to %s", opts.Output)
	}

	return err
}

// Map render flags to renderer options.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	var opts renderer.Options

	if ctx.Int("width") <= 0 || ctx.Int("height") <= 0 {
		return opts, fmt.Errorf("invalid frame dimensions %dx%d", ctx.Int("width"), ctx.Int("height"))
	}
	if ctx.Int("spp") < 0 || ctx.Int("tile") < 0 {
		return opts, errors.New("spp and tile size must not be negative")
	}

	smpKind, err := sampler.ParseKind(ctx.String("sampler"))
	if err != nil {
		return opts, err
	}
	tileOrder, err := tracer.ParseTileOrder(ctx.String("tile-order"))
	if err != nil {
		return opts, err
	}

	opts = renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		MaxDepth:        ctx.Int("depth"),
		TileSize:        uint32(ctx.Int("tile")),
		Workers:         ctx.Int("workers"),
		Progressive:     ctx.Bool("progressive"),
		Jitter:          !ctx.Bool("no-jitter"),
		Sampler:         smpKind,
		TileOrder:       tileOrder,
		Output:          ctx.String("out"),
	}
	return opts, opts.Validate()
}

func formatFrameStats(stats renderer.FrameStats) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Render time", "% of frame"})
	for index, elapsed := range stats.Passes {
		var percent float64
		if stats.RenderTime > 0 {
			percent = 100 * float64(elapsed) / float64(stats.RenderTime)
		}
		table.Append([]string{
			fmt.Sprintf("%d", index+1),
			elapsed.String(),
			fmt.Sprintf("%02.1f %%", percent),
		})
	}
	table.SetFooter([]string{"TOTAL", stats.RenderTime.String(), ""})
	table.Render()

	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "SPP", "Workers", "Tiles", "Primary rays", "Shadow rays", "Indirect rays", "Rays/sec"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.FrameW, stats.FrameH),
		fmt.Sprintf("%d", stats.SamplesPerPixel),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d", stats.Tiles),
		fmt.Sprintf("%d", stats.PrimaryRays),
		fmt.Sprintf("%d", stats.ShadowRays),
		fmt.Sprintf("%d", stats.IndirectRays),
		fmt.Sprintf("%.0f", stats.RaysPerSecond()),
	})
	table.Render()

	return buf.String()
}
