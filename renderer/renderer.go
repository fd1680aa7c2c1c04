package renderer

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/aezaqiel/Silmaril/film"
	"github.com/aezaqiel/Silmaril/log"
	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/tracer"
	"github.com/aezaqiel/Silmaril/tracer/integrator"
)

type Renderer interface {
	// Render frame.
	Render() error

	// Stop an in-progress render. Render returns ErrInterrupted.
	Cancel()

	// Shutdown renderer and its workers.
	Close()

	// Get the rendered frame.
	Frame() *film.Film

	// Get render statistics.
	Stats() FrameStats
}

// A renderer that traces tiles on a pool of worker goroutines.
type cpuRenderer struct {
	logger log.Logger

	options Options
	scene   *scene.Scene

	jobs       *tracer.JobSystem
	film       *film.Film
	integrator *integrator.PathIntegrator

	completedTiles atomic.Int64
}

// Create a CPU renderer for a built scene. The renderer owns its worker pool
// until Close is invoked.
func NewCPU(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	smp, err := sampler.New(opts.Sampler, opts.SamplesPerPixel, opts.Jitter)
	if err != nil {
		return nil, err
	}
	if spp := smp.SamplesPerPixel(); spp != opts.SamplesPerPixel {
		log.New("renderer").Noticef("using %d samples per pixel instead of %d", spp, opts.SamplesPerPixel)
		opts.SamplesPerPixel = spp
	}

	r := &cpuRenderer{
		logger:  log.New("renderer"),
		options: opts,
		scene:   sc,
		jobs:    tracer.NewJobSystem(),
		film:    film.New(opts.FrameW, opts.FrameH),
	}
	r.jobs.Init(opts.Workers)

	r.integrator = integrator.New(
		integrator.Config{
			Width:       opts.FrameW,
			Height:      opts.FrameH,
			MaxDepth:    opts.MaxDepth,
			TileSize:    opts.TileSize,
			Progressive: opts.Progressive,
			Output:      opts.Output,
			TileOrder:   opts.TileOrder,
		},
		sc.Camera, smp, r.film, r.jobs,
	)
	r.integrator.OnTileComplete = r.onTileComplete
	r.integrator.OnPassComplete = r.onPassComplete

	r.logger.Infof("initialized %d workers", r.jobs.Workers())
	return r, nil
}

func (r *cpuRenderer) Render() error {
	r.completedTiles.Store(0)

	err := r.integrator.Render(r.scene)
	if errors.Is(err, integrator.ErrCancelled) {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return err
}

func (r *cpuRenderer) Cancel() {
	r.integrator.Cancel()
}

func (r *cpuRenderer) Close() {
	if r.jobs != nil {
		r.jobs.Shutdown()
	}
}

func (r *cpuRenderer) Frame() *film.Film {
	return r.film
}

func (r *cpuRenderer) Stats() FrameStats {
	stats := r.integrator.Stats()
	return FrameStats{
		FrameW:          r.options.FrameW,
		FrameH:          r.options.FrameH,
		SamplesPerPixel: r.options.SamplesPerPixel,
		Workers:         r.jobs.Workers(),
		Tiles:           stats.Tiles,
		Passes:          stats.Passes,
		PrimaryRays:     stats.PrimaryRays,
		ShadowRays:      stats.ShadowRays,
		IndirectRays:    stats.IndirectRays,
		RenderTime:      stats.RenderTime,
	}
}

func (r *cpuRenderer) onTileComplete(x, y, w, h int) {
	done := r.completedTiles.Add(1)
	r.logger.Debugf("tile [%d, %d, %d, %d] done (%d completed)", x, y, w, h, done)
}

func (r *cpuRenderer) onPassComplete(pass, total int) {
	r.completedTiles.Store(0)
	r.logger.Infof("pass %d/%d complete", pass, total)
}
