package integrator

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aezaqiel/Silmaril/film"
	"github.com/aezaqiel/Silmaril/log"
	"github.com/aezaqiel/Silmaril/sampler"
	"github.com/aezaqiel/Silmaril/scene"
	"github.com/aezaqiel/Silmaril/tracer"
	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

const (
	// Russian roulette is applied to paths deeper than this.
	rouletteDepth = 3

	// Lower bound of the termination probability.
	minRouletteQ float32 = 0.05
)

var ErrCancelled = errors.New("integrator: render cancelled")

// Integrator configuration.
type Config struct {
	Width  uint32
	Height uint32

	MaxDepth int
	TileSize uint32

	// Render one sample per pixel per pass and accumulate passes into the
	// film instead of rendering the full sample budget per tile.
	Progressive bool

	// Optional output image path.
	Output string

	TileOrder tracer.TileOrder
}

// PathIntegrator is a unidirectional path tracer with next event estimation.
// Light and BSDF sampling are combined with multiple importance sampling.
type PathIntegrator struct {
	logger log.Logger

	cfg       Config
	camera    scene.Camera
	sampler   sampler.Sampler
	film      *film.Film
	jobs      *tracer.JobSystem
	scheduler tracer.TileScheduler

	// Invoked on the worker goroutine after a tile completes.
	OnTileComplete func(x, y, w, h int)

	// Invoked after each pass of a progressive render.
	OnPassComplete func(pass, total int)

	state     atomic.Uint32
	cancelled atomic.Bool

	statsMutex sync.Mutex
	stats      Stats
}

// Create a new path integrator. The sampler is used as a template and cloned
// for each tile job; the job system must already be initialized.
func New(cfg Config, camera scene.Camera, smp sampler.Sampler, fb *film.Film, jobs *tracer.JobSystem) *PathIntegrator {
	return &PathIntegrator{
		logger:    log.New("integrator"),
		cfg:       cfg,
		camera:    camera,
		sampler:   smp,
		film:      fb,
		jobs:      jobs,
		scheduler: tracer.NewTileScheduler(cfg.TileOrder),
	}
}

// Get the current render state.
func (p *PathIntegrator) State() State {
	return State(p.state.Load())
}

func (p *PathIntegrator) setState(s State) {
	p.state.Store(uint32(s))
}

// Request the running render to stop. Tiles that have already been
// dispatched run to completion.
func (p *PathIntegrator) Cancel() {
	p.cancelled.Store(true)
}

// Get a snapshot of the render statistics.
func (p *PathIntegrator) Stats() Stats {
	p.statsMutex.Lock()
	defer p.statsMutex.Unlock()

	out := p.stats
	out.Passes = append([]time.Duration(nil), p.stats.Passes...)
	return out
}

// Render the scene into the film and write the output image if one is
// configured.
func (p *PathIntegrator) Render(sc *scene.Scene) error {
	p.cancelled.Store(false)
	if p.camera == nil {
		p.camera = sc.Camera
	}

	p.setState(Tiling)
	tiles := tracer.PartitionTiles(p.cfg.Width, p.cfg.Height, p.cfg.TileSize)
	spp := p.sampler.SamplesPerPixel()

	p.statsMutex.Lock()
	p.stats = Stats{Tiles: len(tiles)}
	p.statsMutex.Unlock()

	p.logger.Infof("rendering %dx%d with %d spp, %d tiles of %d px", p.cfg.Width, p.cfg.Height, spp, len(tiles), p.cfg.TileSize)
	start := time.Now()

	passes := uint32(1)
	if p.cfg.Progressive {
		passes = spp
	}

	for pass := uint32(0); pass < passes; pass++ {
		if p.cancelled.Load() {
			return p.cancel()
		}

		passStart := time.Now()
		p.setState(Dispatching)
		for _, tile := range p.scheduler.Schedule(tiles) {
			// Progressive passes are only interrupted between passes
			if !p.cfg.Progressive && p.cancelled.Load() {
				break
			}
			if err := p.jobs.Execute(p.tileJob(tile, sc, pass)); err != nil {
				p.jobs.Sync()
				return fmt.Errorf("integrator: could not dispatch %s: %w", tile, err)
			}
		}

		p.setState(Waiting)
		if err := p.jobs.Sync(); err != nil {
			return fmt.Errorf("integrator: pass %d failed: %w", pass, err)
		}
		if !p.cfg.Progressive && p.cancelled.Load() {
			return p.cancel()
		}

		p.statsMutex.Lock()
		p.stats.Passes = append(p.stats.Passes, time.Since(passStart))
		p.statsMutex.Unlock()

		if p.OnPassComplete != nil {
			p.OnPassComplete(int(pass+1), int(passes))
		}
	}

	p.statsMutex.Lock()
	p.stats.RenderTime = time.Since(start)
	p.statsMutex.Unlock()

	p.setState(Writing)
	if p.cfg.Output != "" {
		if err := p.film.Write(p.cfg.Output); err != nil {
			return err
		}
		p.logger.Noticef("wrote %s", p.cfg.Output)
	}

	p.setState(Done)
	return nil
}

func (p *PathIntegrator) cancel() error {
	p.setState(Cancelled)
	p.logger.Warning("in-progress render cancelled")
	return ErrCancelled
}

func (p *PathIntegrator) tileJob(tile tracer.Tile, sc *scene.Scene, sampleIndex uint32) func() error {
	return func() error {
		start := time.Now()
		p.RenderTile(tile, sc, sampleIndex)
		p.scheduler.Feedback(tile, time.Since(start))

		if p.OnTileComplete != nil {
			p.OnTileComplete(int(tile.X), int(tile.Y), int(tile.W), int(tile.H))
		}
		return nil
	}
}

// Render a tile. Progressive renders trace sample sampleIndex of each pixel
// and fold it into the film's running mean; otherwise the full sample budget
// is traced and the pixel average is stored.
func (p *PathIntegrator) RenderTile(tile tracer.Tile, sc *scene.Scene, sampleIndex uint32) {
	smp := p.sampler.Clone()
	spp := smp.SamplesPerPixel()

	var counters rayCounters
	for y := tile.Y; y < tile.Y+tile.H; y++ {
		for x := tile.X; x < tile.X+tile.W; x++ {
			if p.cfg.Progressive {
				L := p.samplePixel(x, y, sampleIndex, sc, smp, &counters)
				p.film.AccumulateSample(x, y, L, sampleIndex)
				continue
			}

			var sum types.Vec3
			for s := uint32(0); s < spp; s++ {
				sum = sum.Add(p.samplePixel(x, y, s, sc, smp, &counters))
			}
			p.film.SetPixel(x, y, sum.Mul(1/float32(spp)))
		}
	}

	p.statsMutex.Lock()
	p.stats.PrimaryRays += counters.primary
	p.stats.ShadowRays += counters.shadow
	p.stats.IndirectRays += counters.indirect
	p.statsMutex.Unlock()
}

func (p *PathIntegrator) samplePixel(x, y, s uint32, sc *scene.Scene, smp sampler.Sampler, counters *rayCounters) types.Vec3 {
	smp.StartPixel(x, y, s)
	pFilm := types.Vec2{float32(x), float32(y)}.Add(smp.Get2D())
	ray := p.camera.GenerateRay(pFilm)
	counters.primary++

	L := p.li(ray, sc, smp, 0, types.Splat(1), 0, false, scene.Interaction{P: ray.Origin}, counters)
	if !L.IsFinite() {
		return types.Vec3{}
	}
	return L
}

// Estimate the radiance arriving along ray, scaled by the path throughput
// beta. prevBsdfPdf and prevWasDelta describe how ray was sampled and are
// used to weight emission that is hit directly.
func (p *PathIntegrator) Li(ray types.Ray, sc *scene.Scene, smp sampler.Sampler, depth int, beta types.Vec3, prevBsdfPdf float32, prevWasDelta bool) types.Vec3 {
	var counters rayCounters
	return p.li(ray, sc, smp, depth, beta, prevBsdfPdf, prevWasDelta, scene.Interaction{P: ray.Origin}, &counters)
}

func (p *PathIntegrator) li(ray types.Ray, sc *scene.Scene, smp sampler.Sampler, depth int, beta types.Vec3, prevBsdfPdf float32, prevWasDelta bool, prev scene.Interaction, counters *rayCounters) types.Vec3 {
	if depth >= p.cfg.MaxDepth {
		return types.Vec3{}
	}

	si, hit := sc.Intersect(ray)
	if !hit {
		return beta.MulVec(skyGradient(ray.Dir))
	}

	var L types.Vec3
	nLights := len(sc.Lights)
	wo := si.Wo

	// Emission
	if light := si.Primitive.Light(); light != nil {
		if le := si.Le(wo); !le.IsZero() {
			weight := float32(1)
			if depth > 0 && !prevWasDelta {
				lightPdf := light.PdfLi(prev, si.Interaction) / float32(nLights)
				weight = PowerHeuristic(prevBsdfPdf, lightPdf)
			}
			L = L.Add(beta.MulVec(le).Mul(weight))
		}
	}

	material := si.Primitive.Material()
	if material == nil {
		return L
	}
	material.ComputeScatteringFunctions(&si)
	bsdf := si.BSDF
	if bsdf == nil {
		return L
	}

	// Direct lighting from one uniformly selected light
	if nLights > 0 {
		lightIndex := min(int(smp.Get1D()*float32(nLights)), nLights-1)
		light := sc.Lights[lightIndex]
		uLight := smp.Get2D()

		if ls, ok := light.SampleLi(si.Interaction, uLight); ok && p.validLightSample(light, ls) {
			f := bsdf.F(wo, ls.Wi)
			if !f.IsZero() && !ls.L.IsZero() {
				counters.shadow++
				if !sc.IntersectP(si.SpawnRay(ls.Wi), ls.Dist-scene.ShadowEpsilon) {
					lightPdf := ls.Pdf / float32(nLights)
					weight := float32(1)
					if !light.IsDelta() {
						weight = PowerHeuristic(lightPdf, bsdf.Pdf(wo, ls.Wi))
					}
					cosTheta := ls.Wi.AbsDot(si.Shading.N)
					L = L.Add(beta.MulVec(f).MulVec(ls.L).Mul(cosTheta * weight / lightPdf))
				}
			}
		}
	}

	// Continue the path
	bs, ok := bsdf.SampleF(wo, smp.Get2D())
	if !ok || bs.Pdf <= 0 || bs.F.IsZero() {
		return L
	}
	nextBeta := beta.MulVec(bs.F).Mul(bs.Wi.AbsDot(si.Shading.N) / bs.Pdf)
	if nextBeta.IsZero() || !nextBeta.IsFinite() {
		return L
	}

	if depth > rouletteDepth {
		q := math32.Max(minRouletteQ, 1-nextBeta.MaxComponent())
		if smp.Get1D() < q {
			return L
		}
		nextBeta = nextBeta.Mul(1 / (1 - q))
	}

	counters.indirect++
	next := si.SpawnRay(bs.Wi)
	return L.Add(p.li(next, sc, smp, depth+1, nextBeta, bs.Pdf, bs.Delta, si.Interaction, counters))
}

func (p *PathIntegrator) validLightSample(light scene.Light, ls scene.LightSample) bool {
	if ls.Pdf <= 0 || ls.Dist <= 0 {
		return false
	}
	if !light.IsDelta() && (math32.IsInf(ls.Pdf, 0) || math32.IsNaN(ls.Pdf)) {
		return false
	}
	return true
}

// Combine the pdfs of two sampling strategies using the power heuristic
// with beta = 2.
func PowerHeuristic(fPdf, gPdf float32) float32 {
	f2 := fPdf * fPdf
	g2 := gPdf * gPdf
	if f2+g2 == 0 {
		return 0
	}
	return f2 / (f2 + g2)
}

// Radiance arriving from the background along dir.
func skyGradient(dir types.Vec3) types.Vec3 {
	unit := dir.Normalize()
	t := 0.5 * (unit[1] + 1)
	return types.Splat(1).Mul(1 - t).Add(types.Vec3{0.5, 0.7, 1.0}.Mul(t * 0.2))
}
