package sampler

import (
	"sync"
	"testing"

	"github.com/aezaqiel/Silmaril/types"
	"github.com/chewxy/math32"
)

func TestPCG32Range(t *testing.T) {
	rng := NewPCG32()
	for i := 0; i < 100000; i++ {
		if v := rng.Float32(); v < 0 || v >= 1 {
			t.Fatalf("expected value in [0, 1); got %f", v)
		}
	}

	// Same seed, same stream
	a, b := &PCG32{}, &PCG32{}
	a.Seed(42, 54)
	b.Seed(42, 54)
	for i := 0; i < 16; i++ {
		if va, vb := a.Next(), b.Next(); va != vb {
			t.Fatalf("expected identical sequences; got %d and %d at %d", va, vb, i)
		}
	}
}

func TestPermuteIsBijection(t *testing.T) {
	for _, n := range []uint32{1, 2, 3, 7, 16, 25, 64, 100} {
		for _, seed := range []uint32{0, 1, 0xdeadbeef, 0x87654321} {
			seen := make([]bool, n)
			for i := uint32(0); i < n; i++ {
				p := permute(i, n, seed)
				if p >= n {
					t.Fatalf("[n %d seed %x] expected permuted index < n; got %d", n, seed, p)
				}
				if seen[p] {
					t.Fatalf("[n %d seed %x] index %d produced twice", n, seed, p)
				}
				seen[p] = true
			}
		}
	}
}

func TestStratifiedSamplesPerPixel(t *testing.T) {
	type spec struct {
		spp    uint32
		expX   uint32
		expY   uint32
		expSPP uint32
	}
	specs := []spec{
		{0, 1, 1, 1},
		{1, 1, 1, 1},
		{2, 1, 2, 2},
		{8, 3, 3, 9},
		{10, 3, 3, 9},
		{16, 4, 4, 16},
		{64, 8, 8, 64},
		{100, 10, 10, 100},
	}

	for index, s := range specs {
		smp := NewStratified(s.spp, true)
		x, y := smp.Grid()
		if x != s.expX || y != s.expY {
			t.Fatalf("[spec %d] expected grid %dx%d; got %dx%d", index, s.expX, s.expY, x, y)
		}
		if smp.SamplesPerPixel() != s.expSPP {
			t.Fatalf("[spec %d] expected actual spp %d; got %d", index, s.expSPP, smp.SamplesPerPixel())
		}
	}
}

func TestStratifiedCoverage(t *testing.T) {
	smp := NewStratified(64, true)
	n := smp.SamplesPerPixel()
	xs, ys := smp.Grid()

	// Three 2D dimensions and two 1D dimensions per sample
	cells2D := make([][]int, 3)
	for d := range cells2D {
		cells2D[d] = make([]int, n)
	}
	cells1D := make([][]int, 2)
	for d := range cells1D {
		cells1D[d] = make([]int, n)
	}

	for s := uint32(0); s < n; s++ {
		smp.StartPixel(5, 7, s)
		for d := 0; d < 3; d++ {
			u := smp.Get2D()
			if u[0] < 0 || u[0] >= 1 || u[1] < 0 || u[1] >= 1 {
				t.Fatalf("expected 2D sample in [0,1)^2; got %v", u)
			}
			cx := uint32(u[0] * float32(xs))
			cy := uint32(u[1] * float32(ys))
			cells2D[d][cy*xs+cx]++
		}
		for d := 0; d < 2; d++ {
			v := smp.Get1D()
			if v < 0 || v >= 1 {
				t.Fatalf("expected 1D sample in [0,1); got %f", v)
			}
			cells1D[d][uint32(v*float32(n))]++
		}
	}

	for d, cells := range cells2D {
		for c, count := range cells {
			if count != 1 {
				t.Fatalf("[2D dim %d] expected stratum %d to be visited once; got %d", d, c, count)
			}
		}
	}
	for d, cells := range cells1D {
		for c, count := range cells {
			if count != 1 {
				t.Fatalf("[1D dim %d] expected stratum %d to be visited once; got %d", d, c, count)
			}
		}
	}
}

func TestStratifiedWithoutJitter(t *testing.T) {
	smp := NewStratified(4, false)
	smp.StartPixel(0, 0, 3)
	u := smp.Get2D()
	if u[0] != 0.75 || u[1] != 0.75 {
		t.Fatalf("expected cell centered sample (0.75, 0.75); got %v", u)
	}
}

func TestSamplerDeterminism(t *testing.T) {
	type spec struct {
		kind Kind
	}
	specs := []spec{{Stratified}, {Random}}

	draw := func(smp Sampler) []float32 {
		out := make([]float32, 0, 4*16*5)
		for y := uint32(0); y < 4; y++ {
			for x := uint32(0); x < 4; x++ {
				for s := uint32(0); s < smp.SamplesPerPixel(); s++ {
					smp.StartPixel(x, y, s)
					u := smp.Get2D()
					out = append(out, u[0], u[1], smp.Get1D())
					u = smp.Get2D()
					out = append(out, u[0], u[1])
				}
			}
		}
		return out
	}

	for index, s := range specs {
		template, err := New(s.kind, 16, true)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		exp := draw(template.Clone())

		const goroutines = 8
		results := make([][]float32, goroutines)
		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				smp := template.Clone()
				// Pollute the clone state; StartPixel must fully reseed
				for i := 0; i < g; i++ {
					smp.Get1D()
				}
				results[g] = draw(smp)
			}(g)
		}
		wg.Wait()

		for g, res := range results {
			if len(res) != len(exp) {
				t.Fatalf("[spec %d] goroutine %d: expected %d values; got %d", index, g, len(exp), len(res))
			}
			for i := range res {
				if res[i] != exp[i] {
					t.Fatalf("[spec %d] goroutine %d: value %d differs; expected %f, got %f", index, g, i, exp[i], res[i])
				}
			}
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("random"); err != nil || k != Random {
		t.Fatalf("expected Random; got %v, %v", k, err)
	}
	if k, err := ParseKind(""); err != nil || k != Stratified {
		t.Fatalf("expected Stratified default; got %v, %v", k, err)
	}
	if _, err := ParseKind("sobol"); err == nil {
		t.Fatal("expected an error for an unknown sampler type")
	}
}

func TestWarping(t *testing.T) {
	rng := NewPCG32()
	for i := 0; i < 10000; i++ {
		u := types.Vec2{rng.Float32(), rng.Float32()}

		d := ConcentricSampleDisk(u)
		if d.Dot(d) > 1+1e-5 {
			t.Fatalf("expected disk sample inside the unit disk; got %v", d)
		}

		h := CosineSampleHemisphere(u)
		if h[2] < 0 || math32.Abs(h.Len()-1) > 1e-4 {
			t.Fatalf("expected unit +z hemisphere direction; got %v", h)
		}

		sp := UniformSampleSphere(u)
		if math32.Abs(sp.Len()-1) > 1e-4 {
			t.Fatalf("expected unit sphere direction; got %v", sp)
		}

		b := UniformSampleTriangle(u)
		if b[0] < 0 || b[1] < 0 || b[0]+b[1] > 1+1e-6 {
			t.Fatalf("expected valid barycentrics; got %v", b)
		}
	}

	if pdf := CosineHemispherePdf(-0.5); pdf != 0 {
		t.Fatalf("expected zero pdf below the horizon; got %f", pdf)
	}
}
