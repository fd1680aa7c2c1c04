package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/aezaqiel/Silmaril/renderer"
)

func TestFormatFrameStats(t *testing.T) {
	stats := renderer.FrameStats{
		FrameW:          64,
		FrameH:          32,
		SamplesPerPixel: 4,
		Workers:         2,
		Tiles:           2,
		Passes:          []time.Duration{time.Second, time.Second},
		PrimaryRays:     8192,
		ShadowRays:      100,
		IndirectRays:    50,
		RenderTime:      2 * time.Second,
	}

	out := formatFrameStats(stats)
	for _, exp := range []string{"64x32", "8192", "50.0 %", "TOTAL", "4171"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected stats table to contain %q; got\n%s", exp, out)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	type spec struct {
		in  uint64
		exp string
	}
	specs := []spec{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{8 << 30, "8.0 GiB"},
	}

	for index, s := range specs {
		if got := formatBytes(s.in); got != s.exp {
			t.Fatalf("[spec %d] expected %q; got %q", index, s.exp, got)
		}
	}
}

func TestFormatHostInfo(t *testing.T) {
	out := formatHostInfo(hostInfo{
		cpuModel:     "Test CPU",
		cpuMhz:       3200,
		physicalCPUs: 4,
		logicalCPUs:  8,
		totalMem:     16 << 30,
		availableMem: 8 << 30,
		workers:      8,
	})
	for _, exp := range []string{"Test CPU", "3.20 GHz", "4 physical, 8 logical", "16.0 GiB total"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected host table to contain %q; got\n%s", exp, out)
		}
	}
}
