package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/aezaqiel/Silmaril/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/urfave/cli"
)

type hostInfo struct {
	cpuModel     string
	cpuMhz       float64
	physicalCPUs int
	logicalCPUs  int

	totalMem     uint64
	availableMem uint64

	workers int
}

func probeHost() (hostInfo, error) {
	info := hostInfo{
		workers: tracer.DefaultWorkerCount(),
	}

	cpus, err := cpu.Info()
	if err != nil {
		return info, err
	}
	if len(cpus) == 0 {
		return info, fmt.Errorf("no CPU information available")
	}
	info.cpuModel = cpus[0].ModelName
	info.cpuMhz = cpus[0].Mhz

	if info.physicalCPUs, err = cpu.Counts(false); err != nil {
		return info, err
	}
	if info.logicalCPUs, err = cpu.Counts(true); err != nil {
		return info, err
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return info, err
	}
	info.totalMem = vm.Total
	info.availableMem = vm.Available

	return info, nil
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatHostInfo(info hostInfo) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"OS/Arch", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
		{"CPU", info.cpuModel},
		{"Clock", fmt.Sprintf("%.2f GHz", info.cpuMhz/1000)},
		{"Cores", fmt.Sprintf("%d physical, %d logical", info.physicalCPUs, info.logicalCPUs)},
		{"Memory", fmt.Sprintf("%s total, %s available", formatBytes(info.totalMem), formatBytes(info.availableMem))},
		{"Render workers", fmt.Sprintf("%d", info.workers)},
	})
	table.Render()
	return buf.String()
}

// Display host CPU and memory information.
func SysInfo(ctx *cli.Context) error {
	closeLog, err := setupLogging(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	info, err := probeHost()
	if err != nil {
		return err
	}

	logger.Noticef("system information\n%s", formatHostInfo(info))
	return nil
}
