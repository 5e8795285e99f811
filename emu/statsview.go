package emu

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const StatsviewAddr = "localhost:12600"

// LaunchStatsview starts a web server showing the runtime statistics
// (goroutines, heap, GC) of the process.
func LaunchStatsview(output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(StatsviewAddr))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "stats server available at http://%s/debug/statsview\n", StatsviewAddr)
}
