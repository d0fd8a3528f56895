package cli

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/JavierFrauca/mcp-code-manager/internal/index"
)

// ProgressReporter renders an index build as a progress bar on stderr.
type ProgressReporter struct {
	quiet     bool
	fileBar   *progressbar.ProgressBar
	startTime time.Time
}

// newProgressReporter creates a progress reporter; when quiet it
// reports nothing at all.
func newProgressReporter(quiet bool) index.ProgressReporter {
	if quiet {
		return nil
	}
	return &ProgressReporter{startTime: time.Now()}
}

func (p *ProgressReporter) OnDiscoveryComplete(totalFiles int) {
	if totalFiles == 0 {
		return
	}
	p.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func (p *ProgressReporter) OnFileParsed(path string) {
	if p.fileBar != nil {
		p.fileBar.Add(1)
	}
}

func (p *ProgressReporter) OnBuildComplete(stats index.Stats) {
	if p.fileBar != nil {
		p.fileBar.Finish()
	}
	log.Printf("Scanned %d files, %d declarations in %s",
		stats.TotalFiles, stats.TotalDeclarations, time.Since(p.startTime).Round(time.Millisecond))
}
