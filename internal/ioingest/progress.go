package ioingest

import (
	"github.com/cheggaaa/pb/v3"
)

type progressBar struct {
	bar *pb.ProgressBar
}

// newProgressBar creates a bar for batches of more than one item when
// progress output is enabled. Otherwise the bar does nothing.
func (i *Ingester) newProgressBar(total int) progressBar {
	if !i.progress || total < 2 {
		return progressBar{}
	}
	bar := pb.Full.Start(total)
	bar.Set("prefix", "Ingesting ")
	bar.Set(pb.CleanOnFinish, true)
	return progressBar{bar: bar}
}

func (p progressBar) increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p progressBar) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
