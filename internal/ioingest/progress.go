package ioingest

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
)

// progress is a progress bar that does nothing when disabled.
type progress struct {
	bar *pb.ProgressBar
}

func newProgress(enabled bool, total int, prefix string) progress {
	if !enabled {
		return progress{}
	}
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return progress{bar: bar}
}

// newBytesProgress tracks how much of a file was read.
func newBytesProgress(enabled bool, f *os.File, prefix string) progress {
	if !enabled {
		return progress{}
	}
	info, err := f.Stat()
	if err != nil {
		return progress{}
	}
	bar := pb.Full.Start64(info.Size())
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return progress{bar: bar}
}

func (p progress) add(n int) {
	if p.bar != nil {
		p.bar.Add(n)
	}
}

func (p progress) proxy(r io.Reader) io.Reader {
	if p.bar == nil {
		return r
	}
	return p.bar.NewProxyReader(r)
}

func (p progress) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
