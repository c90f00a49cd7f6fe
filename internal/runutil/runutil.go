// internal/runutil/runutil.go
package runutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
)

// EffectiveThreads maps the configured thread count to a worker count:
// 0 (or negative) means one per CPU.
func EffectiveThreads(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Output is an open destination: stdout or a created file, buffered.
type Output struct {
	*bufio.Writer
	f *os.File
}

// OpenOutput opens path for writing. "-" and "" mean stdout, which is never
// closed.
func OpenOutput(path string, stdout io.Writer) (*Output, error) {
	if path == "" || path == "-" {
		return &Output{Writer: bufio.NewWriter(stdout)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &Output{Writer: bufio.NewWriter(f), f: f}, nil
}

// Close flushes and, for files, closes. The first error wins.
func (o *Output) Close() error {
	err := o.Flush()
	if o.f != nil {
		if cerr := o.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
