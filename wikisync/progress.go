package wikisync

import (
	"fmt"
	"io"
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progress draws a single bar for one phase of a run.  A nil *progress is a valid no-op, so
// callers don't need to care whether the user asked for a bar.
type progress struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgress(enabled bool, out io.Writer, total int, phaseName string) *progress {
	if !enabled || total <= 0 {
		return nil
	}
	if out == nil {
		out = os.Stderr
	}

	p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(out))

	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			// display our name with one space on the right
			decor.Name(fmt.Sprintf("%s:", phaseName),
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
		),
	)

	return &progress{p: p, bar: bar}
}

func (pr *progress) Increment() {
	if pr == nil {
		return
	}
	pr.bar.Increment()
}

// Done flushes the bar.  If the phase ended early the bar is aborted, otherwise Wait would block
// forever on a bar that never completes.
func (pr *progress) Done() {
	if pr == nil {
		return
	}
	if !pr.bar.Completed() {
		pr.bar.Abort(false)
	}
	pr.p.Wait()
}
