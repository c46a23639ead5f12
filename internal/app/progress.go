package app

import "sync/atomic"

// progress counts the documents of the current trace run. It is read by the
// health check while workers update it.
type progress struct {
	total atomic.Int64
	done  atomic.Int64
	fail  atomic.Int64
}

func (p *progress) start(total int) {
	p.done.Store(0)
	p.fail.Store(0)
	p.total.Store(int64(total))
}

func (p *progress) finish(failed bool) {
	if failed {
		p.fail.Add(1)
	}
	p.done.Add(1)
}

// snapshot returns traced, failed and total document counts.
func (p *progress) snapshot() (done, failed, total int64) {
	return p.done.Load(), p.fail.Load(), p.total.Load()
}
