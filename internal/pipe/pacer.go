package pipe

import "time"

// Pacer enforces a fixed delay between successive calls against the same
// remote. The archive pipeline is sequential, so a plain sleep-on-demand is
// enough; the first Wait returns immediately.
type Pacer struct {
	delay time.Duration
	last  time.Time
	sleep func(time.Duration)
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay, sleep: time.Sleep}
}

// Wait blocks until at least the configured delay has passed since the
// previous Wait returned. A zero delay disables pacing.
func (p *Pacer) Wait() {
	if p.delay <= 0 {
		p.last = time.Now()
		return
	}
	if !p.last.IsZero() {
		if remaining := p.delay - time.Since(p.last); remaining > 0 {
			p.sleep(remaining)
		}
	}
	p.last = time.Now()
}
