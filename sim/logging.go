package sim

import (
	"fmt"
	"io"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogState logs a one-line summary per emitter.
func (s *Simulation) LogState() {
	Logf("=== Tick %d (t=%.2fs, speed %dx) ===", s.tick, s.SimTime(), s.stepsPerUpdate)
	for i := range s.emitters {
		em, _ := s.Emitter(i)
		pool := em.Pool
		last := pool.LastTick()
		state := ""
		if em.Paused {
			state = " [paused]"
		}
		Logf("  %-10s %-8s alive %5d/%-5d births %3d deaths %3d rate %.1f/s life %.2fs±%.0f%%%s",
			em.Name, em.Species, pool.AliveCount(), pool.Capacity(),
			last.Births, last.Deaths, pool.BirthRate(),
			pool.LifeExpectancy(), pool.LifeVariance()*100, state)
	}
	Logf("")
}
