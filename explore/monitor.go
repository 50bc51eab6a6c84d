package explore

import "github.com/poiesic/deepread/core"

// Monitor provides hooks to observe a processing job.
// Implement this interface to track intermediate steps and progress.
// Notifications are one-way: a monitor cannot pause or alter processing.
type Monitor interface {
	Start(query string)
	AfterSegmentation(total int)
	AfterScoring(kept, total int)
	BatchCompleted(depth, processed, total int)
	DiveStarted(segmentId core.ID, depth int)
	DiveFinished(segmentId core.ID, state DiveState, confidence float64)
	Finish(answer *core.SynthesizedAnswer)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                 {}
func (n *noopMonitor) AfterSegmentation(_ int)                        {}
func (n *noopMonitor) AfterScoring(_, _ int)                          {}
func (n *noopMonitor) BatchCompleted(_, _, _ int)                     {}
func (n *noopMonitor) DiveStarted(_ core.ID, _ int)                   {}
func (n *noopMonitor) DiveFinished(_ core.ID, _ DiveState, _ float64) {}
func (n *noopMonitor) Finish(_ *core.SynthesizedAnswer)               {}

// NoopMonitor returns a monitor that ignores every notification.
func NoopMonitor() Monitor {
	return &noopMonitor{}
}
