package descent

import "math"

const (
	MetricFinalW           = "final_w"
	MetricFinalLoss        = "final_loss"
	MetricInitialLoss      = "initial_loss"
	MetricLossChange       = "loss_change"
	MetricMaxAbsStep       = "max_abs_step"
	MetricDirectionChanges = "direction_changes"
)

// Summarize reduces a trajectory to a few scalars. direction_changes counts
// sign flips of the step, which is how overshooting shows up.
func Summarize(updates []Update) map[string]float64 {
	m := make(map[string]float64)
	if len(updates) == 0 {
		return m
	}

	first, last := updates[0], updates[len(updates)-1]
	m[MetricFinalW] = last.W1
	m[MetricFinalLoss] = last.J1
	m[MetricInitialLoss] = first.J0
	m[MetricLossChange] = last.J1 - first.J0

	maxStep := 0.0
	flips := 0
	for i, u := range updates {
		maxStep = math.Max(maxStep, math.Abs(u.Delta))
		if i > 0 && u.Delta*updates[i-1].Delta < 0 {
			flips++
		}
	}
	m[MetricMaxAbsStep] = maxStep
	m[MetricDirectionChanges] = float64(flips)
	return m
}
