package descent

import "math"

// Update is one gradient-descent step from W0 to W1.
type Update struct {
	Index int     `json:"step"`
	W0    float64 `json:"w0"`
	J0    float64 `json:"j0"`
	Grad  float64 `json:"grad"`
	Delta float64 `json:"delta"`
	W1    float64 `json:"w1"`
	J1    float64 `json:"j1"`
}

// IsFinite reports whether every field of u is a finite number.
func (u Update) IsFinite() bool {
	for _, v := range []float64{u.W0, u.J0, u.Grad, u.Delta, u.W1, u.J1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// LossChange is J1 - J0; negative when the step improved the loss.
func (u Update) LossChange() float64 {
	return u.J1 - u.J0
}

type Config struct {
	LearningRate float64 `json:"learning_rate"`
	Start        float64 `json:"start"`
	Steps        int     `json:"steps"`
}

// Observer is notified of each update as a run produces it.
type Observer interface {
	OnUpdate(u Update)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(u Update)

func (f ObserverFunc) OnUpdate(u Update) { f(u) }

type Result struct {
	Function string             `json:"function"`
	Config   Config             `json:"config"`
	Updates  []Update           `json:"updates"`
	Metrics  map[string]float64 `json:"metrics"`
}

// Positions returns the visited parameters: the start followed by W1 of
// every update.
func (r *Result) Positions() []float64 {
	if len(r.Updates) == 0 {
		return []float64{r.Config.Start}
	}
	ws := make([]float64, 0, len(r.Updates)+1)
	ws = append(ws, r.Updates[0].W0)
	for _, u := range r.Updates {
		ws = append(ws, u.W1)
	}
	return ws
}

// Losses returns the loss at each position returned by Positions.
func (r *Result) Losses() []float64 {
	if len(r.Updates) == 0 {
		return nil
	}
	js := make([]float64, 0, len(r.Updates)+1)
	js = append(js, r.Updates[0].J0)
	for _, u := range r.Updates {
		js = append(js, u.J1)
	}
	return js
}

// Final returns the last update. ok is false for an empty result.
func (r *Result) Final() (u Update, ok bool) {
	if len(r.Updates) == 0 {
		return Update{}, false
	}
	return r.Updates[len(r.Updates)-1], true
}
