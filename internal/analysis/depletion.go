package analysis

import (
	"github.com/limnolab/redoxsim/internal/sim"
)

// DepletionTime returns the first time a channel falls to frac times its
// initial value, interpolating linearly between the bracketing samples.
// ok is false when the channel starts at zero or never crosses the
// threshold within the run.
func DepletionTime(res *sim.Result, channel int, frac float64) (t float64, ok bool) {
	if res == nil || len(res.States) == 0 {
		return 0, false
	}
	if channel < 0 || channel >= len(res.States[0]) {
		return 0, false
	}
	c0 := res.States[0][channel]
	if c0 <= 0 {
		return 0, false
	}
	threshold := frac * c0
	if c0 <= threshold {
		return res.Times[0], true
	}

	prev := c0
	for i := 1; i < len(res.States); i++ {
		cur := res.States[i][channel]
		if cur <= threshold {
			t0, t1 := res.Times[i-1], res.Times[i]
			if prev == cur {
				return t1, true
			}
			s := (prev - threshold) / (prev - cur)
			return t0 + s*(t1-t0), true
		}
		prev = cur
	}
	return 0, false
}
