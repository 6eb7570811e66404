package bracket

import "strconv"

// Start gates of one rider for moto 1 and moto 2.
// Gate2 is 0 when the batch has a single rider.
type Gate struct {
	Gate1 int
	Gate2 int
}

func (g Gate) HasGate2() bool {
	return g.Gate2 > 0
}

func (g Gate) Gate2Label() string {
	if !g.HasGate2() {
		return "-"
	}
	return strconv.Itoa(g.Gate2)
}

// Gates assigns gate1 = i+1 and rotates gate2 by half the batch size.
func Gates(n int) []Gate {
	if n <= 0 {
		return []Gate{}
	}
	gates := make([]Gate, n)
	for i := range n {
		gates[i].Gate1 = i + 1
		if n > 1 {
			gates[i].Gate2 = (i+n/2)%n + 1
		}
	}
	return gates
}
