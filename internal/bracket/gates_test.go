package bracket

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGates_Permutation(t *testing.T) {
	for n := 2; n <= 16; n++ {
		gates := Gates(n)
		gate1 := []int{}
		gate2 := []int{}
		for _, g := range gates {
			assert.NotEqual(t, g.Gate1, g.Gate2, "n=%d", n)
			gate1 = append(gate1, g.Gate1)
			gate2 = append(gate2, g.Gate2)
		}
		slices.Sort(gate2)
		want := make([]int, n)
		for i := range want {
			want[i] = i + 1
		}
		assert.Equal(t, want, gate1)
		assert.Equal(t, want, gate2, "gate2 is a permutation too")
	}
}

func TestGates_Examples(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		gate2 []int
	}{
		{"four", 4, []int{3, 4, 1, 2}},
		{"five", 5, []int{3, 4, 5, 1, 2}},
		{"two", 2, []int{2, 1}},
		{"single", 1, []int{0}},
		{"empty", 0, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gates := Gates(tt.n)
			got := []int{}
			for _, g := range gates {
				got = append(got, g.Gate2)
			}
			assert.Equal(t, tt.gate2, got)
		})
	}
}

func TestGate_Gate2Label(t *testing.T) {
	assert.Equal(t, "-", Gate{Gate1: 1}.Gate2Label())
	assert.Equal(t, "3", Gate{Gate1: 1, Gate2: 3}.Gate2Label())
}
