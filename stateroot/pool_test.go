package stateroot

import "testing"

func TestPoolSizeFormula(t *testing.T) {
	cases := []struct {
		parallelism int
		want        int
	}{
		{5, 3},
		{6, 4},
		{8, 6},
		{2, 3}, // floor applies even though the engine wouldn't run at all
		{1, 3},
	}
	for _, c := range cases {
		if got := poolSizeFor(c.parallelism); got != c.want {
			t.Fatalf("poolSizeFor(%d) = %d, want %d", c.parallelism, got, c.want)
		}
	}
}
