package core

import "testing"

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	src := []float64{1, 2, 3}
	dst := Clone(src)
	dst[0] = 42

	if src[0] != 1 {
		t.Fatalf("src[0] = %v, want 1", src[0])
	}

	if Clone(nil) != nil {
		t.Fatal("Clone(nil) should be nil")
	}
}

func TestFitLength(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		n    int
		want []float64
	}{
		{name: "pad", in: []float64{1, 2}, n: 4, want: []float64{1, 2, 0, 0}},
		{name: "trim", in: []float64{1, 2, 3}, n: 2, want: []float64{1, 2}},
		{name: "same", in: []float64{1, 2}, n: 2, want: []float64{1, 2}},
		{name: "negative", in: []float64{1}, n: -1, want: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitLength(tt.in, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
