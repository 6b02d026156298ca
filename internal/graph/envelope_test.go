package graph

import "testing"

func TestPercussiveFlattenMatchesCanonicalTuple(t *testing.T) {
	env := Percussive(0.01, 1.0)
	got := env.Flatten()
	want := []float64{0.0, 2, -99, -99, 1.0, 0.01, 1, 0.0, 0.0, 1.0, 1, 0.0}
	if len(got) != len(want) {
		t.Fatalf("Flatten() len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Flatten()[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestFlattenDefaultLinearShapeCode(t *testing.T) {
	env, err := NewEnvelope([]float64{0, 1}, []float64{1}, nil, nil, -1, -1)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	got := env.Flatten()
	// index 6 is the shape code for the first (only) segment
	if got[6] != float64(shapeCode(ShapeLinear)) {
		t.Fatalf("expected default shape to be ShapeLinear (code 1), got %v", got[6])
	}
}

func TestNewEnvelopeDimensionMismatch(t *testing.T) {
	if _, err := NewEnvelope([]float64{0, 1, 0}, []float64{1}, nil, nil, -1, -1); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
