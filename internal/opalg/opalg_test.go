package opalg

import (
	"testing"

	"github.com/cbegin/scgo/internal/builder"
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/opcode"
	"github.com/cbegin/scgo/internal/rate"
)

func TestConstantFoldingProducesNoUGens(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)

	result, err := Binary(opcode.Add, graph.Const(2), graph.Const(3))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	c, ok := result.(graph.ConstantProxy)
	if !ok || c.Value != 5 {
		t.Fatalf("expected ConstantProxy(5), got %#v", result)
	}
	if len(b.UGens()) != 0 {
		t.Fatalf("constant folding should not create any UGens, got %d", len(b.UGens()))
	}
}

func TestAdditionIsCommutativeForFolding(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)
	ab, _ := Binary(opcode.Add, graph.Const(2), graph.Const(3))
	ba, _ := Binary(opcode.Add, graph.Const(3), graph.Const(2))
	if ab.(graph.ConstantProxy).Value != ba.(graph.ConstantProxy).Value {
		t.Fatalf("expected compile(a+b) == compile(b+a)")
	}
}

func TestMultiplyByOneIsIdentity(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)

	osc := mustAppend(t, graph.NewUGen("SinOsc", rate.Audio, nil, []rate.Calculation{rate.Audio}))
	result, err := Binary(opcode.Mul, osc.Output(0), graph.Const(1))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	op, ok := result.(*graph.OutputProxy)
	if !ok || op.UGen != osc {
		t.Fatalf("x*1 should pass through to the SinOsc output unchanged, got %#v", result)
	}
	if len(b.UGens()) != 1 {
		t.Fatalf("expected no BinaryOpUGen to be created, got %d UGens", len(b.UGens()))
	}
}

func TestMultiplyByZeroFoldsToConstantZero(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)
	osc := mustAppend(t, graph.NewUGen("SinOsc", rate.Audio, nil, []rate.Calculation{rate.Audio}))
	result, err := Binary(opcode.Mul, osc.Output(0), graph.Const(0))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	c, ok := result.(graph.ConstantProxy)
	if !ok || c.Value != 0 {
		t.Fatalf("x*0 should fold to ConstantProxy(0), got %#v", result)
	}
}

func TestVectorBroadcastYieldsVectorOfSameLength(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)
	vec := graph.NewVector(graph.Const(440), graph.Const(880))
	result, err := Binary(opcode.Mul, vec, graph.Const(2))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	rv, ok := result.(*graph.UGenVector)
	if !ok || rv.Len() != 2 {
		t.Fatalf("expected a length-2 UGenVector, got %#v", result)
	}
}

func TestVectorLengthMismatchFailsAtBuildTime(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)
	left := graph.NewVector(graph.Const(1), graph.Const(2), graph.Const(3))
	right := graph.NewVector(graph.Const(1), graph.Const(2))
	if _, err := Binary(opcode.Add, left, right); err == nil {
		t.Fatalf("expected length mismatch error for unequal, non-broadcastable vector lengths")
	}
}

func TestPowFoldsEagerlyToConstant(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)
	result, err := Binary(opcode.Pow, graph.Const(2), graph.Const(3))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	c, ok := result.(graph.ConstantProxy)
	if !ok || c.Value != 8 {
		t.Fatalf("expected ConstantProxy(8), got %#v", result)
	}
	if len(b.UGens()) != 0 {
		t.Fatalf("Pow folding should not create any UGens, got %d", len(b.UGens()))
	}
}

func TestModFoldsEagerlyToConstant(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)
	result, err := Binary(opcode.Mod, graph.Const(5), graph.Const(3))
	if err != nil {
		t.Fatalf("Binary: %v", err)
	}
	c, ok := result.(graph.ConstantProxy)
	if !ok || c.Value != 2 {
		t.Fatalf("expected ConstantProxy(2), got %#v", result)
	}
}

func TestComparisonOperatorsFoldToZeroOrOne(t *testing.T) {
	b := builder.Open()
	defer builder.Close(b)
	cases := []struct {
		op   opcode.Binary
		a, b float32
		want float32
	}{
		{opcode.EQ, 2, 2, 1},
		{opcode.NE, 2, 3, 1},
		{opcode.LT, 2, 3, 1},
		{opcode.GT, 3, 2, 1},
		{opcode.LE, 3, 3, 1},
		{opcode.GE, 2, 3, 0},
	}
	for _, c := range cases {
		result, err := Binary(c.op, graph.Const(c.a), graph.Const(c.b))
		if err != nil {
			t.Fatalf("Binary: %v", err)
		}
		got, ok := result.(graph.ConstantProxy)
		if !ok || got.Value != c.want {
			t.Fatalf("op %v: expected ConstantProxy(%v), got %#v", c.op, c.want, result)
		}
	}
	if len(b.UGens()) != 0 {
		t.Fatalf("comparison folding should not create any UGens, got %d", len(b.UGens()))
	}
}

func TestAsBoolAlwaysErrors(t *testing.T) {
	if _, err := AsBool(graph.Const(1)); err == nil {
		t.Fatalf("expected boolean-context error")
	}
}

func mustAppend(t *testing.T, u *graph.UGen) *graph.UGen {
	t.Helper()
	got, err := builder.Append(u)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	return got
}
