package opcode

import "testing"

func TestBinaryFoldCommutative(t *testing.T) {
	a, ok1 := BinaryFold(Add, 2, 3)
	b, ok2 := BinaryFold(Add, 3, 2)
	if !ok1 || !ok2 || a != b {
		t.Fatalf("expected commutative fold, got %v/%v %v/%v", a, ok1, b, ok2)
	}
	if a != 5 {
		t.Fatalf("2+3 = %v, want 5", a)
	}
}

func TestBinaryFoldUnknownOpNotFoldable(t *testing.T) {
	if _, ok := BinaryFold(BitAnd, 1, 1); ok {
		t.Fatalf("BitAnd should not be float-foldable in this table")
	}
}

func TestBinaryFoldMathCoversPowAndMod(t *testing.T) {
	v, ok := BinaryFoldMath(Pow, 2, 3)
	if !ok || v != 8 {
		t.Fatalf("2**3 = %v/%v, want 8/true", v, ok)
	}
	v, ok = BinaryFoldMath(Mod, 5, 3)
	if !ok || v != 2 {
		t.Fatalf("5 mod 3 = %v/%v, want 2/true", v, ok)
	}
	v, ok = BinaryFoldMath(Add, 2, 3)
	if !ok || v != 5 {
		t.Fatalf("BinaryFoldMath should fall back to the plain arithmetic table: 2+3 = %v/%v, want 5/true", v, ok)
	}
}

func TestBinaryFoldCoversComparisons(t *testing.T) {
	cases := []struct {
		op   Binary
		a, b float32
		want float32
	}{
		{EQ, 2, 2, 1},
		{NE, 2, 3, 1},
		{LT, 2, 3, 1},
		{GT, 3, 2, 1},
		{LE, 3, 3, 1},
		{GE, 2, 3, 0},
	}
	for _, c := range cases {
		v, ok := BinaryFold(c.op, c.a, c.b)
		if !ok || v != c.want {
			t.Fatalf("op %v(%v, %v) = %v/%v, want %v/true", c.op, c.a, c.b, v, ok, c.want)
		}
	}
}

func TestUnaryFoldMathCoversSqrtAndSimpleTable(t *testing.T) {
	v, ok := UnaryFoldMath(Sqrt, 9)
	if !ok || v != 3 {
		t.Fatalf("Sqrt(9) = %v/%v, want 3/true", v, ok)
	}
	v, ok = UnaryFoldMath(Neg, 4)
	if !ok || v != -4 {
		t.Fatalf("Neg(4) = %v/%v, want -4/true", v, ok)
	}
}

func TestBinaryIdentityRules(t *testing.T) {
	if id, ok := BinaryIdentity(Add, 0, false, 0, true); !ok || !id.Passthrough {
		t.Fatalf("x+0 should pass through")
	}
	if id, ok := BinaryIdentity(Mul, 0, false, 1, true); !ok || !id.Passthrough {
		t.Fatalf("x*1 should pass through")
	}
	if id, ok := BinaryIdentity(Mul, 0, false, 0, true); !ok || !id.IsConstant || id.Constant != 0 {
		t.Fatalf("x*0 should fold to constant 0")
	}
	if id, ok := BinaryIdentity(Pow, 0, false, 0, true); !ok || !id.IsConstant || id.Constant != 1 {
		t.Fatalf("x**0 should fold to constant 1")
	}
	if id, ok := BinaryIdentity(Pow, 0, false, 1, true); !ok || !id.Passthrough {
		t.Fatalf("x**1 should pass through")
	}
}
