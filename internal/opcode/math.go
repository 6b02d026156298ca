package opcode

import "math"

// unaryMathFns covers the unary operators with stdlib-math-defined float semantics
// (spec.md §4.1: "unary math-stdlib ops"). Kept separate from the simple arithmetic
// table in opcode.go so that table stays allocation-free and import-light.
var unaryMathFns = map[Unary]func(float32) float32{
	Recip:    func(a float32) float32 { return 1 / a },
	Sqrt:     func(a float32) float32 { return sqrtSigned(a) },
	Exp:      func(a float32) float32 { return float32(math.Exp(float64(a))) },
	Log:      func(a float32) float32 { return float32(math.Log(float64(a))) },
	Log2:     func(a float32) float32 { return float32(math.Log2(float64(a))) },
	Log10:    func(a float32) float32 { return float32(math.Log10(float64(a))) },
	Sin:      func(a float32) float32 { return float32(math.Sin(float64(a))) },
	Cos:      func(a float32) float32 { return float32(math.Cos(float64(a))) },
	Tan:      func(a float32) float32 { return float32(math.Tan(float64(a))) },
	ArcSin:   func(a float32) float32 { return float32(math.Asin(float64(a))) },
	ArcCos:   func(a float32) float32 { return float32(math.Acos(float64(a))) },
	ArcTan:   func(a float32) float32 { return float32(math.Atan(float64(a))) },
	SinH:     func(a float32) float32 { return float32(math.Sinh(float64(a))) },
	CosH:     func(a float32) float32 { return float32(math.Cosh(float64(a))) },
	TanH:     func(a float32) float32 { return float32(math.Tanh(float64(a))) },
	MIDICPS:  func(a float32) float32 { return 440 * float32(math.Pow(2, (float64(a)-69)/12)) },
	CPSMIDI:  func(a float32) float32 { return float32(69 + 12*math.Log2(float64(a)/440)) },
	DBAmp:    func(a float32) float32 { return float32(math.Pow(10, float64(a)/20)) },
	AmpDB:    func(a float32) float32 { return float32(20 * math.Log10(float64(a))) },
	OctCPS:   func(a float32) float32 { return 440 * float32(math.Pow(2, float64(a)-4.75)) },
	CPSOct:   func(a float32) float32 { return float32(math.Log2(float64(a)/440) + 4.75) },
	Ceil:     func(a float32) float32 { return float32(math.Ceil(float64(a))) },
	Floor:    func(a float32) float32 { return float32(math.Floor(float64(a))) },
	Frac:     func(a float32) float32 { return a - float32(math.Floor(float64(a))) },
	Sign: func(a float32) float32 {
		switch {
		case a > 0:
			return 1
		case a < 0:
			return -1
		default:
			return 0
		}
	},
	SoftClip: func(a float32) float32 {
		if a >= -0.5 && a <= 0.5 {
			return a
		}
		sign := float32(1)
		if a < 0 {
			sign = -1
		}
		return sign * (absFloat32(a) - 0.25/absFloat32(a))
	},
	Distort: func(a float32) float32 { return a / (1 + absFloat32(a)) },
}

// binaryMathFns covers the binary operators with stdlib-math-defined float semantics
// (Pow, Mod), kept separate from the simple arithmetic table in opcode.go for the same
// reason unaryMathFns is.
var binaryMathFns = map[Binary]func(a, b float32) float32{
	Pow: func(a, b float32) float32 { return float32(math.Pow(float64(a), float64(b))) },
	Mod: func(a, b float32) float32 {
		m := float32(math.Mod(float64(a), float64(b)))
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m
	},
}

// BinaryFoldMath evaluates op(a, b) against the stdlib-math table, falling back to the
// simple arithmetic/comparison table in opcode.go. ok is false if op has no defined
// float semantics at all.
func BinaryFoldMath(op Binary, a, b float32) (float32, bool) {
	if fn, ok := binaryMathFns[op]; ok {
		return fn(a, b), true
	}
	return BinaryFold(op, a, b)
}

func sqrtSigned(a float32) float32 {
	if a < 0 {
		return -float32(math.Sqrt(float64(-a)))
	}
	return float32(math.Sqrt(float64(a)))
}

// UnaryFoldMath evaluates op(a) against the stdlib-math table, falling back to the
// simple arithmetic table in opcode.go. ok is false if op has no defined float
// semantics at all (e.g. Rand, which is non-deterministic and therefore never folded).
func UnaryFoldMath(op Unary, a float32) (float32, bool) {
	if fn, ok := unaryMathFns[op]; ok {
		return fn(a), true
	}
	return UnaryFold(op, a)
}
