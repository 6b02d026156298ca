package opcode

// Identity holds the outcome of applying spec.md §4.1's identity-simplification rules
// to a binary operation with one constant operand. When Passthrough is true the result
// equals the non-constant operand; the caller tells which one that is from which side it
// passed as a known constant.
type Identity struct {
	// Passthrough is true when the whole expression simplifies to the non-constant
	// operand unchanged (x+0, x*1, x**1).
	Passthrough bool
	// IsConstant and Constant are set when the whole expression simplifies to a fixed
	// constant regardless of the other operand (x*0 -> 0, x**0 -> 1).
	IsConstant bool
	Constant   float32
}

// BinaryIdentity checks whether op(leftConst*, rightConst*) simplifies per §4.1.
// Exactly one of leftVal/rightVal is meaningful per call; pass ok=false for the side
// that is not a known constant.
func BinaryIdentity(op Binary, leftVal float32, leftIsConst bool, rightVal float32, rightIsConst bool) (Identity, bool) {
	switch op {
	case Add:
		if rightIsConst && rightVal == 0 {
			return Identity{Passthrough: true}, true
		}
		if leftIsConst && leftVal == 0 {
			return Identity{Passthrough: true}, true
		}
	case Sub:
		if rightIsConst && rightVal == 0 {
			return Identity{Passthrough: true}, true
		}
	case Mul:
		if rightIsConst {
			if rightVal == 1 {
				return Identity{Passthrough: true}, true
			}
			if rightVal == 0 {
				return Identity{IsConstant: true, Constant: 0}, true
			}
		}
		if leftIsConst {
			if leftVal == 1 {
				return Identity{Passthrough: true}, true
			}
			if leftVal == 0 {
				return Identity{IsConstant: true, Constant: 0}, true
			}
		}
	case Div:
		if rightIsConst && rightVal == 1 {
			return Identity{Passthrough: true}, true
		}
	case Pow:
		if rightIsConst {
			if rightVal == 0 {
				return Identity{IsConstant: true, Constant: 1}, true
			}
			if rightVal == 1 {
				return Identity{Passthrough: true}, true
			}
		}
	}
	return Identity{}, false
}
