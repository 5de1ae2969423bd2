package zen

import "math"

// evalBinary evaluates both operands before applying the operator. This
// includes && and ||, which return one of their operands.
func (in *Interpreter) evalBinary(n *BinaryExpr, env *Env) (Value, error) {
	left, err := in.evalExpr(n.Left, env)
	if err != nil {
		return NewNull(), err
	}
	right, err := in.evalExpr(n.Right, env)
	if err != nil {
		return NewNull(), err
	}
	val, err := binaryOp(n.Operator, left, right)
	if err != nil {
		return NewNull(), in.wrapError(err, n.position)
	}
	return val, nil
}

func binaryOp(op TokenType, left, right Value) (Value, error) {
	switch op {
	case tokenAnd:
		if !left.Truthy() {
			return left, nil
		}
		return right, nil
	case tokenOr:
		if left.Truthy() {
			return left, nil
		}
		return right, nil
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	case tokenLT, tokenLTE, tokenGT, tokenGTE:
		return compareValues(op, left, right)
	case tokenPlus:
		return addValues(left, right)
	case tokenMinus, tokenAsterisk, tokenSlash, tokenPercent:
		return arithmetic(op, left, right)
	default:
		return NewNull(), NewError(ErrRuntime, "unsupported operator %s", op)
	}
}

func compareValues(op TokenType, left, right Value) (Value, error) {
	cmp, ok := left.Compare(right)
	if !ok {
		return NewNull(), NewError(ErrType, "cannot compare %s %s %s", left.Kind(), op, right.Kind())
	}
	switch op {
	case tokenLT:
		return NewBool(cmp < 0), nil
	case tokenLTE:
		return NewBool(cmp <= 0), nil
	case tokenGT:
		return NewBool(cmp > 0), nil
	default:
		return NewBool(cmp >= 0), nil
	}
}

// numericOperand reports whether v takes part in arithmetic. Null counts
// as zero so that parameters left unbound by a short call still add.
func numericOperand(v Value) bool {
	switch v.Kind() {
	case KindInt, KindFloat, KindBool, KindNull:
		return true
	default:
		return false
	}
}

func isFloatOperand(v Value) bool {
	return v.Kind() == KindFloat
}

func addValues(left, right Value) (Value, error) {
	if left.Kind() == KindString || right.Kind() == KindString {
		return NewString(left.String() + right.String()), nil
	}
	if left.Kind() == KindArray && right.Kind() == KindArray {
		a, b := left.Elements(), right.Elements()
		out := make([]Value, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		return NewArray(out), nil
	}
	if numericOperand(left) && numericOperand(right) {
		if isFloatOperand(left) || isFloatOperand(right) {
			return NewFloat(left.Float() + right.Float()), nil
		}
		return NewInt(left.Int() + right.Int()), nil
	}
	return NewNull(), NewError(ErrType, "unsupported operand types for +: %s and %s", left.Kind(), right.Kind())
}

func arithmetic(op TokenType, left, right Value) (Value, error) {
	if op == tokenAsterisk {
		if s, n, ok := stringRepeatOperands(left, right); ok {
			out, err := RepeatString(s, n)
			if err != nil {
				return NewNull(), err
			}
			return NewString(out), nil
		}
	}
	if !numericOperand(left) || !numericOperand(right) {
		return NewNull(), NewError(ErrType, "unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
	}

	useFloat := isFloatOperand(left) || isFloatOperand(right)
	switch op {
	case tokenMinus:
		if useFloat {
			return NewFloat(left.Float() - right.Float()), nil
		}
		return NewInt(left.Int() - right.Int()), nil
	case tokenAsterisk:
		if useFloat {
			return NewFloat(left.Float() * right.Float()), nil
		}
		return NewInt(left.Int() * right.Int()), nil
	case tokenSlash:
		if right.Float() == 0 {
			return NewNull(), NewError(ErrRuntime, "division by zero")
		}
		return NewFloat(left.Float() / right.Float()), nil
	default:
		if right.Float() == 0 {
			return NewNull(), NewError(ErrRuntime, "modulo by zero")
		}
		if useFloat {
			a, b := left.Float(), right.Float()
			r := math.Mod(a, b)
			if r != 0 && (r < 0) != (b < 0) {
				r += b
			}
			return NewFloat(r), nil
		}
		a, b := left.Int(), right.Int()
		r := a % b
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return NewInt(r), nil
	}
}

func stringRepeatOperands(left, right Value) (string, int64, bool) {
	switch {
	case left.Kind() == KindString && right.Kind() == KindInt:
		return left.Str(), right.Int(), true
	case left.Kind() == KindInt && right.Kind() == KindString:
		return right.Str(), left.Int(), true
	default:
		return "", 0, false
	}
}

func (in *Interpreter) evalUnary(n *UnaryExpr, env *Env) (Value, error) {
	operand, err := in.evalExpr(n.Right, env)
	if err != nil {
		return NewNull(), err
	}
	switch n.Operator {
	case tokenBang:
		return NewBool(!operand.Truthy()), nil
	default:
		switch operand.Kind() {
		case KindInt, KindBool:
			return NewInt(-operand.Int()), nil
		case KindFloat:
			return NewFloat(-operand.Float()), nil
		default:
			return NewNull(), in.errorAt(ErrType, n.position, "bad operand type for unary -: %s", operand.Kind())
		}
	}
}
