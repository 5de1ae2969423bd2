package zen

import (
	"strconv"
	"strings"
)

// indexValue converts an index operand to an int. Floats truncate and
// numeric strings parse.
func indexValue(idx Value) (int, bool) {
	switch idx.Kind() {
	case KindInt, KindFloat, KindBool:
		return int(idx.Int()), true
	case KindString:
		n, err := strconv.Atoi(strings.TrimSpace(idx.Str()))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// resolveIndex applies negative indexing and bounds checks.
func resolveIndex(idx Value, length int) (int, error) {
	i, ok := indexValue(idx)
	if !ok {
		return 0, NewError(ErrIndex, "index must be a number, got %s", idx.Kind())
	}
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, NewError(ErrIndex, "index %s out of range (length %d)", idx.String(), length)
	}
	return i, nil
}

func (in *Interpreter) evalIndex(n *IndexExpr, env *Env) (Value, error) {
	obj, err := in.evalExpr(n.Object, env)
	if err != nil {
		return NewNull(), err
	}
	idx, err := in.evalExpr(n.Index, env)
	if err != nil {
		return NewNull(), err
	}
	val, err := indexRead(obj, idx)
	if err != nil {
		return NewNull(), in.wrapError(err, n.position)
	}
	return val, nil
}

func indexRead(obj, idx Value) (Value, error) {
	switch obj.Kind() {
	case KindArray:
		elems := obj.Elements()
		i, err := resolveIndex(idx, len(elems))
		if err != nil {
			return NewNull(), err
		}
		return elems[i], nil
	case KindString:
		runes := []rune(obj.Str())
		i, err := resolveIndex(idx, len(runes))
		if err != nil {
			return NewNull(), err
		}
		return NewString(string(runes[i])), nil
	case KindObject:
		if val, ok := obj.Object()[idx.String()]; ok {
			return val, nil
		}
		return NewNull(), nil
	default:
		return NewNull(), NewError(ErrType, "%s value is not indexable", obj.Kind())
	}
}

// evalIndexAssign requires the indexed target to be a bound variable.
func (in *Interpreter) evalIndexAssign(n *IndexAssign, env *Env) (Value, error) {
	ident, ok := n.Object.(*Identifier)
	if !ok {
		return NewNull(), in.errorAt(ErrType, n.position, "index assignment target must be a variable")
	}
	obj, ok := env.Get(ident.Name)
	if !ok {
		return NewNull(), in.errorAt(ErrName, ident.position, "name '%s' is not defined", ident.Name)
	}
	idx, err := in.evalExpr(n.Index, env)
	if err != nil {
		return NewNull(), err
	}
	val, err := in.evalExpr(n.Value, env)
	if err != nil {
		return NewNull(), err
	}

	switch obj.Kind() {
	case KindArray:
		arr := obj.Array()
		i, err := resolveIndex(idx, len(arr.Elements))
		if err != nil {
			return NewNull(), in.wrapError(err, n.position)
		}
		arr.Elements[i] = val
	case KindObject:
		obj.Object()[idx.String()] = val
	default:
		return NewNull(), in.errorAt(ErrType, n.position, "cannot assign to an index of %s value", obj.Kind())
	}
	return val, nil
}
