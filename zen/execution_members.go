package zen

import "errors"

func isThis(node Node) bool {
	_, ok := node.(*ThisExpr)
	return ok
}

func (in *Interpreter) evalMember(n *MemberExpr, env *Env) (Value, error) {
	obj, err := in.evalExpr(n.Object, env)
	if err != nil {
		return NewNull(), err
	}
	internal := isThis(n.Object)

	switch obj.Kind() {
	case KindInstance:
		inst := obj.Instance()
		val, err := inst.GetProperty(n.Property, internal)
		if err == nil {
			return val, nil
		}
		var classified *classifiedError
		if errors.As(err, &classified) && classified.kind == ErrLookup && inst.HasMethod(n.Property) {
			return newBoundMethod(&BoundMethod{Instance: inst, Class: inst.Class, Name: n.Property, Internal: internal}), nil
		}
		if errors.As(err, &classified) && classified.kind == ErrLookup {
			return NewNull(), in.errorAt(ErrLookup, n.position, "%s has no property or method '%s'", inst.Class.Name, n.Property)
		}
		return NewNull(), in.wrapError(err, n.position)
	case KindClass:
		class := obj.Class()
		if prop := class.findStaticProperty(n.Property); prop != nil {
			if prop.Access == AccessPrivate && !in.insideClass(class) {
				return NewNull(), in.errorAt(ErrAccess, n.position, "cannot access private property '%s' of %s", n.Property, class.Name)
			}
			return prop.Value, nil
		}
		if m, _ := class.FindStaticMethod(n.Property, 0); m != nil {
			return newBoundMethod(&BoundMethod{Class: class, Name: n.Property}), nil
		}
		return NewNull(), in.errorAt(ErrLookup, n.position, "class %s has no static member '%s'", class.Name, n.Property)
	case KindObject:
		if val, ok := obj.Object()[n.Property]; ok {
			return val, nil
		}
		return NewNull(), nil
	default:
		return NewNull(), in.errorAt(ErrLookup, n.position, "%s value has no member '%s'", obj.Kind(), n.Property)
	}
}

func (in *Interpreter) evalMemberAssign(n *MemberAssign, env *Env) (Value, error) {
	obj, err := in.evalExpr(n.Object, env)
	if err != nil {
		return NewNull(), err
	}
	val, err := in.evalExpr(n.Value, env)
	if err != nil {
		return NewNull(), err
	}

	switch obj.Kind() {
	case KindInstance:
		if err := obj.Instance().SetProperty(n.Property, val, isThis(n.Object)); err != nil {
			return NewNull(), in.wrapError(err, n.position)
		}
	case KindObject:
		obj.Object()[n.Property] = val
	case KindClass:
		prop := obj.Class().findStaticProperty(n.Property)
		if prop == nil {
			return NewNull(), in.errorAt(ErrType, n.position, "cannot set '%s' on class %s: not a declared static property", n.Property, obj.Class().Name)
		}
		if prop.Access == AccessPrivate && !in.insideClass(obj.Class()) {
			return NewNull(), in.errorAt(ErrAccess, n.position, "cannot access private property '%s' of %s", n.Property, obj.Class().Name)
		}
		prop.Value = val
	default:
		return NewNull(), in.errorAt(ErrType, n.position, "cannot set property '%s' on %s value", n.Property, obj.Kind())
	}
	return val, nil
}
