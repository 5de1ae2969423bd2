package zen

type flowKind int

const (
	flowNormal flowKind = iota
	flowBreak
	flowContinue
	flowReturn
)

// flow is the control-flow outcome of executing a statement. Errors travel
// separately.
type flow struct {
	kind  flowKind
	value Value
	pos   Position
}

var normalFlow = flow{kind: flowNormal}

// execTopLevel runs program statements in the global scope and returns the
// value of the last expression statement.
func (in *Interpreter) execTopLevel(stmts []Node) (Value, error) {
	last := NewNull()
	for _, stmt := range stmts {
		if isStatementNode(stmt) {
			f, err := in.execStatement(stmt, in.globals)
			if err != nil {
				return NewNull(), err
			}
			if f.kind != flowNormal {
				return NewNull(), in.strayFlowError(f)
			}
			last = NewNull()
			continue
		}
		if err := in.step(); err != nil {
			return NewNull(), err
		}
		val, err := in.evalExpr(stmt, in.globals)
		if err != nil {
			return NewNull(), err
		}
		last = val
	}
	return last, nil
}

func (in *Interpreter) strayFlowError(f flow) error {
	switch f.kind {
	case flowBreak:
		return in.errorAt(ErrRuntime, f.pos, "'break' outside loop")
	case flowContinue:
		return in.errorAt(ErrRuntime, f.pos, "'continue' outside loop")
	default:
		return in.errorAt(ErrRuntime, f.pos, "'return' outside function")
	}
}

func isStatementNode(node Node) bool {
	switch n := node.(type) {
	case *ClassDef, *IfStmt, *WhileStmt, *DoWhileStmt, *ForStmt,
		*BreakStmt, *ContinueStmt, *ReturnStmt, *Block:
		return true
	case *FunctionDef:
		return n.Name != ""
	default:
		return false
	}
}

func (in *Interpreter) execStatements(stmts []Node, env *Env) (flow, error) {
	for _, stmt := range stmts {
		f, err := in.execStatement(stmt, env)
		if err != nil {
			return normalFlow, err
		}
		if f.kind != flowNormal {
			return f, nil
		}
	}
	return normalFlow, nil
}

func (in *Interpreter) execStatement(node Node, env *Env) (flow, error) {
	if err := in.step(); err != nil {
		return normalFlow, err
	}

	switch n := node.(type) {
	case *ClassDef:
		return normalFlow, in.defineClass(n, env)
	case *IfStmt:
		return in.execIf(n, env)
	case *WhileStmt:
		return in.execWhile(n, env)
	case *DoWhileStmt:
		return in.execDoWhile(n, env)
	case *ForStmt:
		return in.execFor(n, env)
	case *BreakStmt:
		return flow{kind: flowBreak, pos: n.position}, nil
	case *ContinueStmt:
		return flow{kind: flowContinue, pos: n.position}, nil
	case *ReturnStmt:
		val := NewNull()
		if n.Value != nil {
			var err error
			if val, err = in.evalExpr(n.Value, env); err != nil {
				return normalFlow, err
			}
		}
		return flow{kind: flowReturn, value: val, pos: n.position}, nil
	case *Block:
		return in.execStatements(n.Statements, env)
	default:
		if _, err := in.evalExpr(node, env); err != nil {
			return normalFlow, err
		}
		return normalFlow, nil
	}
}

func (in *Interpreter) evalExpr(node Node, env *Env) (Value, error) {
	switch n := node.(type) {
	case *IntegerLiteral:
		return NewInt(n.Value), nil
	case *FloatLiteral:
		return NewFloat(n.Value), nil
	case *StringLiteral:
		return NewString(n.Value), nil
	case *BoolLiteral:
		return NewBool(n.Value), nil
	case *NullLiteral:
		return NewNull(), nil
	case *Identifier:
		val, ok := env.Get(n.Name)
		if !ok {
			return NewNull(), in.errorAt(ErrName, n.position, "name '%s' is not defined", n.Name)
		}
		return val, nil
	case *ThisExpr:
		val, ok := env.Get("this")
		if !ok {
			return NewNull(), in.errorAt(ErrName, n.position, "'this' used outside a method")
		}
		return val, nil
	case *Assign:
		val, err := in.evalExpr(n.Value, env)
		if err != nil {
			return NewNull(), err
		}
		env.Define(n.Name, val)
		return val, nil
	case *FunctionDef:
		fn := NewFunction(&Function{
			Name:   n.Name,
			Params: n.Params,
			Body:   n.Body,
			Env:    env,
			Pos:    n.position,
			source: in.source,
		})
		if n.Name != "" {
			env.Define(n.Name, fn)
		}
		return fn, nil
	case *BinaryExpr:
		return in.evalBinary(n, env)
	case *UnaryExpr:
		return in.evalUnary(n, env)
	case *CallExpr:
		return in.evalCall(n, env)
	case *MemberExpr:
		return in.evalMember(n, env)
	case *MemberAssign:
		return in.evalMemberAssign(n, env)
	case *IndexExpr:
		return in.evalIndex(n, env)
	case *IndexAssign:
		return in.evalIndexAssign(n, env)
	case *ObjectLiteral:
		obj := make(map[string]Value, len(n.Properties))
		for _, prop := range n.Properties {
			val, err := in.evalExpr(prop.Value, env)
			if err != nil {
				return NewNull(), err
			}
			obj[prop.Key] = val
		}
		return NewObject(obj), nil
	case *ArrayLiteral:
		elems, err := in.evalArgs(n.Elements, env)
		if err != nil {
			return NewNull(), err
		}
		return NewArray(elems), nil
	case *NewExpr:
		return in.evalNew(n, env)
	default:
		return NewNull(), in.errorAt(ErrRuntime, node.Pos(), "cannot evaluate %T as an expression", node)
	}
}

func (in *Interpreter) evalArgs(nodes []Node, env *Env) ([]Value, error) {
	vals := make([]Value, len(nodes))
	for i, node := range nodes {
		val, err := in.evalExpr(node, env)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}
	return vals, nil
}
