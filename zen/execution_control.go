package zen

func (in *Interpreter) evalCondition(node Node, env *Env) (bool, error) {
	val, err := in.evalExpr(node, env)
	if err != nil {
		return false, err
	}
	return val.Truthy(), nil
}

func (in *Interpreter) execIf(n *IfStmt, env *Env) (flow, error) {
	ok, err := in.evalCondition(n.Condition, env)
	if err != nil {
		return normalFlow, err
	}
	if ok {
		return in.execStatements(n.Then.Statements, env)
	}
	if n.Else != nil {
		return in.execStatements(n.Else.Statements, env)
	}
	return normalFlow, nil
}

// loopBody runs one iteration. stop is true when the loop must end, either
// by break or by a return that the caller propagates.
func (in *Interpreter) loopBody(body *Block, env *Env) (f flow, stop bool, err error) {
	if err := in.step(); err != nil {
		return normalFlow, true, err
	}
	f, err = in.execStatements(body.Statements, env)
	if err != nil {
		return normalFlow, true, err
	}
	switch f.kind {
	case flowBreak:
		return normalFlow, true, nil
	case flowReturn:
		return f, true, nil
	default:
		return normalFlow, false, nil
	}
}

func (in *Interpreter) execWhile(n *WhileStmt, env *Env) (flow, error) {
	for {
		ok, err := in.evalCondition(n.Condition, env)
		if err != nil || !ok {
			return normalFlow, err
		}
		f, stop, err := in.loopBody(n.Body, env)
		if stop || err != nil {
			return f, err
		}
	}
}

// execDoWhile checks the condition after every iteration, including one
// ended by continue.
func (in *Interpreter) execDoWhile(n *DoWhileStmt, env *Env) (flow, error) {
	for {
		f, stop, err := in.loopBody(n.Body, env)
		if stop || err != nil {
			return f, err
		}
		ok, err := in.evalCondition(n.Condition, env)
		if err != nil || !ok {
			return normalFlow, err
		}
	}
}

// execFor runs the increment after continue as well as after a normal
// iteration.
func (in *Interpreter) execFor(n *ForStmt, env *Env) (flow, error) {
	if n.Init != nil {
		if _, err := in.evalExpr(n.Init, env); err != nil {
			return normalFlow, err
		}
	}
	for {
		if n.Condition != nil {
			ok, err := in.evalCondition(n.Condition, env)
			if err != nil || !ok {
				return normalFlow, err
			}
		}
		f, stop, err := in.loopBody(n.Body, env)
		if stop || err != nil {
			return f, err
		}
		if n.Increment != nil {
			if _, err := in.evalExpr(n.Increment, env); err != nil {
				return normalFlow, err
			}
		}
	}
}
