package zen

// Node is implemented by every syntax tree variant. The set is closed: only
// types in this package satisfy it.
type Node interface {
	Pos() Position
	node()
}

// Program is the root of a parsed source file.
type Program struct {
	Includes   []*Include
	Statements []Node
	source     string
	path       string
}

func (p *Program) node() {}
func (p *Program) Pos() Position {
	if len(p.Includes) > 0 {
		return p.Includes[0].Pos()
	}
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return Position{Line: 1, Column: 1}
}

// Source returns the text the program was parsed from.
func (p *Program) Source() string { return p.source }

type Include struct {
	Package  string
	position Position
}

func (n *Include) node()         {}
func (n *Include) Pos() Position { return n.position }

// FunctionDef is a named function statement or an anonymous function
// expression when Name is empty.
type FunctionDef struct {
	Name     string
	Params   []string
	Body     *Block
	position Position
}

func (n *FunctionDef) node()         {}
func (n *FunctionDef) Pos() Position { return n.position }

type CallExpr struct {
	Callee   Node
	Args     []Node
	position Position
}

func (n *CallExpr) node()         {}
func (n *CallExpr) Pos() Position { return n.position }

type MemberExpr struct {
	Object   Node
	Property string
	position Position
}

func (n *MemberExpr) node()         {}
func (n *MemberExpr) Pos() Position { return n.position }

type MemberAssign struct {
	Object   Node
	Property string
	Value    Node
	position Position
}

func (n *MemberAssign) node()         {}
func (n *MemberAssign) Pos() Position { return n.position }

type IndexExpr struct {
	Object   Node
	Index    Node
	position Position
}

func (n *IndexExpr) node()         {}
func (n *IndexExpr) Pos() Position { return n.position }

type IndexAssign struct {
	Object   Node
	Index    Node
	Value    Node
	position Position
}

func (n *IndexAssign) node()         {}
func (n *IndexAssign) Pos() Position { return n.position }

type Assign struct {
	Name     string
	Value    Node
	position Position
}

func (n *Assign) node()         {}
func (n *Assign) Pos() Position { return n.position }

type BinaryExpr struct {
	Left     Node
	Operator TokenType
	Right    Node
	position Position
}

func (n *BinaryExpr) node()         {}
func (n *BinaryExpr) Pos() Position { return n.position }

type UnaryExpr struct {
	Operator TokenType
	Right    Node
	position Position
}

func (n *UnaryExpr) node()         {}
func (n *UnaryExpr) Pos() Position { return n.position }

type IntegerLiteral struct {
	Value    int64
	position Position
}

func (n *IntegerLiteral) node()         {}
func (n *IntegerLiteral) Pos() Position { return n.position }

type FloatLiteral struct {
	Value    float64
	position Position
}

func (n *FloatLiteral) node()         {}
func (n *FloatLiteral) Pos() Position { return n.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (n *StringLiteral) node()         {}
func (n *StringLiteral) Pos() Position { return n.position }

type BoolLiteral struct {
	Value    bool
	position Position
}

func (n *BoolLiteral) node()         {}
func (n *BoolLiteral) Pos() Position { return n.position }

type NullLiteral struct {
	position Position
}

func (n *NullLiteral) node()         {}
func (n *NullLiteral) Pos() Position { return n.position }

type Identifier struct {
	Name     string
	position Position
}

func (n *Identifier) node()         {}
func (n *Identifier) Pos() Position { return n.position }

type ThisExpr struct {
	position Position
}

func (n *ThisExpr) node()         {}
func (n *ThisExpr) Pos() Position { return n.position }

type ObjectProperty struct {
	Key   string
	Value Node
}

type ObjectLiteral struct {
	Properties []ObjectProperty
	position   Position
}

func (n *ObjectLiteral) node()         {}
func (n *ObjectLiteral) Pos() Position { return n.position }

type ArrayLiteral struct {
	Elements []Node
	position Position
}

func (n *ArrayLiteral) node()         {}
func (n *ArrayLiteral) Pos() Position { return n.position }

type NewExpr struct {
	Class    string
	Args     []Node
	position Position
}

func (n *NewExpr) node()         {}
func (n *NewExpr) Pos() Position { return n.position }
