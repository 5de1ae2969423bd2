package zen

type Block struct {
	Statements []Node
	position   Position
}

func (n *Block) node()         {}
func (n *Block) Pos() Position { return n.position }

// IfStmt holds an optional else block; `else if` chains are parsed as a
// block containing a single nested IfStmt.
type IfStmt struct {
	Condition Node
	Then      *Block
	Else      *Block
	position  Position
}

func (n *IfStmt) node()         {}
func (n *IfStmt) Pos() Position { return n.position }

type WhileStmt struct {
	Condition Node
	Body      *Block
	position  Position
}

func (n *WhileStmt) node()         {}
func (n *WhileStmt) Pos() Position { return n.position }

type DoWhileStmt struct {
	Body      *Block
	Condition Node
	position  Position
}

func (n *DoWhileStmt) node()         {}
func (n *DoWhileStmt) Pos() Position { return n.position }

// ForStmt is the C-style loop; Init, Condition and Increment may be nil.
type ForStmt struct {
	Init      Node
	Condition Node
	Increment Node
	Body      *Block
	position  Position
}

func (n *ForStmt) node()         {}
func (n *ForStmt) Pos() Position { return n.position }

type BreakStmt struct {
	position Position
}

func (n *BreakStmt) node()         {}
func (n *BreakStmt) Pos() Position { return n.position }

type ContinueStmt struct {
	position Position
}

func (n *ContinueStmt) node()         {}
func (n *ContinueStmt) Pos() Position { return n.position }

type ReturnStmt struct {
	Value    Node
	position Position
}

func (n *ReturnStmt) node()         {}
func (n *ReturnStmt) Pos() Position { return n.position }

// AccessModifier is the declared visibility of a class member.
type AccessModifier string

const (
	AccessPublic    AccessModifier = "public"
	AccessPrivate   AccessModifier = "private"
	AccessProtected AccessModifier = "protected"
)

type MethodDef struct {
	Name     string
	Params   []string
	Body     *Block
	Access   AccessModifier
	Static   bool
	position Position
}

func (n *MethodDef) node()         {}
func (n *MethodDef) Pos() Position { return n.position }

type PropertyDef struct {
	Name     string
	Default  Node
	Access   AccessModifier
	Static   bool
	position Position
}

func (n *PropertyDef) node()         {}
func (n *PropertyDef) Pos() Position { return n.position }

type ClassDef struct {
	Name       string
	Parent     string
	Methods    []*MethodDef
	Properties []*PropertyDef
	position   Position
}

func (n *ClassDef) node()         {}
func (n *ClassDef) Pos() Position { return n.position }
