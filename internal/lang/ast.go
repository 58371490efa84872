package lang

// Expr is any expression node. Pos returns the byte offset of the node's
// first token in the source snippet.
type Expr interface {
	Pos() int
}

// Stmt is one top-level statement: a let binding or a bare expression.
type Stmt struct {
	// Name is the bound identifier for a let statement, empty for an
	// expression statement.
	Name string
	Expr Expr
	pos  int
}

func (s Stmt) Pos() int { return s.pos }

// IsLet reports whether the statement binds a name.
func (s Stmt) IsLet() bool { return s.Name != "" }

type Ident struct {
	Name string
	pos  int
}

type NumberLit struct {
	Value float64
	Text  string
	pos   int
}

type StringLit struct {
	Value string
	pos   int
}

type BoolLit struct {
	Value bool
	pos   int
}

type ListLit struct {
	Elems []Expr
	pos   int
}

// TupleLit is a parenthesized list of two or more expressions. A single
// parenthesized expression is just grouping and produces no node.
type TupleLit struct {
	Items []Expr
	pos   int
}

type RecordField struct {
	Name  string
	Value Expr
}

type RecordLit struct {
	Fields []RecordField
	pos    int
}

// Member is a field or method access, x.name.
type Member struct {
	X    Expr
	Name string
	pos  int
}

type Call struct {
	Fn   Expr
	Args []Expr
	pos  int
}

// Await unwraps a deferred value.
type Await struct {
	X   Expr
	pos int
}

// Binary is an arithmetic or concatenation expression.
type Binary struct {
	Op    tokenKind
	Left  Expr
	Right Expr
	pos   int
}

func (e *Ident) Pos() int     { return e.pos }
func (e *NumberLit) Pos() int { return e.pos }
func (e *StringLit) Pos() int { return e.pos }
func (e *BoolLit) Pos() int   { return e.pos }
func (e *ListLit) Pos() int   { return e.pos }
func (e *TupleLit) Pos() int  { return e.pos }
func (e *RecordLit) Pos() int { return e.pos }
func (e *Member) Pos() int    { return e.pos }
func (e *Call) Pos() int      { return e.pos }
func (e *Await) Pos() int     { return e.pos }
func (e *Binary) Pos() int    { return e.pos }
