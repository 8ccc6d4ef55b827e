// Package ast defines the node types produced by the template and expression
// parsers. Nodes form a strict tree: each node is owned exactly once by its
// parent, and the tree is immutable after parsing.
package ast

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Block is a template-level node (text, tag, control flow, import).
type Block interface {
	Node
	block()
}

// Expr is an expression-level node.
type Expr interface {
	Node
	expr()
}

// BlockList is an ordered sequence of blocks. It is the root of a parsed
// template and the body of every if/else/for branch.
type BlockList struct {
	Blocks []Block
}

// Text is a run of literal output. Consecutive raw text tokens are coalesced
// into a single node. Flags holds the single-character flags ('!' trim,
// '#' escape) inherited from the enclosing block's opening tag; they apply to
// immediate text children only, never recursively through nested blocks.
type Text struct {
	Line  int
	Value string
	Flags string
}

// Tag is a `{...}` output directive: its expression is evaluated, stringified
// and post-processed by its flags in declared order.
type Tag struct {
	Line  int
	Flags string
	Expr  Expr
}

// If is a conditional block. Alternate is nil, an *If (for `else if` chains)
// or an *Else; the consequent never includes its own else branch.
type If struct {
	Line       int
	Test       Expr
	Consequent *BlockList
	Alternate  Block
}

// Else is the final branch of an if chain.
type Else struct {
	Line int
	Body *BlockList
}

// For is a loop block. Names holds one or two declared identifiers: with one
// name it binds the element value, with two the first binds the value and the
// second the index or key.
type For struct {
	Line  int
	Names []string
	Seq   Expr
	Body  *BlockList
}

// ImportArg is one `key: value` pair of an import's `with` list. Keys need
// not be unique; later entries override earlier ones when merged.
type ImportArg struct {
	Key   string
	Value Expr
}

// Import composes another template at render time. It is a leaf at parse
// time; path resolution and loading happen only during rendering.
type Import struct {
	Line int
	Path Expr
	Args []ImportArg
}

// Identifier resolves a name against the data context.
type Identifier struct {
	Line int
	Name string
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Line  int
	Value bool
}

// NullLiteral is `null`.
type NullLiteral struct {
	Line int
}

// StringLiteral is a quoted string with the quotes removed.
type StringLiteral struct {
	Line  int
	Value string
}

// NumericLiteral is a decimal number.
type NumericLiteral struct {
	Line  int
	Value float64
}

// ArrayExpr is a bracketed element list, evaluated to a fresh slice on each
// render.
type ArrayExpr struct {
	Line     int
	Elements []Expr
}

// MemberExpr is property access. The dot form stores the property name as a
// StringLiteral with Computed false; the bracket form stores the index
// expression with Computed true.
type MemberExpr struct {
	Line     int
	Object   Expr
	Property Expr
	Computed bool
}

// CallExpr invokes a callable value from the data context with evaluated
// arguments. The callee may itself be a member or nested call.
type CallExpr struct {
	Line   int
	Callee Expr
	Args   []Expr
}

// UnaryExpr is prefix `!`, `-` or `+`.
type UnaryExpr struct {
	Line    int
	Op      string
	Operand Expr
}

// BinaryExpr is an arithmetic or comparison operation. Same-precedence chains
// are built left-leaning, so evaluation order is left to right.
type BinaryExpr struct {
	Line  int
	Op    string
	Left  Expr
	Right Expr
}

// LogicalExpr is `&&` or `||`. Both sides are always evaluated; the result is
// the selecting operand's value.
type LogicalExpr struct {
	Line  int
	Op    string
	Left  Expr
	Right Expr
}

// ConditionalExpr is the right-associative ternary.
type ConditionalExpr struct {
	Line       int
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (*BlockList) node() {}

func (*Text) node()  {}
func (*Text) block() {}

func (*Tag) node()  {}
func (*Tag) block() {}

func (*If) node()  {}
func (*If) block() {}

func (*Else) node()  {}
func (*Else) block() {}

func (*For) node()  {}
func (*For) block() {}

func (*Import) node()  {}
func (*Import) block() {}

func (*Identifier) node() {}
func (*Identifier) expr() {}

func (*BooleanLiteral) node() {}
func (*BooleanLiteral) expr() {}

func (*NullLiteral) node() {}
func (*NullLiteral) expr() {}

func (*StringLiteral) node() {}
func (*StringLiteral) expr() {}

func (*NumericLiteral) node() {}
func (*NumericLiteral) expr() {}

func (*ArrayExpr) node() {}
func (*ArrayExpr) expr() {}

func (*MemberExpr) node() {}
func (*MemberExpr) expr() {}

func (*CallExpr) node() {}
func (*CallExpr) expr() {}

func (*UnaryExpr) node() {}
func (*UnaryExpr) expr() {}

func (*BinaryExpr) node() {}
func (*BinaryExpr) expr() {}

func (*LogicalExpr) node() {}
func (*LogicalExpr) expr() {}

func (*ConditionalExpr) node() {}
func (*ConditionalExpr) expr() {}
