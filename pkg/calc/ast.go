package calc

// Node is the closed set of expression tree nodes.
// The unexported marker keeps other packages from adding node kinds.
type Node interface {
	node()
	String() string
}

// BinaryOperator enumerates the whitelisted binary operators.
type BinaryOperator uint8

const (
	OpAdd BinaryOperator = iota + 1
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

func (op BinaryOperator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	}
	return "?"
}

// UnaryOperator enumerates the whitelisted unary operators.
type UnaryOperator uint8

const (
	OpPos UnaryOperator = iota + 1
	OpNeg
)

func (op UnaryOperator) String() string {
	switch op {
	case OpPos:
		return "+"
	case OpNeg:
		return "-"
	}
	return "?"
}

// Expression is the root wrapper of a parsed candidate.
type Expression struct {
	Body Node
}

func (e *Expression) node() {}

// String re-serializes the tree fully parenthesized; the output passes Gate.
func (e *Expression) String() string { return e.Body.String() }

// NumberLiteral holds a literal exactly as written.
// It is an integer when Raw contains no '.', a float otherwise.
type NumberLiteral struct {
	Raw string
}

func (n *NumberLiteral) node()          {}
func (n *NumberLiteral) String() string { return n.Raw }

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	Op    BinaryOperator
	Left  Node
	Right Node
}

func (n *BinaryOp) node() {}
func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

// UnaryOp applies Op to Operand.
type UnaryOp struct {
	Op      UnaryOperator
	Operand Node
}

func (n *UnaryOp) node() {}
func (n *UnaryOp) String() string {
	return "(" + n.Op.String() + n.Operand.String() + ")"
}
