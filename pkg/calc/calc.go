/*
Package calc is a safe arithmetic evaluator for user-supplied text.

Evaluate accepts strings that look like math ("2+3*4", "2^8", "3.5 x 4") and
computes their value without ever executing code. Safety is layered:

 1. Normalize lowercases the input and rewrites friendly syntax ("^", "x").
 2. Gate rejects anything that is not digits, ".", whitespace or + - * / % ( ).
 3. Parse builds a closed tree of NumberLiteral, BinaryOp and UnaryOp nodes.
 4. Eval computes only the whitelisted operators {+, -, *, /, //, %, **} and
    unary {+, -}; any other node or operator aborts.

Errors are classified with errors.Is: domain.ErrNotMath for input that is not a
pure arithmetic expression, domain.ErrArithmetic for valid expressions that fault
while computing (division by zero, overflow, domain errors).
*/
package calc

// Evaluate normalizes, gatekeeps, parses and evaluates raw text.
func Evaluate(raw string) (Number, error) {
	candidate := Normalize(raw)
	if err := Gate(candidate); err != nil {
		return Number{}, err
	}
	expr, err := Parse(candidate)
	if err != nil {
		return Number{}, err
	}
	return Eval(expr)
}
