package renderer

import (
	"github.com/brace-lang/brace/runtime/ast"
)

// eval evaluates an expression against the data context. Lookups are
// lenient: absent identifiers, nil member objects and non-callable callees
// all produce nil rather than errors. Errors arise only from context-provided
// callables that return one.
func (r *Renderer) eval(expr ast.Expr, data map[string]any) (any, error) {
	switch n := expr.(type) {
	case *ast.Identifier:
		return data[n.Name], nil

	case *ast.BooleanLiteral:
		return n.Value, nil

	case *ast.NullLiteral:
		return nil, nil

	case *ast.StringLiteral:
		return n.Value, nil

	case *ast.NumericLiteral:
		return n.Value, nil

	case *ast.ArrayExpr:
		elements := make([]any, len(n.Elements))
		for i, el := range n.Elements {
			value, err := r.eval(el, data)
			if err != nil {
				return nil, err
			}
			elements[i] = value
		}
		return elements, nil

	case *ast.MemberExpr:
		object, err := r.eval(n.Object, data)
		if err != nil {
			return nil, err
		}
		if object == nil {
			return nil, nil
		}
		property, err := r.eval(n.Property, data)
		if err != nil {
			return nil, err
		}
		return member(object, property), nil

	case *ast.CallExpr:
		callee, err := r.eval(n.Callee, data)
		if err != nil {
			return nil, err
		}
		args := make([]any, len(n.Args))
		for i, argExpr := range n.Args {
			arg, err := r.eval(argExpr, data)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return call(callee, args)

	case *ast.UnaryExpr:
		operand, err := r.eval(n.Operand, data)
		if err != nil {
			return nil, err
		}
		return applyUnary(n.Op, operand), nil

	case *ast.BinaryExpr:
		left, err := r.eval(n.Left, data)
		if err != nil {
			return nil, err
		}
		right, err := r.eval(n.Right, data)
		if err != nil {
			return nil, err
		}
		return applyBinary(n.Op, left, right), nil

	case *ast.LogicalExpr:
		// Both sides always evaluate: call arguments may have side effects,
		// so there is no lazy short circuit.
		left, err := r.eval(n.Left, data)
		if err != nil {
			return nil, err
		}
		right, err := r.eval(n.Right, data)
		if err != nil {
			return nil, err
		}
		if n.Op == "&&" {
			if truthy(left) {
				return right, nil
			}
			return left, nil
		}
		if truthy(left) {
			return left, nil
		}
		return right, nil

	case *ast.ConditionalExpr:
		test, err := r.eval(n.Test, data)
		if err != nil {
			return nil, err
		}
		if truthy(test) {
			return r.eval(n.Consequent, data)
		}
		return r.eval(n.Alternate, data)

	default:
		return nil, nil
	}
}

func applyUnary(op string, operand any) any {
	switch op {
	case "!":
		return !truthy(operand)
	case "-":
		return -num(operand)
	case "+":
		return num(operand)
	default:
		return nil
	}
}

func applyBinary(op string, left, right any) any {
	switch op {
	case "+":
		// String concatenation when either side is a string.
		if isString(left) || isString(right) {
			return stringify(left) + stringify(right)
		}
		return num(left) + num(right)
	case "-":
		return num(left) - num(right)
	case "*":
		return num(left) * num(right)
	case "/":
		return num(left) / num(right)
	case "==":
		return looseEq(left, right)
	case "!=":
		return !looseEq(left, right)
	case "<", ">", "<=", ">=":
		return applyCompare(op, left, right)
	default:
		return nil
	}
}
