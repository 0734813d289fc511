package filter

import "fmt"

// Expr is a two-expression comparison operand: either a property reference
// or a literal value (§4.1). It models what an external CQL/ECQL parser
// hands the normalizer before it has decided which side is which.
type Expr interface {
	isExpr()
}

// Property references an attribute by name.
type Property struct{ Name string }

// Literal is a constant value.
type Literal struct{ Value interface{} }

func (Property) isExpr() {}
func (Literal) isExpr()  {}

// ClassifyComparison applies the §4.1 comparison-shape rule: for a
// comparison-like predicate with exactly two expressions, identify the
// (PropertyName, Literal) shape and record Flipped.
//
//   - (Property, Literal)  -> PropertyLiteral{Name, Literal, Flipped: false}
//   - (Literal, Property)  -> PropertyLiteral{Name, Literal, Flipped: true}
//   - (Literal, Literal) or (Property, Property) -> (nil, nil): the caller
//     treats the predicate as opaque residual.
//   - any other shape -> ErrUnsupportedExpression.
func ClassifyComparison(left, right Expr) (*PropertyLiteral, error) {
	switch l := left.(type) {
	case Property:
		switch r := right.(type) {
		case Literal:
			return &PropertyLiteral{Name: l.Name, Literal: r.Value, Flipped: false}, nil
		case Property:
			return nil, nil
		default:
			return nil, fmt.Errorf("%w: unrecognized right operand %T", ErrUnsupportedExpression, right)
		}
	case Literal:
		switch r := right.(type) {
		case Property:
			return &PropertyLiteral{Name: r.Name, Literal: l.Value, Flipped: true}, nil
		case Literal:
			return nil, nil
		default:
			return nil, fmt.Errorf("%w: unrecognized right operand %T", ErrUnsupportedExpression, right)
		}
	default:
		return nil, fmt.Errorf("%w: unrecognized left operand %T", ErrUnsupportedExpression, left)
	}
}

// NewPropertyCompare builds a PropertyCompare from two expressions and an
// operator, reflecting the operator when the literal was on the left
// (§9 open question: "11 > attr2" flips to "attr2 < 11").
func NewPropertyCompare(op CompareOp, left, right Expr) (*PropertyCompare, error) {
	pl, err := ClassifyComparison(left, right)
	if err != nil {
		return nil, err
	}
	if pl == nil {
		return nil, nil
	}
	resolvedOp := op
	if pl.Flipped {
		resolvedOp = op.Flip()
	}
	return &PropertyCompare{
		Op:      resolvedOp,
		Name:    pl.Name,
		Literal: pl.Literal,
		Flipped: pl.Flipped,
	}, nil
}
