package sema

import (
	"github.com/WaleedSymbyo/sabre/internal/ast"
	"github.com/WaleedSymbyo/sabre/internal/diag"
	"github.com/WaleedSymbyo/sabre/internal/types"
	"github.com/WaleedSymbyo/sabre/internal/unit"
)

// peelTopType returns the element type expected for positional composite
// literal fields.
func peelTopType(t *types.Type) *types.Type {
	switch t.Kind {
	case types.KindVec, types.KindArray:
		return t.Base
	default:
		return nil
	}
}

func (tc *Typer) resolveComplitExpr(e *ast.Expr) *types.Type {
	t := types.Void
	if !e.Complit.Sign.IsEmpty() {
		t = tc.resolveTypeSign(e.Complit.Sign)
	} else if expected := tc.expectedType(); expected != nil {
		t = expected
	} else {
		tc.errf(diag.SemaTypeMismatch, e.Span, "could not infer composite literal type")
	}

	referenced := make(map[int]int)
	isConst := true
	fieldIndex := 0
	for i := range e.Complit.Fields {
		field := &e.Complit.Fields[i]

		fieldType := t
		failed := false
		if field.Selector != nil {
			fieldType, failed = tc.resolveComplitSelector(t, field)
			if failed {
				break
			}
		} else {
			switch t.Kind {
			case types.KindVec:
				if fieldIndex < t.Width {
					fieldType = t.Base
					field.SelectorIndex = fieldIndex
					fieldIndex++
				} else {
					tc.errf(diag.SemaOutOfRange, field.Value.Span, "type '%s' contains only %d fields", t, t.Width)
					failed = true
				}
			case types.KindStruct:
				if fieldIndex < len(t.Fields) {
					fieldType = t.Fields[fieldIndex].Type
					field.SelectorIndex = fieldIndex
					fieldIndex++
				} else {
					tc.errf(diag.SemaOutOfRange, field.Value.Span, "type '%s' contains only %d fields", t, len(t.Fields))
					failed = true
				}
			case types.KindArray:
				// unbounded arrays take any number of elements
				if t.Count == types.UnboundedArrayCount || int64(fieldIndex) < t.Count {
					fieldType = t.Base
					field.SelectorIndex = fieldIndex
					fieldIndex++
				} else {
					tc.errf(diag.SemaOutOfRange, field.Value.Span, "array '%s' contains only %d elements", t, t.Count)
					failed = true
				}
			default:
				tc.errf(diag.SemaTypeMismatch, field.Value.Span, "type '%s' doesn't have fields", t)
				failed = true
			}
		}

		if !failed {
			// a composite-literal field may be assigned at most once
			if _, dup := referenced[field.SelectorIndex]; dup {
				span := field.Value.Span
				name := ""
				if field.Selector != nil {
					span = field.Selector.Span
					name = field.Selector.Atom.Text
				}
				tc.errf(diag.SemaDuplicateField, span, "duplicate field name '%s' in composite literal", name)
			} else {
				referenced[field.SelectorIndex] = i
			}
		}

		var expected *types.Type
		if field.Selector != nil && !failed {
			expected = fieldType
		} else {
			expected = peelTopType(t)
		}

		if expected != nil {
			tc.pushExpectedType(expected)
		}
		valueType := tc.resolveExpr(field.Value)
		if expected != nil {
			tc.popExpectedType()
		}

		valueInfo := tc.u.Info(field.Value)
		isConst = isConst && valueInfo.Mode == unit.AddressConst && valueInfo.Value.IsValid()

		if failed {
			continue
		}

		// positional smaller vectors upcast into higher slots (vec3+float -> vec4)
		if field.Selector == nil && types.IsVec(t) && types.IsVec(valueType) {
			if valueType.Width <= t.Width && types.IsEqual(valueType.Base, t.Base) {
				fieldIndex += valueType.Width - 1
			} else {
				tc.errf(diag.SemaTypeMismatch, field.Value.Span,
					"type mismatch in compound literal value, type '%s' cannot be constructed from '%s'", t, valueType)
				break
			}
		} else if types.IsUnboundedArray(fieldType) && types.IsBoundedArray(valueType) {
			// bounded arrays assign into unbounded slots; the size flows down
		} else if !tc.canAssign(fieldType, field.Value) {
			tc.errf(diag.SemaTypeMismatch, field.Value.Span,
				"type mismatch in compound literal value, selector type '%s' but expression type is '%s'", fieldType, valueType)
			break
		}
	}

	// an array of unknown size takes its count from the literal
	if types.IsUnboundedArray(t) {
		t = tc.u.Types.Array(t.Base, int64(fieldIndex))
	}

	info := tc.u.Info(e)
	if isConst {
		switch {
		case types.IsVec(t), types.IsArray(t), types.IsStruct(t):
			value := types.AggregateValue(t)
			for i := range e.Complit.Fields {
				field := &e.Complit.Fields[i]
				value = types.AggregateSet(value, field.SelectorIndex, tc.u.Info(field.Value).Value)
			}
			info.Value = value
			info.Mode = unit.AddressConst
		default:
			// non-aggregate constants are handled by the scalar paths
		}
	}
	return t
}

// resolveComplitSelector resolves a `.name` selector against vectors and
// structs, reporting the selected field type.
func (tc *Typer) resolveComplitSelector(t *types.Type, field *ast.ComplitField) (*types.Type, bool) {
	name := field.Selector.Atom.Text
	switch t.Kind {
	case types.KindVec:
		idx := -1
		switch name {
		case "x":
			idx = 0
		case "y":
			idx = 1
		case "z":
			idx = 2
		case "w":
			idx = 3
		}
		if idx < 0 || idx >= t.Width {
			tc.errf(diag.SemaUndefinedSymbol, field.Selector.Span, "type '%s' doesn't have field '%s'", t, name)
			return nil, true
		}
		field.SelectorIndex = idx
		return t.Base, false
	case types.KindStruct:
		idx, ok := t.FieldsByName[name]
		if !ok {
			tc.errf(diag.SemaUndefinedSymbol, field.Selector.Span, "type '%s' doesn't have field '%s'", t, name)
			return nil, true
		}
		field.SelectorIndex = idx
		return t.Fields[idx].Type, false
	default:
		tc.errf(diag.SemaUndefinedSymbol, field.Selector.Span, "type '%s' doesn't have field '%s'", t, name)
		return nil, true
	}
}
