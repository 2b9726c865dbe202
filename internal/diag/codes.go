package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo           Code = 1000
	LexUnknownChar    Code = 1001
	LexBadNumber      Code = 1002
	LexLeadingDot     Code = 1003
	LexUnterminated   Code = 1004

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynExpectIdent     Code = 2002
	SynExpectType      Code = 2003
	SynExpectExpr      Code = 2004
	SynExpectSemicolon Code = 2005
	SynBadTag          Code = 2006
	SynBadTopLevel     Code = 2007

	// Семантические
	SemaInfo                Code = 3000
	SemaUndefinedSymbol     Code = 3001
	SemaRedefinition        Code = 3002
	SemaCyclicDependency    Code = 3003
	SemaTypeMismatch        Code = 3004
	SemaArityMismatch       Code = 3005
	SemaIllegalOperator     Code = 3006
	SemaOutOfRange          Code = 3007
	SemaDuplicateField      Code = 3008
	SemaAmbiguousOverload   Code = 3009
	SemaNoOverload          Code = 3010
	SemaAmbiguousDeduction  Code = 3011
	SemaMissingReturn       Code = 3012
	SemaIllegalShaderIO     Code = 3013
	SemaMissingTagArg       Code = 3014
	SemaDuplicateBinding    Code = 3015
	SemaIllegalUniform      Code = 3016
	SemaNonConstCondition   Code = 3017
	SemaNonBoolCondition    Code = 3018
	SemaNotConst            Code = 3019
	SemaBadCast             Code = 3020
	SemaBadSwizzle          Code = 3021
	SemaBadAssign           Code = 3022
	SemaBadLoopControl      Code = 3023
	SemaBadCall             Code = 3024
	SemaBadImport           Code = 3025
	SemaRecursiveType       Code = 3026
	SemaTemplateNote        Code = 3027
)

func (c Code) String() string {
	return fmt.Sprintf("SAB%04d", uint16(c))
}
