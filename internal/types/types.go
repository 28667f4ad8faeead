package types

import "fmt"

// Kind labels the payload type of a secret value.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindBool   Kind = "bool"
	KindFloat  Kind = "float"
	KindDate   Kind = "date"
	KindBinary Kind = "binary"
	KindList   Kind = "list"
	KindRecord Kind = "record"
)

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindString, KindInt, KindBool, KindFloat,
		KindDate, KindBinary, KindList, KindRecord,
	}
}

// ParseKind validates a kind label.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// SecurityLevel controls how strictly the host treats reveal and audit.
type SecurityLevel string

const (
	SecurityMinimal  SecurityLevel = "minimal"
	SecurityStandard SecurityLevel = "standard"
	SecurityParanoid SecurityLevel = "paranoid"
)

// ParseSecurityLevel validates a security level label.
func ParseSecurityLevel(s string) (SecurityLevel, error) {
	switch SecurityLevel(s) {
	case SecurityMinimal, SecurityStandard, SecurityParanoid:
		return SecurityLevel(s), nil
	}
	return "", fmt.Errorf("unknown security level %q", s)
}

// Operator identifies a binary comparison operator.
type Operator string

const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "ne"
	OpLess         Operator = "lt"
	OpGreater      Operator = "gt"
	OpLessEqual    Operator = "le"
	OpGreaterEqual Operator = "ge"
)

// Symbol returns the operator's source form.
func (o Operator) Symbol() string {
	switch o {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEqual:
		return "<="
	case OpGreaterEqual:
		return ">="
	}
	return string(o)
}

// IsEquality reports whether the operator is == or !=.
func (o Operator) IsEquality() bool {
	return o == OpEqual || o == OpNotEqual
}

// IsOrdering reports whether the operator is one of < > <= >=.
func (o Operator) IsOrdering() bool {
	switch o {
	case OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		return true
	}
	return false
}

// ParseOperator accepts both symbol and mnemonic forms.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "==", "eq":
		return OpEqual, nil
	case "!=", "ne":
		return OpNotEqual, nil
	case "<", "lt":
		return OpLess, nil
	case ">", "gt":
		return OpGreater, nil
	case "<=", "le":
		return OpLessEqual, nil
	case ">=", "ge":
		return OpGreaterEqual, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}
