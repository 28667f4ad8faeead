// Package secret implements the secret-carrying value wrappers.
//
// A value owns its sensitive payload exclusively. Every outward-facing
// textual path (Stringer, GoStringer, text/JSON/YAML marshalling, the
// explicit render methods) goes through the redaction template engine and
// degrades to a fixed fallback marker on any template failure. The raw
// payload leaves a value only through its typed Reveal method or, as a
// derived and irreversible form, through HashHex.
package secret

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/arjun-29/veil/internal/template"
	"github.com/arjun-29/veil/internal/types"
)

// ErrNotOrderable marks comparisons whose operands have no defined order,
// such as a NaN float or any list/record value.
var ErrNotOrderable = errors.New("values are not orderable")

// ErrKindMismatch marks an ordering attempt across different secret kinds.
var ErrKindMismatch = errors.New("ordering requires two values of the same secret kind")

// Value is the type-erased view of a secret value. It is sealed: only the
// kinds defined in this package implement it.
type Value interface {
	// Kind returns the payload kind discriminant.
	Kind() types.Kind
	// DisplayString renders the value through its redaction template.
	DisplayString() string
	// DebugString renders the debug form; like every other textual path
	// it never contains the raw payload.
	DebugString() string
	// SerializedPlaceholder is the textual stand-in used when a value is
	// embedded in a structured document.
	SerializedPlaceholder() string
	// Equal reports constant-time equality. A different kind, or a
	// non-value, is never equal.
	Equal(other Value) bool
	// Compare orders the value against another of the same kind,
	// returning -1, 0 or 1. It fails with ErrKindMismatch across kinds
	// and ErrNotOrderable where no order is defined.
	Compare(other Value) (int, error)
	// HashHex returns the SHA-256 of the canonical payload encoding.
	HashHex() string
	// Close zeroizes the owned payload. The value must not be used
	// afterwards.
	Close()

	template() string
	rawString() string
	length() (int, bool)
	canonicalBytes() []byte
	orderable() bool
}

// Length reports the value's length metadata (characters for strings,
// bytes for binary, element count for collections) when one is defined.
// Length is metadata, not content, and is safe to expose.
func Length(v Value) (int, bool) { return v.length() }

// Orderable reports whether the value's kind defines an order at all.
// A NaN float still counts as orderable here; its Compare fails with
// ErrNotOrderable only against the concrete operands.
func Orderable(v Value) bool { return v.orderable() }

const fallbackOpen = "<redacted:"

// fallbackFor is the fixed degradation output used whenever template
// compilation or rendering fails for an instance render.
func fallbackFor(k types.Kind) string {
	return fallbackOpen + string(k) + ">"
}

// BuiltinDefaultTemplate is the process default before configuration is
// applied. It reveals nothing beyond the kind name.
const BuiltinDefaultTemplate = "<redacted:{{secret_type}}>"

var defaultTemplate = BuiltinDefaultTemplate

// DefaultTemplate returns the process-wide default template source.
func DefaultTemplate() string { return defaultTemplate }

// SetDefaultTemplate replaces the process default. Unlike per-instance
// templates, the global default must validate against the sample context;
// an invalid global template is a configuration error, not a render-time
// fallback.
func SetDefaultTemplate(src string) error {
	if src == "" {
		defaultTemplate = BuiltinDefaultTemplate
		return nil
	}
	if err := template.Validate(src); err != nil {
		return err
	}
	defaultTemplate = src
	return nil
}

// render produces the redacted textual form of v. The raw payload enters
// the render context only when the resolved template references
// secret_string.
func render(v Value) string {
	src := v.template()
	if src == "" {
		src = defaultTemplate
	}
	compiled, err := template.Compile(src)
	if err != nil {
		return fallbackFor(v.Kind())
	}
	ctx := map[string]any{template.VarSecretType: string(v.Kind())}
	if n, ok := v.length(); ok {
		ctx[template.VarSecretLength] = n
	}
	if compiled.References(template.VarSecretString) {
		ctx[template.VarSecretString] = v.rawString()
	}
	out, err := compiled.Render(ctx)
	if err != nil {
		return fallbackFor(v.Kind())
	}
	return out
}

func debugRender(v Value) string {
	return "secret." + goTypeName(v.Kind()) + "(" + render(v) + ")"
}

func goTypeName(k types.Kind) string {
	switch k {
	case types.KindString:
		return "String"
	case types.KindInt:
		return "Int"
	case types.KindBool:
		return "Bool"
	case types.KindFloat:
		return "Float"
	case types.KindDate:
		return "Date"
	case types.KindBinary:
		return "Binary"
	case types.KindList:
		return "List"
	case types.KindRecord:
		return "Record"
	}
	return string(k)
}

// equal implements the shared equality contract: same kind, then a
// constant-time comparison of the canonical payload encodings. The initial
// length check leaks length, never content. Collection kinds compare
// fixed-size content digests instead, so element sizes do not shape timing.
func equal(v Value, other Value) bool {
	if other == nil || v.Kind() != other.Kind() {
		return false
	}
	if v.Kind() == types.KindList || v.Kind() == types.KindRecord {
		a := digest(v.canonicalBytes())
		b := digest(other.canonicalBytes())
		return subtle.ConstantTimeCompare(a[:], b[:]) == 1
	}
	return ctEqual(v.canonicalBytes(), other.canonicalBytes())
}

func ctEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

func digest(b []byte) [sha256.Size]byte {
	return sha256.Sum256(b)
}

func hashHex(v Value) string {
	sum := digest(v.canonicalBytes())
	return hex.EncodeToString(sum[:])
}

// wipe overwrites b before the runtime reclaims it.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func marshalJSONPlaceholder(v Value) ([]byte, error) {
	return json.Marshal(v.SerializedPlaceholder())
}
