package secret

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/arjun-29/veil/internal/types"
)

func le64(u uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	return b[:]
}

// Int wraps a sensitive 64-bit integer.
type Int struct {
	inner int64
	tpl   string
}

// NewInt wraps v with the process default template.
func NewInt(v int64) *Int { return &Int{inner: v} }

// NewIntWithTemplate wraps v with an instance template.
func NewIntWithTemplate(v int64, tpl string) *Int { return &Int{inner: v, tpl: tpl} }

func (i *Int) Kind() types.Kind { return types.KindInt }

// Reveal returns the raw payload.
func (i *Int) Reveal() int64 { return i.inner }

func (i *Int) DisplayString() string         { return render(i) }
func (i *Int) DebugString() string           { return debugRender(i) }
func (i *Int) SerializedPlaceholder() string { return render(i) }

func (i *Int) String() string   { return render(i) }
func (i *Int) GoString() string { return debugRender(i) }

func (i *Int) MarshalText() ([]byte, error) { return []byte(render(i)), nil }
func (i *Int) MarshalJSON() ([]byte, error) { return marshalJSONPlaceholder(i) }
func (i *Int) MarshalYAML() (any, error)    { return i.SerializedPlaceholder(), nil }

func (i *Int) Equal(other Value) bool { return equal(i, other) }

func (i *Int) Compare(other Value) (int, error) {
	o, ok := other.(*Int)
	if !ok {
		return 0, ErrKindMismatch
	}
	switch {
	case i.inner < o.inner:
		return -1, nil
	case i.inner > o.inner:
		return 1, nil
	}
	return 0, nil
}

func (i *Int) HashHex() string { return hashHex(i) }

// Close overwrites the payload. The value must not be used afterwards.
func (i *Int) Close() { i.inner = 0 }

func (i *Int) template() string       { return i.tpl }
func (i *Int) rawString() string      { return strconv.FormatInt(i.inner, 10) }
func (i *Int) length() (int, bool)    { return 0, false }
func (i *Int) canonicalBytes() []byte { return le64(uint64(i.inner)) }
func (i *Int) orderable() bool        { return true }

// Bool wraps a sensitive boolean.
type Bool struct {
	inner bool
	tpl   string
}

// NewBool wraps v with the process default template.
func NewBool(v bool) *Bool { return &Bool{inner: v} }

// NewBoolWithTemplate wraps v with an instance template.
func NewBoolWithTemplate(v bool, tpl string) *Bool { return &Bool{inner: v, tpl: tpl} }

func (b *Bool) Kind() types.Kind { return types.KindBool }

// Reveal returns the raw payload.
func (b *Bool) Reveal() bool { return b.inner }

func (b *Bool) DisplayString() string         { return render(b) }
func (b *Bool) DebugString() string           { return debugRender(b) }
func (b *Bool) SerializedPlaceholder() string { return render(b) }

func (b *Bool) String() string   { return render(b) }
func (b *Bool) GoString() string { return debugRender(b) }

func (b *Bool) MarshalText() ([]byte, error) { return []byte(render(b)), nil }
func (b *Bool) MarshalJSON() ([]byte, error) { return marshalJSONPlaceholder(b) }
func (b *Bool) MarshalYAML() (any, error)    { return b.SerializedPlaceholder(), nil }

func (b *Bool) Equal(other Value) bool { return equal(b, other) }

func (b *Bool) Compare(other Value) (int, error) {
	o, ok := other.(*Bool)
	if !ok {
		return 0, ErrKindMismatch
	}
	switch {
	case !b.inner && o.inner:
		return -1, nil
	case b.inner && !o.inner:
		return 1, nil
	}
	return 0, nil
}

func (b *Bool) HashHex() string { return hashHex(b) }

// Close overwrites the payload. The value must not be used afterwards.
func (b *Bool) Close() { b.inner = false }

func (b *Bool) template() string  { return b.tpl }
func (b *Bool) rawString() string { return strconv.FormatBool(b.inner) }

func (b *Bool) length() (int, bool) { return 0, false }

func (b *Bool) canonicalBytes() []byte {
	if b.inner {
		return []byte{1}
	}
	return []byte{0}
}

func (b *Bool) orderable() bool { return true }

// Float wraps a sensitive 64-bit float.
//
// For equality, NaN equals NaN and -0 equals +0: payloads are compared
// through canonical bit patterns so that equality stays reflexive. This
// is a deliberate deviation from IEEE-754 semantics. Ordering against NaN
// remains undefined and fails with ErrNotOrderable.
type Float struct {
	inner float64
	tpl   string
}

// NewFloat wraps v with the process default template.
func NewFloat(v float64) *Float { return &Float{inner: v} }

// NewFloatWithTemplate wraps v with an instance template.
func NewFloatWithTemplate(v float64, tpl string) *Float { return &Float{inner: v, tpl: tpl} }

func (f *Float) Kind() types.Kind { return types.KindFloat }

// Reveal returns the raw payload.
func (f *Float) Reveal() float64 { return f.inner }

func (f *Float) DisplayString() string         { return render(f) }
func (f *Float) DebugString() string           { return debugRender(f) }
func (f *Float) SerializedPlaceholder() string { return render(f) }

func (f *Float) String() string   { return render(f) }
func (f *Float) GoString() string { return debugRender(f) }

func (f *Float) MarshalText() ([]byte, error) { return []byte(render(f)), nil }
func (f *Float) MarshalJSON() ([]byte, error) { return marshalJSONPlaceholder(f) }
func (f *Float) MarshalYAML() (any, error)    { return f.SerializedPlaceholder(), nil }

func (f *Float) Equal(other Value) bool { return equal(f, other) }

func (f *Float) Compare(other Value) (int, error) {
	o, ok := other.(*Float)
	if !ok {
		return 0, ErrKindMismatch
	}
	if math.IsNaN(f.inner) || math.IsNaN(o.inner) {
		return 0, ErrNotOrderable
	}
	switch {
	case f.inner < o.inner:
		return -1, nil
	case f.inner > o.inner:
		return 1, nil
	}
	return 0, nil
}

func (f *Float) HashHex() string { return hashHex(f) }

// Close overwrites the payload. The value must not be used afterwards.
func (f *Float) Close() { f.inner = 0 }

func (f *Float) template() string  { return f.tpl }
func (f *Float) rawString() string { return strconv.FormatFloat(f.inner, 'g', -1, 64) }

func (f *Float) length() (int, bool) { return 0, false }

func (f *Float) canonicalBytes() []byte {
	v := f.inner
	if math.IsNaN(v) {
		return le64(math.Float64bits(math.NaN()))
	}
	if v == 0 {
		return le64(0)
	}
	return le64(math.Float64bits(v))
}

func (f *Float) orderable() bool { return true }
