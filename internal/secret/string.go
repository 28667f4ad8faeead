package secret

import (
	"bytes"
	"unicode/utf8"

	"github.com/arjun-29/veil/internal/types"
)

// String wraps a sensitive text payload. The wrapper keeps the sole copy
// of the bytes so Close can overwrite them.
type String struct {
	inner []byte
	tpl   string
}

// NewString wraps v with the process default template.
func NewString(v string) *String {
	return &String{inner: []byte(v)}
}

// NewStringWithTemplate wraps v with an instance template. The template is
// not validated here; a broken one degrades to the fallback at render time.
func NewStringWithTemplate(v, tpl string) *String {
	return &String{inner: []byte(v), tpl: tpl}
}

func (s *String) Kind() types.Kind { return types.KindString }

// Reveal returns the raw payload. This is the single sanctioned
// extraction point.
func (s *String) Reveal() string { return string(s.inner) }

// Len returns the payload length in characters, not bytes.
func (s *String) Len() int { return utf8.RuneCount(s.inner) }

func (s *String) IsEmpty() bool { return len(s.inner) == 0 }

func (s *String) DisplayString() string         { return render(s) }
func (s *String) DebugString() string           { return debugRender(s) }
func (s *String) SerializedPlaceholder() string { return render(s) }

func (s *String) String() string   { return render(s) }
func (s *String) GoString() string { return debugRender(s) }

func (s *String) MarshalText() ([]byte, error) { return []byte(render(s)), nil }
func (s *String) MarshalJSON() ([]byte, error) { return marshalJSONPlaceholder(s) }
func (s *String) MarshalYAML() (any, error)    { return s.SerializedPlaceholder(), nil }

func (s *String) Equal(other Value) bool { return equal(s, other) }

func (s *String) Compare(other Value) (int, error) {
	o, ok := other.(*String)
	if !ok {
		return 0, ErrKindMismatch
	}
	return bytes.Compare(s.inner, o.inner), nil
}

func (s *String) HashHex() string { return hashHex(s) }

// Close overwrites the owned bytes. The value must not be used afterwards.
func (s *String) Close() {
	wipe(s.inner)
	s.inner = nil
}

func (s *String) template() string       { return s.tpl }
func (s *String) rawString() string      { return string(s.inner) }
func (s *String) length() (int, bool)    { return s.Len(), true }
func (s *String) canonicalBytes() []byte { return s.inner }
func (s *String) orderable() bool        { return true }
