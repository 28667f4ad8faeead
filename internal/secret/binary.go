package secret

import (
	"bytes"
	"encoding/base64"

	"github.com/arjun-29/veil/internal/types"
)

// Binary wraps a sensitive byte payload.
type Binary struct {
	inner []byte
	tpl   string
}

// NewBinary wraps a copy of v, so the wrapper owns its buffer exclusively.
func NewBinary(v []byte) *Binary {
	return &Binary{inner: append([]byte(nil), v...)}
}

// NewBinaryWithTemplate wraps a copy of v with an instance template.
func NewBinaryWithTemplate(v []byte, tpl string) *Binary {
	return &Binary{inner: append([]byte(nil), v...), tpl: tpl}
}

func (b *Binary) Kind() types.Kind { return types.KindBinary }

// Reveal returns a copy of the raw payload; the wrapper keeps sole
// ownership of its own buffer.
func (b *Binary) Reveal() []byte { return append([]byte(nil), b.inner...) }

// Len returns the payload length in bytes.
func (b *Binary) Len() int { return len(b.inner) }

func (b *Binary) IsEmpty() bool { return len(b.inner) == 0 }

func (b *Binary) DisplayString() string         { return render(b) }
func (b *Binary) DebugString() string           { return debugRender(b) }
func (b *Binary) SerializedPlaceholder() string { return render(b) }

func (b *Binary) String() string   { return render(b) }
func (b *Binary) GoString() string { return debugRender(b) }

func (b *Binary) MarshalText() ([]byte, error) { return []byte(render(b)), nil }
func (b *Binary) MarshalJSON() ([]byte, error) { return marshalJSONPlaceholder(b) }
func (b *Binary) MarshalYAML() (any, error)    { return b.SerializedPlaceholder(), nil }

func (b *Binary) Equal(other Value) bool { return equal(b, other) }

func (b *Binary) Compare(other Value) (int, error) {
	o, ok := other.(*Binary)
	if !ok {
		return 0, ErrKindMismatch
	}
	return bytes.Compare(b.inner, o.inner), nil
}

func (b *Binary) HashHex() string { return hashHex(b) }

// Close overwrites the owned bytes. The value must not be used afterwards.
func (b *Binary) Close() {
	wipe(b.inner)
	b.inner = nil
}

func (b *Binary) template() string       { return b.tpl }
func (b *Binary) rawString() string      { return base64.StdEncoding.EncodeToString(b.inner) }
func (b *Binary) length() (int, bool)    { return len(b.inner), true }
func (b *Binary) canonicalBytes() []byte { return b.inner }
func (b *Binary) orderable() bool        { return true }
