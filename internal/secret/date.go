package secret

import (
	"time"

	"github.com/arjun-29/veil/internal/types"
)

// Date wraps a sensitive point in time. Equality and ordering go through
// the instant (UnixNano), so the same instant in different zones compares
// equal.
type Date struct {
	inner time.Time
	tpl   string
}

// NewDate wraps v with the process default template.
func NewDate(v time.Time) *Date { return &Date{inner: v} }

// NewDateWithTemplate wraps v with an instance template.
func NewDateWithTemplate(v time.Time, tpl string) *Date { return &Date{inner: v, tpl: tpl} }

func (d *Date) Kind() types.Kind { return types.KindDate }

// Reveal returns the raw payload.
func (d *Date) Reveal() time.Time { return d.inner }

func (d *Date) DisplayString() string         { return render(d) }
func (d *Date) DebugString() string           { return debugRender(d) }
func (d *Date) SerializedPlaceholder() string { return render(d) }

func (d *Date) String() string   { return render(d) }
func (d *Date) GoString() string { return debugRender(d) }

func (d *Date) MarshalText() ([]byte, error) { return []byte(render(d)), nil }
func (d *Date) MarshalJSON() ([]byte, error) { return marshalJSONPlaceholder(d) }
func (d *Date) MarshalYAML() (any, error)    { return d.SerializedPlaceholder(), nil }

func (d *Date) Equal(other Value) bool { return equal(d, other) }

func (d *Date) Compare(other Value) (int, error) {
	o, ok := other.(*Date)
	if !ok {
		return 0, ErrKindMismatch
	}
	a, b := d.inner.UnixNano(), o.inner.UnixNano()
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	}
	return 0, nil
}

func (d *Date) HashHex() string { return hashHex(d) }

// Close overwrites the payload. The value must not be used afterwards.
func (d *Date) Close() { d.inner = time.Time{} }

func (d *Date) template() string       { return d.tpl }
func (d *Date) rawString() string      { return d.inner.Format(time.RFC3339) }
func (d *Date) length() (int, bool)    { return 0, false }
func (d *Date) canonicalBytes() []byte { return le64(uint64(d.inner.UnixNano())) }
func (d *Date) orderable() bool        { return true }
