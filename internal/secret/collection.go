package secret

import (
	"bytes"
	"sort"
	"strings"

	"github.com/arjun-29/veil/internal/types"
)

// List wraps an ordered collection of secret values. The list owns its
// elements; closing the list closes them. Lists are never orderable, and
// equality reduces to comparing content digests of a canonical encoding.
type List struct {
	inner []Value
	tpl   string
}

// NewList takes ownership of items.
func NewList(items []Value) *List { return &List{inner: items} }

// NewListWithTemplate takes ownership of items and sets an instance template.
func NewListWithTemplate(items []Value, tpl string) *List {
	return &List{inner: items, tpl: tpl}
}

func (l *List) Kind() types.Kind { return types.KindList }

// Reveal returns the element values. The elements are still secret
// wrappers; their payloads stay guarded.
func (l *List) Reveal() []Value { return l.inner }

// Len returns the element count.
func (l *List) Len() int { return len(l.inner) }

func (l *List) IsEmpty() bool { return len(l.inner) == 0 }

func (l *List) DisplayString() string         { return render(l) }
func (l *List) DebugString() string           { return debugRender(l) }
func (l *List) SerializedPlaceholder() string { return render(l) }

func (l *List) String() string   { return render(l) }
func (l *List) GoString() string { return debugRender(l) }

func (l *List) MarshalText() ([]byte, error) { return []byte(render(l)), nil }
func (l *List) MarshalJSON() ([]byte, error) { return marshalJSONPlaceholder(l) }
func (l *List) MarshalYAML() (any, error)    { return l.SerializedPlaceholder(), nil }

func (l *List) Equal(other Value) bool { return equal(l, other) }

func (l *List) Compare(other Value) (int, error) {
	if _, ok := other.(*List); !ok {
		return 0, ErrKindMismatch
	}
	return 0, ErrNotOrderable
}

func (l *List) HashHex() string { return hashHex(l) }

// Close closes every element, then drops the container. Element wrappers
// carry their own zeroization.
func (l *List) Close() {
	for _, it := range l.inner {
		if it != nil {
			it.Close()
		}
	}
	l.inner = nil
}

func (l *List) template() string { return l.tpl }

func (l *List) rawString() string {
	parts := make([]string, 0, len(l.inner))
	for _, it := range l.inner {
		parts = append(parts, it.rawString())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) length() (int, bool) { return len(l.inner), true }

func (l *List) canonicalBytes() []byte {
	var buf bytes.Buffer
	for _, it := range l.inner {
		writeFramed(&buf, it)
	}
	return buf.Bytes()
}

func (l *List) orderable() bool { return false }

// Record wraps a keyed collection of secret values. Field names are
// metadata, not secrets; payloads live in the element wrappers. Records
// are never orderable.
type Record struct {
	inner map[string]Value
	tpl   string
}

// NewRecord takes ownership of fields.
func NewRecord(fields map[string]Value) *Record { return &Record{inner: fields} }

// NewRecordWithTemplate takes ownership of fields and sets an instance template.
func NewRecordWithTemplate(fields map[string]Value, tpl string) *Record {
	return &Record{inner: fields, tpl: tpl}
}

func (r *Record) Kind() types.Kind { return types.KindRecord }

// Reveal returns the field map. The values are still secret wrappers.
func (r *Record) Reveal() map[string]Value { return r.inner }

func (r *Record) DisplayString() string         { return render(r) }
func (r *Record) DebugString() string           { return debugRender(r) }
func (r *Record) SerializedPlaceholder() string { return render(r) }

func (r *Record) String() string   { return render(r) }
func (r *Record) GoString() string { return debugRender(r) }

func (r *Record) MarshalText() ([]byte, error) { return []byte(render(r)), nil }
func (r *Record) MarshalJSON() ([]byte, error) { return marshalJSONPlaceholder(r) }
func (r *Record) MarshalYAML() (any, error)    { return r.SerializedPlaceholder(), nil }

func (r *Record) Equal(other Value) bool { return equal(r, other) }

func (r *Record) Compare(other Value) (int, error) {
	if _, ok := other.(*Record); !ok {
		return 0, ErrKindMismatch
	}
	return 0, ErrNotOrderable
}

func (r *Record) HashHex() string { return hashHex(r) }

// Close closes every field value, then clears the container.
func (r *Record) Close() {
	for _, v := range r.inner {
		if v != nil {
			v.Close()
		}
	}
	clear(r.inner)
	r.inner = nil
}

func (r *Record) template() string { return r.tpl }

func (r *Record) rawString() string {
	keys := r.sortedKeys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+r.inner[k].rawString())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Record) length() (int, bool) { return len(r.inner), true }

// canonicalBytes encodes fields in key order so equality is independent
// of map iteration order.
func (r *Record) canonicalBytes() []byte {
	var buf bytes.Buffer
	for _, k := range r.sortedKeys() {
		buf.Write(le64(uint64(len(k))))
		buf.WriteString(k)
		writeFramed(&buf, r.inner[k])
	}
	return buf.Bytes()
}

func (r *Record) orderable() bool { return false }

func (r *Record) sortedKeys() []string {
	keys := make([]string, 0, len(r.inner))
	for k := range r.inner {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeFramed appends a kind-tagged, length-prefixed element encoding, so
// adjacent payloads can never run together ambiguously.
func writeFramed(buf *bytes.Buffer, v Value) {
	buf.WriteString(string(v.Kind()))
	buf.WriteByte(0)
	p := v.canonicalBytes()
	buf.Write(le64(uint64(len(p))))
	buf.Write(p)
}
