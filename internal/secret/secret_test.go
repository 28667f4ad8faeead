package secret

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func sampleValues() map[string]Value {
	return map[string]Value{
		"hunter2-payload": NewString("hunter2-payload"),
		"424242":          NewInt(424242),
		"true":            NewBool(true),
		"3.14159":         NewFloat(3.14159),
		"2024-05-01":      NewDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		"deadbeef":        NewBinary([]byte("deadbeef")),
		"listed-secret": NewList([]Value{
			NewString("listed-secret"),
		}),
		"field-secret": NewRecord(map[string]Value{
			"token": NewString("field-secret"),
		}),
	}
}

func TestDefaultRenderingNeverLeaksPayload(t *testing.T) {
	for payload, v := range sampleValues() {
		for name, out := range map[string]string{
			"display":     v.DisplayString(),
			"debug":       v.DebugString(),
			"placeholder": v.SerializedPlaceholder(),
			"stringer":    fmt.Sprintf("%v", v),
			"gostringer":  fmt.Sprintf("%#v", v),
		} {
			if strings.Contains(out, payload) {
				t.Fatalf("%s/%s output %q contains payload", v.Kind(), name, out)
			}
			if !strings.Contains(out, string(v.Kind())) {
				t.Fatalf("%s/%s output %q missing type name", v.Kind(), name, out)
			}
		}
	}
}

func TestDefaultDisplayIsRedactionMarker(t *testing.T) {
	v := NewString("topsecret")
	if got := v.DisplayString(); got != "<redacted:string>" {
		t.Fatalf("display = %q", got)
	}
	i := NewInt(7)
	if got := i.DisplayString(); got != "<redacted:int>" {
		t.Fatalf("display = %q", got)
	}
}

func TestRevealRoundTrip(t *testing.T) {
	if got := NewString("abc").Reveal(); got != "abc" {
		t.Fatalf("string reveal = %q", got)
	}
	if got := NewInt(-9).Reveal(); got != -9 {
		t.Fatalf("int reveal = %d", got)
	}
	if got := NewBool(true).Reveal(); !got {
		t.Fatalf("bool reveal = %t", got)
	}
	if got := NewFloat(2.5).Reveal(); got != 2.5 {
		t.Fatalf("float reveal = %g", got)
	}
	when := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NewDate(when).Reveal(); !got.Equal(when) {
		t.Fatalf("date reveal = %v", got)
	}
	if got := NewBinary([]byte{1, 2}).Reveal(); len(got) != 2 || got[0] != 1 {
		t.Fatalf("binary reveal = %v", got)
	}
}

func TestBinaryRevealIsACopy(t *testing.T) {
	v := NewBinary([]byte("abcd"))
	out := v.Reveal()
	out[0] = 'x'
	if again := v.Reveal(); string(again) != "abcd" {
		t.Fatalf("wrapper buffer mutated through reveal: %q", again)
	}
}

func TestInstanceTemplateOverride(t *testing.T) {
	v := NewStringWithTemplate("supersecret", "{{mask_partial(secret_string, l=2, r=2)}}")
	if got := v.DisplayString(); got != "su*******et" {
		t.Fatalf("display = %q", got)
	}
}

func TestTemplateLengthVariable(t *testing.T) {
	v := NewStringWithTemplate("🚀🎉🌟", "{{secret_type}}:{{secret_length}}")
	if got := v.DisplayString(); got != "string:3" {
		t.Fatalf("display = %q", got)
	}
	b := NewBinaryWithTemplate([]byte{1, 2, 3, 4}, "{{secret_length}} bytes")
	if got := b.DisplayString(); got != "4 bytes" {
		t.Fatalf("display = %q", got)
	}
}

func TestFallbackOnBadInstanceTemplate(t *testing.T) {
	cases := []string{
		"{{unclosed",
		"{{undefined_variable}}",
		"{% if x %}no end",
		`{{replicate("*")}}`,
	}
	for _, tpl := range cases {
		v := NewStringWithTemplate("payload", tpl)
		if got := v.DisplayString(); got != "<redacted:string>" {
			t.Fatalf("template %q: display = %q", tpl, got)
		}
		i := NewIntWithTemplate(3, tpl)
		if got := i.DisplayString(); got != "<redacted:int>" {
			t.Fatalf("template %q: display = %q", tpl, got)
		}
	}
}

func TestSetDefaultTemplate(t *testing.T) {
	t.Cleanup(func() {
		if err := SetDefaultTemplate(""); err != nil {
			t.Fatalf("restore default: %v", err)
		}
	})

	if err := SetDefaultTemplate("[{{secret_type}} hidden]"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got := NewString("x").DisplayString(); got != "[string hidden]" {
		t.Fatalf("display = %q", got)
	}

	// A global template must validate; an instance template would not.
	if err := SetDefaultTemplate("{{unclosed"); err == nil {
		t.Fatalf("expected compile error for global template")
	}
	if err := SetDefaultTemplate("{{undefined_variable}}"); err == nil {
		t.Fatalf("expected render error for global template")
	}
	if got := NewString("x").DisplayString(); got != "[string hidden]" {
		t.Fatalf("default changed after failed set: %q", got)
	}

	if err := SetDefaultTemplate(""); err != nil {
		t.Fatalf("reset default: %v", err)
	}
	if DefaultTemplate() != BuiltinDefaultTemplate {
		t.Fatalf("default = %q", DefaultTemplate())
	}
}

func TestMarshalPathsAreRedacted(t *testing.T) {
	type doc struct {
		Token *String `json:"token" yaml:"token"`
	}
	d := doc{Token: NewString("raw-token-material")}

	js, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if strings.Contains(string(js), "raw-token-material") {
		t.Fatalf("json leaked: %s", js)
	}
	if !strings.Contains(string(js), "<redacted:string>") {
		t.Fatalf("json missing placeholder: %s", js)
	}

	ym, err := yaml.Marshal(d)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if strings.Contains(string(ym), "raw-token-material") {
		t.Fatalf("yaml leaked: %s", ym)
	}

	txt, err := d.Token.MarshalText()
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if string(txt) != "<redacted:string>" {
		t.Fatalf("text = %q", txt)
	}
}

func TestHashHexIsStableAndContentDerived(t *testing.T) {
	a := NewString("same")
	b := NewString("same")
	c := NewString("different")
	if a.HashHex() != b.HashHex() {
		t.Fatalf("equal payloads hash differently")
	}
	if a.HashHex() == c.HashHex() {
		t.Fatalf("distinct payloads collide")
	}
	if len(a.HashHex()) != 64 {
		t.Fatalf("hash length = %d", len(a.HashHex()))
	}
}

func TestLenIsCharacterCount(t *testing.T) {
	if got := NewString("🚀🎉🌟").Len(); got != 3 {
		t.Fatalf("string len = %d", got)
	}
	if !NewString("").IsEmpty() {
		t.Fatalf("empty string not empty")
	}
	if got := NewBinary([]byte("🚀")).Len(); got != 4 {
		t.Fatalf("binary len = %d", got)
	}
}
