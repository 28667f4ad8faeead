package template

import (
	"strings"
	"testing"
)

func render(t *testing.T, src string, ctx map[string]any) string {
	t.Helper()
	c, err := Compile(src)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	out, err := c.Render(ctx)
	if err != nil {
		t.Fatalf("render %q: %v", src, err)
	}
	return out
}

func TestVariableInterpolation(t *testing.T) {
	out := render(t, "<redacted:{{secret_type}}>", map[string]any{
		VarSecretType: "string",
	})
	if out != "<redacted:string>" {
		t.Fatalf("output = %q", out)
	}
}

func TestIntVariableRendersDecimal(t *testing.T) {
	out := render(t, "len={{secret_length}}", map[string]any{
		VarSecretLength: 10,
	})
	if out != "len=10" {
		t.Fatalf("output = %q", out)
	}
}

func TestLiteralArguments(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`{{replicate("*", 5)}}`, "*****"},
		{`{{replicate("*", -1)}}`, ""},
		{`{{reverse("hello")}}`, "olleh"},
		{`{{take(3, "hello world")}}`, "hel"},
		{`{{take(-1, "test")}}`, ""},
		{`{{take(99, "test")}}`, "test"},
		{`{{strlen("🚀🎉🌟")}}`, "3"},
		{`{{mask_partial("abcdefgh", l=2, r=2)}}`, "ab****gh"},
		{`{{mask_partial("hello", l=3, r=3)}}`, "hello"},
		{`{{mask_partial("abcdef", l=1, r=1, c="#")}}`, "a####f"},
	}
	for _, tc := range cases {
		if out := render(t, tc.src, nil); out != tc.want {
			t.Fatalf("%s = %q, want %q", tc.src, out, tc.want)
		}
	}
}

func TestReverseIsRuneAware(t *testing.T) {
	if out := render(t, `{{reverse("a🚀b")}}`, nil); out != "b🚀a" {
		t.Fatalf("output = %q", out)
	}
}

func TestNamedAndPositionalArgsMix(t *testing.T) {
	out := render(t, `{{mask_partial("abcdefgh", 2, r=2)}}`, nil)
	if out != "ab****gh" {
		t.Fatalf("output = %q", out)
	}
}

func TestNestedCallArgument(t *testing.T) {
	out := render(t, `{{take(3, reverse("hello"))}}`, nil)
	if out != "oll" {
		t.Fatalf("output = %q", out)
	}
}

func TestFunctionOverContextVariable(t *testing.T) {
	ctx := map[string]any{VarSecretString: "supersecret"}
	out := render(t, `{{mask_partial(secret_string, l=2, r=2)}}`, ctx)
	if out != "su*******et" {
		t.Fatalf("output = %q", out)
	}
}

func TestSecretStringCallForm(t *testing.T) {
	ctx := map[string]any{VarSecretString: "raw"}
	if out := render(t, `{{secret_string()}}`, ctx); out != "raw" {
		t.Fatalf("output = %q", out)
	}
}

func TestConditionalBlocks(t *testing.T) {
	src := "{% if secret_length %}{{secret_length}} chars{% else %}unknown{% endif %}"
	if out := render(t, src, map[string]any{VarSecretLength: 4}); out != "4 chars" {
		t.Fatalf("with length: %q", out)
	}
	if out := render(t, src, map[string]any{}); out != "unknown" {
		t.Fatalf("without length: %q", out)
	}
	if out := render(t, src, map[string]any{VarSecretLength: 0}); out != "unknown" {
		t.Fatalf("zero length: %q", out)
	}
}

func TestCompileErrors(t *testing.T) {
	bad := []string{
		"{{unclosed",
		"{% if x %}no end",
		"{% endif %}",
		"{% frob x %}",
		"{{not_a_function(1)}}",
		"{{take(}}",
		"{{'unterminated}}",
	}
	for _, src := range bad {
		if _, err := Compile(src); err == nil {
			t.Fatalf("Compile(%q) succeeded, want error", src)
		}
	}
}

func TestCompileToleratesUnknownVariable(t *testing.T) {
	// Absence of a variable is a render-time concern, never a compile error.
	if _, err := Compile("{{undefined_variable}}"); err != nil {
		t.Fatalf("compile: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	cases := []struct {
		src string
		ctx map[string]any
	}{
		{"{{undefined_variable}}", nil},
		{"{{secret_string}}", map[string]any{VarSecretType: "string"}},
		{`{{replicate("*")}}`, nil},
		{`{{replicate("*", "x")}}`, nil},
		{`{{mask_partial("abc", z=1)}}`, nil},
		{`{{mask_partial("abc", l=1, l=2)}}`, nil},
		{`{{mask_partial("abc", l=-1)}}`, nil},
		{`{{take(1, 2, 3)}}`, nil},
	}
	for _, tc := range cases {
		c, err := Compile(tc.src)
		if err != nil {
			t.Fatalf("compile %q: %v", tc.src, err)
		}
		if _, err := c.Render(tc.ctx); err == nil {
			t.Fatalf("Render(%q) succeeded, want error", tc.src)
		}
	}
}

func TestValidateUsesSampleContext(t *testing.T) {
	ok := []string{
		"<redacted:{{secret_type}}>",
		"{{mask_partial(secret_string, l=2, r=2)}}",
		"{{secret_type}}:{{secret_length}}",
	}
	for _, src := range ok {
		if err := Validate(src); err != nil {
			t.Fatalf("Validate(%q): %v", src, err)
		}
	}
	bad := []string{
		"{{unclosed",
		"{{undefined_variable}}",
		`{{replicate("*")}}`,
	}
	for _, src := range bad {
		if err := Validate(src); err == nil {
			t.Fatalf("Validate(%q) succeeded, want error", src)
		}
	}
}

func TestSampleContextShape(t *testing.T) {
	ctx := SampleContext()
	if ctx[VarSecretType] != "string" || ctx[VarSecretLength] != 10 || ctx[VarSecretString] != "test_secret" {
		t.Fatalf("sample context = %#v", ctx)
	}
}

func TestSourceRoundTrip(t *testing.T) {
	src := "x{{secret_type}}y"
	c, err := Compile(src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if c.Source() != src {
		t.Fatalf("source = %q", c.Source())
	}
}

func TestPlainTextPassesThrough(t *testing.T) {
	out := render(t, "no interpolation at all", nil)
	if out != "no interpolation at all" {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "{{") {
		t.Fatalf("unexpected delimiter in %q", out)
	}
}

func TestReferences(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"static text", false},
		{"{{secret_type}}", false},
		{"{{secret_string}}", true},
		{"{{secret_string()}}", true},
		{"{{mask_partial(secret_string, l=2)}}", true},
		{"{% if secret_string %}set{% endif %}", true},
		{"{% if secret_type %}{{secret_string}}{% endif %}", true},
		{"{{replicate(\"*\", secret_length)}}", false},
	}
	for _, tc := range cases {
		c, err := Compile(tc.src)
		if err != nil {
			t.Fatalf("compile %q: %v", tc.src, err)
		}
		if got := c.References(VarSecretString); got != tc.want {
			t.Fatalf("References(%q) = %t, want %t", tc.src, got, tc.want)
		}
	}
}
