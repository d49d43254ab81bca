package guard

import "testing"

func TestCoerceResult(t *testing.T) {
	cases := []struct {
		name        string
		in          any
		wantKind    resultKind
		wantWarning bool
	}{
		{"result passthrough", Allow, kindAllow, false},
		{"block passthrough", Block, kindBlock, false},
		{"non-empty string redirects by name", "home", kindRedirectWithParams, false},
		{"empty string blocks with warning", "", kindBlock, true},
		{"redirect target with route", RedirectTarget{Route: "home"}, kindRedirectWithParams, false},
		{"redirect target without route blocks with warning", RedirectTarget{}, kindBlock, true},
		{"nil blocks with warning", nil, kindBlock, true},
		{"unrecognized type blocks with warning", 42, kindBlock, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, warning := coerceResult(tc.in)
			if result.kind != tc.wantKind {
				t.Fatalf("kind = %v, want %v", result.kind, tc.wantKind)
			}
			if (warning != "") != tc.wantWarning {
				t.Fatalf("warning = %q, wantWarning = %v", warning, tc.wantWarning)
			}
		})
	}
}

func TestResultIsRedirect(t *testing.T) {
	r := RedirectByName("home")
	target, ok := r.IsRedirect()
	if !ok || target.Route != "home" {
		t.Fatalf("IsRedirect() = %v, %v; want home, true", target, ok)
	}

	if _, ok := Allow.IsRedirect(); ok {
		t.Fatalf("Allow.IsRedirect() should be false")
	}
}

func TestResultSentinelsAreComparable(t *testing.T) {
	if Allow == Block {
		t.Fatalf("Allow and Block must not compare equal")
	}
	if Allow != Allow {
		t.Fatalf("Allow must equal itself")
	}
}

func TestResultIsBlock(t *testing.T) {
	if !Block.IsBlock() {
		t.Fatalf("Block.IsBlock() should be true")
	}
	if Allow.IsBlock() {
		t.Fatalf("Allow.IsBlock() should be false")
	}
	if RedirectByName("home").IsBlock() {
		t.Fatalf("a redirect result's IsBlock() should be false")
	}
}
