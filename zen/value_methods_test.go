package zen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrintSelfReferencingValues(t *testing.T) {
	got := runOutput(t, `
o = {name: "root"};
o.self = o;
print(o);
a = [1];
push(a, a);
print(a);
`)
	want := "{name: \"root\", self: {...}}\n[1, [...]]\n"
	if got != want {
		t.Fatalf("unexpected output (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestSharedReferenceIsNotACycle(t *testing.T) {
	val := evalSource(t, `
inner = [1];
[inner, inner];
`)
	if got := val.String(); got != "[[1], [1]]" {
		t.Fatalf("shared element rendered as %q", got)
	}
}

func TestEqualOnCyclicValues(t *testing.T) {
	val := evalSource(t, `
a = [1];
push(a, a);
b = [1];
push(b, b);
o = {};
o.self = o;
[a == a, a == b, o == o, a != a];
`)
	want := []any{true, true, true, false}
	if diff := cmp.Diff(want, ToNative(val)); diff != "" {
		t.Fatalf("equality mismatch (-want +got):\n%s", diff)
	}
}

func TestDeepCopyKeepsCycles(t *testing.T) {
	val := evalSource(t, `
o = {n: 1};
o.self = o;
c = deepCopy(o);
c.n = 2;
[o.n, c.self.n, c.self.self.n, str(c)];
`)
	want := []any{int64(1), int64(2), int64(2), "{n: 2, self: {...}}"}
	if diff := cmp.Diff(want, ToNative(val)); diff != "" {
		t.Fatalf("deep copy mismatch (-want +got):\n%s", diff)
	}
}

func TestToJSONDropsCyclicReference(t *testing.T) {
	val := evalSource(t, `
o = {n: 1};
o.self = o;
toJSON(o);
`)
	if got := val.String(); got != `{"n":1,"self":null}` {
		t.Fatalf("unexpected JSON: %q", got)
	}
}
