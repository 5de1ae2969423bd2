package zen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInheritedPrivatePropertyThroughMethod(t *testing.T) {
	val := evalSource(t, `
class A {
  private x = 1;
  function getX() { return this.x; }
}
class B extends A {}
new B().getX();
`)
	if val.Kind() != KindInt || val.Int() != 1 {
		t.Fatalf("expected 1, got %s", val.Inspect())
	}
}

func TestConstructorRunsWithMatchingArity(t *testing.T) {
	val := evalSource(t, `
class Point {
  x = 0;
  y = 0;
  function Point() { this.x = -1; }
  function Point(x, y) { this.x = x; this.y = y; }
  function sum() { return this.x + this.y; }
}
a = new Point(3, 4);
b = new Point();
c = new Point(1);
[a.sum(), b.x, c.x];
`)
	want := []any{int64(7), int64(-1), int64(0)}
	if diff := cmp.Diff(want, ToNative(val)); diff != "" {
		t.Fatalf("constructor results mismatch (-want +got):\n%s", diff)
	}
}

func TestOverloadSelectsByParameterCount(t *testing.T) {
	val := evalSource(t, `
class Greeter {
  function hello() { return "hello"; }
  function hello(name) { return "hello " + name; }
}
g = new Greeter();
[g.hello(), g.hello("zen")];
`)
	if diff := cmp.Diff([]string{"hello", "hello zen"}, StringList(val)); diff != "" {
		t.Fatalf("overload results mismatch (-want +got):\n%s", diff)
	}
}

func TestOverloadFallbackUsesFirstDeclared(t *testing.T) {
	val := evalSource(t, `
class C {
  function m(a) { return "one:" + a; }
  function m(a, b) { return "two"; }
}
c = new C();
c.m(5, 6, 7);
`)
	if val.String() != "one:5" {
		t.Fatalf("expected first declared overload, got %s", val.Inspect())
	}
}

func TestSubclassMethodOverridesParent(t *testing.T) {
	val := evalSource(t, `
class Animal {
  name = "animal";
  function speak() { return this.name + " makes a sound"; }
  function describe() { return "I am " + this.name; }
}
class Dog extends Animal {
  name = "dog";
  function speak() { return "woof"; }
}
d = new Dog();
[d.speak(), d.describe()];
`)
	if diff := cmp.Diff([]string{"woof", "I am dog"}, StringList(val)); diff != "" {
		t.Fatalf("override mismatch (-want +got):\n%s", diff)
	}
}

func TestStaticPropertyIsShared(t *testing.T) {
	val := evalSource(t, `
class Counter {
  static count = 0;
  function Counter() { this.count = this.count + 1; }
  static function total() { return Counter.count; }
}
a = new Counter();
b = new Counter();
a.count = 5;
[b.count, Counter.count, Counter.total()];
`)
	want := []any{int64(5), int64(5), int64(5)}
	if diff := cmp.Diff(want, ToNative(val)); diff != "" {
		t.Fatalf("static cell mismatch (-want +got):\n%s", diff)
	}
}

func TestClassLevelStaticAssignment(t *testing.T) {
	val := evalSource(t, `
class Config { static level = "info"; }
Config.level = "debug";
Config.level;
`)
	if val.String() != "debug" {
		t.Fatalf("expected debug, got %s", val.Inspect())
	}
	requireRuntimeError(t, `
class Config { static level = "info"; }
Config.other = 1;
`, ErrType, "not a declared static property")
}

func TestDefaultsAreCopiedPerInstance(t *testing.T) {
	val := evalSource(t, `
class Bag { items = []; }
a = new Bag();
b = new Bag();
push(a.items, 1);
[length(a.items), length(b.items)];
`)
	want := []any{int64(1), int64(0)}
	if diff := cmp.Diff(want, ToNative(val)); diff != "" {
		t.Fatalf("instance isolation mismatch (-want +got):\n%s", diff)
	}
}

func TestPrivateMembersRejectOutsideAccess(t *testing.T) {
	const class = `
class Safe {
  private secret = 42;
  private function hidden() { return this.secret; }
  function reveal() { return this.hidden(); }
}
s = new Safe();
`
	requireRuntimeError(t, class+"s.secret;", ErrAccess, "private property 'secret'")
	requireRuntimeError(t, class+"s.secret = 1;", ErrAccess, "private property 'secret'")
	requireRuntimeError(t, class+"s.hidden();", ErrAccess, "private method 'hidden'")

	val := evalSource(t, class+"s.reveal();")
	if val.Int() != 42 {
		t.Fatalf("expected 42 through public method, got %s", val.Inspect())
	}
}

func TestPrivateStaticMembersThroughClassName(t *testing.T) {
	const class = `
class Vault {
  private static pin = 1234;
  private static function check(n) { return n == Vault.pin; }
  public static function open(n) { return Vault.check(n); }
  public static function rotate(n) { Vault.pin = n; return Vault.pin; }
}
class Branch extends Vault {
  public static function peek() { return Vault.pin; }
}
`
	requireRuntimeError(t, class+"Vault.pin;", ErrAccess, "private property 'pin'")
	requireRuntimeError(t, class+"Vault.pin = 1;", ErrAccess, "private property 'pin'")
	requireRuntimeError(t, class+"Vault.check(1234);", ErrAccess, "private method 'check'")
	requireRuntimeError(t, class+"function sneak() { return Vault.pin; }; sneak();", ErrAccess, "private property 'pin'")

	val := evalSource(t, class+"[Vault.open(1234), Vault.rotate(7), Vault.open(7), Branch.peek()];")
	want := []any{true, int64(7), true, int64(7)}
	if diff := cmp.Diff(want, ToNative(val)); diff != "" {
		t.Fatalf("access from inside the class mismatch (-want +got):\n%s", diff)
	}
}

func TestProtectedBehavesAsPublic(t *testing.T) {
	val := evalSource(t, `
class P { protected tag = "p"; }
new P().tag;
`)
	if val.String() != "p" {
		t.Fatalf("expected p, got %s", val.Inspect())
	}
}

func TestDynamicInstanceProperties(t *testing.T) {
	val := evalSource(t, `
class Box {}
b = new Box();
b.extra = "added";
b.extra;
`)
	if val.String() != "added" {
		t.Fatalf("expected added, got %s", val.Inspect())
	}
}

func TestBoundMethodValue(t *testing.T) {
	val := evalSource(t, `
class Acc {
  total = 0;
  function add(n) { this.total = this.total + n; return this.total; }
}
a = new Acc();
f = a.add;
f(2);
f(3);
`)
	if val.Int() != 5 {
		t.Fatalf("expected 5, got %s", val.Inspect())
	}
}

func TestClassLookupErrors(t *testing.T) {
	requireRuntimeError(t, "class A {} new A().missing;", ErrLookup, "missing")
	requireRuntimeError(t, "class A {} A.missing;", ErrLookup, "missing")
	requireRuntimeError(t, "class B extends Nope {}", ErrName, "Nope")
	requireRuntimeError(t, "x = 1; class B extends x {}", ErrType, "not a class")
	requireRuntimeError(t, "f = 1; new f();", ErrType, "not a class")
}

func TestTypeOfInstance(t *testing.T) {
	val := evalSource(t, `class Thing {} type(new Thing());`)
	if val.String() != "Thing" {
		t.Fatalf("expected Thing, got %s", val.Inspect())
	}
}
