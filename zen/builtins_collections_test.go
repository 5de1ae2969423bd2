package zen

import (
	"context"
	"testing"
	"time"
)

func TestCollectionAndFunctionalBuiltins(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`chunk([1, 2, 3, 4, 5], 2);`, "[[1, 2], [3, 4], [5]]"},
		{`zip([1, 2], ["a", "b", "c"]);`, `[[1, "a"], [2, "b"]]`},
		{`compact([0, 1, "", "a", null, false]);`, `[1, "a"]`},
		{`[difference([1, 2, 3], [2]), intersection([1, 2, 3], [3, 1]), union([1, 2], [2, 3], [4])];`, "[[1, 3], [1, 3], [1, 2, 3, 4]]"},
		{`[every([2, 4], function(x) { return x % 2 == 0; }), every([], function(x) { return false; }), some([1, 3], function(x) { return x > 2; })];`, "[true, true, true]"},
		{`[findIndex([5, 6], function(x) { return x == 6; }), findIndex([], function(x) { return true; })];`, "[1, -1]"},
		{`groupBy([1, 2, 3, 4], function(x) { return x % 2; });`, "{0: [2, 4], 1: [1, 3]}"},
		{`countBy(["a", "bb", "cc"], function(s) { return length(s); });`, "{1: 1, 2: 2}"},
		{`pluck(sortBy([{n = "b", a = 2}, {n = "a", a = 1}, {n = "c", a = 2}], function(p) { return p.a; }), "n");`, `["a", "b", "c"]`},
		{`[take([1, 2, 3], 2), drop([1, 2, 3], 2), take([1], 5)];`, "[[1, 2], [3], [1]]"},
		{`[takeWhile([1, 2, 5, 1], function(x) { return x < 3; }), dropWhile([1, 2, 5, 1], function(x) { return x < 3; })];`, "[[1, 2], [5, 1]]"},
		{`partition([1, 2, 3, 4], function(x) { return x > 2; });`, "[[3, 4], [1, 2]]"},
		{`pluck([{id = 1}, {name = "x"}, {id = 3}], "id");`, "[1, 3]"},
		{`times(3, function(i) { return i * i; });`, "[0, 1, 4]"},

		{`inc = function(x) { return x + 1; }; dbl = function(x) { return x * 2; }; c = compose(inc, dbl); p = pipe(inc, dbl); [c(3), p(3)];`, "[7, 8]"},
		{`calls = []; f = memoize(function(x) { push(calls, x); return x * 10; }); [f(1), f(1), f(2), length(calls)];`, "[10, 10, 20, 2]"},
		{`hits = []; g = once(function() { push(hits, 1); return length(hits); }); [g(), g(), length(hits)];`, "[1, 1, 1]"},
		{`add3 = curry(function(a, b, c) { return a + b + c; }); one = add3(1); two = one(2); [two(3), add3(1, 2, 3)];`, "[6, 6]"},
		{`odd = function(x) { return x % 2 == 1; }; even = negate(odd); k = constant(7); [even(4), k(1, 2), identity("z"), noop()];`, `[true, 7, "z", null]`},
		{`t = throttle(function(x) { return x; }, 60); [t(1), t(2)];`, "[1, null]"},

		{`[titleCase("hello wORLD"), slugify("Hello Big World"), count("banana", "an")];`, `["Hello World", "hello-big-world", 2]`},
		{`[truncate("zenlang", 3), truncate("zen", 5), truncate("abcdef", 2, "~")];`, `["zen...", "zen", "ab~"]`},
		{`[lerp(0, 10, 0.5), lerp(2, 4, 0), sign(-3), sign(0), sign(2.5)];`, "[5.0, 2, -1, 0, 1]"},
		{`[formatNumber(3.14159), formatNumber(2, 0), formatNumber(1.5, 3)];`, `["3.14", "2", "1.500"]`},

		{`o = {a = 1, b = 2, c = 3}; [pick(o, ["a", "c"]), omit(o, ["a"]), fromEntries([["x", 1], ["y"]])];`, "[{a: 1, c: 3}, {b: 2, c: 3}, {x: 1}]"},
		{`[isEqual({a = [1]}, {a = [1]}), isEqual([1], [1, 2])];`, "[true, false]"},
		{`d = {n = [1]}; s = clone(d); push(s.n, 2); c = deepCopy(d); push(c.n, 3); [d, isEqual(s, d)];`, "[{n: [1, 2]}, true]"},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			if got := evalSource(t, tc.source).String(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCollectionBuiltinErrors(t *testing.T) {
	requireRuntimeError(t, `chunk([1], 0);`, ErrRuntime, "chunk size must be positive")
	requireRuntimeError(t, `zip([1], 2);`, ErrType, "zip expects an array")
	requireRuntimeError(t, `negate(1);`, ErrType, "negate expects a function")
	requireRuntimeError(t, `compose(function(x) { return x; }, "no");`, ErrType, "compose expects a function")
	requireRuntimeError(t, `sortBy([1, "a"], function(x) { return x; });`, ErrType, "cannot compare")
	requireRuntimeError(t, `randomInt(5, 1);`, ErrRuntime, "empty range")
	requireRuntimeError(t, `times(2, 1);`, ErrType, "times expects a function")
}

func TestRandomBuiltinsStayInRange(t *testing.T) {
	val := evalSource(t, `
ints = times(300, function(i) { return randomInt(3, 5); });
floats = times(300, function(i) { return random(); });
[ints, floats, randomInt(7, 7)];`)
	parts := val.Elements()
	seen := map[int64]bool{}
	for _, v := range parts[0].Elements() {
		n := v.Int()
		if v.Kind() != KindInt || n < 3 || n > 5 {
			t.Fatalf("randomInt out of range: %s", v.Inspect())
		}
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Fatalf("300 draws should cover [3, 5], saw %v", seen)
	}
	for _, v := range parts[1].Elements() {
		if f := v.Float(); v.Kind() != KindFloat || f < 0 || f >= 1 {
			t.Fatalf("random out of range: %s", v.Inspect())
		}
	}
	if parts[2].Int() != 7 {
		t.Fatalf("randomInt(7, 7) = %s", parts[2].Inspect())
	}
}

func TestShuffleAndSample(t *testing.T) {
	val := evalSource(t, `
src = range(10);
mixed = shuffle(src);
picked = sample(src, 4);
[sort(mixed), src, length(picked), length(unique(picked)), includes(src, sample(src)), sample([]), sample([1, 2], 9)];`)
	parts := val.Elements()
	want := "[0, 1, 2, 3, 4, 5, 6, 7, 8, 9]"
	if parts[0].String() != want || parts[1].String() != want {
		t.Fatalf("shuffle should permute a copy: %s", val.Inspect())
	}
	if parts[2].Int() != 4 || parts[3].Int() != 4 {
		t.Fatalf("sample(src, 4) should pick 4 distinct elements: %s", val.Inspect())
	}
	if !parts[4].Bool() || !parts[5].IsNull() || len(parts[6].Elements()) != 2 {
		t.Fatalf("unexpected sample results: %s", val.Inspect())
	}
}

func TestSleepHonorsContext(t *testing.T) {
	in, _ := newTestInterpreter(t, Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := in.Eval(ctx, "sleep(10);")
	if !IsInterrupt(err) {
		t.Fatalf("expected interrupt, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("sleep ignored cancellation")
	}
	if _, err := in.Eval(context.Background(), "sleep(0); sleep(-1);"); err != nil {
		t.Fatalf("non-positive sleep should return at once: %v", err)
	}
}
