// Package zen implements the ZenLang interpreter: a lexer, a recursive
// descent parser producing a closed AST, and a tree-walking evaluator.
//
// The language supports:
//   - Functions via `function name(a, b) { ... };` (or `funct`), closures that
//     capture their defining scope, and anonymous function expressions.
//   - Literals for ints, floats, strings, booleans, null, arrays `[1, 2]` and
//     objects `{name = "x", n: 1}`.
//   - Classes with single inheritance, public/private/protected members,
//     static properties and methods, and overloading by parameter count.
//   - if/else, while, do-while, C-style for, break, continue and return.
//   - `.include <name>` directives that bind a registered package or run a
//     local script (`.include <lib/util>` loads lib/util.zen).
//
// Comments start with `//` or `**` and run to end of line, or are enclosed
// in `/* */`. Built-in packages live outside this package and are attached
// through a Registry.
package zen
