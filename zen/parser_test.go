package zen

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, source string) *Program {
	t.Helper()
	program, err := Parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return program
}

func TestParseIncludesPrecedeStatements(t *testing.T) {
	program := mustParse(t, ".include <fs>; x = 1; y = 2;")
	if len(program.Includes) != 1 || program.Includes[0].Package != "fs" {
		t.Fatalf("unexpected includes: %+v", program.Includes)
	}
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	for i, stmt := range program.Statements {
		if _, ok := stmt.(*Assign); !ok {
			t.Fatalf("statement %d: expected *Assign, got %T", i, stmt)
		}
	}
}

func TestParseIncludeAfterStatementFails(t *testing.T) {
	_, err := Parse("x = 1;\n.include <fs>")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "must appear before any statement") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	program := mustParse(t, "a = 1; a[0] = 2; a.b = 3; a = b = 4;")
	if _, ok := program.Statements[0].(*Assign); !ok {
		t.Fatalf("expected *Assign, got %T", program.Statements[0])
	}
	if _, ok := program.Statements[1].(*IndexAssign); !ok {
		t.Fatalf("expected *IndexAssign, got %T", program.Statements[1])
	}
	member, ok := program.Statements[2].(*MemberAssign)
	if !ok || member.Property != "b" {
		t.Fatalf("expected member assignment to b, got %#v", program.Statements[2])
	}
	chained, ok := program.Statements[3].(*Assign)
	if !ok {
		t.Fatalf("expected *Assign, got %T", program.Statements[3])
	}
	if _, ok := chained.Value.(*Assign); !ok {
		t.Fatalf("assignment should be right associative, got %T", chained.Value)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	for _, source := range []string{"1 = 2;", "f() = 3;", "(a + b) = 1;"} {
		_, err := Parse(source)
		if err == nil {
			t.Fatalf("%q: expected error", source)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%q: expected ParseError, got %T", source, err)
		}
		if parseErr.Msg != "invalid assignment target" {
			t.Fatalf("%q: unexpected message %q", source, parseErr.Msg)
		}
	}
}

func TestParseErrorReportsExpectedAndGot(t *testing.T) {
	_, err := Parse("x = 1")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T (%v)", err, err)
	}
	if parseErr.Expected != `";"` || parseErr.Got != "end of input" {
		t.Fatalf("unexpected expected/got: %q / %q", parseErr.Expected, parseErr.Got)
	}
	if !strings.Contains(err.Error(), "syntax error at 1:6") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestParsePrecedence(t *testing.T) {
	program := mustParse(t, "1 + 2 * 3 == 7 && !done || x;")
	or, ok := program.Statements[0].(*BinaryExpr)
	if !ok || or.Operator != tokenOr {
		t.Fatalf("expected || at the root, got %#v", program.Statements[0])
	}
	and, ok := or.Left.(*BinaryExpr)
	if !ok || and.Operator != tokenAnd {
		t.Fatalf("expected && under ||, got %#v", or.Left)
	}
	eq, ok := and.Left.(*BinaryExpr)
	if !ok || eq.Operator != tokenEQ {
		t.Fatalf("expected == under &&, got %#v", and.Left)
	}
	sum, ok := eq.Left.(*BinaryExpr)
	if !ok || sum.Operator != tokenPlus {
		t.Fatalf("expected + under ==, got %#v", eq.Left)
	}
	if product, ok := sum.Right.(*BinaryExpr); !ok || product.Operator != tokenAsterisk {
		t.Fatalf("expected * as right operand of +, got %#v", sum.Right)
	}
	if unary, ok := and.Right.(*UnaryExpr); !ok || unary.Operator != tokenBang {
		t.Fatalf("expected unary ! under &&, got %#v", and.Right)
	}
}

func TestParseSubtractionIsLeftAssociative(t *testing.T) {
	program := mustParse(t, "10 - 4 - 3;")
	outer := program.Statements[0].(*BinaryExpr)
	inner, ok := outer.Left.(*BinaryExpr)
	if !ok || inner.Operator != tokenMinus {
		t.Fatalf("expected (10 - 4) - 3, got %#v", outer)
	}
	if lit, ok := outer.Right.(*IntegerLiteral); !ok || lit.Value != 3 {
		t.Fatalf("unexpected right operand %#v", outer.Right)
	}
}

func TestParseElseIfChain(t *testing.T) {
	program := mustParse(t, "if (a) { x = 1; } else if (b) { x = 2; } else { x = 3; }")
	stmt := program.Statements[0].(*IfStmt)
	if stmt.Else == nil || len(stmt.Else.Statements) != 1 {
		t.Fatalf("expected else block with nested if, got %#v", stmt.Else)
	}
	nested, ok := stmt.Else.Statements[0].(*IfStmt)
	if !ok {
		t.Fatalf("expected nested IfStmt, got %T", stmt.Else.Statements[0])
	}
	if nested.Else == nil {
		t.Fatalf("nested if lost its else block")
	}
}

func TestParseLoops(t *testing.T) {
	program := mustParse(t, `
for (;;) { break; }
for (i = 0; i < 3; i = i + 1) { continue; }
while (x) { x = x - 1; }
do { x = x + 1; } while (x < 3);
`)
	if len(program.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(program.Statements))
	}
	empty := program.Statements[0].(*ForStmt)
	if empty.Init != nil || empty.Condition != nil || empty.Increment != nil {
		t.Fatalf("expected empty for clauses, got %#v", empty)
	}
	full := program.Statements[1].(*ForStmt)
	if full.Init == nil || full.Condition == nil || full.Increment == nil {
		t.Fatalf("expected all for clauses, got %#v", full)
	}
	if _, ok := program.Statements[2].(*WhileStmt); !ok {
		t.Fatalf("expected *WhileStmt, got %T", program.Statements[2])
	}
	if _, ok := program.Statements[3].(*DoWhileStmt); !ok {
		t.Fatalf("expected *DoWhileStmt, got %T", program.Statements[3])
	}
}

func TestParseFunctionDefinitions(t *testing.T) {
	program := mustParse(t, "function f(a, b) { return a + b; };\nfunct g() { return; };\nh = function(x) { return x; };\nclass C { public function m() { return 1; } }")
	if len(program.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(program.Statements))
	}
	f := program.Statements[0].(*FunctionDef)
	if diff := cmp.Diff([]string{"a", "b"}, f.Params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
	assign := program.Statements[2].(*Assign)
	if anon, ok := assign.Value.(*FunctionDef); !ok || anon.Name != "" {
		t.Fatalf("expected anonymous function, got %#v", assign.Value)
	}
}

func TestParseFunctionDefinitionRequiresSeparator(t *testing.T) {
	cases := []string{
		"function f() { return 1; } f();",
		"function f() { return 1; }",
		"if (true) { function inner() { return 1; } }",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if pe.Expected != `";"` {
				t.Fatalf("expected a missing ';' error, got %v", pe)
			}
		})
	}
}

func TestParseLiterals(t *testing.T) {
	program := mustParse(t, `o = {name = "zen", "k": 2, nested: [1, 2.5, true, null]};`)
	obj := program.Statements[0].(*Assign).Value.(*ObjectLiteral)
	keys := make([]string, len(obj.Properties))
	for i, prop := range obj.Properties {
		keys[i] = prop.Key
	}
	if diff := cmp.Diff([]string{"name", "k", "nested"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	arr := obj.Properties[2].Value.(*ArrayLiteral)
	if len(arr.Elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(arr.Elements))
	}
	if _, ok := arr.Elements[1].(*FloatLiteral); !ok {
		t.Fatalf("expected float literal, got %T", arr.Elements[1])
	}
}

func TestParseClassDefinition(t *testing.T) {
	program := mustParse(t, `
class B extends A {
  private x = 1;
  static count = 0;
  protected label;
  function B(v) { this.x = v; }
  public static function make() { return new B(1); }
  private function secret() { return this.x; }
}`)
	class := program.Statements[0].(*ClassDef)
	if class.Name != "B" || class.Parent != "A" {
		t.Fatalf("unexpected class header %q extends %q", class.Name, class.Parent)
	}
	type member struct {
		Name   string
		Access AccessModifier
		Static bool
	}
	var props []member
	for _, p := range class.Properties {
		props = append(props, member{p.Name, p.Access, p.Static})
	}
	wantProps := []member{
		{"x", AccessPrivate, false},
		{"count", AccessPublic, true},
		{"label", AccessProtected, false},
	}
	if diff := cmp.Diff(wantProps, props); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
	var methods []member
	for _, m := range class.Methods {
		methods = append(methods, member{m.Name, m.Access, m.Static})
	}
	wantMethods := []member{
		{"B", AccessPublic, false},
		{"make", AccessPublic, true},
		{"secret", AccessPrivate, false},
	}
	if diff := cmp.Diff(wantMethods, methods); diff != "" {
		t.Fatalf("methods mismatch (-want +got):\n%s", diff)
	}
	if class.Properties[2].Default != nil {
		t.Fatalf("expected no default for label")
	}
}

func TestParseUnclosedBlock(t *testing.T) {
	_, err := Parse("while (true) { x = 1;")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T (%v)", err, err)
	}
	if parseErr.Expected != `"}"` {
		t.Fatalf("unexpected expectation %q", parseErr.Expected)
	}
}
