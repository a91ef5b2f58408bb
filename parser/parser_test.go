package parser

import (
	"testing"

	"github.com/auroralang/aurora/ast"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src, "test.aur")
	prog, errs := p.ParseProgram()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parseOK(t, `let x = 1; const y = "hi";`)
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body))
	}
	v1, ok := prog.Body[0].(*ast.VarDecl)
	if !ok || v1.Kind != "let" || v1.Name != "x" {
		t.Fatalf("got %#v", prog.Body[0])
	}
	v2, ok := prog.Body[1].(*ast.VarDecl)
	if !ok || v2.Kind != "const" || v2.Name != "y" {
		t.Fatalf("got %#v", prog.Body[1])
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// spec.md §8: print(1 + 2 * 3 ** 2); evaluates to 19, meaning
	// * binds tighter than binary +, and ** binds tighter than *.
	prog := parseOK(t, `1 + 2 * 3 ** 2;`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	add, ok := stmt.Expression.(*ast.Binary)
	if !ok || add.Op != "+" {
		t.Fatalf("expected top-level +, got %#v", stmt.Expression)
	}
	one, ok := add.Left.(*ast.Literal)
	if !ok || one.Num != 1 {
		t.Fatalf("expected left operand 1, got %#v", add.Left)
	}
	mul, ok := add.Right.(*ast.Binary)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected right operand *, got %#v", add.Right)
	}
	pow, ok := mul.Right.(*ast.Binary)
	if !ok || pow.Op != "**" {
		t.Fatalf("expected 3 ** 2, got %#v", mul.Right)
	}
}

func TestUnaryBindsTighterThanPower(t *testing.T) {
	// spec.md's precedence table: unary is tighter than **, so
	// -2 ** 2 parses as (-2) ** 2.
	prog := parseOK(t, `-2 ** 2;`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	pow, ok := stmt.Expression.(*ast.Binary)
	if !ok || pow.Op != "**" {
		t.Fatalf("expected top-level **, got %#v", stmt.Expression)
	}
	un, ok := pow.Left.(*ast.Unary)
	if !ok || un.Op != "-" {
		t.Fatalf("expected left operand to be unary -, got %#v", pow.Left)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	prog := parseOK(t, `2 ** 3 ** 2;`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	pow, ok := stmt.Expression.(*ast.Binary)
	if !ok || pow.Op != "**" {
		t.Fatalf("got %#v", stmt.Expression)
	}
	if _, ok := pow.Left.(*ast.Literal); !ok {
		t.Fatalf("expected left to be a literal (2), got %#v", pow.Left)
	}
	right, ok := pow.Right.(*ast.Binary)
	if !ok || right.Op != "**" {
		t.Fatalf("expected right-associative nesting, got %#v", pow.Right)
	}
}

func TestAssignmentIsRightAssociativeAndRestrictsTarget(t *testing.T) {
	prog := parseOK(t, `a = b = 1;`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	outer, ok := stmt.Expression.(*ast.Assign)
	if !ok {
		t.Fatalf("got %#v", stmt.Expression)
	}
	if _, ok := outer.Target.(*ast.Identifier); !ok {
		t.Fatalf("expected identifier target, got %#v", outer.Target)
	}
	if _, ok := outer.Value.(*ast.Assign); !ok {
		t.Fatalf("expected nested assignment on the right, got %#v", outer.Value)
	}

	p := New(`1 = 2;`, "test.aur")
	_, errs := p.ParseProgram()
	if len(errs) == 0 {
		t.Fatal("expected an error for assigning into a non-target expression")
	}
}

func TestNewExpressionBindsToConstructorCallBeforePostfix(t *testing.T) {
	// new Foo().bar() must parse as (new Foo()).bar(), not new (Foo().bar()).
	prog := parseOK(t, `new Foo().bar();`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	call, ok := stmt.Expression.(*ast.Call)
	if !ok {
		t.Fatalf("expected outer Call, got %#v", stmt.Expression)
	}
	prop, ok := call.Callee.(*ast.Property)
	if !ok || prop.Name != "bar" {
		t.Fatalf("expected .bar property access, got %#v", call.Callee)
	}
	newExpr, ok := prop.Object.(*ast.New)
	if !ok {
		t.Fatalf("expected New node as property object, got %#v", prop.Object)
	}
	ident, ok := newExpr.Callee.(*ast.Identifier)
	if !ok || ident.Name != "Foo" {
		t.Fatalf("expected Foo as new's callee, got %#v", newExpr.Callee)
	}
}

func TestIfWhileForParsing(t *testing.T) {
	prog := parseOK(t, `
		if (x > 0) { print(x); } else { print(0); }
		while (x < 10) { x = x + 1; }
		for (let i = 0; i < 10; i = i + 1) { print(i); }
	`)
	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Body))
	}
	ifStmt, ok := prog.Body[0].(*ast.If)
	if !ok || ifStmt.Alternate == nil {
		t.Fatalf("got %#v", prog.Body[0])
	}
	whileStmt, ok := prog.Body[1].(*ast.While)
	if !ok {
		t.Fatalf("got %#v", prog.Body[1])
	}
	_ = whileStmt
	forStmt, ok := prog.Body[2].(*ast.For)
	if !ok {
		t.Fatalf("got %#v", prog.Body[2])
	}
	if _, ok := forStmt.Init.(*ast.VarDecl); !ok {
		t.Fatalf("expected for-init to be a VarDecl, got %#v", forStmt.Init)
	}
}

func TestTryCatchAndThrow(t *testing.T) {
	prog := parseOK(t, `
		try {
			throw "boom";
		} catch (e) {
			print(e);
		}
	`)
	tc, ok := prog.Body[0].(*ast.TryCatch)
	if !ok {
		t.Fatalf("got %#v", prog.Body[0])
	}
	if !tc.HasCatch || tc.CatchParam != "e" {
		t.Fatalf("expected catch(e), got %#v", tc)
	}
	throwStmt, ok := tc.Try.Body[0].(*ast.Throw)
	if !ok {
		t.Fatalf("expected throw in try block, got %#v", tc.Try.Body[0])
	}
	lit, ok := throwStmt.Argument.(*ast.Literal)
	if !ok || lit.Str != "boom" {
		t.Fatalf("got %#v", throwStmt.Argument)
	}
}

func TestClassDeclParsesMethods(t *testing.T) {
	prog := parseOK(t, `
		class Point {
			init(x, y) {
				this.x = x;
				this.y = y;
			}
			sum() {
				return this.x + this.y;
			}
		}
	`)
	cls, ok := prog.Body[0].(*ast.ClassDecl)
	if !ok || cls.Name != "Point" {
		t.Fatalf("got %#v", prog.Body[0])
	}
	if len(cls.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(cls.Methods))
	}
	if cls.Methods[0].Name != "init" || len(cls.Methods[0].Params) != 2 {
		t.Fatalf("got %#v", cls.Methods[0])
	}
}

func TestImportForms(t *testing.T) {
	prog := parseOK(t, `
		import "./util.aur";
		import util from "./util.aur";
	`)
	bare, ok := prog.Body[0].(*ast.Import)
	if !ok || bare.Path != "./util.aur" {
		t.Fatalf("got %#v", prog.Body[0])
	}
	named, ok := prog.Body[1].(*ast.ImportNamed)
	if !ok || named.Local != "util" || named.Path != "./util.aur" {
		t.Fatalf("got %#v", prog.Body[1])
	}
}

func TestFromUsableAsOrdinaryIdentifier(t *testing.T) {
	prog := parseOK(t, `let from = 1; from + 1; obj.from;`)
	decl, ok := prog.Body[0].(*ast.VarDecl)
	if !ok || decl.Name != "from" {
		t.Fatalf("got %#v", prog.Body[0])
	}
	exprStmt, ok := prog.Body[2].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("got %#v", prog.Body[2])
	}
	prop, ok := exprStmt.Expression.(*ast.Property)
	if !ok || prop.Name != "from" {
		t.Fatalf("got %#v", exprStmt.Expression)
	}
}

func TestArrayAndObjectLiterals(t *testing.T) {
	prog := parseOK(t, `let a = [1, 2, 3]; let o = { x: 1, "y": 2 };`)
	v1 := prog.Body[0].(*ast.VarDecl)
	arr, ok := v1.Init.(*ast.Array)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("got %#v", v1.Init)
	}
	v2 := prog.Body[1].(*ast.VarDecl)
	obj, ok := v2.Init.(*ast.Object)
	if !ok || len(obj.Props) != 2 || obj.Props[0].Key != "x" || obj.Props[1].Key != "y" {
		t.Fatalf("got %#v", v2.Init)
	}
}

func TestFunctionDeclAndAnonymousFunctionExpr(t *testing.T) {
	prog := parseOK(t, `
		fun add(a, b) { return a + b; }
		let f = fun(a, b) { return a - b; };
	`)
	fd, ok := prog.Body[0].(*ast.FunctionDecl)
	if !ok || fd.Name != "add" || len(fd.Params) != 2 {
		t.Fatalf("got %#v", prog.Body[0])
	}
	v, ok := prog.Body[1].(*ast.VarDecl)
	if !ok {
		t.Fatalf("got %#v", prog.Body[1])
	}
	fe, ok := v.Init.(*ast.FunctionExpr)
	if !ok || fe.Name != "" || len(fe.Params) != 2 {
		t.Fatalf("got %#v", v.Init)
	}
}

func TestBreakAndContinue(t *testing.T) {
	prog := parseOK(t, `
		while (true) {
			if (x) { break; } else { continue; }
		}
	`)
	ws := prog.Body[0].(*ast.While)
	ifStmt := ws.Body.(*ast.Block).Body[0].(*ast.If)
	if _, ok := ifStmt.Consequent.(*ast.Block).Body[0].(*ast.Break); !ok {
		t.Fatalf("expected break, got %#v", ifStmt.Consequent)
	}
	if _, ok := ifStmt.Alternate.(*ast.Block).Body[0].(*ast.Continue); !ok {
		t.Fatalf("expected continue, got %#v", ifStmt.Alternate)
	}
}

func TestThisExpression(t *testing.T) {
	prog := parseOK(t, `this.x;`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	prop, ok := stmt.Expression.(*ast.Property)
	if !ok {
		t.Fatalf("got %#v", stmt.Expression)
	}
	if _, ok := prop.Object.(*ast.This); !ok {
		t.Fatalf("expected This, got %#v", prop.Object)
	}
}

func TestOptionalSemicolonsAreAccepted(t *testing.T) {
	prog := parseOK(t, "let x = 1\nlet y = 2\nprint(x + y)\n")
	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d: %#v", len(prog.Body), prog.Body)
	}
}
