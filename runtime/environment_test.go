package runtime

import "testing"

func TestDeclareAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Declare("x", NewNumber(1), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := env.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Number != 1 {
		t.Fatalf("got %v", v)
	}
}

func TestRedeclareInSameScopeFails(t *testing.T) {
	env := NewEnvironment(nil)
	env.Declare("x", NewNumber(1), false)
	if err := env.Declare("x", NewNumber(2), false); err == nil {
		t.Fatal("expected redeclaration error")
	}
}

func TestShadowingInChildScopeSucceeds(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Declare("x", NewNumber(1), false)
	child := NewEnvironment(parent)
	if err := child.Declare("x", NewNumber(2), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := child.Get("x")
	if v.Number != 2 {
		t.Fatalf("got %v", v)
	}
	pv, _ := parent.Get("x")
	if pv.Number != 1 {
		t.Fatalf("parent binding was overwritten: %v", pv)
	}
}

func TestAssignWalksToDeclaringScope(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Declare("x", NewNumber(1), false)
	child := NewEnvironment(parent)
	if err := child.Assign("x", NewNumber(9)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := parent.Get("x")
	if v.Number != 9 {
		t.Fatalf("got %v", v)
	}
}

func TestAssignToConstFails(t *testing.T) {
	env := NewEnvironment(nil)
	env.Declare("x", NewNumber(1), true)
	if err := env.Assign("x", NewNumber(2)); err == nil {
		t.Fatal("expected const assignment error")
	}
}

func TestAssignUndeclaredFails(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Assign("x", NewNumber(1)); err == nil {
		t.Fatal("expected undefined variable error")
	}
}

func TestGetUndeclaredFails(t *testing.T) {
	env := NewEnvironment(nil)
	if _, err := env.Get("x"); err == nil {
		t.Fatal("expected undefined variable error")
	}
}
