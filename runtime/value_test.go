package runtime

import "testing"

func TestTruthiness(t *testing.T) {
	falsy := []*Value{Null, False}
	for _, v := range falsy {
		if v.Truthy() {
			t.Errorf("expected %v to be falsy", v)
		}
	}
	truthy := []*Value{True, NewNumber(0), NewString(""), NewArray(nil), NewRecordValue()}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Errorf("expected %v to be truthy", v)
		}
	}
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		v    *Value
		want string
	}{
		{Null, "null"},
		{True, "true"},
		{NewNumber(3), "3"},
		{NewNumber(3.5), "3.5"},
		{NewString("hi"), "hi"},
		{NewArray([]*Value{NewNumber(1), NewString("a")}), `[1, "a"]`},
	}
	for _, c := range cases {
		if got := c.v.Display(); got != c.want {
			t.Errorf("Display() = %q, want %q", got, c.want)
		}
	}
}

func TestRecordOrderIsPreserved(t *testing.T) {
	r := NewRecord()
	r.Set("b", NewNumber(2))
	r.Set("a", NewNumber(1))
	keys := r.SortedKeys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("expected insertion order [b a], got %v", keys)
	}
}

func TestEqualScalarsAndStructural(t *testing.T) {
	if !Equal(NewNumber(1), NewNumber(1)) {
		t.Error("expected 1 == 1")
	}
	if Equal(NewNumber(1), NewString("1")) {
		t.Error("expected number != string of different kind")
	}
	a := NewArray([]*Value{NewNumber(1), NewNumber(2)})
	b := NewArray([]*Value{NewNumber(1), NewNumber(2)})
	if !Equal(a, b) {
		t.Error("expected structurally-equal arrays to be equal")
	}
	c := NewArray([]*Value{NewNumber(1), NewNumber(3)})
	if Equal(a, c) {
		t.Error("expected different arrays to be unequal")
	}
}

func TestEqualRecordsByStructureNotInstances(t *testing.T) {
	r1 := NewRecordValue()
	r1.Record.Set("x", NewNumber(1))
	r2 := NewRecordValue()
	r2.Record.Set("x", NewNumber(1))
	if !Equal(r1, r2) {
		t.Error("expected plain records with equal fields to be equal")
	}
}

func TestEqualInstancesByIdentity(t *testing.T) {
	cls := &Class{Name: "Foo"}
	i1 := &Value{Kind: KRecord, Record: &Record{Fields: map[string]*Value{}, Class: cls}}
	i2 := &Value{Kind: KRecord, Record: &Record{Fields: map[string]*Value{}, Class: cls}}
	if Equal(i1, i2) {
		t.Error("expected distinct instances to be unequal even with identical fields")
	}
	if !Equal(i1, i1) {
		t.Error("expected an instance to equal itself")
	}
}
