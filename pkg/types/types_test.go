package types

import "testing"

func sample() []Type {
	return []Type{
		Int{},
		Nil{},
		Struct{Name: "S"},
		Struct{Name: "T"},
		Array{Elem: Int{}},
		Ptr{Pointee: Int{}},
		Ptr{Pointee: Struct{Name: "S"}},
		Fn{Params: []Type{Int{}, Ptr{Pointee: Int{}}}, Ret: Int{}},
	}
}

func TestEqReflexiveAndSymmetric(t *testing.T) {
	ts := sample()
	for _, a := range ts {
		if !Eq(a, a) {
			t.Errorf("Eq(%v, %v) should be reflexive", a, a)
		}
	}
	for _, a := range ts {
		for _, b := range ts {
			if Eq(a, b) != Eq(b, a) {
				t.Errorf("Eq not symmetric for %v, %v", a, b)
			}
		}
	}
}

func TestEqNilLaw(t *testing.T) {
	if !Eq(Nil{}, Ptr{Pointee: Int{}}) {
		t.Error("nil should be eq to ptr(_)")
	}
	if !Eq(Nil{}, Array{Elem: Struct{Name: "S"}}) {
		t.Error("nil should be eq to array(_)")
	}
	if Eq(Nil{}, Int{}) {
		t.Error("nil should not be eq to int")
	}
	if Eq(Nil{}, Struct{Name: "S"}) {
		t.Error("nil should not be eq to struct")
	}
	if Eq(Nil{}, Fn{Params: nil, Ret: Int{}}) {
		t.Error("nil should not be eq to fn")
	}
}

func TestEqNonTransitiveWitness(t *testing.T) {
	ptrInt := Ptr{Pointee: Int{}}
	ptrStruct := Ptr{Pointee: Struct{Name: "S"}}
	if !Eq(ptrInt, Nil{}) {
		t.Error("ptr(int) should be eq to nil")
	}
	if !Eq(Nil{}, ptrStruct) {
		t.Error("nil should be eq to ptr(struct S)")
	}
	if Eq(ptrInt, ptrStruct) {
		t.Error("ptr(int) should not be eq to ptr(struct S) despite both being eq to nil")
	}
}

func TestPickNonNil(t *testing.T) {
	if got := PickNonNil(Nil{}, Ptr{Pointee: Int{}}); Render(got) != "ptr(int)" {
		t.Errorf("expected ptr(int), got %s", Render(got))
	}
	if got := PickNonNil(Ptr{Pointee: Int{}}, Nil{}); Render(got) != "ptr(int)" {
		t.Errorf("expected ptr(int), got %s", Render(got))
	}
	if got := PickNonNil(Nil{}, Nil{}); !IsNil(got) {
		t.Errorf("expected nil, got %s", Render(got))
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		t    Type
		want string
	}{
		{Int{}, "int"},
		{Nil{}, "nil"},
		{Struct{Name: "Point"}, "struct(Point)"},
		{Array{Elem: Int{}}, "array(int)"},
		{Ptr{Pointee: Struct{Name: "Point"}}, "ptr(struct(Point))"},
		{Fn{Params: []Type{Int{}, Int{}}, Ret: Int{}}, "(int, int) -> int"},
		{Fn{Params: nil, Ret: Int{}}, "() -> int"},
	}
	for _, c := range cases {
		if got := Render(c.t); got != c.want {
			t.Errorf("Render(%#v) = %q, want %q", c.t, got, c.want)
		}
	}
}

func TestEqFnLengthMismatch(t *testing.T) {
	a := Fn{Params: []Type{Int{}}, Ret: Int{}}
	b := Fn{Params: []Type{Int{}, Int{}}, Ret: Int{}}
	if Eq(a, b) {
		t.Error("fn types of different arity should not be eq")
	}
}

func TestEqStructNames(t *testing.T) {
	if !Eq(Struct{Name: "S"}, Struct{Name: "S"}) {
		t.Error("same-named structs should be eq")
	}
	if Eq(Struct{Name: "S"}, Struct{Name: "T"}) {
		t.Error("differently-named structs should not be eq")
	}
}
