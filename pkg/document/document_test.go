package document

import (
	"encoding/json"
	"testing"

	"cflat/checker-go/pkg/ast"
	"cflat/checker-go/pkg/render"
	"cflat/checker-go/pkg/types"
)

func TestDecodeEmptyProgram(t *testing.T) {
	prog, err := Decode([]byte(`{"structs":[],"externs":[],"functions":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Structs) != 0 || len(prog.Externs) != 0 || len(prog.Functions) != 0 {
		t.Fatalf("expected empty program, got %+v", prog)
	}
}

func TestDecodeMinimalMain(t *testing.T) {
	doc := `{
		"structs":[],
		"externs":[],
		"functions":[{
			"name":"main",
			"prms":[],
			"rettyp":"Int",
			"locals":[],
			"stmts":[{"Return":{"Num":0}}]
		}]
	}`
	prog, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected one function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "main" {
		t.Fatalf("expected function named main, got %q", fn.Name)
	}
	if len(fn.Params) != 0 {
		t.Fatalf("expected no parameters, got %d", len(fn.Params))
	}
	if _, ok := fn.Ret.(types.Int); !ok {
		t.Fatalf("expected int return type, got %v", fn.Ret)
	}
	if len(fn.Body.List) != 1 {
		t.Fatalf("expected one statement, got %d", len(fn.Body.List))
	}
	ret, ok := fn.Body.List[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected Return, got %T", fn.Body.List[0])
	}
	if render.Node(ret.Exp) != "0" {
		t.Errorf("got %q", render.Node(ret.Exp))
	}
}

func TestDecodeImplicitValWrapping(t *testing.T) {
	exp, err := decodeExp(map[string]any{"Id": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok := exp.(*ast.Val)
	if !ok {
		t.Fatalf("expected implicit Val wrapper, got %T", exp)
	}
	if _, ok := val.Place.(*ast.Id); !ok {
		t.Fatalf("expected wrapped Id, got %T", val.Place)
	}
}

func TestDecodeTypes(t *testing.T) {
	cases := []struct {
		raw  any
		want string
	}{
		{"Int", "int"},
		{"Nil", "nil"},
		{map[string]any{"kind": "Int"}, "int"},
		{map[string]any{"Struct": "Point"}, "struct(Point)"},
		{map[string]any{"Ptr": "Int"}, "ptr(int)"},
		{map[string]any{"Array": "Int"}, "array(int)"},
		{map[string]any{"Fn": []any{[]any{"Int", "Int"}, "Int"}}, "(int, int) -> int"},
	}
	for _, c := range cases {
		got, err := decodeType(c.raw)
		if err != nil {
			t.Fatalf("decodeType(%v): %v", c.raw, err)
		}
		if types.Render(got) != c.want {
			t.Errorf("decodeType(%v) = %s, want %s", c.raw, types.Render(got), c.want)
		}
	}
}

func TestDecodeBareBreakContinue(t *testing.T) {
	s, err := decodeStmt("Break")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*ast.Break); !ok {
		t.Fatalf("expected Break, got %T", s)
	}
	s, err = decodeStmt("Continue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*ast.Continue); !ok {
		t.Fatalf("expected Continue, got %T", s)
	}
}

func TestDecodeIfWithoutElse(t *testing.T) {
	doc := map[string]any{
		"If": map[string]any{
			"guard": map[string]any{"Num": json.Number("1")},
			"tt":    []any{"Break"},
		},
	}
	s, err := decodeStmt(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifStmt, ok := s.(*ast.If)
	if !ok {
		t.Fatalf("expected If, got %T", s)
	}
	if ifStmt.Else != nil {
		t.Errorf("expected nil Else, got %v", ifStmt.Else)
	}
}

func TestDecodeArrayOfNilDocument(t *testing.T) {
	doc := `{
		"structs":[],
		"externs":[],
		"functions":[{
			"name":"main",
			"prms":[],
			"rettyp":"Int",
			"locals":[{"name":"x","typ":{"Array":"Int"}}],
			"stmts":[
				{"Assign":[{"Id":"x"}, {"NewArray":["Nil", {"Num":3}]}]},
				{"Return":{"Num":0}}
			]
		}]
	}`
	prog, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assign := prog.Functions[0].Body.List[0].(*ast.Assign)
	na, ok := assign.Exp.(*ast.NewArray)
	if !ok {
		t.Fatalf("expected NewArray, got %T", assign.Exp)
	}
	if _, ok := na.Type.(types.Nil); !ok {
		t.Fatalf("expected nil element type, got %v", na.Type)
	}
}

func TestDecodeMalformedDocumentIsDecodeError(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
}

func TestDecodeUnrecognizedTagIsDecodeError(t *testing.T) {
	_, err := decodeExp(map[string]any{"Bogus": 1})
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
}
