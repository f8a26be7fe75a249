package signature_test

import (
	"testing"

	"github.com/apisurface/apisurface/internal/signature"
)

func TestDecodeFieldDescriptorPrimitive(t *testing.T) {
	tr, err := signature.DecodeFieldDescriptor("I")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name != "int" {
		t.Fatalf("got %q", tr.Name)
	}
}

func TestDecodeFieldDescriptorObject(t *testing.T) {
	tr, err := signature.DecodeFieldDescriptor("Ljava/lang/String;")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name != "java.lang.String" {
		t.Fatalf("got %q", tr.Name)
	}
}

func TestDecodeFieldDescriptorArray(t *testing.T) {
	tr, err := signature.DecodeFieldDescriptor("[Ljava/lang/String;")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name != "[java.lang.String" {
		t.Fatalf("got %q", tr.Name)
	}
}

func TestDecodeMethodDescriptor(t *testing.T) {
	params, ret, err := signature.DecodeMethodDescriptor("(ILjava/lang/String;)Ljava/lang/Object;")
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 2 || params[0].Name != "int" || params[1].Name != "java.lang.String" {
		t.Fatalf("params = %+v", params)
	}
	if ret.Name != "java.lang.Object" {
		t.Fatalf("ret = %+v", ret)
	}
}

func TestDecodeMethodDescriptorVoid(t *testing.T) {
	_, ret, err := signature.DecodeMethodDescriptor("()V")
	if err != nil {
		t.Fatal(err)
	}
	if ret.Name != "void" {
		t.Fatalf("ret = %+v", ret)
	}
}

func TestDecodeFieldSignatureGeneric(t *testing.T) {
	tr, err := signature.DecodeFieldSignature("Ljava/util/List<Ljava/lang/String;>;")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name != "java.util.List" {
		t.Fatalf("Name = %q", tr.Name)
	}
	if len(tr.Args) != 1 || tr.Args[0].Name != "java.lang.String" {
		t.Fatalf("Args = %+v", tr.Args)
	}
}

func TestDecodeFieldSignatureNestedInnerClass(t *testing.T) {
	tr, err := signature.DecodeFieldSignature("Lcom/example/Outer$Inner;")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name != "com.example.Outer$Inner" {
		t.Fatalf("Name = %q", tr.Name)
	}
}

func TestDecodeMethodSignatureWithTypeParams(t *testing.T) {
	params, ret, err := signature.DecodeMethodSignature("<T:Ljava/lang/Object;>(Ljava/util/List<TT;>;)TT;")
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 1 || params[0].Name != "java.util.List" {
		t.Fatalf("params = %+v", params)
	}
	if ret.Name != "T:T" {
		t.Fatalf("ret = %+v", ret)
	}
}

func TestMalformedSignatureReturnsError(t *testing.T) {
	if _, err := signature.DecodeFieldDescriptor("Q"); err == nil {
		t.Fatal("expected MalformedSignature error")
	}
	var malformed *signature.MalformedSignature
	_, err := signature.DecodeFieldDescriptor("Q")
	if err == nil {
		t.Fatal("expected error")
	}
	if me, ok := err.(*signature.MalformedSignature); ok {
		malformed = me
	}
	if malformed == nil {
		t.Fatalf("expected *MalformedSignature, got %T", err)
	}
}

func TestDecodeFieldFallsBackToDescriptorWhenNoSignature(t *testing.T) {
	tr, err := signature.DecodeField("Ljava/lang/String;", "")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name != "java.lang.String" {
		t.Fatalf("got %q", tr.Name)
	}
}

func TestDecodeFieldPrefersSignatureWhenPresent(t *testing.T) {
	tr, err := signature.DecodeField("Ljava/util/List;", "Ljava/util/List<Ljava/lang/String;>;")
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Args) != 1 {
		t.Fatalf("expected generic args preserved, got %+v", tr)
	}
}
