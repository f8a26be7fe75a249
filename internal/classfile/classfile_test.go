package classfile

import (
	"bytes"
	"testing"
)

func TestParseMinimalClass(t *testing.T) {
	data := buildMinimalClass("com/example/UserResource", "java/lang/Object")
	cf, err := Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cf.ThisName != "com.example.UserResource" {
		t.Errorf("ThisName = %q, want com.example.UserResource", cf.ThisName)
	}
	if cf.SuperName != "java.lang.Object" {
		t.Errorf("SuperName = %q, want java.lang.Object", cf.SuperName)
	}
	if cf.AccessFlags&AccPublic == 0 {
		t.Errorf("expected AccPublic bit set")
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	if _, err := Parse(bytes.NewReader([]byte{0, 0, 0, 0})); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
