package configs

import (
	"errors"
	"fmt"
	"testing"
)

var testSchema = `
str?: string
list?: [...int]
dataset?: {
	history_size?: int & >=1
}
marquee?: {
	kind: "scroll" | "slide" | "popup"
	actions?: [...]
}
`

func TestLoaderAssignFirst(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)

	var str string
	if err := loader.AssignFirst("str", &str); err != nil {
		t.Fatal(err)
	}
	if str != "bar" {
		t.Fatalf("got %q", str)
	}

	var list []int
	if err := loader.AssignFirst("list", &list); err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", list); str != "[1 2 3]" {
		t.Fatalf("got %s", str)
	}

	err := loader.AssignFirst("not", &list)
	if !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}

	var n int
	if err := loader.AssignFirst("dataset.history_size", &n); err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("got %v", n)
	}
}

func TestLoaderIterCueValues(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/test.cue",
		"testdata/test2.cue",
	}, testSchema)

	var strs []string
	for value, err := range loader.IterCueValues("str") {
		if err != nil {
			t.Fatal(err)
		}
		var s string
		if err := value.Decode(&s); err != nil {
			t.Fatal(err)
		}
		strs = append(strs, s)
	}
	if str := fmt.Sprintf("%v", strs); str != "[bar foo]" {
		t.Fatalf("got %q", str)
	}

	strs = strs[:0]
	for str := range All[string](loader, "str") {
		strs = append(strs, str)
	}
	if str := fmt.Sprintf("%v", strs); str != "[bar foo]" {
		t.Fatalf("got %q", str)
	}

	// earlier files win
	if n := First[int](loader, "dataset.history_size"); n != 5 {
		t.Fatalf("got %v", n)
	}
}

func TestFirst(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)
	if str := First[string](loader, "str"); str != "bar" {
		t.Fatalf("got %v", str)
	}
	if str := First[string](loader, "missing"); str != "" {
		t.Fatalf("got %v", str)
	}
}

func TestEmptyLoader(t *testing.T) {
	loader := NewLoader(nil, "")
	if err := loader.Err(); err != nil {
		t.Fatal(err)
	}
	if n := First[int](loader, "dataset.history_size"); n != 0 {
		t.Fatalf("got %v", n)
	}
}

func TestUnknownField(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/bad.cue",
	}, testSchema)
	if err := loader.Err(); err == nil {
		t.Fatal("should error")
	}
	var str string
	if err := loader.AssignFirst("unknown_field", &str); err == nil {
		t.Fatal("should error")
	}
}

func TestMissingFile(t *testing.T) {
	loader := NewLoader([]string{"testdata/nope.cue"}, "")
	if err := loader.Err(); err == nil {
		t.Fatal("should error")
	}
}

func TestEach(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/test.cue",
		"testdata/test2.cue",
	}, testSchema)
	var strs []string
	for str, err := range Each[string](loader, "str") {
		if err != nil {
			t.Fatal(err)
		}
		strs = append(strs, str)
	}
	if str := fmt.Sprintf("%v", strs); str != "[bar foo]" {
		t.Fatalf("got %q", str)
	}

	// decode error
	n := 0
	for _, err := range Each[int](loader, "str") {
		n++
		if err == nil {
			t.Fatal("should error")
		}
	}
	if n != 1 {
		t.Fatalf("got %v", n)
	}

	// file error
	missing := NewLoader([]string{"testdata/nope.cue"}, "")
	n = 0
	for _, err := range Each[string](missing, "str") {
		n++
		if err == nil {
			t.Fatal("should error")
		}
	}
	if n != 1 {
		t.Fatalf("got %v", n)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("should panic")
			}
		}()
		for range All[int](loader, "str") {
		}
	}()
}
