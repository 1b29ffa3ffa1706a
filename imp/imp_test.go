package imp

import (
	"testing"

	"gotest.tools/v3/assert"

	et "github.com/fra-scarfato/MiniLang-sub001/core/errorkind"
	"github.com/fra-scarfato/MiniLang-sub001/parser"
)

func evalSource(t *testing.T, src string, input int64) (int64, error) {
	t.Helper()
	p, err := parser.Parse("test.imp", src)
	if err != nil {
		t.Fatal(err)
	}
	out, everr := Eval(p, input)
	if everr != nil {
		return 0, everr
	}
	return out, nil
}

func TestFactorial(t *testing.T) {
	src := "def main with input n output acc as " +
		"acc := 1; while 0 < n do (acc := acc * n; n := n - 1)"
	tests := []struct{ in, out int64 }{
		{0, 1}, {1, 1}, {5, 120}, {-3, 1},
	}
	for _, test := range tests {
		out, err := evalSource(t, src, test.in)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, out, test.out, "input %d", test.in)
	}
}

func TestBranching(t *testing.T) {
	src := "def main with input n output x as " +
		"if n < 0 then x := 0 - n else x := n"
	out, err := evalSource(t, src, -7)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, out, int64(7))

	out, err = evalSource(t, src, 7)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, out, int64(7))
}

func TestBooleanOperators(t *testing.T) {
	src := "def main with input n output x as " +
		"if not n == 0 and 0 < n or n == -2 then x := 1 else x := 0"
	tests := []struct{ in, out int64 }{
		{3, 1}, {-2, 1}, {0, 0}, {-1, 0},
	}
	for _, test := range tests {
		out, err := evalSource(t, src, test.in)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, out, test.out, "input %d", test.in)
	}
}

func TestReadBeforeAssignFails(t *testing.T) {
	p, err := parser.Parse("test.imp", "def main with input n output x as x := y + 1")
	if err != nil {
		t.Fatal(err)
	}
	_, everr := Eval(p, 0)
	assert.Assert(t, everr != nil)
	assert.Equal(t, everr.Code, et.UndefinedVariable)
}

func TestUnassignedOutputFails(t *testing.T) {
	p, err := parser.Parse("test.imp", "def main with input n output x as skip")
	if err != nil {
		t.Fatal(err)
	}
	_, everr := Eval(p, 0)
	assert.Assert(t, everr != nil)
	assert.Equal(t, everr.Code, et.UndefinedVariable)
}

func TestInputReadable(t *testing.T) {
	out, err := evalSource(t, "def main with input n output x as x := n * n", 9)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, out, int64(81))
}
