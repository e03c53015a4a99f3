package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/brewos/kernel/internal/monitor"
	"github.com/brewos/kernel/internal/vm"
)

func run(t *testing.T, source string) string {
	t.Helper()

	exe, err := Compile(source)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", source, err)
	}

	var out bytes.Buffer

	mon := monitor.New(&out, nil, 320, 240)
	in := vm.New(vm.WithMonitor(mon))

	if err := in.Load(exe); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	in.Run(10000)

	if !in.Halted() {
		t.Fatalf("program did not halt within the step budget")
	}

	return out.String()
}

func TestArithmeticPrecedenceAndPrintInt(t *testing.T) {
	got := run(t, `int main(){ print_int(2+3*4); nl(); }`)

	if got != "14\n" {
		t.Errorf("output = %q, want %q", got, "14\n")
	}
}

func TestVariableDeclarationAndAssignment(t *testing.T) {
	got := run(t, `int main(){
		int x = 10;
		x = x + 5;
		print_int(x);
	}`)

	if got != "15" {
		t.Errorf("output = %q, want %q", got, "15")
	}
}

func TestIfElseBranching(t *testing.T) {
	got := run(t, `int main(){
		int x = 7;
		if (x > 5) {
			print_str("big");
		} else {
			print_str("small");
		}
	}`)

	if got != "big" {
		t.Errorf("output = %q, want %q", got, "big")
	}
}

func TestWhileLoopCountsDown(t *testing.T) {
	got := run(t, `int main(){
		int i = 3;
		while (i > 0) {
			print_int(i);
			i = i - 1;
		}
	}`)

	if got != "321" {
		t.Errorf("output = %q, want %q", got, "321")
	}
}

func TestStringPoolLinkResolvesMultipleLiterals(t *testing.T) {
	got := run(t, `int main(){
		print_str("a");
		print_str("bc");
	}`)

	if got != "abc" {
		t.Errorf("output = %q, want %q", got, "abc")
	}
}

func TestHexAndCharLiterals(t *testing.T) {
	got := run(t, `int main(){ print_int(0xFF); print_char('A'); }`)

	if got != "255A" {
		t.Errorf("output = %q, want %q", got, "255A")
	}
}

func TestArrayAndPointerDeclarationsParseAsPlainSlots(t *testing.T) {
	got := run(t, `int main(){
		int buf[16];
		int *p;
		buf = 9;
		print_int(buf);
	}`)

	if got != "9" {
		t.Errorf("output = %q, want %q", got, "9")
	}
}

func TestBuiltinAliasesMatchCanonicalNames(t *testing.T) {
	got := run(t, `int main(){ print(7); pritc('!'); puts("x"); }`)

	if got != "7!x" {
		t.Errorf("output = %q, want %q", got, "7!x")
	}
}

func TestUndefinedVariableIsACompileError(t *testing.T) {
	_, err := Compile(`int main(){ print_int(y); }`)
	if err == nil {
		t.Fatal("expected a compile error for an undefined variable")
	}

	if !strings.Contains(err.Error(), "undefined variable") {
		t.Errorf("error = %v, want a message mentioning the undefined variable", err)
	}
}

func TestArityMismatchIsACompileError(t *testing.T) {
	_, err := Compile(`int main(){ poke(1); }`)
	if err == nil {
		t.Fatal("expected a compile error for an arity mismatch")
	}
}

func TestCompilationIsDeterministic(t *testing.T) {
	src := `int main(){ int x = 1; while (x < 5) { print_int(x); x = x + 1; } }`

	a, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	b, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("compiling identical source twice produced different byte sequences")
	}
}

func TestLineAndBlockCommentsAreSkipped(t *testing.T) {
	got := run(t, "int main(){\n// a line comment\nprint_int(1); /* a block\ncomment */ print_int(2);\n}")

	if got != "12" {
		t.Errorf("output = %q, want %q", got, "12")
	}
}
