package main_test

import (
	"bytes"
	"testing"

	"github.com/brewos/kernel/internal/compiler"
	"github.com/brewos/kernel/internal/monitor"
	"github.com/brewos/kernel/internal/vm"
)

// TestCompileAndRunEndToEnd exercises the same path brewctl's "compile" and "run" commands chain
// together: source goes through the compiler, the resulting BREWEXE image loads into a fresh
// interpreter, and the program halts having produced the expected console output.
func TestCompileAndRunEndToEnd(t *testing.T) {
	source := `int main(){
		int i = 3;
		while (i > 0) {
			print_int(i);
			i = i - 1;
		}
		print_str(" liftoff");
	}`

	exe, err := compiler.Compile(source)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	var out bytes.Buffer

	mon := monitor.New(&out, monitor.NullKeyboard{}, 320, 240)
	in := vm.New(vm.WithMonitor(mon))

	if err := in.Load(exe); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	in.Run(10000)

	if !in.Halted() {
		t.Fatalf("program did not halt within the step budget")
	}

	if got, want := out.String(), "321 liftoff"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
