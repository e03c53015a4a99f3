// The test is skipped when stdin is not a terminal (ErrNoTTY). Notably, this includes when run
// with "go test" because it redirects tests' standard input/output streams. You can test it by
// building a test binary and running it directly:
//
//	$ go test -c && ./tty.test
package tty_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/brewos/kernel/internal/tty"
)

const timeout = 100 * time.Millisecond

func TestConsoleBuffersKeystrokesNonBlocking(t *testing.T) {
	console, err := tty.NewConsole(os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, tty.ErrNoTTY) {
		t.Skipf("error: %s", err)
		t.SkipNow()
	} else if err != nil {
		t.Fatalf("error: %s", err)
	}

	defer console.Restore()

	ctx := context.Background()
	ctx, cause := context.WithCancelCause(ctx)
	ctx, cancel := context.WithTimeout(ctx, timeout)

	defer cancel()

	console.Start(ctx, cause)

	if console.Hit() {
		t.Errorf("Hit() = true before any key pressed")
	}

	console.Press('!')

	if !console.Hit() {
		t.Errorf("Hit() = false after a key was pressed")
	}

	if got := console.Read(); got != '!' {
		t.Errorf("Read() = %q, want '!'", got)
	}

	if console.Hit() {
		t.Errorf("Hit() = true after the only pending key was read")
	}
}
