package encoding

import (
	"encoding"
	"errors"
	"testing"
)

// Assert interface implemented.
var (
	_ encoding.TextMarshaler   = (*HexEncoding)(nil)
	_ encoding.TextUnmarshaler = (*HexEncoding)(nil)
)

func TestHexEncoder_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := [][]byte{
		nil,
		[]byte("BREWEXE\x01"),
		append([]byte("BREWEXE\x01"), make([]byte, 40)...),
	}

	for _, data := range cases {
		enc := HexEncoding{Data: data}

		text, err := enc.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText error: %v", err)
		}

		dec := HexEncoding{}

		err = dec.UnmarshalText(text)
		if len(data) == 0 {
			if !errors.Is(err, errEmpty) {
				t.Fatalf("UnmarshalText error = %v, want errEmpty", err)
			}

			continue
		}

		if err != nil {
			t.Fatalf("UnmarshalText error: %v", err)
		}

		if string(dec.Data) != string(data) {
			t.Errorf("round trip = %x, want %x", dec.Data, data)
		}
	}
}

func TestHexEncoder_UnmarshalText(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name      string
		input     string
		wantLen   int
		expectErr error
	}{
		{name: "empty", input: "", expectErr: errEmpty},
		{name: "eof only", input: ":00000001FF\n", expectErr: errEmpty},
		{name: "not a record", input: "u wot mate", expectErr: errInvalidHex},
		{name: "too short", input: ":FF", expectErr: errInvalidHex},
	}

	for _, tc := range tcs {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dec := HexEncoding{}
			err := dec.UnmarshalText([]byte(tc.input))

			switch {
			case tc.expectErr != nil:
				if !errors.Is(err, tc.expectErr) {
					t.Errorf("error = %v, want %v", err, tc.expectErr)
				}
			case err != nil:
				t.Errorf("unexpected error: %v", err)
			case len(dec.Data) != tc.wantLen:
				t.Errorf("decoded %d bytes, want %d", len(dec.Data), tc.wantLen)
			}
		})
	}
}

func TestHexEncoder_MarshalTextProducesValidChecksums(t *testing.T) {
	t.Parallel()

	enc := HexEncoding{Data: []byte("BREWEXE\x01hello world, this is more than one record")}

	text, err := enc.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error: %v", err)
	}

	dec := HexEncoding{}
	if err := dec.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}

	if string(dec.Data) != "BREWEXE\x01hello world, this is more than one record" {
		t.Errorf("round trip = %q", dec.Data)
	}
}
