package ustr

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// majorTextString is the CBOR major type of text strings, in the high
// three bits of the initial byte.
const majorTextString = 0x60

// cborDecMode passes malformed text through so that FromBytes reports it
// as a *DecodeError.
var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		UTF8: cbor.UTF8DecodeInvalid,
	}.DecMode()
	if err != nil {
		panic("ustr: CBOR decode mode: " + err.Error())
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s String) MarshalText() ([]byte, error) {
	return s.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Malformed UTF-8 is
// rejected.
func (s *String) UnmarshalText(text []byte) error {
	v, err := FromBytes(text)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalCBOR implements cbor.Marshaler. The value is encoded as a CBOR
// text string.
func (s String) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(s.String())
}

// UnmarshalCBOR implements cbor.Unmarshaler. Only text strings are
// accepted.
func (s *String) UnmarshalCBOR(data []byte) error {
	if len(data) > 0 && data[0]&0xE0 != majorTextString {
		return fmt.Errorf("decoding CBOR: %w", ErrNotText)
	}
	var text string
	if err := cborDecMode.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("decoding CBOR: %w", err)
	}
	v, err := FromBytes(stringBytes(text))
	if err != nil {
		return fmt.Errorf("decoding CBOR: %w", err)
	}
	*s = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s String) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Only scalar nodes are
// accepted.
func (s *String) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("decoding YAML at line %d: %w", node.Line, ErrNotText)
	}
	v, err := FromBytes([]byte(node.Value))
	if err != nil {
		return fmt.Errorf("decoding YAML at line %d: %w", node.Line, err)
	}
	*s = v
	return nil
}
