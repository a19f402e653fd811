package jsontree

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseError is returned when text is not a single well-formed JSON value.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "invalid JSON: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// MaxDepth bounds container nesting, as encoding/json does when unmarshaling.
// Token streams are not limited by the decoder itself.
const MaxDepth = 10000

var (
	errTrailingData = errors.New("unexpected data after top-level value")
	errTooDeep      = errors.Newf("exceeded max nesting depth of %d", MaxDepth)
)

// Parse decodes text into a Value. Object members keep their source order;
// a repeated key keeps its first position and takes the last value.
func Parse(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := parseValue(dec, 0)
	if err != nil {
		return Value{}, &ParseError{Err: err}
	}
	// Exactly one top-level value is allowed.
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return Value{}, &ParseError{Err: err}
	}
	return v, nil
}

func parseValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumber(t.String()), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		if (t == '[' || t == '{') && depth >= MaxDepth {
			return Value{}, errTooDeep
		}
		switch t {
		case '[':
			return parseArray(dec, depth+1)
		case '{':
			return parseObject(dec, depth+1)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
	}
	return Value{}, fmt.Errorf("unexpected token %T", tok)
}

func parseArray(dec *json.Decoder, depth int) (Value, error) {
	items := []Value{}
	for dec.More() {
		v, err := parseValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if err := closeDelim(dec, ']'); err != nil {
		return Value{}, err
	}
	return Value{kind: KindArray, items: items}, nil
}

func parseObject(dec *json.Decoder, depth int) (Value, error) {
	members := []Member{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected object key, got %v", tok)
		}
		v, err := parseValue(dec, depth)
		if err != nil {
			return Value{}, err
		}
		if i, dup := index[key]; dup {
			members[i].Value = v
			continue
		}
		index[key] = len(members)
		members = append(members, Member{Key: key, Value: v})
	}
	if err := closeDelim(dec, '}'); err != nil {
		return Value{}, err
	}
	return Value{kind: KindObject, members: members}, nil
}

func closeDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", rune(want), tok)
	}
	return nil
}
