package extract

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// CollectStrings decodes value as a JSON document and returns every string
// value in document order, descending through arrays and objects. Object
// keys are not collected. An error is returned when value is not valid JSON.
func CollectStrings(value string) ([]string, error) {
	type frame struct {
		object    bool
		expectKey bool
	}

	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()

	var (
		out   []string
		stack []*frame
	)
	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	// consumed marks the current object value as read.
	consumed := func() {
		if f := top(); f != nil && f.object {
			f.expectKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				consumed()
				stack = append(stack, &frame{object: v == '{', expectKey: v == '{'})
			case '}', ']':
				stack = stack[:len(stack)-1]
			}
		case string:
			if f := top(); f != nil && f.object && f.expectKey {
				f.expectKey = false
				continue
			}
			out = append(out, v)
			consumed()
		default:
			consumed()
		}
	}
	if len(stack) != 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return out, nil
}
