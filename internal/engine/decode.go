package engine

import (
	"bytes"
	"errors"
	"io"

	"github.com/goccy/go-json"

	"github.com/reoring/tjv/value"
)

var errUnexpectedToken = errors.New("unexpected token")

// ParseJSON decodes one JSON document into a tree of *value.Dict (objects in
// document order, duplicate keys keep the last value), []any, string,
// json.Number, bool and nil. Text after the document is an error.
func ParseJSON(data []byte, maxDepth int) (any, error) {
	src := WithMaxDepth(NewJSONSource(data), maxDepth)
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := decodeValue(src, tok)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("invalid character after top-level value")
		}
		return nil, err
	}
	return v, nil
}

func decodeValue(src TokenSource, tok Token) (any, error) {
	switch tok.Kind {
	case TokenBeginObject:
		return decodeObject(src)
	case TokenBeginArray:
		return decodeArray(src)
	case TokenString:
		return tok.String, nil
	case TokenNumber:
		return json.Number(tok.Number), nil
	case TokenBool:
		return tok.Bool, nil
	case TokenNull:
		return nil, nil
	default:
		return nil, errUnexpectedToken
	}
}

func decodeObject(src TokenSource) (any, error) {
	d := value.NewDict(4)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofIsUnexpected(err)
		}
		if tok.Kind == TokenEndObject {
			return d, nil
		}
		if tok.Kind != TokenKey {
			return nil, errUnexpectedToken
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, eofIsUnexpected(err)
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		d.Set(tok.String, v)
	}
}

func decodeArray(src TokenSource) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, eofIsUnexpected(err)
		}
		if tok.Kind == TokenEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func eofIsUnexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// rawValue returns the verbatim text of the container reached by rel inside
// doc. A duplicated key resolves to its last occurrence, as in ParseJSON.
func rawValue(doc []byte, rel []segment) ([]byte, bool) {
	src := NewJSONSource(doc)
	tok, err := src.NextToken()
	if err != nil || !isContainer(tok) {
		return nil, false
	}
	if len(rel) == 0 {
		return bytes.TrimSpace(doc), true
	}
	seg := rel[0]
	start, end := int64(-1), int64(-1)
	switch {
	case tok.Kind == TokenBeginObject && seg.index < 0:
		for {
			kt, err := src.NextToken()
			if err != nil {
				return nil, false
			}
			if kt.Kind == TokenEndObject {
				break
			}
			vt, err := src.NextToken()
			if err != nil {
				return nil, false
			}
			e, err := skipValue(src, vt)
			if err != nil {
				return nil, false
			}
			if kt.String == seg.key {
				start, end = -1, -1
				if isContainer(vt) {
					start, end = vt.Offset-1, e
				}
			}
		}
	case tok.Kind == TokenBeginArray && seg.index >= 0:
		for i := 0; ; i++ {
			vt, err := src.NextToken()
			if err != nil || vt.Kind == TokenEndArray {
				return nil, false
			}
			e, err := skipValue(src, vt)
			if err != nil {
				return nil, false
			}
			if i == seg.index {
				if isContainer(vt) {
					start, end = vt.Offset-1, e
				}
				break
			}
		}
	}
	if start < 0 || end > int64(len(doc)) {
		return nil, false
	}
	return rawValue(doc[start:end], rel[1:])
}

func isContainer(t Token) bool {
	return t.Kind == TokenBeginObject || t.Kind == TokenBeginArray
}

// skipValue consumes the value opened by tok and returns the offset just past it.
func skipValue(src TokenSource, tok Token) (int64, error) {
	if !isContainer(tok) {
		return tok.Offset, nil
	}
	depth := 1
	for {
		t, err := src.NextToken()
		if err != nil {
			return 0, eofIsUnexpected(err)
		}
		switch t.Kind {
		case TokenBeginObject, TokenBeginArray:
			depth++
		case TokenEndObject, TokenEndArray:
			depth--
			if depth == 0 {
				return t.Offset, nil
			}
		}
	}
}
