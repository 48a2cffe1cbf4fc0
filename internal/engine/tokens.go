package engine

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// TokenKind represents JSON token kinds.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token is one streamed JSON token.
type Token struct {
	Kind   TokenKind
	String string
	Number string
	Bool   bool
	// Offset is the input offset just past the token.
	Offset int64
}

// TokenSource yields tokens until io.EOF.
type TokenSource interface {
	NextToken() (Token, error)
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// jsonSource drives a go-json Decoder and tells object keys from string values.
type jsonSource struct {
	dec   *json.Decoder
	stack []frame
}

// NewJSONSource returns a TokenSource over JSON text. Numbers keep their
// literal text.
func NewJSONSource(data []byte) TokenSource {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &jsonSource{dec: dec}
}

// valueDone flips the enclosing object back to expecting a key.
func (s *jsonSource) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *jsonSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *jsonSource) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Token{}, io.EOF
		}
		return Token{}, err
	}
	t := s.token(tok)
	t.Offset = s.dec.InputOffset()
	return t, nil
}

func (s *jsonSource) token(tok json.Token) Token {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return Token{Kind: TokenBeginObject}
		case '}':
			s.pop()
			return Token{Kind: TokenEndObject}
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return Token{Kind: TokenBeginArray}
		case ']':
			s.pop()
			return Token{Kind: TokenEndArray}
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return Token{Kind: TokenKey, String: v}
			}
		}
		s.valueDone()
		return Token{Kind: TokenString, String: v}
	case bool:
		s.valueDone()
		return Token{Kind: TokenBool, Bool: v}
	case json.Number:
		s.valueDone()
		return Token{Kind: TokenNumber, Number: string(v)}
	case float64:
		s.valueDone()
		return Token{Kind: TokenNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	s.valueDone()
	return Token{Kind: TokenNull}
}

// ErrMaxDepth is returned when JSON text nests deeper than allowed.
var ErrMaxDepth = errors.New("max depth exceeded")

// WithMaxDepth returns a TokenSource that fails once containers nest deeper
// than max. A max <= 0 disables the check.
func WithMaxDepth(inner TokenSource, max int) TokenSource {
	if max <= 0 {
		return inner
	}
	return &depthSource{inner: inner, max: max}
}

type depthSource struct {
	inner TokenSource
	max   int
	depth int
}

func (d *depthSource) NextToken() (Token, error) {
	tok, err := d.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	switch tok.Kind {
	case TokenBeginObject, TokenBeginArray:
		d.depth++
		if d.depth > d.max {
			return Token{}, ErrMaxDepth
		}
	case TokenEndObject, TokenEndArray:
		if d.depth > 0 {
			d.depth--
		}
	}
	return tok, nil
}
