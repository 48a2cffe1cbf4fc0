// Package message renders validation diagnostics. A Builder keeps the flat
// "<path> <message>" list and the structured detail records in lock step.
package message

import (
	"strconv"
	"strings"

	"github.com/reoring/tjv/i18n"
)

// Keyword classifies a diagnostic.
type Keyword string

const (
	KeywordType     Keyword = "type"
	KeywordRequired Keyword = "required"
	KeywordValue    Keyword = "value"
)

// Detail is the structured record of one diagnostic.
type Detail struct {
	Keyword  Keyword `json:"keyword" yaml:"keyword"`
	DataPath string  `json:"dataPath" yaml:"dataPath"`
	Message  string  `json:"message" yaml:"message"`
}

// Builder accumulates diagnostics for one validation pass. Both lists stay
// nil until the first diagnostic.
type Builder struct {
	Messages []string
	Details  []Detail
}

// Failed reports whether any diagnostic was added.
func (b *Builder) Failed() bool { return len(b.Details) > 0 }

// Len returns the number of diagnostics.
func (b *Builder) Len() int { return len(b.Details) }

// Type adds "should be <label>" at path.
func (b *Builder) Type(path, label string) {
	b.add(KeywordType, path, i18n.T(i18n.CodeType, map[string]string{"type": label}))
}

// Required adds a missing property diagnostic. The record path is the
// parent path joined with the property name, so a root property yields ".name".
func (b *Builder) Required(parent, name string) {
	b.add(KeywordRequired, parent+"."+name, i18n.T(i18n.CodeRequired, map[string]string{"property": name}))
}

// Value adds a constraint diagnostic with a prepared message.
func (b *Builder) Value(path, msg string) { b.add(KeywordValue, path, msg) }

func (b *Builder) add(kw Keyword, path, msg string) {
	full := msg
	if path != "" {
		full = path + " " + msg
	}
	b.Messages = append(b.Messages, full)
	b.Details = append(b.Details, Detail{Keyword: kw, DataPath: path, Message: msg})
}

// Combine joins flat messages behind the "Error while validating data: " prefix.
func Combine(messages []string) string {
	return i18n.T(i18n.CodeCombine, nil) + strings.Join(messages, ", ")
}

// MinInt and the helpers below render the value messages of scalar rules.
func MinInt(limit int64) string {
	return i18n.T(i18n.CodeMinimum, map[string]string{"limit": strconv.FormatInt(limit, 10)})
}

func MaxInt(limit int64) string {
	return i18n.T(i18n.CodeMaximum, map[string]string{"limit": strconv.FormatInt(limit, 10)})
}

func MinFloat(limit float64) string {
	return i18n.T(i18n.CodeMinimum, map[string]string{"limit": strconv.FormatFloat(limit, 'f', 6, 64)})
}

func MaxFloat(limit float64) string {
	return i18n.T(i18n.CodeMaximum, map[string]string{"limit": strconv.FormatFloat(limit, 'f', 6, 64)})
}

func Glob(pattern string) string {
	return i18n.T(i18n.CodeGlob, map[string]string{"pattern": pattern})
}

func Regexp(pattern string) string {
	return i18n.T(i18n.CodeRegexp, map[string]string{"pattern": pattern})
}

func List(pattern string) string {
	return i18n.T(i18n.CodeList, map[string]string{"pattern": pattern})
}

func Command(src string) string {
	return i18n.T(i18n.CodeCommand, map[string]string{"command": src})
}

func CommandFailed(err error) string {
	return i18n.T(i18n.CodeCommandFailed, map[string]string{"error": err.Error()})
}
