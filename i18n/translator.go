package i18n

import (
	"strings"
	"sync"
)

// Message codes understood by the built-in translator.
const (
	CodeType          = "type"
	CodeRequired      = "required"
	CodeMinimum       = "minimum"
	CodeMaximum       = "maximum"
	CodeGlob          = "glob"
	CodeRegexp        = "regexp"
	CodeList          = "list"
	CodeCommand       = "command"
	CodeCommandFailed = "command_failed"
	CodeCombine       = "combine"
)

// Translator retrieves localized messages for diagnostic codes.
// data provides the values substituted into the message (for example,
// "type", "property", "limit" or "pattern").
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		CodeType:          "should be {type}",
		CodeRequired:      "should have required property '{property}'",
		CodeMinimum:       "value is less than the minimum {limit}",
		CodeMaximum:       "value is greater than the maximum {limit}",
		CodeGlob:          "value does not match the specified glob pattern '{pattern}'",
		CodeRegexp:        "value does not match the specified regexp pattern '{pattern}'",
		CodeList:          "value is not the specified list of allowed values '{pattern}'",
		CodeCommand:       "value does not satisfy the validation command '{command}'",
		CodeCommandFailed: "validation command failed: {error}",
		CodeCombine:       "Error while validating data: ",
	},
	"ja": {
		CodeType:          "{type} である必要があります",
		CodeRequired:      "必須プロパティ '{property}' が不足しています",
		CodeMinimum:       "値が最小値 {limit} より小さいです",
		CodeMaximum:       "値が最大値 {limit} より大きいです",
		CodeGlob:          "値が glob パターン '{pattern}' に一致しません",
		CodeRegexp:        "値が正規表現パターン '{pattern}' に一致しません",
		CodeList:          "値が許可された値のリスト '{pattern}' に含まれていません",
		CodeCommand:       "値が検証コマンド '{command}' を満たしていません",
		CodeCommandFailed: "検証コマンドが失敗しました: {error}",
		CodeCombine:       "データ検証エラー: ",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		if tmpl, ok = dictionaries["en"][code]; !ok {
			return code
		}
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// Languages lists the built-in dictionary languages.
func Languages() []string { return []string{"en", "ja"} }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
