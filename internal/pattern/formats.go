package pattern

import "github.com/reoring/tjv/internal/ir"

const (
	octet   = `(25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])`
	ipv4    = octet + `\.` + octet + `\.` + octet + `\.` + octet
	h16     = `[0-9A-Fa-f]{1,4}`
	durTime = `T(\d+H(\d+M)?(\d+(\.\d+)?S)?|\d+M(\d+(\.\d+)?S)?|\d+(\.\d+)?S)`
	durDate = `(\d+Y(\d+M)?(\d+D)?|\d+M(\d+D)?|\d+D)`
	ptrTok  = `([^~/]|~[01])*`
)

// formatSources maps every semantic string format to its regular expression.
// All expressions are anchored; they are compiled lazily by a Cache.
var formatSources = map[ir.Type]string{
	ir.TypeEmail:       `^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+$`,
	ir.TypeURI:         `^[A-Za-z][A-Za-z0-9+.-]*:[^\s]*$`,
	ir.TypeURITemplate: `^([^\x00-\x20\x7f"'%<>\\^` + "`" + `{|}]|%[0-9A-Fa-f]{2}|\{[+#./;?&=,!@|]?[A-Za-z0-9_%.]+(\*|:[1-9][0-9]{0,3})?(,[A-Za-z0-9_%.]+(\*|:[1-9][0-9]{0,3})?)*\})*$`,
	ir.TypeURL:         `^(?i:https?|ftp)://[^\s/$.?#][^\s]*$`,
	ir.TypeHostname:    `^(?i:[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)*)$`,
	ir.TypeIPv4:        `^` + ipv4 + `$`,
	ir.TypeIPv6: `^((` + h16 + `:){7}` + h16 +
		`|(` + h16 + `:){1,7}:` +
		`|(` + h16 + `:){1,6}:` + h16 +
		`|(` + h16 + `:){1,5}(:` + h16 + `){1,2}` +
		`|(` + h16 + `:){1,4}(:` + h16 + `){1,3}` +
		`|(` + h16 + `:){1,3}(:` + h16 + `){1,4}` +
		`|(` + h16 + `:){1,2}(:` + h16 + `){1,5}` +
		`|` + h16 + `:(:` + h16 + `){1,6}` +
		`|:((:` + h16 + `){1,7}|:)` +
		`|(` + h16 + `:){6}` + ipv4 +
		`|::((?i:ffff)(:0{1,4})?:)?` + ipv4 +
		`|(` + h16 + `:){1,4}:` + ipv4 + `)$`,
	ir.TypeUUID:                   `^[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{12}$`,
	ir.TypeDuration:               `^P(\d+W|` + durDate + `(` + durTime + `)?|` + durTime + `)$`,
	ir.TypeJSONPointer:            `^(/` + ptrTok + `)*$`,
	ir.TypeJSONPointerURIFragment: `^#(/([A-Za-z0-9._!$&'()*+,;=:@-]|%[0-9A-Fa-f]{2}|~[01])*)*$`,
	ir.TypeRelativeJSONPointer:    `^(0|[1-9][0-9]*)(#|(/` + ptrTok + `)*)$`,
}

// Source returns the regular expression backing format t.
func Source(t ir.Type) (string, bool) {
	s, ok := formatSources[t]
	return s, ok
}
