package pattern_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/tjv/internal/ir"
	"github.com/reoring/tjv/internal/pattern"
)

func TestFormats(t *testing.T) {
	tests := []struct {
		format ir.Type
		good   []string
		bad    []string
	}{
		{ir.TypeEmail, []string{"a@b.c", "john.doe@example.com"}, []string{"nope", "@b.c", "a b@c"}},
		{ir.TypeURI, []string{"http://x", "urn:isbn:123"}, []string{"no scheme", "1x:y"}},
		{ir.TypeURITemplate, []string{"/users/{id}", "http://x/{a,b}", "/plain"}, []string{"/bad {", "a b"}},
		{ir.TypeURL, []string{"https://example.com/a?b=c", "ftp://host"}, []string{"mailto:a@b", "http://"}},
		{ir.TypeHostname, []string{"example.com", "a-b.C0"}, []string{"-bad.com", "a..b"}},
		{ir.TypeIPv4, []string{"127.0.0.1", "255.255.255.255"}, []string{"256.0.0.1", "1.2.3"}},
		{ir.TypeIPv6, []string{"::1", "fe80::1", "2001:db8:0:0:0:0:2:1", "::ffff:10.0.0.1"}, []string{"1:2", "12345::"}},
		{ir.TypeUUID, []string{"123e4567-e89b-12d3-a456-426614174000"}, []string{"123e4567e89b12d3a456426614174000"}},
		{ir.TypeDuration, []string{"P1D", "PT1H30M", "P2W", "P1Y2M3DT4H5M6.5S"}, []string{"P", "PT", "1D"}},
		{ir.TypeJSONPointer, []string{"", "/a/b", "/a~1b"}, []string{"a", "/a~2"}},
		{ir.TypeJSONPointerURIFragment, []string{"#", "#/a/%20"}, []string{"/a", "#/a b"}},
		{ir.TypeRelativeJSONPointer, []string{"0", "1/a", "2#"}, []string{"01", "/a"}},
	}

	c := pattern.NewCache()
	defer c.Close()
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			m, src, err := c.Format(tt.format)
			require.NoError(t, err)
			assert.NotEmpty(t, src)
			for _, s := range tt.good {
				assert.True(t, m.Match(s), "expected %q to match", s)
			}
			for _, s := range tt.bad {
				assert.False(t, m.Match(s), "expected %q not to match", s)
			}
		})
	}
}

func TestCacheSharesCompiledFormats(t *testing.T) {
	c := pattern.NewCache()
	a, _, err := c.Format(ir.TypeEmail)
	require.NoError(t, err)
	b, _, err := c.Format(ir.TypeEmail)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, c.Len())

	_, _, err = c.Format(ir.TypeString)
	assert.Error(t, err)

	c.Close()
	assert.Equal(t, 0, c.Len())
	_, _, err = c.Format(ir.TypeEmail)
	assert.ErrorIs(t, err, pattern.ErrCacheClosed)
	assert.True(t, a.Match("a@b.c"), "matchers outlive the cache")
}

func TestCacheConcurrentFirstUse(t *testing.T) {
	c := pattern.NewCache()
	defer c.Close()
	var wg sync.WaitGroup
	got := make([]*pattern.Regexp, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, _, err := c.Format(ir.TypeUUID)
			if err == nil {
				got[i] = m
			}
		}(i)
	}
	wg.Wait()
	for _, m := range got {
		assert.Same(t, got[0], m)
	}
}

func TestRegexpAndGlob(t *testing.T) {
	re, err := pattern.CompileRegexp(`^a+b$`)
	require.NoError(t, err)
	assert.True(t, re.Match("aab"))
	assert.False(t, re.Match("ba"))

	re, err = pattern.CompileRegexp(`ell`)
	require.NoError(t, err)
	assert.True(t, re.Match("hello"), "regexp search is unanchored")

	_, err = pattern.CompileRegexp(`(`)
	assert.Error(t, err)

	g, err := pattern.CompileGlob("*.txt")
	require.NoError(t, err)
	assert.True(t, g.Match("dir/file.txt"))
	assert.False(t, g.Match("file.txt.bak"))
	assert.Equal(t, "*.txt", g.String())

	g, err = pattern.CompileGlob("h?llo")
	require.NoError(t, err)
	assert.True(t, g.Match("hallo"))
}

func TestGlobBracesAreLiteral(t *testing.T) {
	g, err := pattern.CompileGlob("{a}*")
	require.NoError(t, err)
	assert.True(t, g.Match("{a}x"))
	assert.False(t, g.Match("ax"))
	assert.Equal(t, "{a}*", g.String())

	g, err = pattern.CompileGlob("x{a,b}")
	require.NoError(t, err)
	assert.True(t, g.Match("x{a,b}"))
	assert.False(t, g.Match("xa"))

	g, err = pattern.CompileGlob(`\*[{]`)
	require.NoError(t, err)
	assert.True(t, g.Match("*{"))
	assert.False(t, g.Match("a{"))
}
