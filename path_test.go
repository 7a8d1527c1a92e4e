package skema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	skema "github.com/reoring/skema"
)

func TestPath_Render(t *testing.T) {
	cases := []struct {
		name    string
		path    skema.Path
		pointer string
		dotted  string
	}{
		{"root", nil, "/", ""},
		{"field", skema.Path{skema.Key("name")}, "/name", "name"},
		{"nested", skema.Path{skema.Key("address"), skema.Key("city")}, "/address/city", "address.city"},
		{"index", skema.Path{skema.Key("emails"), skema.Index(2)}, "/emails/2", "emails[2]"},
		{"root index", skema.Path{skema.Index(0), skema.Key("id")}, "/0/id", "[0].id"},
		{"escaped", skema.Path{skema.Key("a/b"), skema.Key("c~d")}, "/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.pointer, tc.path.Pointer())
			assert.Equal(t, tc.dotted, tc.path.String())
		})
	}
}

func TestPath_AppendPrependDoNotAlias(t *testing.T) {
	base := make(skema.Path, 1, 4)
	base[0] = skema.Key("a")
	x := base.Append(skema.Key("x"))
	y := base.Append(skema.Key("y"))
	assert.Equal(t, "/a/x", x.Pointer())
	assert.Equal(t, "/a/y", y.Pointer())

	p := base.Prepend(skema.Index(3))
	assert.Equal(t, "/3/a", p.Pointer())
	assert.Equal(t, "/a", base.Pointer())
}

func TestParsePointer_RoundTrip(t *testing.T) {
	for _, ptr := range []string{"/name", "/address/city", "/emails/2", "/a~1b/c~0d"} {
		assert.Equal(t, ptr, skema.ParsePointer(ptr).Pointer())
	}
	assert.Nil(t, skema.ParsePointer("/"))
	assert.True(t, skema.ParsePointer("/items/7")[1].IsIndex())
	assert.Equal(t, 7, skema.ParsePointer("/items/7")[1].Pos())
	assert.Equal(t, "items", skema.ParsePointer("/items/7")[0].Name())
}
