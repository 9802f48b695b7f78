package eds

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedSampleMission(t *testing.T) {
	d, err := LoadMission("sample")
	require.NoError(t, err)
	assert.Equal(t, "sample", d.Mission)

	hk, ok := d.TopicType(0x0800)
	require.True(t, ok, "topic 0x0800 should be declared")
	assert.Equal(t, "SAMPLE/HousekeepingTlm", hk.Name)
	// Header(6) + AppName(16) + counters(2) + state(1) + spare(1) +
	// temperatures(16) + voltage(4) + signal(2) + uptime(4)
	assert.Equal(t, 52, hk.ByteSize())
}

func TestLoadMissionUnknown(t *testing.T) {
	_, err := LoadMission("no-such-mission")
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce), "expected ConfigurationError, got %v", err)
}

func TestParseDictionaryErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"invalid json", `{`},
		{"no types", `{"types": {}, "topics": {"1": "X"}}`},
		{"no topics", `{"types": {"u8": {"kind": "uint", "size": 1}}, "topics": {}}`},
		{
			"undefined field type",
			`{"types": {"C": {"kind": "container", "fields": [{"name": "x", "type": "missing"}]}},
			  "topics": {"1": "C"}}`,
		},
		{
			"undefined topic type",
			`{"types": {"u8": {"kind": "uint", "size": 1}}, "topics": {"1": "missing"}}`,
		},
		{
			"recursive type",
			`{"types": {"C": {"kind": "container", "fields": [{"name": "self", "type": "C"}]}},
			  "topics": {"1": "C"}}`,
		},
		{
			"bad uint size",
			`{"types": {"u3": {"kind": "uint", "size": 3}}, "topics": {"1": "u3"}}`,
		},
		{
			"bad kind",
			`{"types": {"x": {"kind": "quaternion", "size": 4}}, "topics": {"1": "x"}}`,
		},
		{
			"duplicate container field",
			`{"types": {
			   "u8": {"kind": "uint", "size": 1},
			   "C": {"kind": "container", "fields": [
			     {"name": "x", "type": "u8"}, {"name": "x", "type": "u8"}]}},
			  "topics": {"1": "C"}}`,
		},
		{
			"zero count array",
			`{"types": {
			   "u8": {"kind": "uint", "size": 1},
			   "A": {"kind": "array", "element": "u8", "count": 0}},
			  "topics": {"1": "A"}}`,
		},
		{
			"bad topic id",
			`{"types": {"u8": {"kind": "uint", "size": 1}}, "topics": {"0x10000": "u8"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDictionary("bad", []byte(tt.json))
			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce), "expected ConfigurationError, got %v", err)
		})
	}
}

func TestParseDictionaryHexTopicID(t *testing.T) {
	d, err := ParseDictionary("hex", []byte(`{
	  "types": {"u16": {"kind": "uint", "size": 2}},
	  "topics": {"0x0800": "u16"}
	}`))
	require.NoError(t, err)
	_, ok := d.TopicType(0x0800)
	assert.True(t, ok)
}

func TestByteSizeNested(t *testing.T) {
	u32 := &Type{Name: "u32", Kind: KindUint, Size: 4}
	arr := &Type{Name: "arr", Kind: KindArray, Elem: u32, Count: 3}
	c := &Type{Name: "c", Kind: KindContainer, Fields: []StructField{
		{Name: "a", Type: u32},
		{Name: "b", Type: arr},
	}}
	assert.Equal(t, 16, c.ByteSize())
}
