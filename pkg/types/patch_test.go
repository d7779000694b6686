package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_ApplyIsShallowMerge(t *testing.T) {
	base := AddressRecord{
		Key:   "k",
		Ping:  &Stats{Mean: 1, Count: 1},
		Extra: map[string]json.RawMessage{"host": json.RawMessage(`"h"`)},
	}

	out, err := Patch{
		"failure": 3,
		"ping":    map[string]any{"mean": 9},
		"note":    "hello",
	}.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, "k", out.Key)
	require.NotNil(t, out.Failure)
	assert.Equal(t, int64(3), *out.Failure)
	// ping 整体替换
	assert.Equal(t, float64(9), out.Ping.Mean)
	assert.Equal(t, float64(0), out.Ping.Count)
	assert.Equal(t, `"hello"`, string(out.Extra["note"]))
	assert.Equal(t, `"h"`, string(out.Extra["host"]))

	// base 不被修改
	assert.Nil(t, base.Failure)
	assert.Equal(t, float64(1), base.Ping.Mean)
	assert.NotContains(t, base.Extra, "note")
}

func TestPatch_AbsentRemovesField(t *testing.T) {
	base := AddressRecord{
		Key:     "k",
		Failure: Int64(2),
		Extra:   map[string]json.RawMessage{"host": json.RawMessage(`"h"`)},
	}

	out, err := Patch{"failure": Absent, "host": nil}.Apply(base)
	require.NoError(t, err)

	assert.Nil(t, out.Failure)
	assert.Nil(t, out.Extra)
	assert.Equal(t, "k", out.Key)
}

func TestPatch_RejectsInvalid(t *testing.T) {
	_, err := Patch(nil).Apply(AddressRecord{})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Patch{"failure": "x"}.Apply(AddressRecord{})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Patch{"key": 12}.Apply(AddressRecord{})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Patch{"foo": make(chan int)}.Apply(AddressRecord{})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	assert.NoError(t, Patch{}.Validate())
}

func TestPatchOf(t *testing.T) {
	rec := AddressRecord{Key: "k", Birth: 10, Failure: Int64(0)}
	out, err := PatchOf(rec).Apply(AddressRecord{})
	require.NoError(t, err)
	assert.Equal(t, rec, out)
}

func TestChangeKind_Text(t *testing.T) {
	ev := ChangeEvent{Kind: ChangeDelete, Address: "net:a:1~noauth"}
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"delete","address":"net:a:1~noauth"}`, string(data))

	var back ChangeEvent
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ev, back)

	var k ChangeKind
	assert.ErrorIs(t, k.UnmarshalText([]byte("upsert")), ErrInvalidChangeKind)
	_, err = ChangeKind(0).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidChangeKind)
}
