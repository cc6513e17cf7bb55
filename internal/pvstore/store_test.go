// internal/pvstore/store_test.go
package pvstore

import (
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() []Field {
	return []Field{
		{Name: "ENABLED", Kind: KindInt, Default: 1},
		{Name: "PAR:adjustX", Kind: KindFloat},
		{Name: "LOG", Kind: KindString},
		{Name: "STATE:inputs", Kind: KindBits},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(testFields())
	require.NoError(t, err)
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, 1, s.Int("ENABLED"))
	assert.Equal(t, 0.0, s.Float("PAR:adjustX"))
	assert.Equal(t, "", s.Text("LOG"))
	assert.Equal(t, int64(0), s.Bits("STATE:inputs").Int64())
}

func TestNew_DuplicateField(t *testing.T) {
	_, err := New([]Field{
		{Name: "A", Kind: KindInt},
		{Name: "A", Kind: KindInt},
	})
	assert.Error(t, err)
}

func TestPut_Conversions(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("ENABLED", "0"))
	assert.Equal(t, 0, s.Int("ENABLED"))

	require.NoError(t, s.Put("ENABLED", 1.0))
	assert.Equal(t, 1, s.Int("ENABLED"))

	require.NoError(t, s.Put("PAR:adjustX", 2))
	assert.Equal(t, 2.0, s.Float("PAR:adjustX"))

	require.NoError(t, s.Put("STATE:inputs", "0b1011"))
	assert.Equal(t, int64(11), s.Bits("STATE:inputs").Int64())

	err := s.Put("ENABLED", 1.5)
	assert.True(t, errors.Is(err, ErrType))

	err = s.Put("LOG", 3)
	assert.True(t, errors.Is(err, ErrType))
}

func TestPut_UnknownField(t *testing.T) {
	s := newTestStore(t)

	err := s.Put("NOPE", 1)
	assert.True(t, errors.Is(err, ErrUnknownField))

	_, err = s.Get("NOPE")
	assert.True(t, errors.Is(err, ErrUnknownField))

	err = s.OnWrite("NOPE", func(string, any) {})
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestOnWrite_FiresOnEveryPut(t *testing.T) {
	s := newTestStore(t)

	var got []any
	require.NoError(t, s.OnWrite("ENABLED", func(field string, value any) {
		assert.Equal(t, "ENABLED", field)
		got = append(got, value)
	}))

	require.NoError(t, s.Put("ENABLED", 1))
	require.NoError(t, s.Put("ENABLED", 1))
	require.NoError(t, s.Put("LOG", "other field"))

	assert.Equal(t, []any{1, 1}, got)
}

func TestOnWrite_HandlerMayPut(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.OnWrite("ENABLED", func(_ string, value any) {
		_ = s.Put("LOG", "enabled changed")
	}))

	require.NoError(t, s.Put("ENABLED", 0))
	assert.Equal(t, "enabled changed", s.Text("LOG"))
}

func TestWatch_SeesAllFields(t *testing.T) {
	s := newTestStore(t)

	var mu sync.Mutex
	seen := map[string]int{}
	s.Watch(func(field string, _ any) {
		mu.Lock()
		seen[field]++
		mu.Unlock()
	})

	require.NoError(t, s.Put("ENABLED", 0))
	require.NoError(t, s.Put("LOG", "x"))

	assert.Equal(t, map[string]int{"ENABLED": 1, "LOG": 1}, seen)
}

func TestBits_ReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put("STATE:inputs", big.NewInt(5)))

	b := s.Bits("STATE:inputs")
	b.SetInt64(99)

	assert.Equal(t, int64(5), s.Bits("STATE:inputs").Int64())
}

func TestSnapshot(t *testing.T) {
	s := newTestStore(t)
	snap := s.Snapshot()

	assert.Len(t, snap, 4)
	assert.Equal(t, 1, snap["ENABLED"])
	assert.Equal(t, []string{"ENABLED", "LOG", "PAR:adjustX", "STATE:inputs"}, s.Names())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "42", Format(42))
	assert.Equal(t, "1.5", Format(1.5))
	assert.Equal(t, "L1C1", Format("L1C1"))
	assert.Equal(t, "11", Format(big.NewInt(11)))

	assert.Equal(t, "11", JSONValue(big.NewInt(11)))
	assert.Equal(t, 3, JSONValue(3))
}
