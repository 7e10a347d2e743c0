package handle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertTake(t *testing.T) {
	t.Parallel()

	var table Table[string]
	a := table.Insert("a")
	b := table.Insert("b")

	assert.Positive(t, a)
	assert.Positive(t, b)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, table.Len())

	value, ok := table.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a", value)

	value, err := table.Take(a)
	require.NoError(t, err)
	assert.Equal(t, "a", value)
	assert.Equal(t, 1, table.Len())

	_, ok = table.Get(a)
	assert.False(t, ok)
}

func TestTable_TakeTwice(t *testing.T) {
	t.Parallel()

	var table Table[int]
	token := table.Insert(42)

	_, err := table.Take(token)
	require.NoError(t, err)

	_, err = table.Take(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTable_StaleTokenDoesNotAliasReusedSlot(t *testing.T) {
	t.Parallel()

	var table Table[string]
	old := table.Insert("first")
	_, err := table.Take(old)
	require.NoError(t, err)

	fresh := table.Insert("second")
	assert.NotEqual(t, old, fresh)
	assert.Equal(t, uint32(old), uint32(fresh), "slot should be reused")

	_, err = table.Take(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	value, err := table.Take(fresh)
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestTable_UnknownTokens(t *testing.T) {
	t.Parallel()

	var table Table[string]
	table.Insert("only")

	for _, token := range []int64{0, -1, 1 << 40, encode(5, 1), encode(0, 7)} {
		_, err := table.Take(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %d", token)
	}
	assert.Equal(t, 1, table.Len())
}

func TestTable_GenerationWraps(t *testing.T) {
	t.Parallel()

	var table Table[int]
	token := table.Insert(1)
	table.slots[uint32(token)].generation = maxGeneration
	token = encode(uint32(token), maxGeneration)

	_, err := table.Take(token)
	require.NoError(t, err)

	next := table.Insert(2)
	assert.Positive(t, next)
	assert.Equal(t, int64(1), next>>indexBits)
}

func TestTable_Concurrent(t *testing.T) {
	t.Parallel()

	var table Table[int]
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				token := table.Insert(i*1000 + j)
				value, err := table.Take(token)
				assert.NoError(t, err)
				assert.Equal(t, i*1000+j, value)
			}
		}(i)
	}
	wg.Wait()
	assert.Zero(t, table.Len())
}
