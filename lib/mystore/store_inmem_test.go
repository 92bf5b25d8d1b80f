package mystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type receipt struct {
	UID     string
	Phone   string
	Settled bool
}

var (
	first  = receipt{UID: "123", Phone: "254700111222", Settled: false}
	second = receipt{UID: "456", Phone: "254711222333", Settled: true}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	rs, cleanup, err := NewInMemoryStore[receipt](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := rs.Get(c, first.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = rs.Put(c, first.UID, first)
		assert.NoError(t, err)
		err = rs.Put(c, second.UID, second)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		r, found, err := rs.Get(c, first.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, receipt{UID: "123", Phone: "254700111222", Settled: false}, r)
	})

	t.Run("List", func(t *testing.T) {
		all, err := rs.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Query on field", func(t *testing.T) {
		settled, err := rs.Query(c, []Filter{{Field: "Settled", Compare: "=", Value: true}}, "UID")
		assert.NoError(t, err)
		assert.Equal(t, []receipt{second}, settled)
	})

	t.Run("Query within transaction", func(t *testing.T) {
		err := rs.RunInTransaction(c, func(c context.Context) error {
			open, err := rs.Query(c, []Filter{{Field: "Settled", Compare: "=", Value: false}}, "UID")
			assert.NoError(t, err)
			assert.Equal(t, []receipt{first}, open)

			modified := first
			modified.Settled = true

			return rs.Put(c, modified.UID, modified)
		})
		assert.NoError(t, err)

		r, found, err := rs.Get(c, first.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.True(t, r.Settled)
	})
}
