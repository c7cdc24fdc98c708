package collection_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/collection"
)

func TestMapFilter(t *testing.T) {
	s := []int{1, 2, 3, 4}
	assert.Equal(t, []string{"1", "2", "3", "4"}, collection.Map(s, strconv.Itoa))
	assert.Equal(t, []int{2, 4}, collection.Filter(s, func(v int) bool { return v%2 == 0 }))
	v, ok := collection.First(s, func(v int) bool { return v > 2 })
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = collection.First(s, func(v int) bool { return v > 9 })
	assert.False(t, ok)
}

func TestSetOps(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, collection.Unique([]int{3, 1, 3, 2, 1}))
	assert.Equal(t, 10, collection.Reduce([]int{1, 2, 3, 4}, 0, func(a, v int) int { return a + v }))
}

func TestGroupByKeepsFirstSeenOrder(t *testing.T) {
	type item struct {
		cat  string
		name string
	}
	items := []item{{"b", "1"}, {"a", "2"}, {"b", "3"}}
	groups := collection.GroupBy(items, func(i item) string { return i.cat })

	assert.Len(t, groups, 2)
	assert.Equal(t, "b", groups[0].Key)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "a", groups[1].Key)

	byName := collection.KeyBy(items, func(i item) string { return i.name })
	assert.Equal(t, "a", byName["2"].cat)
}
