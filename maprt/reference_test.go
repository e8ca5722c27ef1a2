package maprt_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-generator/maprt"
)

type srcNode struct {
	Name string
	Next *srcNode
}

type dstNode struct {
	Name string
	Next *dstNode
}

// mapNode has the shape of a reference handling method produced by the
// generator.
func mapNode(source *srcNode, refHandler *maprt.ReferenceHandler) *dstNode {
	if existing, ok := maprt.TryGetReference[*dstNode](refHandler, source); ok {
		return existing
	}

	target := &dstNode{}
	maprt.SetReference(refHandler, source, target)
	target.Name = source.Name

	if source.Next != nil {
		target.Next = mapNode(source.Next, refHandler)
	}

	return target
}

func TestReferenceHandler_Cycle(t *testing.T) {
	a := &srcNode{Name: "a"}
	b := &srcNode{Name: "b", Next: a}
	a.Next = b

	h := maprt.NewReferenceHandler()
	got := mapNode(a, h)

	require.NotNil(t, got.Next)
	assert.Equal(t, "b", got.Next.Name)
	assert.Same(t, got, got.Next.Next, "the cycle is preserved")
	assert.Equal(t, 2, h.Len())
}

func TestReferenceHandler_KeyedByTargetType(t *testing.T) {
	source := &srcNode{Name: "a"}
	h := maprt.NewReferenceHandler()

	maprt.SetReference(h, source, &dstNode{Name: "node"})
	maprt.SetReference(h, source, "label")

	node, ok := maprt.TryGetReference[*dstNode](h, source)
	require.True(t, ok)
	assert.Equal(t, "node", node.Name)

	label, ok := maprt.TryGetReference[string](h, source)
	require.True(t, ok)
	assert.Equal(t, "label", label)

	_, ok = maprt.TryGetReference[int](h, source)
	assert.False(t, ok)

	_, ok = maprt.TryGetReference[*dstNode](h, &srcNode{Name: "a"})
	assert.False(t, ok, "identity, not equality")
}

func TestReferenceHandler_Nil(t *testing.T) {
	var h *maprt.ReferenceHandler

	maprt.SetReference(h, "source", 1)

	_, ok := maprt.TryGetReference[int](h, "source")
	assert.False(t, ok)
	assert.Zero(t, h.Len())
}

func TestErrors(t *testing.T) {
	err := maprt.ArgumentNull("source.Customer")
	assert.EqualError(t, err, "value cannot be nil: source.Customer")

	var argNull *maprt.ArgumentNullError
	require.ErrorAs(t, err, &argNull)
	assert.Equal(t, "source.Customer", argNull.Subject)

	err = fmt.Errorf("map order: %w", maprt.NotImplemented("store.Order -> warehouse.Order"))

	var notImpl *maprt.NotImplementedError
	require.True(t, errors.As(err, &notImpl))
	assert.Equal(t, "store.Order -> warehouse.Order", notImpl.Mapping)
}

func ExampleTryGetReference() {
	source := &srcNode{Name: "root"}
	h := maprt.NewReferenceHandler()

	_, found := maprt.TryGetReference[*dstNode](h, source)
	fmt.Println(found)

	maprt.SetReference(h, source, &dstNode{Name: "root"})

	target, found := maprt.TryGetReference[*dstNode](h, source)
	fmt.Println(found, target.Name)
	// Output:
	// false
	// true root
}
