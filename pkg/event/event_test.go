package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireReachesListenersInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Listen(func(name string, p interface{}) { got = append(got, "a:"+name) }, OrderCreated, OrderDeleted)
	b.Listen(func(name string, p interface{}) { got = append(got, "b:"+name) }, OrderCreated)

	b.Fire(OrderCreated, nil)
	b.Fire(OrderDeleted, nil)
	b.Fire(OrderCancelled, nil)

	assert.Equal(t, []string{"a:order.created", "b:order.created", "a:order.deleted"}, got)
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	b := NewBus()
	called := false
	b.Listen(func(string, interface{}) { panic("boom") }, OrderCreated)
	b.Listen(func(string, interface{}) { called = true }, OrderCreated)

	assert.NotPanics(t, func() { b.Fire(OrderCreated, 1) })
	assert.True(t, called)
}

func TestListenAsyncDoesNotBlockFire(t *testing.T) {
	b := NewBus()
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	b.ListenAsync(func(_ string, p interface{}) {
		<-release
		assert.Equal(t, 7, p)
		wg.Done()
	}, OrderCancelled)

	b.Fire(OrderCancelled, 7)
	close(release)
	wg.Wait()
}
