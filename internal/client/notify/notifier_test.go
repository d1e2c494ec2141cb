package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// drain возвращает число сигналов, доступных без блокировки.
func drain(s *Subscription) int {
	n := 0
	for {
		select {
		case _, ok := <-s.C():
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

func TestNotifier_CoalescesBurst(t *testing.T) {
	n := New()
	sub := n.Subscribe()

	for i := 0; i < 10; i++ {
		n.Notify()
	}

	assert.Equal(t, 1, drain(sub), "burst collapses into one signal")
	assert.Equal(t, 0, drain(sub))

	n.Notify()
	assert.Equal(t, 1, drain(sub), "next signal after receive is delivered")
}

func TestNotifier_FanOut(t *testing.T) {
	n := New()
	ui := n.Subscribe()
	scheduler := n.Subscribe()

	n.Notify()

	assert.Equal(t, 1, drain(ui))
	assert.Equal(t, 1, drain(scheduler))
}

func TestNotifier_Batch(t *testing.T) {
	n := New()
	sub := n.Subscribe()

	n.Batch(func() {
		n.Notify()
		assert.Equal(t, 0, drain(sub), "no signal while batch is open")

		// Вложенный batch не закрывает внешний
		n.Batch(func() {
			n.Notify()
		})
		assert.Equal(t, 0, drain(sub))
		n.Notify()
	})

	assert.Equal(t, 1, drain(sub))

	// Пустой batch сигнала не дает
	n.Batch(func() {})
	assert.Equal(t, 0, drain(sub))
}

func TestNotifier_BatchPanicStillSignals(t *testing.T) {
	n := New()
	sub := n.Subscribe()

	assert.Panics(t, func() {
		n.Batch(func() {
			n.Notify()
			panic("boom")
		})
	})
	assert.Equal(t, 1, drain(sub))

	// Notifier остается рабочим
	n.Notify()
	assert.Equal(t, 1, drain(sub))
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := New()
	sub := n.Subscribe()
	sub.Unsubscribe()
	sub.Unsubscribe() // повторный вызов безопасен

	n.Notify()
	_, ok := <-sub.C()
	assert.False(t, ok, "channel closed after unsubscribe")
}

func TestNotifier_Close(t *testing.T) {
	n := New()
	sub := n.Subscribe()
	n.Close()
	n.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)

	late := n.Subscribe()
	_, ok = <-late.C()
	assert.False(t, ok, "subscribing after close yields a closed channel")

	n.Notify()
	sub.Unsubscribe()
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()
	sub := n.Subscribe()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n.Notify()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, drain(sub))
}
