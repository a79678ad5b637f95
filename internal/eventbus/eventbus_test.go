package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shelf/internal/domain"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventBookCommitted, func(e DomainEvent) {
		got <- e
	})

	b.Publish(BookCommittedEvent{Book: domain.Book{ID: "b1", Title: "Dune"}})

	select {
	case e := <-got:
		ev, ok := e.(BookCommittedEvent)
		require.True(t, ok, "unexpected event type %T", e)
		require.Equal(t, "b1", ev.Book.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	first := make(chan struct{}, 4)
	second := make(chan struct{}, 4)
	unsubscribe := b.Subscribe(EventSearchFailed, func(DomainEvent) { first <- struct{}{} })
	b.Subscribe(EventSearchFailed, func(DomainEvent) { second <- struct{}{} })

	unsubscribe()
	b.Publish(SearchFailedEvent{Query: "dune"})

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("remaining subscriber was not called")
	}
	select {
	case <-first:
		t.Fatal("unsubscribed handler was called")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	called := make(chan struct{}, 1)
	b.Subscribe(EventConfigSaved, func(DomainEvent) { called <- struct{}{} })
	b.Close()

	require.NotPanics(t, func() { b.Publish(ConfigSavedEvent{Path: "x"}) })
	select {
	case <-called:
		t.Fatal("handler ran after Close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDeliversInPublishOrder(t *testing.T) {
	b := New()
	defer b.Close()

	const n = 100
	got := make(chan int, 2*n)
	record := func(e DomainEvent) {
		switch ev := e.(type) {
		case BookCommittedEvent:
			got <- ev.ShelfSize
		case BookRemovedEvent:
			got <- ev.ShelfSize
		}
	}
	b.Subscribe(EventBookCommitted, record)
	b.Subscribe(EventBookRemoved, record)

	for i := 1; i <= n; i++ {
		if i%2 == 0 {
			b.Publish(BookRemovedEvent{ShelfSize: i})
		} else {
			b.Publish(BookCommittedEvent{ShelfSize: i})
		}
	}

	for want := 1; want <= n; want++ {
		select {
		case size := <-got:
			require.Equal(t, want, size)
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d was not delivered", want)
		}
	}
}

func TestHandlerPanicDoesNotStopDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan string, 2)
	b.Subscribe(EventSearchFailed, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventSearchFailed, func(e DomainEvent) { got <- e.(SearchFailedEvent).Query })

	b.Publish(SearchFailedEvent{Query: "first"})
	b.Publish(SearchFailedEvent{Query: "second"})

	for _, want := range []string{"first", "second"} {
		select {
		case q := <-got:
			require.Equal(t, want, q)
		case <-time.After(2 * time.Second):
			t.Fatalf("%s was not delivered", want)
		}
	}
}
