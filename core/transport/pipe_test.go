package transport_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/transport"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

func TestPipe(t *testing.T) {
	t.Parallel()

	t.Run("delivers messages in posted order", func(t *testing.T) {
		t.Parallel()

		a, b := transport.Pipe()
		defer a.Terminate()

		var mu sync.Mutex
		var got []uint64
		done := make(chan struct{})
		b.Subscribe(func(msg wire.Message) {
			mu.Lock()
			got = append(got, msg.ID)
			if len(got) == 3 {
				close(done)
			}
			mu.Unlock()
		})

		for i := uint64(1); i <= 3; i++ {
			require.NoError(t, a.Post(wire.Message{Kind: wire.KindFunction, ID: i}, nil))
		}

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("messages not delivered")
		}
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []uint64{1, 2, 3}, got)
	})

	t.Run("holds back messages until the first subscriber", func(t *testing.T) {
		t.Parallel()

		a, b := transport.Pipe()
		defer a.Terminate()

		require.NoError(t, a.Post(wire.Message{Kind: wire.KindReady}, nil))

		got := make(chan wire.Message, 1)
		b.Subscribe(func(msg wire.Message) {
			got <- msg
		})

		select {
		case msg := <-got:
			assert.Equal(t, wire.KindReady, msg.Kind)
		case <-time.After(time.Second):
			t.Fatal("held-back message not delivered")
		}
	})

	t.Run("unsubscribed handlers stop receiving", func(t *testing.T) {
		t.Parallel()

		a, b := transport.Pipe()
		defer a.Terminate()

		first := make(chan struct{}, 2)
		unsubscribe := b.Subscribe(func(msg wire.Message) {
			first <- struct{}{}
		})

		require.NoError(t, a.Post(wire.Message{Kind: wire.KindReady}, nil))
		select {
		case <-first:
		case <-time.After(time.Second):
			t.Fatal("first message not delivered")
		}

		unsubscribe()

		second := make(chan struct{}, 1)
		b.Subscribe(func(msg wire.Message) {
			second <- struct{}{}
		})
		require.NoError(t, a.Post(wire.Message{Kind: wire.KindReady}, nil))

		select {
		case <-second:
		case <-time.After(time.Second):
			t.Fatal("second message not delivered")
		}
		select {
		case <-first:
			t.Fatal("unsubscribed handler still receiving")
		default:
		}
	})

	t.Run("post detaches transferables", func(t *testing.T) {
		t.Parallel()

		a, b := transport.Pipe()
		defer a.Terminate()

		buf := marshal.NewBuffer([]byte{1, 2, 3, 4})
		got := make(chan wire.Message, 1)
		b.Subscribe(func(msg wire.Message) {
			got <- msg
		})

		msg := wire.Message{Kind: wire.KindFunction, ID: 1, Args: []any{buf}}
		require.NoError(t, a.Post(msg, []*marshal.Buffer{buf}))

		assert.True(t, buf.Detached())

		select {
		case received := <-got:
			moved, ok := received.Args[0].(*marshal.Buffer)
			require.True(t, ok)
			bts, err := moved.Bytes()
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3, 4}, bts)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	})

	t.Run("terminate closes both sides", func(t *testing.T) {
		t.Parallel()

		a, b := transport.Pipe()
		a.Terminate()

		select {
		case <-a.Done():
		default:
			t.Fatal("a not done")
		}
		select {
		case <-b.Done():
		default:
			t.Fatal("b not done")
		}

		err := a.Post(wire.Message{Kind: wire.KindReady}, nil)
		assert.ErrorIs(t, err, transport.ErrEndpointClosed)
		err = b.Post(wire.Message{Kind: wire.KindReady}, nil)
		assert.ErrorIs(t, err, transport.ErrEndpointClosed)

		// Idempotent.
		a.Terminate()
		b.Terminate()
	})
}
