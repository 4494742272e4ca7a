package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlags_Coalesce(t *testing.T) {
	flags := &Flags{}
	assert.False(t, flags.Take(Refuel))

	flags.Raise(Refuel)
	flags.Raise(Refuel)
	assert.True(t, flags.Pending(Refuel))
	assert.True(t, flags.Take(Refuel))
	assert.False(t, flags.Take(Refuel), "two raises before a take are observed once")
}

func TestFlags_KindsAreIndependent(t *testing.T) {
	flags := &Flags{}
	flags.Raise(Bomb)
	assert.False(t, flags.Take(Refuel))
	assert.True(t, flags.Pending(Bomb))
	flags.Raise(Refuel)
	assert.True(t, flags.Take(Bomb))
	assert.True(t, flags.Take(Refuel))
}

func TestFlags_ConcurrentRaise(t *testing.T) {
	flags := &Flags{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				flags.Raise(Bomb)
			} else {
				flags.Raise(Refuel)
			}
		}(i)
	}
	wg.Wait()
	assert.True(t, flags.Take(Bomb))
	assert.True(t, flags.Take(Refuel))
	assert.False(t, flags.Take(Bomb))
}

func TestMailbox_Terminate(t *testing.T) {
	mailbox := NewMailbox()
	assert.False(t, mailbox.Terminated())

	assert.NoError(t, Send(mailbox, Terminate))
	assert.NoError(t, Send(mailbox, Terminate))
	assert.True(t, mailbox.Terminated())

	select {
	case <-mailbox.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed")
	}
}

func TestSend_NilRecipient(t *testing.T) {
	assert.ErrorIs(t, Send(nil, Bomb), ErrNoRecipient)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "refuel", Refuel.String())
	assert.Equal(t, "bomb", Bomb.String())
	assert.Equal(t, "terminate", Terminate.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
