package web

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfirmations_SingleUse(t *testing.T) {
	c := newConfirmations(time.Minute)

	token := c.Issue()
	assert.True(t, c.Consume(token))
	assert.False(t, c.Consume(token))
	assert.False(t, c.Consume("not-a-token"))
	assert.False(t, c.Consume("6f1c8a4e-7d1b-4c55-9b63-6f0c7a0f2d11"))
}

func TestConfirmations_Expire(t *testing.T) {
	c := newConfirmations(20 * time.Millisecond)

	token := c.Issue()
	time.Sleep(60 * time.Millisecond)
	assert.False(t, c.Consume(token))
}

func TestConfirmations_ConcurrentConsumeWinsOnce(t *testing.T) {
	c := newConfirmations(time.Minute)
	token := c.Issue()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Consume(token) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
