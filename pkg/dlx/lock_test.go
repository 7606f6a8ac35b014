package dlx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockKey_SerializesHolders(t *testing.T) {
	m := &Manager{locks: make(map[string]*keyLock)}

	var wg sync.WaitGroup
	var inside, peak int
	var mu sync.Mutex
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := m.lockKey("shared-key")
			mu.Lock()
			inside++
			if inside > peak {
				peak = inside
			}
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, peak, "holders of the same key must not overlap")
}

func TestLockKey_DropsIdleEntries(t *testing.T) {
	m := &Manager{locks: make(map[string]*keyLock)}

	release := m.lockKey("key-a")
	m.mu.Lock()
	require.Len(t, m.locks, 1)
	m.mu.Unlock()
	release()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			keys := []string{"key-a", "key-b", "key-c"}
			rel := m.lockKey(keys[n%len(keys)])
			rel()
		}(i)
	}
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks, "released keys should not linger in the lock map")
}
