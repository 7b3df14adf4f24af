// internal/arbiter/arbiter_test.go
package arbiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimOrWait_ExactlyOneCreator(t *testing.T) {
	arb := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const n = 16
	outcomes := make(chan Outcome, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := arb.ClaimOrWait(ctx)
			require.NoError(t, err)
			if out.Creator {
				// Simulate the create round-trip before publishing.
				time.Sleep(10 * time.Millisecond)
				arb.Resolve("lobby-7")
				out.LobbyID = "lobby-7"
			}
			outcomes <- out
		}()
	}
	wg.Wait()
	close(outcomes)

	creators := 0
	for out := range outcomes {
		if out.Creator {
			creators++
		}
		assert.Equal(t, "lobby-7", out.LobbyID)
	}
	assert.Equal(t, 1, creators, "exactly one caller may create the lobby")
}

func TestClaimOrWait_ResolvedReturnsImmediately(t *testing.T) {
	arb := New()
	out, err := arb.ClaimOrWait(context.Background())
	require.NoError(t, err)
	require.True(t, out.Creator)
	arb.Resolve("lobby-1")

	out, err = arb.ClaimOrWait(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Creator)
	assert.Equal(t, "lobby-1", out.LobbyID)
}

func TestFail_AllowsReclaim(t *testing.T) {
	arb := New()

	out, err := arb.ClaimOrWait(context.Background())
	require.NoError(t, err)
	require.True(t, out.Creator)

	// Server rejected the creation: no permanent lockout.
	arb.Fail()

	out, err = arb.ClaimOrWait(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Creator, "a later caller must be able to claim after a failure")

	_, resolved := arb.Resolved()
	assert.False(t, resolved)
}

func TestFail_WakesWaiterWhoInheritsClaim(t *testing.T) {
	arb := New()

	out, err := arb.ClaimOrWait(context.Background())
	require.NoError(t, err)
	require.True(t, out.Creator)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	inherited := make(chan Outcome, 1)
	go func() {
		o, err := arb.ClaimOrWait(ctx)
		require.NoError(t, err)
		inherited <- o
	}()

	// Give the waiter time to block, then abandon the claim.
	time.Sleep(20 * time.Millisecond)
	arb.Fail()

	select {
	case o := <-inherited:
		assert.True(t, o.Creator, "the woken waiter becomes the new creator")
	case <-ctx.Done():
		t.Fatal("waiter was never woken after Fail")
	}
}

func TestClaimOrWait_ContextEndsWait(t *testing.T) {
	arb := New()

	out, err := arb.ClaimOrWait(context.Background())
	require.NoError(t, err)
	require.True(t, out.Creator)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = arb.ClaimOrWait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolve_IsMonotone(t *testing.T) {
	arb := New()

	out, err := arb.ClaimOrWait(context.Background())
	require.NoError(t, err)
	require.True(t, out.Creator)

	arb.Resolve("lobby-first")
	arb.Resolve("lobby-second")
	arb.Fail() // no-op once resolved

	id, resolved := arb.Resolved()
	require.True(t, resolved)
	assert.Equal(t, "lobby-first", id)

	out, err = arb.ClaimOrWait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lobby-first", out.LobbyID)
}
