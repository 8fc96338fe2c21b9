package secret

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkorobov/passdash/internal/client/models"
)

type fakeDecrypter struct {
	value string
	err   error
	calls atomic.Int32
	once  sync.Once

	// When set, Decrypt signals started on first entry and then blocks
	// until gate is closed.
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeDecrypter) Decrypt(ctx context.Context, id int) (string, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.value, f.err
}

func hiddenEntry() models.CredentialEntry {
	return models.CredentialEntry{ID: 3, Title: "Bank", SecretHidden: true}
}

func TestSession_PlainSecretNeverCallsDecrypt(t *testing.T) {
	d := &fakeDecrypter{}
	c := NewController(d)

	s := c.NewSession(models.CredentialEntry{ID: 1, Secret: "plain"})
	got, err := s.Reveal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plain", got)
	assert.Equal(t, int32(0), d.calls.Load())
}

func TestSession_RevealMaskReveal_FetchesFreshEachReveal(t *testing.T) {
	d := &fakeDecrypter{value: "s3cret"}
	s := NewController(d).NewSession(hiddenEntry())
	ctx := context.Background()

	got, err := s.Reveal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, int32(1), d.calls.Load())

	// Second click while visible is a no-op.
	_, err = s.Reveal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), d.calls.Load())

	s.Mask()
	assert.False(t, s.Visible())

	_, err = s.Reveal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), d.calls.Load(), "no caching across separate reveals")
}

func TestSession_ConcurrentRevealJoinsInflight(t *testing.T) {
	d := &fakeDecrypter{value: "s3cret", gate: make(chan struct{}), started: make(chan struct{})}
	s := NewController(d).NewSession(hiddenEntry())
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]string, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := s.Reveal(ctx)
		if err == nil {
			results[0] = v
		}
	}()

	// The second reveal starts only after the first holds the in-flight
	// slot, so it must join rather than issue a duplicate.
	<-d.started
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := s.Reveal(ctx)
		if err == nil {
			results[1] = v
		}
	}()

	close(d.gate)
	wg.Wait()

	assert.Equal(t, int32(1), d.calls.Load(), "second reveal joins the in-flight request")
	assert.Equal(t, []string{"s3cret", "s3cret"}, results)
}

func TestSession_DecryptErrorLeavesMasked(t *testing.T) {
	d := &fakeDecrypter{err: errors.New("key unavailable")}
	s := NewController(d).NewSession(hiddenEntry())

	_, err := s.Reveal(context.Background())
	require.Error(t, err)
	assert.False(t, s.Visible(), "never display a partial or stale value on error")
}

func TestSession_CloseDuringFlightDiscardsResult(t *testing.T) {
	d := &fakeDecrypter{value: "s3cret", gate: make(chan struct{}), started: make(chan struct{})}
	s := NewController(d).NewSession(hiddenEntry())

	done := make(chan error, 1)
	go func() {
		_, err := s.Reveal(context.Background())
		done <- err
	}()

	<-d.started
	s.Close()
	close(d.gate)

	err := <-done
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.False(t, s.Visible())
}

func TestSession_RevealAfterCloseFails(t *testing.T) {
	d := &fakeDecrypter{value: "s3cret"}
	s := NewController(d).NewSession(hiddenEntry())
	s.Close()

	_, err := s.Reveal(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, int32(0), d.calls.Load())
}

func TestSession_ToggleIsLocalOnly(t *testing.T) {
	d := &fakeDecrypter{value: "s3cret"}
	s := NewController(d).NewSession(hiddenEntry())
	ctx := context.Background()

	// Hidden secret with no plaintext: toggle cannot reveal by itself.
	assert.False(t, s.Toggle())
	assert.Equal(t, int32(0), d.calls.Load())

	_, err := s.Reveal(ctx)
	require.NoError(t, err)
	assert.True(t, s.Visible())

	// Toggle off wipes the hidden plaintext; toggle back on needs a fetch.
	assert.False(t, s.Toggle())
	assert.False(t, s.Toggle())
	assert.Equal(t, int32(1), d.calls.Load())

	// Seeded plaintext sessions flip freely without the network.
	plain := NewController(d).NewSeededSession("known")
	assert.True(t, plain.Toggle())
	assert.False(t, plain.Toggle())
	assert.True(t, plain.Toggle())
	assert.Equal(t, int32(1), d.calls.Load())
}
