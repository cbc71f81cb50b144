package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/todoist-mcp/internal/todoist"
)

// stubAPI satisfies todoist.API; only identity matters here.
type stubAPI struct {
	todoist.API
	id int
}

func envWith(token string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if key != todoist.TokenEnvVar || token == "" {
			return "", false
		}
		return token, true
	}
}

func TestClientAccessor_MissingToken(t *testing.T) {
	for _, token := range []string{"", "   "} {
		a := NewClientAccessor(AccessorConfig{
			LookupEnv: envWith(token),
			Factory: func(context.Context, string) (todoist.API, error) {
				t.Fatal("factory must not be called without a token")
				return nil, nil
			},
		})

		client, err := a.Ensure(context.Background())
		assert.Nil(t, client)

		var cfgErr *todoist.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, todoist.TokenEnvVar, cfgErr.Variable)
		assert.False(t, a.HasCredential())
	}
}

func TestClientAccessor_CachesClient(t *testing.T) {
	var builds atomic.Int32
	a := NewClientAccessor(AccessorConfig{
		LookupEnv: envWith("secret"),
		Factory: func(_ context.Context, token string) (todoist.API, error) {
			assert.Equal(t, "secret", token)
			return &stubAPI{id: int(builds.Add(1))}, nil
		},
	})

	first, err := a.Ensure(context.Background())
	require.NoError(t, err)
	second, err := a.Ensure(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), builds.Load())
	assert.Same(t, first, a.Cached())
}

func TestClientAccessor_ConcurrentFirstUse(t *testing.T) {
	var builds atomic.Int32
	release := make(chan struct{})
	a := NewClientAccessor(AccessorConfig{
		LookupEnv: envWith("secret"),
		Factory: func(context.Context, string) (todoist.API, error) {
			builds.Add(1)
			<-release
			return &stubAPI{}, nil
		},
	})

	const callers = 50
	results := make([]todoist.API, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := a.Ensure(context.Background())
			assert.NoError(t, err)
			results[i] = c
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
}

func TestClientAccessor_FailureNotCached(t *testing.T) {
	var calls atomic.Int32
	a := NewClientAccessor(AccessorConfig{
		LookupEnv: envWith("secret"),
		Factory: func(context.Context, string) (todoist.API, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("transient")
			}
			return &stubAPI{}, nil
		},
	})

	_, err := a.Ensure(context.Background())
	require.EqualError(t, err, "transient")
	assert.Nil(t, a.Cached())

	client, err := a.Ensure(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClientAccessor_TokenProvidedLater(t *testing.T) {
	var token atomic.Value
	token.Store("")
	a := NewClientAccessor(AccessorConfig{
		LookupEnv: func(string) (string, bool) {
			v := token.Load().(string)
			return v, v != ""
		},
		Factory: func(context.Context, string) (todoist.API, error) {
			return &stubAPI{}, nil
		},
	})

	_, err := a.Ensure(context.Background())
	require.Error(t, err)

	token.Store("now-set")
	_, err = a.Ensure(context.Background())
	require.NoError(t, err)
}

func TestClientAccessor_DefaultFactory(t *testing.T) {
	a := NewClientAccessor(AccessorConfig{
		LookupEnv: envWith("secret"),
		Client:    todoist.Config{BaseURL: "http://127.0.0.1:1"},
	})

	client, err := a.Ensure(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &todoist.Client{}, client)
}

func TestClientAccessor_CustomTokenEnv(t *testing.T) {
	a := NewClientAccessor(AccessorConfig{
		TokenEnv: "MY_TOKEN",
		LookupEnv: func(key string) (string, bool) {
			return "x", key == "MY_TOKEN"
		},
		Factory: func(context.Context, string) (todoist.API, error) {
			return &stubAPI{}, nil
		},
	})
	assert.True(t, a.HasCredential())
	_, err := a.Ensure(context.Background())
	require.NoError(t, err)
}
