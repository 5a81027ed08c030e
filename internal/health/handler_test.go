package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/linkshort/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	err error
}

func (c *fakeChecker) Ping(_ context.Context) error {
	return c.err
}

func TestCheck(t *testing.T) {
	t.Run("all dependencies healthy", func(t *testing.T) {
		handler := health.NewHandler(&fakeChecker{}, &fakeChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Postgres)
	})

	t.Run("broken cache only degrades", func(t *testing.T) {
		handler := health.NewHandler(&fakeChecker{err: errors.New("redis down")}, &fakeChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Postgres)
	})

	t.Run("broken store is unhealthy", func(t *testing.T) {
		handler := health.NewHandler(&fakeChecker{}, &fakeChecker{err: errors.New("postgres down")})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "unhealthy", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Postgres)
	})

	t.Run("unconfigured dependencies are skipped", func(t *testing.T) {
		handler := health.NewHandler(nil, nil)

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Empty(t, resp.Body.Redis)
		assert.Empty(t, resp.Body.Postgres)
	})
}
