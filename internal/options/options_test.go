package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// clientConfig mirrors the option targets used across the module: a mix of
// validated and unconditional setters.
type clientConfig struct {
	Database string
	BulkSize int
	Gzip     bool
	LastCall string
}

func (c *clientConfig) SetBulkSize(n int) error {
	if n <= 0 {
		return errors.New("bulk size must be positive")
	}
	c.BulkSize = n
	c.LastCall = "SetBulkSize"

	return nil
}

func (c *clientConfig) SetDatabase(name string) {
	c.Database = name
	c.LastCall = "SetDatabase"
}

func (c *clientConfig) SetGzip(enabled bool) {
	c.Gzip = enabled
	c.LastCall = "SetGzip"
}

func TestOption_New(t *testing.T) {
	config := &clientConfig{}

	t.Run("creates option that can return error", func(t *testing.T) {
		opt := New(func(c *clientConfig) error {
			return c.SetBulkSize(500)
		})

		err := opt.apply(config)
		require.NoError(t, err)
		require.Equal(t, 500, config.BulkSize)
		require.Equal(t, "SetBulkSize", config.LastCall)
	})

	t.Run("propagates errors from option function", func(t *testing.T) {
		opt := New(func(c *clientConfig) error {
			return c.SetBulkSize(0)
		})

		err := opt.apply(config)
		require.Error(t, err)
		require.Contains(t, err.Error(), "bulk size must be positive")
	})
}

func TestOption_NoError(t *testing.T) {
	config := &clientConfig{}

	t.Run("creates option from function without error", func(t *testing.T) {
		opt := NoError(func(c *clientConfig) {
			c.SetDatabase("mydb")
		})

		err := opt.apply(config)
		require.NoError(t, err)
		require.Equal(t, "mydb", config.Database)
		require.Equal(t, "SetDatabase", config.LastCall)
	})

	t.Run("works with boolean setter", func(t *testing.T) {
		opt := NoError(func(c *clientConfig) {
			c.SetGzip(true)
		})

		err := opt.apply(config)
		require.NoError(t, err)
		require.True(t, config.Gzip)
		require.Equal(t, "SetGzip", config.LastCall)
	})
}

func TestOption_Apply(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		config := &clientConfig{}

		opts := []Option[*clientConfig]{
			New(func(c *clientConfig) error { return c.SetBulkSize(10) }),
			NoError(func(c *clientConfig) { c.SetDatabase("mydb") }),
			NoError(func(c *clientConfig) { c.SetGzip(true) }),
		}

		err := Apply(config, opts...)
		require.NoError(t, err)
		require.Equal(t, 10, config.BulkSize)
		require.Equal(t, "mydb", config.Database)
		require.True(t, config.Gzip)
		require.Equal(t, "SetGzip", config.LastCall)
	})

	t.Run("stops at first error and returns it", func(t *testing.T) {
		config := &clientConfig{}

		opts := []Option[*clientConfig]{
			New(func(c *clientConfig) error { return c.SetBulkSize(5) }),
			New(func(c *clientConfig) error { return c.SetBulkSize(-1) }),
			NoError(func(c *clientConfig) { c.SetDatabase("should not be set") }),
		}

		err := Apply(config, opts...)
		require.Error(t, err)
		require.Contains(t, err.Error(), "bulk size must be positive")
		require.Equal(t, 5, config.BulkSize)
		require.Equal(t, "", config.Database)
		require.Equal(t, "SetBulkSize", config.LastCall)
	})

	t.Run("works with empty options slice", func(t *testing.T) {
		config := &clientConfig{}
		err := Apply(config)
		require.NoError(t, err)
		require.Equal(t, 0, config.BulkSize)
		require.Equal(t, "", config.Database)
		require.False(t, config.Gzip)
	})
}

func TestOption_Integration(t *testing.T) {
	config := &clientConfig{}

	// Helpers shaped like the exported WithXxx constructors.
	withBulkSize := func(n int) Option[*clientConfig] {
		return New(func(c *clientConfig) error {
			return c.SetBulkSize(n)
		})
	}

	withDatabase := func(name string) Option[*clientConfig] {
		return NoError(func(c *clientConfig) {
			c.SetDatabase(name)
		})
	}

	withGzip := func(enabled bool) Option[*clientConfig] {
		return NoError(func(c *clientConfig) {
			c.SetGzip(enabled)
		})
	}

	t.Run("works with helper functions", func(t *testing.T) {
		err := Apply(config,
			withBulkSize(100),
			withDatabase("metrics"),
			withGzip(true),
		)

		require.NoError(t, err)
		require.Equal(t, 100, config.BulkSize)
		require.Equal(t, "metrics", config.Database)
		require.True(t, config.Gzip)
	})
}

func TestOption_GenericsWithDifferentTypes(t *testing.T) {
	t.Run("works with simple struct", func(t *testing.T) {
		type wrapper struct {
			Data string
		}

		s := &wrapper{}
		opt := NoError(func(w *wrapper) {
			w.Data = "generic test"
		})

		err := opt.apply(s)
		require.NoError(t, err)
		require.Equal(t, "generic test", s.Data)
	})

	t.Run("works with primitive types", func(t *testing.T) {
		var num int
		opt := NoError(func(n *int) {
			*n = 42
		})

		err := opt.apply(&num)
		require.NoError(t, err)
		require.Equal(t, 42, num)
	})
}
