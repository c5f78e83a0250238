package client

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arloliu/tsline/errs"
	"github.com/arloliu/tsline/internal/options"
	"github.com/arloliu/tsline/lineprotocol"
	"github.com/arloliu/tsline/resultset"
)

// ClusterClient fans operations out over several servers, failing over from
// host to host until one succeeds.
//
// Hosts that fail with transport or server errors move to a bad list and are
// tried last on subsequent operations; a success moves a host back to the
// healthy pool. A *errs.ClientError aborts the walk immediately: the request
// itself is wrong and no other host would answer differently.
type ClusterClient struct {
	mu       sync.Mutex
	healthy  []*Client
	bad      []*Client
	shuffle  bool
	hostOpts []Option
	logger   zerolog.Logger
}

// ClusterOption configures a ClusterClient.
type ClusterOption = options.Option[*ClusterClient]

// ClusterShuffle controls whether each operation walks the healthy hosts in
// random order, spreading load evenly. Enabled by default.
func ClusterShuffle(enabled bool) ClusterOption {
	return options.NoError(func(cc *ClusterClient) { cc.shuffle = enabled })
}

// ClusterClientOptions passes client options to every per-host Client.
func ClusterClientOptions(opts ...Option) ClusterOption {
	return options.NoError(func(cc *ClusterClient) { cc.hostOpts = opts })
}

// ClusterLogger installs a logger for failover events.
func ClusterLogger(logger zerolog.Logger) ClusterOption {
	return options.NoError(func(cc *ClusterClient) {
		cc.logger = logger.With().Str("component", "tsline").Logger()
	})
}

// NewClusterClient builds one Client per address. At least one address is
// required; every address must pass NewClient validation.
func NewClusterClient(addrs []string, opts ...ClusterOption) (*ClusterClient, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: no addresses given", errs.ErrInvalidAddress)
	}

	cc := &ClusterClient{
		shuffle: true,
		logger:  zerolog.Nop(),
	}

	if err := options.Apply(cc, opts...); err != nil {
		return nil, err
	}

	for _, addr := range addrs {
		c, err := NewClient(addr, cc.hostOpts...)
		if err != nil {
			return nil, err
		}

		cc.healthy = append(cc.healthy, c)
	}

	return cc, nil
}

// Do runs op against one host after another until it succeeds.
//
// The walk order is the healthy hosts (shuffled when enabled) followed by the
// bad hosts. Hosts failing with anything but *errs.ClientError are demoted;
// the host that eventually serves the call is promoted back. When every host
// fails, the returned error wraps errs.ErrNoViableServer around the last
// failure.
func (cc *ClusterClient) Do(ctx context.Context, op func(*Client) error) error {
	var lastErr error

	for _, c := range cc.candidates() {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(c)
		if err == nil {
			cc.promote(c)
			return nil
		}

		var ce *errs.ClientError
		if errors.As(err, &ce) {
			// The host answered; the request is at fault.
			cc.promote(c)
			return err
		}

		cc.demote(c)
		lastErr = err

		cc.logger.Debug().
			Str("host", c.baseURL.Host).
			Err(err).
			Msg("host failed, trying next")
	}

	return fmt.Errorf("%w: last error: %s", errs.ErrNoViableServer, lastErr)
}

// Write ships a batch through the first viable host.
func (cc *ClusterClient) Write(ctx context.Context, batch lineprotocol.Batch, opts ...WriteOption) error {
	return cc.Do(ctx, func(c *Client) error {
		return c.Write(ctx, batch, opts...)
	})
}

// WritePoints writes points with no batch-level static tags.
func (cc *ClusterClient) WritePoints(ctx context.Context, points []lineprotocol.Point, opts ...WriteOption) error {
	return cc.Write(ctx, lineprotocol.Batch{Points: points}, opts...)
}

// Query runs q on the first viable host.
func (cc *ClusterClient) Query(ctx context.Context, q Query) ([]*resultset.ResultSet, error) {
	var sets []*resultset.ResultSet

	err := cc.Do(ctx, func(c *Client) error {
		var opErr error
		sets, opErr = c.Query(ctx, q)

		return opErr
	})
	if err != nil {
		return nil, err
	}

	return sets, nil
}

// QueryOne runs q on the first viable host and returns the first statement's
// result set.
func (cc *ClusterClient) QueryOne(ctx context.Context, q Query) (*resultset.ResultSet, error) {
	var rs *resultset.ResultSet

	err := cc.Do(ctx, func(c *Client) error {
		var opErr error
		rs, opErr = c.QueryOne(ctx, q)

		return opErr
	})
	if err != nil {
		return nil, err
	}

	return rs, nil
}

// Ping checks connectivity against the first viable host.
func (cc *ClusterClient) Ping(ctx context.Context) (time.Duration, string, error) {
	var (
		elapsed time.Duration
		version string
	)

	err := cc.Do(ctx, func(c *Client) error {
		var opErr error
		elapsed, version, opErr = c.Ping(ctx)

		return opErr
	})
	if err != nil {
		return 0, "", err
	}

	return elapsed, version, nil
}

// Hosts reports the current sizes of the healthy and bad pools.
func (cc *ClusterClient) Hosts() (healthy, bad int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	return len(cc.healthy), len(cc.bad)
}

// candidates snapshots the walk order: healthy hosts first, bad hosts last.
func (cc *ClusterClient) candidates() []*Client {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	out := make([]*Client, 0, len(cc.healthy)+len(cc.bad))
	out = append(out, cc.healthy...)

	if cc.shuffle {
		rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}

	return append(out, cc.bad...)
}

// demote moves a host to the bad pool.
func (cc *ClusterClient) demote(c *Client) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if i := slices.Index(cc.healthy, c); i >= 0 {
		cc.healthy = slices.Delete(cc.healthy, i, i+1)
		cc.bad = append(cc.bad, c)
	}
}

// promote moves a host back to the healthy pool after it served a request.
func (cc *ClusterClient) promote(c *Client) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if i := slices.Index(cc.bad, c); i >= 0 {
		cc.bad = slices.Delete(cc.bad, i, i+1)
		cc.healthy = append(cc.healthy, c)
	}
}
