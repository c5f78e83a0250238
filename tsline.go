// Package tsline is a client library for InfluxDB-compatible time-series
// databases, built around the line protocol write format and the JSON query
// response format.
//
// # Encoding Points
//
// Points are plain structs; the encoder renders them as line-protocol text
// with sorted tags and fields, wire-correct escaping, and timestamps
// truncated to the requested precision:
//
//	batch := lineprotocol.Batch{
//	    Points: []lineprotocol.Point{{
//	        Measurement: "cpu_load_short",
//	        Tags:        map[string]string{"host": "server01", "region": "us-west"},
//	        Fields:      map[string]any{"value": 0.64},
//	        Time:        lineprotocol.TimeString("2009-11-10T23:00:00.123456Z"),
//	    }},
//	}
//	data, _ := tsline.Marshal(batch, lineprotocol.Nanosecond)
//	// cpu_load_short,host=server01,region=us-west value=0.64 1257894000123456000\n
//
// # Writing and Querying
//
// The HTTP client posts encoded batches to /write and decodes /query
// responses into lazily iterable, tag-filterable result sets:
//
//	c, _ := tsline.NewClient("http://localhost:8086", client.WithDatabase("mydb"))
//	_ = c.Write(ctx, batch)
//
//	rs, _ := c.QueryOne(ctx, client.Query{Command: "SELECT value FROM cpu_load_short"})
//	for pt := range rs.Points("cpu_load_short", map[string]string{"host": "server01"}) {
//	    fmt.Println(pt["time"], pt["value"])
//	}
//
// Chunked responses (multiple concatenated JSON documents) decode into a
// single merged result set; see the resultset package for the streaming
// reader.
//
// # Transports
//
// Besides the HTTP client, the client package ships a UDP transport for
// fire-and-forget writes, a cluster client that fails over across hosts, and
// an accumulator that batches points per series before flushing.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the
// lineprotocol, resultset, and client packages, simplifying the most common
// use cases. For fine-grained control, use those packages directly.
package tsline

import (
	"io"

	"github.com/arloliu/tsline/client"
	"github.com/arloliu/tsline/internal/hash"
	"github.com/arloliu/tsline/lineprotocol"
	"github.com/arloliu/tsline/resultset"
)

// Marshal encodes a batch as line-protocol text at the given precision.
//
// Parameters:
//   - batch: the points to encode, plus optional batch-level static tags.
//   - precision: the time unit timestamps are truncated to
//     (lineprotocol.Nanosecond through lineprotocol.Hour).
//
// Returns:
//   - []byte: the encoded lines, each terminated by '\n'.
//   - error: an encoding failure, e.g. an unparseable timestamp string.
//
// Example:
//
//	data, err := tsline.Marshal(batch, lineprotocol.Second)
func Marshal(batch lineprotocol.Batch, precision lineprotocol.Precision) ([]byte, error) {
	return lineprotocol.Marshal(batch, precision)
}

// NewEncoder creates a streaming line-protocol encoder writing to w.
//
// Use it over Marshal when batches should land directly in a file, socket,
// or request body without an intermediate copy.
func NewEncoder(w io.Writer, opts ...lineprotocol.Option) (*lineprotocol.Encoder, error) {
	return lineprotocol.NewEncoder(w, opts...)
}

// NewClient creates an HTTP client for the server at addr.
//
// Parameters:
//   - addr: base URL, e.g. "http://localhost:8086".
//   - opts: optional settings (client.WithDatabase, client.WithGzip, ...).
//
// Returns:
//   - *client.Client: the configured client.
//   - error: errs.ErrInvalidAddress for unusable addresses, or the first
//     option error.
//
// Example:
//
//	c, err := tsline.NewClient("http://localhost:8086",
//	    client.WithDatabase("mydb"),
//	    client.WithGzip(true),
//	)
func NewClient(addr string, opts ...client.Option) (*client.Client, error) {
	return client.NewClient(addr, opts...)
}

// NewUDPClient creates a UDP client sending datagrams to addr ("host:port").
func NewUDPClient(addr string, opts ...client.UDPOption) (*client.UDPClient, error) {
	return client.NewUDPClient(addr, opts...)
}

// NewClusterClient creates a failover client over several server addresses.
func NewClusterClient(addrs []string, opts ...client.ClusterOption) (*client.ClusterClient, error) {
	return client.NewClusterClient(addrs, opts...)
}

// NewAccumulator creates a batching accumulator around a flush callback.
//
// Example:
//
//	acc, err := tsline.NewAccumulator(func(b lineprotocol.Batch) error {
//	    return c.Write(ctx, b)
//	}, client.WithBulkSize(500))
func NewAccumulator(flush client.FlushFunc, opts ...client.AccumulatorOption) (*client.Accumulator, error) {
	return client.NewAccumulator(flush, opts...)
}

// DecodeChunked drains a chunked query response stream into one merged
// result set. See resultset.ChunkedReader for chunk-by-chunk access.
func DecodeChunked(r io.Reader) (*resultset.ResultSet, error) {
	return resultset.DecodeChunked(r)
}

// SeriesID computes the 64-bit identifier of a series from its measurement
// name and tag set.
//
// The identifier is stable across processes and tag-map iteration order: tags
// hash in sorted key order, so two maps with the same pairs always produce
// the same ID. A nil or empty tag set hashes as the bare measurement name.
//
// Use it to bucket, deduplicate, or index series without building string
// keys.
//
// Example:
//
//	id := tsline.SeriesID("cpu", map[string]string{"host": "server01"})
func SeriesID(measurement string, tags map[string]string) uint64 {
	return hash.Series(measurement, tags)
}
