package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/arloliu/tsline/errs"
	"github.com/arloliu/tsline/resultset"
)

// Query describes a single call to the /query endpoint.
type Query struct {
	// Command is the query text, possibly multiple semicolon-separated
	// statements.
	Command string

	// Database overrides the client's default database when non-empty.
	Database string

	// Epoch requests integer timestamps in the given unit instead of
	// RFC 3339 strings. Valid values are n (or ns), u, ms, s, m and h;
	// empty leaves the server default.
	Epoch string

	// Chunked requests a chunked response. The stream is drained and merged
	// into a single ResultSet.
	Chunked bool

	// ChunkSize sets the number of rows per chunk; 0 leaves the server
	// default. Only meaningful with Chunked.
	ChunkSize int

	// Method is the HTTP method, GET by default. Statements that modify data
	// (CREATE, DROP, GRANT, ...) must use POST.
	Method string
}

// Query runs q and returns one ResultSet per statement result.
//
// A statement result carrying a server-reported error fails the whole call
// with *errs.ClientError unless the client was built WithoutErrorCheck, in
// which case the error is stored on the ResultSet instead. A chunked query
// returns a single merged ResultSet.
//
// Example:
//
//	sets, err := c.Query(ctx, client.Query{
//		Command:  "SELECT value FROM cpu WHERE time > now() - 1h",
//		Database: "metrics",
//	})
func (c *Client) Query(ctx context.Context, q Query) ([]*resultset.ResultSet, error) {
	params := url.Values{}
	params.Set("q", q.Command)

	db := q.Database
	if db == "" {
		db = c.database
	}
	if db != "" {
		params.Set("db", db)
	}

	if q.Epoch != "" {
		params.Set("epoch", q.Epoch)
	}

	if q.Chunked {
		params.Set("chunked", "true")
		if q.ChunkSize > 0 {
			params.Set("chunk_size", strconv.Itoa(q.ChunkSize))
		}
	}

	method := q.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := c.newRequest(ctx, method, queryPath, params, nil)
	if err != nil {
		return nil, err
	}

	// Setting the header manually disables net/http's transparent
	// decompression; the body is unwrapped below instead so chunked streams
	// decode straight off the wire.
	req.Header.Set("Accept-Encoding", "gzip")

	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query request: %w", err)
	}
	defer resp.Body.Close()

	reader, err := responseReader(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(reader, maxErrorBody))
		return nil, statusError(resp.StatusCode, body)
	}

	sets, err := c.decodeResults(q, reader)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("q", q.Command).
		Str("db", db).
		Bool("chunked", q.Chunked).
		Int("results", len(sets)).
		Dur("elapsed", time.Since(start)).
		Msg("query completed")

	return sets, nil
}

// QueryOne runs q and returns the first statement's ResultSet. It is the
// convenience form for single-statement commands.
func (c *Client) QueryOne(ctx context.Context, q Query) (*resultset.ResultSet, error) {
	sets, err := c.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("query %q: response carried no results", q.Command)
	}

	return sets[0], nil
}

// decodeResults turns the response body into result sets, honoring the
// client's leniency setting.
func (c *Client) decodeResults(q Query, reader io.Reader) ([]*resultset.ResultSet, error) {
	if q.Chunked {
		var (
			rs  *resultset.ResultSet
			err error
		)

		if c.lenient {
			rs, err = resultset.DecodeChunkedLenient(reader)
		} else {
			rs, err = resultset.DecodeChunked(reader)
		}
		if err != nil {
			return nil, err
		}

		return []*resultset.ResultSet{rs}, nil
	}

	decoded, err := resultset.DecodeResponse(reader)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if decoded.Err != "" && !c.lenient {
		return nil, &errs.ClientError{Message: decoded.Err}
	}

	sets := make([]*resultset.ResultSet, 0, len(decoded.Results))

	for _, result := range decoded.Results {
		if c.lenient {
			sets = append(sets, resultset.NewLenient(result))
			continue
		}

		rs, err := resultset.New(result)
		if err != nil {
			return nil, err
		}

		sets = append(sets, rs)
	}

	return sets, nil
}

// responseReader unwraps a gzip-encoded response body.
func responseReader(resp *http.Response) (io.Reader, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return resp.Body, nil
	}

	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gunzip response: %w", err)
	}

	return zr, nil
}

