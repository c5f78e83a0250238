package resultset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ChunkedReader pulls successive JSON documents off a chunked query response
// stream. Chunks arrive as complete documents concatenated back to back (no
// array wrapper, optional interleaved whitespace); each Next call consumes
// exactly one.
type ChunkedReader struct {
	dec *json.Decoder
}

// NewChunkedReader creates a ChunkedReader over r.
func NewChunkedReader(r io.Reader) *ChunkedReader {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	return &ChunkedReader{dec: dec}
}

// Next decodes and returns the next document from the stream. It returns
// io.EOF once only whitespace remains; trailing bytes that do not form a
// complete JSON document fail with a decode error.
func (cr *ChunkedReader) Next() (*Response, error) {
	var resp Response
	if err := cr.dec.Decode(&resp); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("decode chunk: %w", err)
	}

	return &resp, nil
}

// DecodeResponse decodes a single, non-chunked response document from r.
func DecodeResponse(r io.Reader) (*Response, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &resp, nil
}

// DecodeChunked drains a chunked response stream and wraps the union as one
// ResultSet. Every chunk's series concatenate in arrival order, without
// deduplication, so a series split across chunks contributes one entry per
// chunk. An error any chunk carries fails the construction with
// *errs.ClientError.
func DecodeChunked(r io.Reader) (*ResultSet, error) {
	merged, err := mergeChunks(r)
	if err != nil {
		return nil, err
	}

	return New(merged)
}

// DecodeChunkedLenient is DecodeChunked without the error check: a
// server-reported error is stored on the ResultSet for Err instead of
// failing construction. Malformed streams still fail.
func DecodeChunkedLenient(r io.Reader) (*ResultSet, error) {
	merged, err := mergeChunks(r)
	if err != nil {
		return nil, err
	}

	return NewLenient(merged), nil
}

// mergeChunks concatenates every chunk's series and messages in arrival
// order into one result, keeping the first server-reported error it sees.
func mergeChunks(r io.Reader) (Result, error) {
	cr := NewChunkedReader(r)

	var merged Result
	for {
		resp, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, err
		}

		if resp.Err != "" && merged.Err == "" {
			merged.Err = resp.Err
		}
		for i := range resp.Results {
			res := &resp.Results[i]
			if res.Err != "" && merged.Err == "" {
				merged.Err = res.Err
			}
			merged.Series = append(merged.Series, res.Series...)
			merged.Messages = append(merged.Messages, res.Messages...)
		}
	}

	return merged, nil
}
