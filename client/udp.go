package client

import (
	"bytes"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arloliu/tsline/errs"
	"github.com/arloliu/tsline/internal/options"
	"github.com/arloliu/tsline/lineprotocol"
)

// DefaultUDPPayloadSize caps datagram payloads at a size that fits
// conservatively under common MTUs.
const DefaultUDPPayloadSize = 512

// UDPClient ships line-protocol batches as UDP datagrams. Writes are
// fire-and-forget: the server neither acknowledges nor reports errors.
//
// A UDPClient is safe for concurrent use until Close.
type UDPClient struct {
	mu          sync.Mutex
	conn        net.Conn
	payloadSize int
	precision   lineprotocol.Precision
	logger      zerolog.Logger
	closed      bool
}

// UDPOption configures a UDPClient.
type UDPOption = options.Option[*UDPClient]

// UDPPayloadSize caps the payload bytes per datagram. Batches exceeding the
// cap split on line boundaries; a single line longer than the cap is sent
// whole rather than truncated.
func UDPPayloadSize(n int) UDPOption {
	return options.New(func(u *UDPClient) error {
		if n <= 0 {
			return fmt.Errorf("payload size must be positive, got %d", n)
		}
		u.payloadSize = n

		return nil
	})
}

// UDPPrecision sets the timestamp precision batches encode at. The listener
// on the server side must be configured for the same unit.
func UDPPrecision(p lineprotocol.Precision) UDPOption {
	return options.NoError(func(u *UDPClient) { u.precision = p })
}

// UDPLogger installs a logger for datagram-level debug events.
func UDPLogger(logger zerolog.Logger) UDPOption {
	return options.NoError(func(u *UDPClient) {
		u.logger = logger.With().Str("component", "tsline").Logger()
	})
}

// NewUDPClient connects a datagram socket to addr ("host:port").
func NewUDPClient(addr string, opts ...UDPOption) (*UDPClient, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidAddress, err)
	}

	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial udp %s: %w", addr, err)
	}

	u := &UDPClient{
		conn:        conn,
		payloadSize: DefaultUDPPayloadSize,
		logger:      zerolog.Nop(),
	}

	if err := options.Apply(u, opts...); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return u, nil
}

// Write encodes batch and sends it, splitting into multiple datagrams on line
// boundaries whenever the encoded batch exceeds the payload size.
func (u *UDPClient) Write(batch lineprotocol.Batch) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return errs.ErrClosed
	}

	data, err := lineprotocol.Marshal(batch, u.precision)
	if err != nil {
		return err
	}

	for len(data) > 0 {
		chunk := u.nextChunk(data)

		if _, err := u.conn.Write(chunk); err != nil {
			return fmt.Errorf("udp send: %w", err)
		}

		u.logger.Debug().Int("bytes", len(chunk)).Msg("datagram sent")

		data = data[len(chunk):]
	}

	return nil
}

// WritePoints writes points with no batch-level static tags.
func (u *UDPClient) WritePoints(points []lineprotocol.Point) error {
	return u.Write(lineprotocol.Batch{Points: points})
}

// Close shuts the socket down. Further writes return errs.ErrClosed.
func (u *UDPClient) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return errs.ErrClosed
	}

	u.closed = true

	return u.conn.Close()
}

// nextChunk slices the longest run of whole lines that fits the payload cap.
func (u *UDPClient) nextChunk(data []byte) []byte {
	if len(data) <= u.payloadSize {
		return data
	}

	if cut := bytes.LastIndexByte(data[:u.payloadSize], '\n'); cut >= 0 {
		return data[:cut+1]
	}

	// The first line alone exceeds the cap; send it whole.
	if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
		return data[:nl+1]
	}

	return data
}
