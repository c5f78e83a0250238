// Package client provides transports for shipping line-protocol points to an
// InfluxDB-compatible server and decoding query responses.
//
// # Clients
//
// Three transports share the same point and batch types from lineprotocol:
//
//   - Client: the HTTP transport. Writes batches to /write, runs queries
//     against /query, and exposes convenience methods for the common admin
//     statements (databases, retention policies, users, continuous queries).
//   - UDPClient: fire-and-forget datagram writes, splitting oversized batches
//     on line boundaries so no datagram exceeds the configured payload size.
//   - ClusterClient: a failover proxy over several Clients. Operations walk
//     the healthy hosts first; hosts that fail with transport or server
//     errors are set aside and retried last on subsequent operations.
//
// # Batching
//
// Accumulator collects points in memory, grouped by series, and hands them to
// an injected flush callback once a bulk-size threshold is reached. Wire it
// to any of the clients:
//
//	c, _ := client.NewClient("http://localhost:8086", client.WithDatabase("mydb"))
//	acc, _ := client.NewAccumulator(func(b lineprotocol.Batch) error {
//		return c.Write(context.Background(), b)
//	})
//	acc.Add(lineprotocol.Point{Measurement: "cpu", Fields: map[string]any{"value": 0.64}})
//	defer acc.Flush()
//
// # Errors
//
// HTTP responses with 4xx statuses surface as *errs.ClientError carrying the
// server-reported message; 5xx statuses surface as *errs.ServerError. The
// cluster client returns errs.ErrNoViableServer once every host has failed.
package client
