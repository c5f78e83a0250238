// Package resultset decodes query responses from InfluxDB-compatible
// time-series databases and exposes them as lazily filterable, tag-indexed
// series.
//
// # Response Shape
//
// A query response is a JSON document of statement results, each carrying a
// list of series. A series is a measurement name, the tag set identifying
// it, a column list, and rows of values:
//
//	{"results": [{"series": [{
//	    "name": "cpu", "tags": {"host": "server01"},
//	    "columns": ["time", "value"], "values": [["t1", 0.64]]
//	}]}]}
//
// The legacy schema that carries rows under "points" instead of "values" is
// read identically. Responses decode with json.Decoder.UseNumber, so numeric
// column values survive as json.Number instead of lossy float64.
//
// # ResultSet
//
// ResultSet wraps one statement result as a read-only view. Construction
// fails with *errs.ClientError when the result embeds a server-reported
// error; NewLenient stores the error for inspection instead. Rows are never
// materialized up front: Points, AllPoints, and Items return restartable
// iter.Seq sequences that zip columns with rows on each pass.
//
//	rs, err := resultset.New(result)
//	if err != nil {
//		return err
//	}
//	for pt := range rs.Points("cpu", map[string]string{"host": "server01"}) {
//		fmt.Println(pt["time"], pt["value"])
//	}
//
// # Chunked Responses
//
// A chunked query response is several complete JSON documents concatenated
// back to back, not wrapped in an array. ChunkedReader pulls them off a
// stream one at a time; DecodeChunked drains the stream and concatenates
// every chunk's series, in arrival order and without deduplication, into a
// single ResultSet.
package resultset
