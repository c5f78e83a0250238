package lineprotocol

import (
	"strconv"
	"testing"
)

func benchBatch(n int) Batch {
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			Measurement: "cpu_load_short",
			Tags: map[string]string{
				"host":   "server" + strconv.Itoa(i%16),
				"region": "us-west",
			},
			Fields: map[string]any{
				"value": float64(i) * 0.64,
				"count": i,
				"up":    true,
			},
			Time: Epoch(1257894000123456000 + int64(i)),
		}
	}

	return Batch{Points: points, Tags: map[string]string{"dc": "east"}}
}

func BenchmarkMarshal(b *testing.B) {
	sizes := []int{1, 100, 10000}
	for _, size := range sizes {
		batch := benchBatch(size)
		b.Run(strconv.Itoa(size)+"_points", func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := Marshal(batch, Nanosecond); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMarshalEscaped(b *testing.B) {
	batch := Batch{
		Points: []Point{{
			Measurement: "cpu load",
			Tags:        map[string]string{"path": `C:\Program Files`, "note": "a,b=c"},
			Fields:      map[string]any{"msg": "line one\nline \"two\""},
			Time:        Epoch(1257894000),
		}},
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Marshal(batch, Nanosecond); err != nil {
			b.Fatal(err)
		}
	}
}
