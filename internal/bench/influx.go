package bench

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

const influxMeasurement = "statevector_benchmark"

type InfluxOptions struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// InfluxSink writes each observation as one point with the blocking write
// API, so Record returns only after the server has accepted it.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewInfluxSink(opts InfluxOptions) *InfluxSink {
	client := influxdb2.NewClient(opts.URL, opts.Token)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(opts.Org, opts.Bucket),
	}
}

func (s *InfluxSink) Record(ctx context.Context, obs Observation) error {
	p := influxdb2.NewPoint(
		influxMeasurement,
		map[string]string{
			"strategy": obs.Strategy,
			"run_id":   obs.RunID,
		},
		map[string]interface{}{
			"num_qubits":      obs.NumQubits,
			"elapsed_seconds": obs.Elapsed.Seconds(),
		},
		obs.Timestamp,
	)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("influx write (%d qubits): %w", obs.NumQubits, err)
	}
	return nil
}

func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
