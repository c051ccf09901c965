package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteCommandMetric records one completed command execution.
//
// The write is non-blocking; data is batched and sent asynchronously.
// One point is written per job completion, tagged by action, category,
// and outcome so dashboards can break down failure rates per device.
//
// Parameters:
//   - action: The action's primary keyword (e.g., "tv power")
//   - category: The action's display category (e.g., "media")
//   - status: The outcome ("success", "error", "timeout")
//   - duration: Wall-clock execution time of the handler
//
// Example:
//
//	client.WriteCommandMetric("garage door", "access", "success", 812*time.Millisecond)
func (c *Client) WriteCommandMetric(action, category, status string, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"command_executions",
		map[string]string{
			"action":   action,
			"category": category,
			"status":   status,
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteQueueDepth records the current execution queue depth.
//
// Useful for spotting a wedged handler: depth climbing while commands
// keep arriving means the worker is stuck inside an invocation.
func (c *Client) WriteQueueDepth(depth int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"queue",
		map[string]string{},
		map[string]interface{}{
			"depth": depth,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
