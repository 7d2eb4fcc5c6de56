package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinScout/internal/domain/models"
	drepo "CoinScout/internal/domain/repository"
	mid "CoinScout/internal/middleware"
)

// TickCollector pulls live ticks from the market stream into the pipeline.
type TickCollector struct {
	stream  drepo.MarketStream
	rec     *TickRecorder
	metrics drepo.Metrics
	pipe    *mid.TickPipeline
}

// NewTickCollector creates a new TickCollector instance.
func NewTickCollector(stream drepo.MarketStream, rec *TickRecorder, metrics drepo.Metrics, pipe *mid.TickPipeline) *TickCollector {
	return &TickCollector{stream: stream, rec: rec, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, tickCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if ok && err != nil {
				c.metrics.RecordError("stream")
			}
			// The read loop is ending either way; wait for tickCh to
			// close and reconnect from there.
			errCh = nil
		case t, ok := <-tickCh:
			if !ok {
				// The read error may still be buffered; account for it
				// before the channels are replaced.
				if errCh != nil {
					select {
					case err, ok := <-errCh:
						if ok && err != nil {
							c.metrics.RecordError("stream")
						}
					default:
					}
				}
				next, nextErrs, err := c.reconnect(ctx)
				if err != nil {
					return
				}
				tickCh, errCh = next, nextErrs
				continue
			}
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.rec.Process(ctx, t)
			}
		}
	}
}

// reconnect re-establishes the stream and returns fresh channels,
// retrying until it succeeds or ctx is done.
func (c *TickCollector) reconnect(ctx context.Context) (<-chan *models.Tick, <-chan error, error) {
	r, ok := c.stream.(interface{ Reconnect(context.Context) error })
	if !ok {
		return nil, nil, fmt.Errorf("stream does not support reconnect")
	}
	for {
		if err := r.Reconnect(ctx); err != nil {
			c.metrics.RecordError("stream_reconnect")
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(5 * time.Second):
			}
			continue
		}
		tickCh, errCh := c.stream.Read(ctx)
		return tickCh, errCh, nil
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
