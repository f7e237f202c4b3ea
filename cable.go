package postgrest

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// InsertCable batches rows sent from many goroutines into bulk inserts.
//
// Rows are flushed with one InsertMany request when the encoded batch reaches
// BatchSize bytes or when BatchInterval elapses, whichever comes first. Set the
// exported fields before calling Start.
type InsertCable struct {
	qb   *QueryBuilder
	opts *InsertOptions

	currentSize int
	sendRows    []*cableRow
	sendRowCh   chan *cableRow

	wg        sync.WaitGroup
	closeOnce sync.Once

	BatchSize     int
	BatchInterval time.Duration
}

type cableRow struct {
	data json.RawMessage
	err  chan error
}

// InsertCable returns a cable inserting into the builder's relation with
// opts. Prefer presets and schema set on the builder apply to every batch.
func (q *QueryBuilder) InsertCable(opts *InsertOptions) *InsertCable {
	return &InsertCable{
		qb:            q.clone(),
		opts:          opts,
		sendRowCh:     make(chan *cableRow),
		BatchSize:     1024 * 1024, // default to 1MiB
		BatchInterval: time.Second, // default to 1 second
	}
}

// Start runs the batching loop until Close is called. Flushes use ctx.
func (c *InsertCable) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.BatchInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.flush(ctx)
			case row, more := <-c.sendRowCh:
				if !more {
					c.flush(ctx)
					return
				}
				c.sendRows = append(c.sendRows, row)
				c.currentSize += len(row.data)
				if c.currentSize >= c.BatchSize {
					c.flush(ctx)
				}
			}
		}
	}()
}

// flush inserts the pending rows in the background. Only the loop goroutine
// calls it.
func (c *InsertCable) flush(ctx context.Context) {
	if len(c.sendRows) == 0 {
		return
	}
	rows := c.sendRows
	c.sendRows = nil
	c.currentSize = 0

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		batch := make([]json.RawMessage, 0, len(rows))
		for _, row := range rows {
			batch = append(batch, row.data)
		}
		_, err := Execute[int](ctx, c.qb.InsertMany(batch, c.opts))
		for _, row := range rows {
			if err != nil {
				row.err <- err
			}
			close(row.err)
		}
	}()
}

// Send queues row, which must encode to a JSON object. The returned channel
// yields the error of the batch the row was sent with, or is closed without a
// value on success. Send blocks until the cable is started and must not be
// called after Close.
func (c *InsertCable) Send(row any) <-chan error {
	errCh := make(chan error, 1)
	data, err := json.Marshal(row)
	if err != nil {
		errCh <- transportError("encode", err)
		close(errCh)
		return errCh
	}
	c.sendRowCh <- &cableRow{data: data, err: errCh}
	return errCh
}

// Close flushes the pending rows and waits for every batch to finish.
func (c *InsertCable) Close() {
	c.closeOnce.Do(func() {
		close(c.sendRowCh)
	})
	c.wg.Wait()
}
