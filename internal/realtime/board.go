package realtime

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"apexcrm/internal/pipeline"
)

type emitter struct{ conn *Conn }

func (e emitter) Emit(f pipeline.Frame) error { return e.conn.Send(f) }

type BoardConfig struct {
	// ConfirmTimeout bounds an open delete prompt; zero keeps the session
	// default.
	ConfirmTimeout time.Duration
	// ReadOnly serves a session that rejects moves, creates and deletes.
	// It is set per connection from the caller's role.
	ReadOnly bool
	Session  []pipeline.Option
}

// ServeBoard runs one pipeline session over conn until the client goes away
// or ctx is cancelled. It blocks; the caller owns the goroutine.
func ServeBoard(ctx context.Context, conn *Conn, store pipeline.Store, cfg BoardConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := append([]pipeline.Option{}, cfg.Session...)
	opts = append(opts,
		pipeline.WithConfirmTimeout(cfg.ConfirmTimeout),
		pipeline.WithReadOnly(cfg.ReadOnly),
	)
	sess := pipeline.NewSession(store, emitter{conn: conn}, opts...)

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()
	go conn.WritePump()
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-conn.Done():
		}
	}()

	sess.Post(pipeline.Load{})

	conn.ReadPump(func(data []byte) {
		in, err := DecodeInbound(data)
		if err == nil {
			var ev pipeline.Event
			if ev, err = in.Event(); err == nil {
				sess.Post(ev)
				return
			}
		}
		conn.log.Debug("ws: bad board message", zap.Error(err))
		_ = conn.Send(outbound{Type: FrameError, Payload: err.Error()})
	})

	cancel()
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
