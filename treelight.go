package treelight

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"libdb.so/treelight/internal/preview"
	"libdb.so/treelight/ledserial"
)

// Daemon is the light show daemon. It renders frames through the scene
// scheduler and pushes them to the strip at the nominal frame rate.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
}

// NewDaemon creates a new daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run starts the light show. It blocks until the given context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	strip, err := d.openStrip()
	if err != nil {
		return err
	}
	defer strip.Close()

	if err := strip.Init(d.cfg.NumLEDs); err != nil {
		return errors.Wrap(err, "failed to initialize strip")
	}

	errg, ctx := errgroup.WithContext(ctx)

	if pr, ok := strip.(DevicePacketReader); ok {
		errg.Go(func() error {
			return d.readPackets(ctx, pr)
		})
	}

	errg.Go(func() error {
		return d.frameLoop(ctx, strip)
	})

	return errg.Wait()
}

func (d *Daemon) openStrip() (Strip, error) {
	if d.cfg.Preview {
		return preview.New(os.Stdout), nil
	}
	return OpenSerialStrip(d.cfg.Device, d.cfg.Baud)
}

// frameLoop renders all pixels, pushes them, advances the scheduler and
// sleeps until the next tick, until the context is canceled. Cancellation is
// only observed between frames; the frame in progress always completes.
func (d *Daemon) frameLoop(ctx context.Context, strip Strip) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	now := time.Now()
	sched := NewScheduler(d.cfg.NumLEDs, d.cfg.Wait(), d.cfg.FixedKind(), rng, d.logger, now)
	pace := newPacer(now)

	frames := 0
	fpsMark := now

	for {
		for i := 0; i < d.cfg.NumLEDs; i++ {
			strip.SetPixel(i, sched.Render(i).Pack())
		}
		if err := strip.Show(); err != nil {
			// Close eagerly so a blocked packet read unblocks too.
			strip.Close()
			return errors.Wrap(err, "failed to push frame")
		}
		sched.Advance(time.Now())

		if d.cfg.ReportFPS {
			frames++
			if now = time.Now(); !now.Before(fpsMark.Add(time.Second)) {
				fpsMark = fpsMark.Add(time.Second)
				d.logger.Info("fps", "frames", frames)
				frames = 0
			}
		}

		select {
		case <-ctx.Done():
			d.shutdownStrip(strip)
			return ctx.Err()
		case <-time.After(pace.delay(time.Now())):
		}
	}
}

// shutdownStrip optionally blanks the strip, then closes it so that a
// blocked packet read unblocks and the run group can drain.
func (d *Daemon) shutdownStrip(strip Strip) {
	if d.cfg.ClearOnExit {
		d.logger.Debug("clearing strip")
		if err := strip.Clear(); err != nil {
			d.logger.Warn("failed to clear strip", "error", err)
		}
	}
	if err := strip.Close(); err != nil {
		d.logger.Warn("failed to close strip", "error", err)
	}
}

// readPackets surfaces whatever the strip controller reports while the show
// runs. Log and ack packets become log records; error and panic packets
// stop the daemon.
func (d *Daemon) readPackets(ctx context.Context, pr DevicePacketReader) error {
	for {
		p, err := pr.ReadPacket()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A short read indicates a timeout. This is expected.
			// Ignore the error and try again.
			if errors.Is(err, io.EOF) {
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}

		switch p := p.(type) {
		case ledserial.AckPacket:
			d.logger.Debug(
				"received ack packet from controller",
				"acked_for", p.AckedType)

		case ledserial.ErrorPacket:
			d.logger.Warn(
				"received error packet from controller",
				"message", p.Message)
			return errors.New("controller reported error")

		case ledserial.PanicPacket:
			d.logger.Error("controller unrecoverably panicked")
			return errors.New("controller panicked")

		case ledserial.LogPacket:
			d.logger.Info(
				"received log packet from controller",
				"message", p.Message)

		default:
			return errors.Errorf("received unknown packet from controller: %s", p.Type())
		}
	}
}
