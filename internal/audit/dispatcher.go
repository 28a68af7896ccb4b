package audit

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/oto-servis/internal/logger"
)

type writer interface {
	Log(ctx context.Context, e Entry) error
}

type Dispatcher struct {
	logger writer
	log    *logger.Logger
	queue  chan Entry

	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(w writer, log *logger.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		logger: w,
		log:    log,
		queue:  make(chan Entry, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for e := range d.queue {
		if err := d.logger.Log(context.Background(), e); err != nil {
			d.log.Zerolog(context.Background()).Error().
				Err(err).
				Str("action", e.Action).
				Msg("audit write failed")
		}
	}
}

// Dispatch nunca bloqueia: fila cheia descarta o evento.
func (d *Dispatcher) Dispatch(e Entry) {
	defer func() {
		// fechado durante o shutdown
		if recover() != nil {
			d.log.Warn(context.Background(), "audit dispatcher closed, dropping entry")
		}
	}()

	select {
	case d.queue <- e:
	default:
		d.log.Zerolog(context.Background()).Warn().
			Str("action", e.Action).
			Msg("audit queue full, dropping entry")
	}
}

// Close drena a fila e espera o worker terminar.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
