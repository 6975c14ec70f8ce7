package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/leadportal-api/pkg/logger"
)

// FeatureInvalidator recibe el company_id de cada cambio de flags. InvalidateAll se
// llama cada vez que el LISTEN queda activo: lo cambiado mientras estaba caído no llegó.
type FeatureInvalidator interface {
	Invalidate(ctx context.Context, companyID string)
	InvalidateAll(ctx context.Context)
}

// FlagListener escucha FeaturesChannel con LISTEN sobre una conexión dedicada del pool
// e invalida la caché de la empresa afectada.
type FlagListener struct {
	pool        *pgxpool.Pool
	invalidator FeatureInvalidator
	log         *logger.Logger
	backoff     time.Duration
	maxBackoff  time.Duration

	// session abre una sesión LISTEN y llama a ready cuando está escuchando.
	session func(ctx context.Context, ready func()) error
	after   func(time.Duration) <-chan time.Time
}

// NewFlagListener construye el listener.
func NewFlagListener(pool *pgxpool.Pool, invalidator FeatureInvalidator, log *logger.Logger) *FlagListener {
	if log == nil {
		log = logger.Nop()
	}
	l := &FlagListener{
		pool:        pool,
		invalidator: invalidator,
		log:         log.Component("flag_listener"),
		backoff:     time.Second,
		maxBackoff:  30 * time.Second,
		after:       time.After,
	}
	l.session = l.listen
	return l
}

// Run bloquea hasta que ctx se cancele. Tras un error de conexión espera y vuelve a escuchar.
// La espera crece con cada fallo seguido y vuelve a la base tras una sesión que llegó a escuchar.
func (l *FlagListener) Run(ctx context.Context) {
	wait := l.backoff
	for {
		listening := false
		err := l.session(ctx, func() {
			listening = true
			l.invalidator.InvalidateAll(ctx)
		})
		if ctx.Err() != nil {
			return
		}
		if listening {
			wait = l.backoff
		}
		l.log.Warn().Err(err).Dur("retry_in", wait).Msg("listener de flags desconectado")
		select {
		case <-ctx.Done():
			return
		case <-l.after(wait):
		}
		wait = nextBackoff(wait, l.maxBackoff)
	}
}

func (l *FlagListener) listen(ctx context.Context, ready func()) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{FeaturesChannel}.Sanitize()); err != nil {
		return err
	}
	l.log.Info().Str("channel", FeaturesChannel).Msg("escuchando cambios de flags")
	ready()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.invalidator.Invalidate(ctx, n.Payload)
		l.log.Debug().Str("company_id", n.Payload).Msg("flags invalidados")
	}
}

func nextBackoff(cur, max time.Duration) time.Duration {
	cur *= 2
	if cur > max {
		return max
	}
	return cur
}
