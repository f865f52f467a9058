package redis

import (
	"context"
	stderrors "errors"
	"time"

	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultTTL       = 30 * time.Second
	defaultKeyPrefix = "klarnasync:order-lock:"
	releaseTimeout   = 2 * time.Second
)

type Config struct {
	TTL       time.Duration
	KeyPrefix string
}

type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// Locker serializes work on one order across processes. Locks are not
// retried: a held lock is reported to the caller straight away.
type Locker struct {
	client    obtainer
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

var _ portsout.OrderLocker = (*Locker)(nil)

func NewLocker(client goredis.UniversalClient, cfg Config, logger *zap.Logger) *Locker {
	return newLocker(redislock.New(client), cfg, logger)
}

func newLocker(client obtainer, cfg Config, logger *zap.Logger) *Locker {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Locker{
		client:    client,
		ttl:       cfg.TTL,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger,
	}
}

func (l *Locker) Lock(ctx context.Context, orderID string) (portsout.ReleaseFunc, *apperrors.AppError) {
	key := l.keyPrefix + orderID

	lock, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if stderrors.Is(err, redislock.ErrNotObtained) {
		return nil, apperrors.NewConflict(
			portsout.OrderLockedErrorCode,
			"order is being processed by another request",
			map[string]any{"order_id": orderID},
		)
	}
	if err != nil {
		l.logger.Warn("order lock failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, apperrors.NewInternal(
			"order_lock_failed",
			"failed to obtain order lock",
			map[string]any{"order_id": orderID, "error": err.Error()},
		)
	}

	released := false
	return func() {
		if released || lock == nil {
			return
		}
		released = true

		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !stderrors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("order lock release failed", zap.String("order_id", orderID), zap.Error(err))
		}
	}, nil
}
