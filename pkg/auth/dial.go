package auth

import (
	"context"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/dbgateway/mysqlwire/internal/errors"
	"github.com/dbgateway/mysqlwire/pkg/proto"
)

const (
	dialTimeout                   = time.Second
	backoffInitialInterval        = 30 * time.Millisecond
	backoffRandomizationFactor    = 0.2
	backoffMultiplier             = 1.5
	backoffMaxInterval            = time.Second
)

// ErrNoBackend is returned when DialBackend exhausts its retry budget
// without establishing a connection.
var ErrNoBackend = errors.New("auth: could not connect to backend")

func newBackOff(maxElapsed time.Duration) *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     backoffInitialInterval,
		RandomizationFactor: backoffRandomizationFactor,
		Multiplier:          backoffMultiplier,
		MaxInterval:         backoffMaxInterval,
		MaxElapsedTime:      maxElapsed,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}

// DialBackend dials addr, retrying with exponential backoff until ctx is
// done or connectTimeout elapses, and wraps the resulting connection in a
// *proto.PacketConn. notify is called (possibly zero times) with each
// failed attempt's error and the backoff delay before the next try.
func DialBackend(ctx context.Context, addr string, connectTimeout time.Duration, logger *zap.Logger, notify func(err error, delay time.Duration)) (*proto.PacketConn, error) {
	bctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pc, err := backoff.RetryNotifyWithData(
		func() (*proto.PacketConn, error) {
			cn, err := net.DialTimeout("tcp", addr, dialTimeout)
			if err != nil {
				return nil, errors.Wrapf(ErrNoBackend, "dial %s: %v", addr, err)
			}
			return proto.NewPacketConn(cn), nil
		},
		backoff.WithContext(newBackOff(connectTimeout), bctx),
		func(err error, d time.Duration) {
			if notify != nil {
				notify(err, d)
			}
			if logger != nil {
				logger.Warn("retrying backend dial", zap.String("addr", addr), zap.Error(err), zap.Duration("backoff", d))
			}
		},
	)
	if err != nil {
		return nil, errors.Wrapf(ErrNoBackend, "%v", err)
	}
	return pc, nil
}
