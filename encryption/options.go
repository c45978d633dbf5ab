package encryption

import (
	"crypto/rand"
	"io"

	"github.com/sirupsen/logrus"
)

// Option is a functional option for configuring an [Advanced] or [Blowfish]
// encryptor.  Options are applied at construction time.
type Option func(*options)

// options holds the optional runtime configuration shared by all
// encryptor types.
type options struct {
	// log receives seeding failures.  Encrypt and Decrypt never log.
	log logrus.FieldLogger

	// rand supplies per-message IVs.
	rand io.Reader

	// strictPadding turns an out-of-range Blowfish pad byte into
	// ErrPaddingRange instead of treating it as zero.
	strictPadding bool
}

func defaultOptions() options {
	return options{
		log:  discardLogger(),
		rand: rand.Reader,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger routes initialisation failures to log.
//
// Example:
//
//	enc := encryption.NewBlowfish(encryption.WithLogger(logrus.StandardLogger()))
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithRandom replaces crypto/rand as the source of per-message IVs.  It is
// meant for deterministic tests.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithStrictPadding makes the Blowfish decoder return [ErrPaddingRange] when
// the final byte is not a valid pad length.  By default such a byte is
// treated as zero, matching the vault server.
func WithStrictPadding() Option {
	return func(o *options) { o.strictPadding = true }
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}
