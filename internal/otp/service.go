package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
)

// codeStore is the slice of the cache this service needs. Codes live
// under a TTL and are consumed destructively on read.
type codeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	OTPKey(phone string) string
}

// Service issues and verifies one-time codes for phone login. A code
// is valid for one verification attempt within its TTL.
type Service interface {
	Issue(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, phone, code string) error
}

type service struct {
	store      codeStore
	log        *logger.Logger
	ttl        time.Duration
	codeLength int
}

// NewService builds the OTP service.
func NewService(store codeStore, log *logger.Logger, ttl time.Duration, codeLength int) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "code store required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if codeLength < 4 || codeLength > 10 {
		codeLength = 6
	}
	return &service{store: store, log: log, ttl: ttl, codeLength: codeLength}, nil
}

// Issue generates a fresh code and stores it under the phone's key,
// replacing any earlier unconsumed code. The code is returned to the
// caller for delivery; it is never logged.
func (s *service) Issue(ctx context.Context, phone string) (string, error) {
	digits := digitsOnly(phone)
	if len(digits) < 10 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "valid phone number required")
	}

	code, err := randomCode(s.codeLength)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}
	if err := s.store.Set(ctx, s.store.OTPKey(digits), code, s.ttl); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store code")
	}
	s.log.Info(s.log.WithField(ctx, "phone_suffix", digits[len(digits)-4:]), "otp issued")
	return code, nil
}

// Verify consumes the stored code. Wrong, expired, and replayed codes
// all fail the same way; the stored code is gone after the first
// attempt regardless of outcome.
func (s *service) Verify(ctx context.Context, phone, code string) error {
	digits := digitsOnly(phone)
	code = strings.TrimSpace(code)
	if len(digits) < 10 || code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone and code required")
	}

	stored, err := s.store.GetDel(ctx, s.store.OTPKey(digits))
	if err != nil {
		if err == goredis.Nil {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read code")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}
	return nil
}

func randomCode(length int) (string, error) {
	max := big.NewInt(10)
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
