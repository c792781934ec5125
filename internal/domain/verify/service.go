package verify

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/pkg/sms"
)

// Verification code settings
const (
	CodeLength     = 6
	CodeTTL        = 10 * time.Minute
	MaxAttempts    = 5
	ResendCooldown = time.Minute
)

// Service sends and checks one-time phone verification codes
type Service struct {
	store  CodeStore // nil when Redis is not configured
	sender sms.Sender
	pepper []byte
}

// NewService creates verification service; store may be nil
func NewService(store CodeStore, sender sms.Sender, pepper string) *Service {
	return &Service{store: store, sender: sender, pepper: []byte(pepper)}
}

// SendCode stores a fresh code for phone and texts it
func (s *Service) SendCode(ctx context.Context, phone string) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	phone = NormalizePhone(phone)

	allowed, err := s.store.AllowSend(ctx, phone, ResendCooldown)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrResendTooSoon
	}

	code, err := generateNumericCode(CodeLength)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, phone, s.hashCode(phone, code), CodeTTL); err != nil {
		return err
	}

	message := fmt.Sprintf("Vaš kod za potvrdu termina: %s (vrijedi %d min)", code, int(CodeTTL.Minutes()))
	if err := s.sender.Send(ctx, phone, message); err != nil {
		s.store.Delete(ctx, phone)
		return fmt.Errorf("send verification sms: %w", err)
	}

	log.Info().Str("phone", maskPhone(phone)).Msg("Verification code sent")
	return nil
}

// VerifyCode consumes the pending code for phone when it matches
func (s *Service) VerifyCode(ctx context.Context, phone, code string) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	phone = NormalizePhone(phone)

	stored, attempts, found, err := s.store.Attempt(ctx, phone)
	if err != nil {
		return err
	}
	if !found {
		return ErrInvalidCode
	}
	if attempts > MaxAttempts {
		s.store.Delete(ctx, phone)
		log.Warn().Str("phone", maskPhone(phone)).Msg("Verification attempts exhausted")
		return ErrTooManyAttempts
	}
	if !hmac.Equal([]byte(stored), []byte(s.hashCode(phone, code))) {
		return ErrInvalidCode
	}

	if err := s.store.Delete(ctx, phone); err != nil {
		return err
	}
	log.Info().Str("phone", maskPhone(phone)).Msg("Phone verified")
	return nil
}

func (s *Service) hashCode(phone, code string) string {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(phone + ":" + code))
	return hex.EncodeToString(mac.Sum(nil))
}

// NormalizePhone strips spaces so "+385 91 ..." and "+38591..." share a code
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

func generateNumericCode(length int) (string, error) {
	const digits = "0123456789"
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b), nil
}
