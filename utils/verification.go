package utils

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Verification-code store: Redis keys compounded from (subjectID, codeType)
// with explicit TTLs, and atomic counters for attempt/resend limits.

const (
	verifyCodeTTL    = 5 * time.Minute
	verifyWindowTTL  = 30 * time.Minute
	maxVerifyRetries = 5
	maxResends       = 3
)

var (
	ErrCodeExpired     = errors.New("verification code expired or not found")
	ErrCodeMismatch    = errors.New("verification code does not match")
	ErrTooManyAttempts = errors.New("too many verification attempts")
	ErrTooManyResends  = errors.New("resend limit reached")
)

func verifyKey(subjectID, codeType string) string {
	return fmt.Sprintf("verify:%s:%s", subjectID, codeType)
}

// GenerateVerificationCode produces a secure random code of the given length,
// base32 encoded without padding.
func GenerateVerificationCode(length int) (string, error) {
	numBytes := (length*5 + 7) / 8
	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	if len(code) > length {
		code = code[:length]
	}
	return code, nil
}

// StoreVerificationCode writes the code with its TTL and atomically bumps the
// resend counter for the (subject, type) pair.
func StoreVerificationCode(ctx context.Context, subjectID, codeType, code string) error {
	client := GetVerifyCacheClient()
	resendKey := verifyKey(subjectID, codeType) + ":resends"

	resends, err := client.Incr(ctx, resendKey).Result()
	if err != nil {
		return fmt.Errorf("failed to increment resend counter: %w", err)
	}
	if resends == 1 {
		client.Expire(ctx, resendKey, verifyWindowTTL)
	}
	if resends > maxResends {
		return ErrTooManyResends
	}

	if err := client.Set(ctx, verifyKey(subjectID, codeType), code, verifyCodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

// CheckVerificationCode compares a submitted code against the stored one in
// constant time. Attempt counting is atomic so concurrent guesses cannot
// bypass the limit. On success all related keys are cleared.
func CheckVerificationCode(ctx context.Context, subjectID, codeType, submitted string) error {
	client := GetVerifyCacheClient()
	key := verifyKey(subjectID, codeType)
	attemptKey := key + ":attempts"

	attempts, err := client.Incr(ctx, attemptKey).Result()
	if err != nil {
		return fmt.Errorf("failed to increment attempt counter: %w", err)
	}
	if attempts == 1 {
		client.Expire(ctx, attemptKey, verifyCodeTTL)
	}
	if attempts > maxVerifyRetries {
		return ErrTooManyAttempts
	}

	stored, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCodeExpired
	} else if err != nil {
		return fmt.Errorf("failed to read verification code: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		return ErrCodeMismatch
	}

	client.Del(ctx, key, attemptKey, key+":resends")
	return nil
}
