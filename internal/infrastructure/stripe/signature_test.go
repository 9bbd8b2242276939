package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature_Valid(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := signPayload(payload, testWebhookSecret, now.Unix())

	assert.NoError(t, VerifySignature(payload, header, testWebhookSecret, now))
}

func TestVerifySignature_MultipleV1Entries(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)

	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", now.Unix(), payload)
	good := hex.EncodeToString(mac.Sum(nil))

	// Key rotation sends multiple v1 signatures; one valid entry passes.
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), strings.Repeat("0", 64), good)

	assert.NoError(t, VerifySignature(payload, header, testWebhookSecret, now))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)
	header := signPayload(payload, "whsec_other", now.Unix())

	assert.ErrorIs(t, VerifySignature(payload, header, testWebhookSecret, now), ErrSignatureMismatch)
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	now := time.Now()
	header := signPayload([]byte(`{"amount":100}`), testWebhookSecret, now.Unix())

	assert.ErrorIs(t, VerifySignature([]byte(`{"amount":999}`), header, testWebhookSecret, now), ErrSignatureMismatch)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)
	header := signPayload(payload, testWebhookSecret, now.Add(-6*time.Minute).Unix())

	assert.ErrorIs(t, VerifySignature(payload, header, testWebhookSecret, now), ErrSignatureTooOld)
}

func TestVerifySignature_FutureTimestampOutsideTolerance(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)
	header := signPayload(payload, testWebhookSecret, now.Add(10*time.Minute).Unix())

	assert.ErrorIs(t, VerifySignature(payload, header, testWebhookSecret, now), ErrSignatureTooOld)
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	now := time.Now()
	payload := []byte(`{}`)

	for _, header := range []string{
		"",
		"garbage",
		"t=123",
		"v1=abc",
		"t=notanumber,v1=abc",
	} {
		assert.ErrorIs(t, VerifySignature(payload, header, testWebhookSecret, now), ErrInvalidSignatureHeader, header)
	}
}
