package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// signatureTolerance bounds how old a webhook timestamp may be.
const signatureTolerance = 5 * time.Minute

var (
	ErrInvalidSignatureHeader = errors.New("invalid Stripe-Signature header")
	ErrSignatureTooOld        = errors.New("webhook timestamp outside tolerance")
	ErrSignatureMismatch      = errors.New("webhook signature mismatch")
)

// VerifySignature checks a Stripe-Signature header ("t=...,v1=...")
// against the raw payload. The signed payload is "<timestamp>.<body>"
// HMAC-SHA256 with the webhook secret.
func VerifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		key, val, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = val
		case "v1":
			signatures = append(signatures, val)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrInvalidSignatureHeader
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignatureHeader
	}
	age := now.Unix() - ts
	if age < 0 {
		age = -age
	}
	if age > int64(signatureTolerance.Seconds()) {
		return ErrSignatureTooOld
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrSignatureMismatch
}
