// Package billing verifies PayFast Instant Transaction Notifications (ITN).
//
// PayFast signs the notification fields, in the order it sent them, as an
// MD5 digest of the URL-encoded "key=value&..." string followed by the
// merchant passphrase.
package billing

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrMissingSignature is returned for a notification without a signature field
	ErrMissingSignature = errors.New("notification has no signature")

	// ErrSignatureMismatch is returned when the computed signature differs
	ErrSignatureMismatch = errors.New("notification signature mismatch")
)

// Payment statuses sent by PayFast
const (
	StatusComplete  = "COMPLETE"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// Pair is a single form field; order is significant for signing
type Pair struct {
	Key   string
	Value string
}

// ITN is a notification body with its fields in received order
type ITN struct {
	Fields []Pair
}

// ParseITN decodes an application/x-www-form-urlencoded body, keeping order
func ParseITN(body string) (*ITN, error) {
	itn := &ITN{}
	for _, part := range strings.Split(body, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("invalid field name %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", key, err)
		}
		itn.Fields = append(itn.Fields, Pair{Key: key, Value: value})
	}
	return itn, nil
}

// Get returns the first value for key
func (n *ITN) Get(key string) string {
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Signature computes the PayFast signature of a checkout form. The
// signature field itself and empty values are skipped.
func Signature(fields []Pair, passphrase string) string {
	var parts []string
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		if f.Key == "signature" || value == "" {
			continue
		}
		parts = append(parts, f.Key+"="+urlencode(value))
	}
	return digest(strings.Join(parts, "&"), passphrase)
}

// notificationSignature signs every field received before "signature",
// empty values included.
func notificationSignature(fields []Pair, passphrase string) string {
	var parts []string
	for _, f := range fields {
		if f.Key == "signature" {
			break
		}
		parts = append(parts, f.Key+"="+urlencode(f.Value))
	}
	return digest(strings.Join(parts, "&"), passphrase)
}

func digest(payload, passphrase string) string {
	if passphrase = strings.TrimSpace(passphrase); passphrase != "" {
		payload += "&passphrase=" + urlencode(passphrase)
	}
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// urlencode matches PHP's urlencode, which PayFast signs with
func urlencode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "~", "%7E")
}

// Verify checks the notification's signature against passphrase
func (n *ITN) Verify(passphrase string) error {
	received := strings.ToLower(n.Get("signature"))
	if received == "" {
		return ErrMissingSignature
	}
	expected := notificationSignature(n.Fields, passphrase)
	if subtle.ConstantTimeCompare([]byte(received), []byte(expected)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}

// Complete reports whether the payment went through
func (n *ITN) Complete() bool {
	return n.Get("payment_status") == StatusComplete
}
