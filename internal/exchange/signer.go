package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"
)

// Signer signs futures API requests with HMAC-SHA256.
// Keys are held as []byte so they can be wiped when the process is done with them.
type Signer struct {
	apiKey []byte
	secret []byte
}

// NewSigner creates a new signer.
func NewSigner(apiKey, secret string) *Signer {
	return &Signer{
		apiKey: []byte(apiKey),
		secret: []byte(secret),
	}
}

// APIKey is sent in the X-MBX-APIKEY header.
func (s *Signer) APIKey() string {
	return string(s.apiKey)
}

// Sign returns the lowercase hex HMAC-SHA256 of payload.
func (s *Signer) Sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams adds recvWindow and timestamp to params and returns the encoded
// query string with the signature appended as the last parameter.
func (s *Signer) SignParams(params url.Values, now time.Time, recvWindow int64) string {
	if recvWindow > 0 {
		params.Set("recvWindow", strconv.FormatInt(recvWindow, 10))
	}
	params.Set("timestamp", strconv.FormatInt(now.UnixMilli(), 10))

	query := params.Encode()
	return query + "&signature=" + s.Sign(query)
}

// Wipe clears the keys from memory.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	for i := range s.apiKey {
		s.apiKey[i] = 0
	}
	for i := range s.secret {
		s.secret[i] = 0
	}
}
