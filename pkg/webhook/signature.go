// pkg/webhook/signature.go

package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	ierr "github.com/receipt-microservice/pkg/errors"
)

// SignatureHeader carries base64(HMAC-SHA256(secret, body)).
const SignatureHeader = "X-Hotmart-Hmac-SHA256"

// Verifier checks webhook signatures. With no secret configured every
// request is accepted.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Enabled reports whether a shared secret is configured.
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

// Sign returns the header value a sender holding the same secret would send.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify compares signature against the body in constant time.
func (v *Verifier) Verify(body []byte, signature string) error {
	if !v.Enabled() {
		return nil
	}

	if signature == "" {
		return ierr.NewError("missing webhook signature").
			WithHint("invalid signature").
			Mark(ierr.ErrUnauthorized)
	}

	if !hmac.Equal([]byte(signature), []byte(v.Sign(body))) {
		return ierr.NewError("webhook signature mismatch").
			WithHint("invalid signature").
			Mark(ierr.ErrUnauthorized)
	}

	return nil
}
