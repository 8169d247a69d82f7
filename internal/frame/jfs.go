package frame

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope is a JSON Farcaster Signature as posted to the webhook.
type Envelope struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// Header is the decoded envelope header.
type Header struct {
	FID  int64  `json:"fid"`
	Type string `json:"type"`
	Key  string `json:"key"`
}

// Verified is an envelope whose signature and key checked out.
type Verified struct {
	FID     int64
	AppKey  string
	Payload []byte // decoded payload JSON
}

// KeyChecker reports whether key is an active app key for fid.
type KeyChecker interface {
	IsActiveAppKey(ctx context.Context, fid int64, key string) (bool, error)
}

// Verifier checks envelopes against a KeyChecker.
type Verifier struct {
	keys KeyChecker
}

// NewVerifier creates a verifier.
func NewVerifier(keys KeyChecker) *Verifier {
	return &Verifier{keys: keys}
}

// ParseEnvelope decodes a webhook request body. A body that is not JSON is a
// PayloadSchemaError; an envelope missing a part wraps ErrSignatureInvalid.
func ParseEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, schemaError("", "request body is not valid JSON")
	}

	var missing []string
	if env.Header == "" {
		missing = append(missing, "header")
	}
	if env.Payload == "" {
		missing = append(missing, "payload")
	}
	if env.Signature == "" {
		missing = append(missing, "signature")
	}
	if len(missing) > 0 {
		return Envelope{}, fmt.Errorf("%w: missing %s", ErrSignatureInvalid, strings.Join(missing, ", "))
	}
	return env, nil
}

// Verify checks the Ed25519 signature over "header.payload" and asks the
// KeyChecker whether the signing key belongs to the fid. Errors wrapping
// ErrSignatureInvalid mean the caller was rejected; any other error means
// verification itself could not run.
func (v *Verifier) Verify(ctx context.Context, env Envelope) (*Verified, error) {
	headerJSON, err := decodePart(env.Header)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding header: %v", ErrSignatureInvalid, err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("%w: parsing header: %v", ErrSignatureInvalid, err)
	}
	if header.FID <= 0 {
		return nil, fmt.Errorf("%w: header fid missing", ErrSignatureInvalid)
	}
	if header.Type != "app_key" {
		return nil, fmt.Errorf("%w: unsupported key type %q", ErrSignatureInvalid, header.Type)
	}

	pub, err := parseKey(header.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	sig, err := decodePart(env.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding signature: %v", ErrSignatureInvalid, err)
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: signature is %d bytes", ErrSignatureInvalid, len(sig))
	}
	if !ed25519.Verify(pub, []byte(env.Header+"."+env.Payload), sig) {
		return nil, fmt.Errorf("%w: signature does not match", ErrSignatureInvalid)
	}

	payload, err := decodePart(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v", ErrSignatureInvalid, err)
	}

	key := strings.ToLower(header.Key)
	active, err := v.keys.IsActiveAppKey(ctx, header.FID, key)
	if err != nil {
		return nil, fmt.Errorf("checking app key: %w", err)
	}
	if !active {
		return nil, fmt.Errorf("%w: key is not an active app key for fid %d", ErrSignatureInvalid, header.FID)
	}

	return &Verified{FID: header.FID, AppKey: key, Payload: payload}, nil
}

// decodePart accepts base64url with or without padding.
func decodePart(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

func parseKey(key string) (ed25519.PublicKey, error) {
	if !strings.HasPrefix(key, "0x") {
		return nil, fmt.Errorf("key %q is not 0x-prefixed hex", key)
	}
	raw, err := hex.DecodeString(key[2:])
	if err != nil {
		return nil, fmt.Errorf("decoding key: %v", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("key is %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}

// Sign builds a signed envelope for payload.
func Sign(fid int64, priv ed25519.PrivateKey, payload []byte) (Envelope, error) {
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return Envelope{}, fmt.Errorf("unexpected public key type %T", priv.Public())
	}
	headerJSON, err := json.Marshal(Header{FID: fid, Type: "app_key", Key: "0x" + hex.EncodeToString(pub)})
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding header: %w", err)
	}

	env := Envelope{
		Header:  base64.RawURLEncoding.EncodeToString(headerJSON),
		Payload: base64.RawURLEncoding.EncodeToString(payload),
	}
	env.Signature = base64.RawURLEncoding.EncodeToString(ed25519.Sign(priv, []byte(env.Header+"."+env.Payload)))
	return env, nil
}
