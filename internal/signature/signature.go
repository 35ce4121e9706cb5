// Package signature implements the custody ledger's transfer digest and
// the ECDSA signatures over it. The digest is SHA-256 over the
// concatenation of the decimal device id, the site name, the ledger
// timestamp, and the destruct flag ("true"/"false"). Signatures are ECDSA
// P-256 in ASN.1 DER form, hex-encoded on the wire; public keys are
// exchanged as PKIX PEM.
package signature

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strconv"
)

const publicKeyPEMType = "PUBLIC KEY"

var (
	// ErrInvalidSignature reports a signature that does not verify
	// against the transfer digest.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidKey reports a public key that cannot be decoded.
	ErrInvalidKey = errors.New("invalid public key")
)

// TransferDigest computes the SHA-256 digest a transfer signature covers.
// The timestamp must already be in ledger format so signer and verifier
// hash identical bytes.
func TransferDigest(deviceID int64, site, timestamp string, destruct bool) []byte {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(deviceID, 10)))
	h.Write([]byte(site))
	h.Write([]byte(timestamp))
	h.Write([]byte(strconv.FormatBool(destruct)))
	return h.Sum(nil)
}

// GenerateKey creates a new P-256 signing key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// Sign signs a transfer digest and returns the hex-encoded DER signature.
func Sign(key *ecdsa.PrivateKey, digest []byte) (string, error) {
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest)
	if err != nil {
		return "", fmt.Errorf("failed to sign digest: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Verify checks a hex-encoded DER signature against a transfer digest.
func Verify(pub *ecdsa.PublicKey, digest []byte, sigHex string) error {
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("%w: not hex: %v", ErrInvalidSignature, err)
	}
	if !ecdsa.VerifyASN1(pub, digest, sig) {
		return ErrInvalidSignature
	}
	return nil
}

// EncodePublicKey renders a public key as PKIX PEM.
func EncodePublicKey(pub *ecdsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: publicKeyPEMType, Bytes: der})), nil
}

// DecodePublicKey parses a PKIX PEM public key and requires it to be ECDSA.
func DecodePublicKey(pemStr string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil || block.Type != publicKeyPEMType {
		return nil, fmt.Errorf("%w: not a PEM public key", ErrInvalidKey)
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ECDSA key", ErrInvalidKey)
	}
	return pub, nil
}
