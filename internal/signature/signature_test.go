package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferDigestDeterministic(t *testing.T) {
	d1 := TransferDigest(7, "Rotterdam Depot", "250817093041123456", false)
	d2 := TransferDigest(7, "Rotterdam Depot", "250817093041123456", false)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 32)

	// Any field change must change the digest.
	assert.NotEqual(t, d1, TransferDigest(8, "Rotterdam Depot", "250817093041123456", false))
	assert.NotEqual(t, d1, TransferDigest(7, "Lab 3", "250817093041123456", false))
	assert.NotEqual(t, d1, TransferDigest(7, "Rotterdam Depot", "250817093041123457", false))
	assert.NotEqual(t, d1, TransferDigest(7, "Rotterdam Depot", "250817093041123456", true))
}

func TestSignVerify(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	digest := TransferDigest(3, "Lab 3", "250817093041123456", true)
	sig, err := Sign(key, digest)
	require.NoError(t, err)

	assert.NoError(t, Verify(&key.PublicKey, digest, sig))

	// Wrong digest fails.
	other := TransferDigest(3, "Lab 3", "250817093041123456", false)
	assert.ErrorIs(t, Verify(&key.PublicKey, other, sig), ErrInvalidSignature)

	// Wrong key fails.
	otherKey, err := GenerateKey()
	require.NoError(t, err)
	assert.ErrorIs(t, Verify(&otherKey.PublicKey, digest, sig), ErrInvalidSignature)

	// Garbage signatures fail without panicking.
	assert.ErrorIs(t, Verify(&key.PublicKey, digest, "zz"), ErrInvalidSignature)
	assert.ErrorIs(t, Verify(&key.PublicKey, digest, "00ff"), ErrInvalidSignature)
}

func TestPublicKeyRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	pemStr, err := EncodePublicKey(&key.PublicKey)
	require.NoError(t, err)
	assert.Contains(t, pemStr, "BEGIN PUBLIC KEY")

	decoded, err := DecodePublicKey(pemStr)
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(decoded))
}

func TestDecodePublicKeyErrors(t *testing.T) {
	_, err := DecodePublicKey("not pem at all")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = DecodePublicKey("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
