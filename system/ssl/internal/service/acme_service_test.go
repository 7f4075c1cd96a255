package service

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSignedCert(t *testing.T, notBefore, notAfter time.Time) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "blog.example.com"},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

func TestParseCertificate(t *testing.T) {
	notBefore := time.Now().Truncate(time.Second)
	notAfter := notBefore.Add(90 * 24 * time.Hour)

	certPem := selfSignedCert(t, notBefore, notAfter)

	expiresAt, issuedAt, err := ParseCertificate(certPem)
	require.NoError(t, err)
	assert.WithinDuration(t, notAfter, expiresAt, 2*time.Second)
	assert.WithinDuration(t, notBefore, issuedAt, 2*time.Second)
}

func TestParseCertificateInvalid(t *testing.T) {
	_, _, err := ParseCertificate([]byte("not pem at all"))
	assert.Error(t, err)
}

func TestPrivateKeyRoundTrip(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	pemStr, err := EncodePrivateKey(key)
	require.NoError(t, err)
	assert.Contains(t, pemStr, "EC PRIVATE KEY")

	decoded, err := DecodePrivateKey(pemStr)
	require.NoError(t, err)
	decodedKey, ok := decoded.(*ecdsa.PrivateKey)
	require.True(t, ok)
	assert.True(t, key.Equal(decodedKey))
}

func TestDecodePrivateKeyUnsupported(t *testing.T) {
	_, err := DecodePrivateKey("garbage")
	assert.Error(t, err)
}

func TestNeedsRenewalWindow(t *testing.T) {
	notBefore := time.Now()
	certPem := selfSignedCert(t, notBefore, notBefore.Add(10*24*time.Hour))

	expiresAt, _, err := ParseCertificate(certPem)
	require.NoError(t, err)
	assert.Less(t, time.Until(expiresAt), renewBefore)
}
