package oci

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Signer signs API requests with the draft-cavage HTTP signature
// scheme OCI uses: keyId is tenancy/user/fingerprint, algorithm is
// rsa-sha256, and POST/PUT requests additionally sign the body digest.
type Signer struct {
	keyID      string
	privateKey *rsa.PrivateKey
}

// NewSigner builds a Signer from the credential identifiers and the
// PEM-encoded API signing key at keyPath. Both PKCS#1 and PKCS#8
// encodings are accepted.
func NewSigner(tenancy, user, fingerprint, keyPath string) (*Signer, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	key, err := parsePrivateKey(keyData)
	if err != nil {
		return nil, err
	}

	return &Signer{
		keyID:      strings.Join([]string{tenancy, user, fingerprint}, "/"),
		privateKey: key,
	}, nil
}

func parsePrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("signing key is not valid PEM")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing key is not an RSA key")
	}
	return key, nil
}

// Sign adds Date, Host, digest, and Authorization headers to req.
// body must be the exact bytes of the request body, or nil.
func (s *Signer) Sign(req *http.Request, body []byte) error {
	date := time.Now().UTC().Format(http.TimeFormat)
	req.Header.Set("Date", date)
	req.Header.Set("Host", req.URL.Host)

	target := strings.ToLower(req.Method) + " " + req.URL.RequestURI()
	headers := []string{"(request-target)", "date", "host"}
	lines := []string{
		"(request-target): " + target,
		"date: " + date,
		"host: " + req.URL.Host,
	}

	if req.Method == http.MethodPost || req.Method == http.MethodPut {
		digest := sha256.Sum256(body)
		bodySha := base64.StdEncoding.EncodeToString(digest[:])
		length := strconv.Itoa(len(body))

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Content-Sha256", bodySha)
		req.Header.Set("Content-Length", length)

		headers = append(headers, "x-content-sha256", "content-type", "content-length")
		lines = append(lines,
			"x-content-sha256: "+bodySha,
			"content-type: application/json",
			"content-length: "+length,
		)
	}

	hashed := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	signature, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, hashed[:])
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf(
		`Signature version="1",keyId="%s",algorithm="rsa-sha256",headers="%s",signature="%s"`,
		s.keyID,
		strings.Join(headers, " "),
		base64.StdEncoding.EncodeToString(signature),
	))
	return nil
}
