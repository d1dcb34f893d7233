// Package sshkeys reads or generates the SSH key pair injected into
// created instances.
package sshkeys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

const keyBits = 2048

// ReadOrGenerate returns the public key material at publicKeyPath in
// authorized_keys format. If the file does not exist, a new RSA key
// pair is generated and both halves are persisted: the private key
// next to the public one, at the path minus its .pub suffix. The
// operation is idempotent — an existing key is never regenerated.
func ReadOrGenerate(publicKeyPath string) (string, error) {
	if publicKeyPath == "" {
		return "", fmt.Errorf("SSH public key path is empty")
	}

	data, err := os.ReadFile(publicKeyPath)
	if err == nil {
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", fmt.Errorf("SSH public key file %s is empty", publicKeyPath)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read SSH public key: %w", err)
	}

	return generate(publicKeyPath)
}

func generate(publicKeyPath string) (string, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return "", fmt.Errorf("generate RSA key: %w", err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	sshPub, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return "", fmt.Errorf("encode SSH public key: %w", err)
	}
	publicKey := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))

	if dir := filepath.Dir(publicKeyPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("create key directory: %w", err)
		}
	}

	privateKeyPath := strings.TrimSuffix(publicKeyPath, ".pub")
	if err := os.WriteFile(privateKeyPath, privatePEM, 0o600); err != nil {
		return "", fmt.Errorf("write private key: %w", err)
	}
	if err := os.WriteFile(publicKeyPath, []byte(publicKey+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write public key: %w", err)
	}

	return publicKey, nil
}
