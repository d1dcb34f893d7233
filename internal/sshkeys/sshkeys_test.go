package sshkeys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestReadOrGenerate_ReadsExistingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id_rsa.pub")
	if err := os.WriteFile(path, []byte("ssh-rsa AAAAB3Nza existing\n"), 0o644); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	key, err := ReadOrGenerate(path)
	if err != nil {
		t.Fatalf("ReadOrGenerate failed: %v", err)
	}
	if key != "ssh-rsa AAAAB3Nza existing" {
		t.Errorf("key = %q, want the trimmed file content", key)
	}
}

func TestReadOrGenerate_EmptyFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id_rsa.pub")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	if _, err := ReadOrGenerate(path); err == nil {
		t.Fatal("expected error for empty key file")
	}
}

func TestReadOrGenerate_EmptyPathIsAnError(t *testing.T) {
	if _, err := ReadOrGenerate(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestReadOrGenerate_GeneratesPersistentPair(t *testing.T) {
	dir := t.TempDir()
	publicPath := filepath.Join(dir, "keys", "id_rsa.pub")

	key, err := ReadOrGenerate(publicPath)
	if err != nil {
		t.Fatalf("ReadOrGenerate failed: %v", err)
	}
	if !strings.HasPrefix(key, "ssh-rsa ") {
		t.Errorf("key = %q, want an authorized_keys line", key)
	}

	if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(key)); err != nil {
		t.Errorf("generated key does not parse: %v", err)
	}

	privatePath := filepath.Join(dir, "keys", "id_rsa")
	info, err := os.Stat(privatePath)
	if err != nil {
		t.Fatalf("expected private key alongside public key: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("private key mode = %o, want 0600", perm)
	}

	privatePEM, err := os.ReadFile(privatePath)
	if err != nil {
		t.Fatalf("read private key: %v", err)
	}
	if _, err := ssh.ParsePrivateKey(privatePEM); err != nil {
		t.Errorf("generated private key does not parse: %v", err)
	}
}

func TestReadOrGenerate_NeverRegenerates(t *testing.T) {
	publicPath := filepath.Join(t.TempDir(), "id_rsa.pub")

	first, err := ReadOrGenerate(publicPath)
	if err != nil {
		t.Fatalf("first ReadOrGenerate failed: %v", err)
	}
	second, err := ReadOrGenerate(publicPath)
	if err != nil {
		t.Fatalf("second ReadOrGenerate failed: %v", err)
	}

	if first != second {
		t.Error("key was regenerated on a second call")
	}
}
