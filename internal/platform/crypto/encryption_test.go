package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealOpen(t *testing.T) {
	svc, err := New(testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected configured service")
	}
	plain := []byte("%PDF-1.3 workforce report")
	sealed, err := svc.Seal(plain)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(sealed, plain) {
		t.Fatal("expected ciphertext not to contain plaintext")
	}
	opened, err := svc.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Fatalf("expected %q, got %q", plain, opened)
	}

	sealed[len(sealed)-1] ^= 0xff
	if _, err := svc.Open(sealed); err == nil {
		t.Fatal("expected tampered artifact to fail")
	}
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plain := []byte("report")
	sealed, _ := svc.Seal(plain)
	if !bytes.Equal(sealed, plain) {
		t.Fatalf("expected passthrough, got %q", sealed)
	}

	keyed, _ := New(testKey)
	blob, _ := keyed.Seal(plain)
	if _, err := svc.Open(blob); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if got, _ := keyed.Open(plain); !bytes.Equal(got, plain) {
		t.Fatalf("expected legacy plaintext to open unchanged, got %q", got)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New("short")
	if err == nil || !strings.Contains(err.Error(), "32 bytes") {
		t.Fatalf("expected key length error, got %v", err)
	}
}

func TestKeysAreNotInterchangeable(t *testing.T) {
	a, _ := New(testKey)
	b, err := New(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	blob, err := a.Seal([]byte("report"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := b.Open(blob); err == nil {
		t.Fatal("expected a different key to fail")
	}
}
