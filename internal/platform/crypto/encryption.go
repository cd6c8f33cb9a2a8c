package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// sealed blobs carry this prefix so plaintext artifacts written before a key
// was configured can still be read back.
var sealedMagic = []byte("WFA1")

// artifactKeyInfo scopes the HKDF-derived key to report artifacts.
const artifactKeyInfo = "workforce/report-artifacts/v1"

var ErrNotConfigured = errors.New("encryption key not configured")

type Service struct {
	aead cipher.AEAD
}

func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	decoded, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding, got %d", len(decoded))
	}
	derived := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, decoded, nil, []byte(artifactKeyInfo)), derived); err != nil {
		return nil, fmt.Errorf("derive artifact key: %w", err)
	}
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Service{aead: aead}, nil
}

func (s *Service) Configured() bool {
	return s != nil && s.aead != nil
}

// Seal encrypts an artifact. Without a key the input is returned unchanged.
func (s *Service) Seal(plain []byte) ([]byte, error) {
	if !s.Configured() || len(plain) == 0 {
		return plain, nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(sealedMagic)+len(nonce)+len(plain)+s.aead.Overhead())
	out = append(out, sealedMagic...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plain, nil), nil
}

func (s *Service) Open(blob []byte) ([]byte, error) {
	if !bytes.HasPrefix(blob, sealedMagic) {
		return blob, nil
	}
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	body := blob[len(sealedMagic):]
	if len(body) < s.aead.NonceSize() {
		return nil, errors.New("sealed artifact too short")
	}
	nonce, data := body[:s.aead.NonceSize()], body[s.aead.NonceSize():]
	return s.aead.Open(nil, nonce, data, nil)
}

func decodeKey(raw string) ([]byte, error) {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded, nil
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return []byte(raw), nil
}
