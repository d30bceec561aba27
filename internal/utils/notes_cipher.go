package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
)

// ErrCipherClosed is returned when decryption is attempted with no key
// configured but the stored value carries the ciphertext prefix.
var ErrCipherClosed = errors.New("notes cipher: no key configured")

// notesPrefix marks values written by the cipher so plaintext rows from
// before encryption was enabled still read back correctly.
const notesPrefix = "enc:"

// NotesCipher encrypts and decrypts admission notes with AES-GCM.  The
// key is supplied as a hex string (16, 24 or 32 bytes decoded).  A nil
// or zero-value cipher passes values through unchanged, so deployments
// without NOTES_CIPHER_KEY keep working on plaintext.
type NotesCipher struct {
	aead cipher.AEAD
}

// NewNotesCipher builds a cipher from a hex-encoded key.  An empty key
// returns a pass-through cipher.
func NewNotesCipher(hexKey string) (*NotesCipher, error) {
	if hexKey == "" {
		return &NotesCipher{}, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &NotesCipher{aead: aead}, nil
}

// Enabled reports whether a key is configured.
func (n *NotesCipher) Enabled() bool { return n != nil && n.aead != nil }

// Encrypt seals the plaintext with a fresh nonce and returns a prefixed,
// base64 value suitable for a TEXT column.  Pass-through when disabled.
func (n *NotesCipher) Encrypt(plain string) (string, error) {
	if !n.Enabled() || plain == "" {
		return plain, nil
	}
	nonce := make([]byte, n.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := n.aead.Seal(nonce, nonce, []byte(plain), nil)
	return notesPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.  Values without the ciphertext prefix are
// returned as-is, covering rows written before encryption was enabled.
func (n *NotesCipher) Decrypt(stored string) (string, error) {
	if len(stored) < len(notesPrefix) || stored[:len(notesPrefix)] != notesPrefix {
		return stored, nil
	}
	if !n.Enabled() {
		return "", ErrCipherClosed
	}
	raw, err := base64.StdEncoding.DecodeString(stored[len(notesPrefix):])
	if err != nil {
		return "", err
	}
	if len(raw) < n.aead.NonceSize() {
		return "", errors.New("notes cipher: ciphertext too short")
	}
	nonce, sealed := raw[:n.aead.NonceSize()], raw[n.aead.NonceSize():]
	plain, err := n.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
