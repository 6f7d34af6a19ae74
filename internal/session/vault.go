// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/solace-tui/internal/api"
	"github.com/jeranaias/solace-tui/internal/util"
)

// ErrNoSession indicates no stored session exists.
var ErrNoSession = errors.New("no stored session")

// masterKeySize is the AES-256 key length.
const masterKeySize = 32

// storedSession is the encrypted-at-rest session record.
type storedSession struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Vault persists the backend session token encrypted under a random
// master key held in the keystore. Implements api.TokenSource.
type Vault struct {
	keys        KeyStore
	sessionPath string
}

// Statically assert the TokenSource contract.
var _ api.TokenSource = (*Vault)(nil)

// NewVault creates a vault rooted in the given directory.
func NewVault(dir string) *Vault {
	return &Vault{
		keys:        NewFileKeyStore(filepath.Join(dir, "master.key")),
		sessionPath: filepath.Join(dir, "session.enc"),
	}
}

// Token returns the stored auth token, ErrNoSession/api.ErrNotAuthenticated
// when none exists, and api.ErrAuthExpired when the stored token lapsed.
func (v *Vault) Token() (string, error) {
	sess, err := v.load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return "", api.ErrNotAuthenticated
		}
		return "", err
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return "", api.ErrAuthExpired
	}
	return sess.Token, nil
}

// Store encrypts and persists a session.
func (v *Vault) Store(token, userID string, expiresAt time.Time) error {
	plaintext, err := json.Marshal(storedSession{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key, err := v.masterKey()
	if err != nil {
		return err
	}

	sealed, err := seal(key, plaintext)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(v.sessionPath, sealed, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the stored session (logout). The master key stays for
// the next login.
func (v *Vault) Clear() error {
	if err := os.Remove(v.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UserID returns the stored user ID, if a session exists.
func (v *Vault) UserID() (string, error) {
	sess, err := v.load()
	if err != nil {
		return "", err
	}
	return sess.UserID, nil
}

// load reads and decrypts the session record.
func (v *Vault) load() (*storedSession, error) {
	sealed, err := os.ReadFile(v.sessionPath)
	if os.IsNotExist(err) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	key, err := v.masterKey()
	if err != nil {
		return nil, err
	}

	plaintext, err := open(key, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}

	var sess storedSession
	if err := json.Unmarshal(plaintext, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return &sess, nil
}

// masterKey loads the master key, generating one on first use.
func (v *Vault) masterKey() ([]byte, error) {
	if v.keys.Exists() {
		key, err := v.keys.Retrieve()
		if err != nil {
			return nil, err
		}
		if len(key) != masterKeySize {
			return nil, fmt.Errorf("master key has wrong size: %d", len(key))
		}
		return key, nil
	}

	key := make([]byte, masterKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	if err := v.keys.Store(key); err != nil {
		return nil, err
	}
	return key, nil
}

// =============================================================================
// AEAD HELPERS
// =============================================================================

// seal encrypts plaintext with AES-GCM; the nonce is prepended.
func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a seal()ed blob.
func open(key, sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
