// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/argon2"

	"github.com/jeranaias/solace-tui/internal/util"
)

// Argon2id parameters. Interactive-login cost: fast enough to unlock
// without a noticeable pause, expensive enough to resist offline
// guessing of a short passphrase.
//
// SECURITY: the hash file only matters if the attacker already has
// local file access, so these favor latency over maximum hardness.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

var (
	// ErrLockNotSet indicates no passphrase has been enrolled.
	ErrLockNotSet = errors.New("app lock is not set up")
	// ErrWrongPassphrase indicates passphrase verification failed.
	ErrWrongPassphrase = errors.New("incorrect passphrase")
	// ErrWrongCode indicates TOTP verification failed.
	ErrWrongCode = errors.New("incorrect verification code")
)

// lockRecord is the persisted app-lock state.
type lockRecord struct {
	Salt       []byte `json:"salt"`
	Hash       []byte `json:"hash"`
	TOTPSecret string `json:"totp_secret,omitempty"`
}

// AppLock gates sensitive screens behind a local passphrase with an
// optional TOTP second factor. Unlock state relocks after a configurable
// idle period.
type AppLock struct {
	mu         sync.Mutex
	path       string
	relock     time.Duration
	unlockedAt time.Time
}

// NewAppLock creates an app lock persisted at path. A zero relock
// duration means the lock stays open for the life of the process.
func NewAppLock(path string, relock time.Duration) *AppLock {
	return &AppLock{path: path, relock: relock}
}

// Enrolled reports whether a passphrase has been set up.
func (l *AppLock) Enrolled() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// TOTPEnabled reports whether a second factor is enrolled.
func (l *AppLock) TOTPEnabled() bool {
	rec, err := l.load()
	return err == nil && rec.TOTPSecret != ""
}

// Enroll sets the passphrase, replacing any existing lock.
func (l *AppLock) Enroll(passphrase string) error {
	if passphrase == "" {
		return errors.New("passphrase cannot be empty")
	}

	salt := make([]byte, argonSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	rec := lockRecord{
		Salt: salt,
		Hash: hashPassphrase(passphrase, salt),
	}
	return l.save(rec)
}

// EnrollTOTP generates a TOTP secret as a second factor and returns
// the otpauth:// provisioning URL for the user's authenticator app.
// The passphrase must verify first.
func (l *AppLock) EnrollTOTP(passphrase, accountName string) (string, error) {
	rec, err := l.verifyPassphrase(passphrase)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Solace",
		AccountName: accountName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	rec.TOTPSecret = key.Secret()
	if err := l.save(*rec); err != nil {
		return "", err
	}
	return key.URL(), nil
}

// DisableTOTP removes the second factor. The passphrase must verify.
func (l *AppLock) DisableTOTP(passphrase string) error {
	rec, err := l.verifyPassphrase(passphrase)
	if err != nil {
		return err
	}
	rec.TOTPSecret = ""
	return l.save(*rec)
}

// Unlock verifies the passphrase (and TOTP code when enrolled) and
// opens the lock until the relock period elapses.
func (l *AppLock) Unlock(passphrase, code string) error {
	rec, err := l.verifyPassphrase(passphrase)
	if err != nil {
		return err
	}
	if rec.TOTPSecret != "" {
		if !totp.Validate(code, rec.TOTPSecret) {
			return ErrWrongCode
		}
	}

	l.mu.Lock()
	l.unlockedAt = time.Now()
	l.mu.Unlock()
	return nil
}

// Locked reports whether the lock currently bars access. An
// unenrolled lock is always open.
func (l *AppLock) Locked() bool {
	if !l.Enrolled() {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.unlockedAt.IsZero() {
		return true
	}
	if l.relock > 0 && time.Since(l.unlockedAt) > l.relock {
		l.unlockedAt = time.Time{}
		return true
	}
	return false
}

// Relock closes the lock immediately.
func (l *AppLock) Relock() {
	l.mu.Lock()
	l.unlockedAt = time.Time{}
	l.mu.Unlock()
}

// Remove deletes the lock entirely. The passphrase must verify.
func (l *AppLock) Remove(passphrase string) error {
	if _, err := l.verifyPassphrase(passphrase); err != nil {
		return err
	}
	l.Relock()
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock: %w", err)
	}
	return nil
}

// verifyPassphrase loads the record and checks the passphrase in
// constant time.
func (l *AppLock) verifyPassphrase(passphrase string) (*lockRecord, error) {
	rec, err := l.load()
	if err != nil {
		return nil, err
	}
	got := hashPassphrase(passphrase, rec.Salt)
	if subtle.ConstantTimeCompare(got, rec.Hash) != 1 {
		return nil, ErrWrongPassphrase
	}
	return rec, nil
}

func (l *AppLock) load() (*lockRecord, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, ErrLockNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}
	var rec lockRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &rec, nil
}

func (l *AppLock) save(rec lockRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal lock record: %w", err)
	}
	if err := util.AtomicWriteFile(l.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

func hashPassphrase(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}
