// Package secret loads the secret recovery phrase from the environment or
// from an age-encrypted file unlocked with an interactive passphrase.
package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"

	"github.com/payrun/payrun/internal/config"
	perrors "github.com/payrun/payrun/pkg/errors"
)

// Encrypt encrypts plaintext using age with a password-based recipient.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

// Decrypt decrypts ciphertext using age with a password-based identity.
func Decrypt(ciphertext []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}

	return plaintext, nil
}

// LoadMnemonic returns the secret recovery phrase. PAYRUN_MNEMONIC wins; a
// configured mnemonic file is decrypted with a passphrase prompted on the
// terminal. A missing phrase is a fatal configuration error.
func LoadMnemonic(cfg *config.Config) (string, error) {
	if cfg.Mnemonic != "" {
		return cfg.Mnemonic, nil
	}

	if cfg.MnemonicFile == "" {
		return "", perrors.WithSuggestion(
			perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
				"reason": "no secret recovery phrase",
			}),
			"set "+config.EnvMnemonic+" or "+config.EnvMnemonicFile,
		)
	}

	// #nosec G304 -- mnemonic file path comes from operator configuration
	ciphertext, err := os.ReadFile(cfg.MnemonicFile)
	if err != nil {
		return "", perrors.WithCause(perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
			"mnemonic_file": cfg.MnemonicFile,
			"reason":        "cannot read mnemonic file",
		}), err)
	}

	passphrase, err := PromptPassphrase("Passphrase for " + cfg.MnemonicFile + ": ")
	if err != nil {
		return "", perrors.WithCause(perrors.ErrConfiguration, err)
	}

	plaintext, err := Decrypt(ciphertext, passphrase)
	if err != nil {
		return "", perrors.WithCause(perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
			"mnemonic_file": cfg.MnemonicFile,
			"reason":        "decryption failed - wrong passphrase or corrupted file",
		}), err)
	}

	return strings.TrimSpace(string(plaintext)), nil
}
