package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrun/payrun/internal/config"
	perrors "github.com/payrun/payrun/pkg/errors"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	plaintext := []byte("legal winner thank year wave sausage worth useful legal winner thank yellow")

	ciphertext, err := Encrypt(plaintext, "hunter2")
	require.NoError(t, err)
	assert.NotContains(t, string(ciphertext), "legal winner")

	decrypted, err := Decrypt(ciphertext, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecrypt_WrongPassword(t *testing.T) {
	ciphertext, err := Encrypt([]byte("secret"), "correct")
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, "wrong")
	assert.Error(t, err)
}

func TestDecrypt_Garbage(t *testing.T) {
	_, err := Decrypt([]byte("not an age file"), "pw")
	assert.Error(t, err)
}

func TestLoadMnemonic_FromEnvValue(t *testing.T) {
	cfg := config.Defaults()
	cfg.Mnemonic = "abandon abandon about"

	got, err := LoadMnemonic(cfg)
	require.NoError(t, err)
	assert.Equal(t, "abandon abandon about", got)
}

func TestLoadMnemonic_MissingIsConfigurationError(t *testing.T) {
	cfg := config.Defaults()

	_, err := LoadMnemonic(cfg)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrConfiguration))
}

func TestLoadMnemonic_UnreadableFile(t *testing.T) {
	cfg := config.Defaults()
	cfg.MnemonicFile = "/nonexistent/payrun/mnemonic.age"

	_, err := LoadMnemonic(cfg)
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrConfiguration))
}
