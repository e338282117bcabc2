package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/payrun/payrun/pkg/errors"
)

// testMnemonic is the standard BIP39 test vector.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// testMnemonicAddress is the m/44'/60'/0'/0/0 address of testMnemonic with
// an empty passphrase, as derived by every mainstream wallet.
const testMnemonicAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 12 words", testMnemonic, true},
		{"valid with noise", "1. abandon\n2. abandon\n3. abandon\n4. abandon\n5. abandon\n6. abandon\n7. abandon\n8. abandon\n9. abandon\n10. abandon\n11. abandon\n12. about", true},
		{"empty", "", false},
		{"wrong word count", "abandon abandon abandon", false},
		{"bad checksum", strings.Replace(testMnemonic, "about", "abandon", 1), false},
		{"unknown word", strings.Replace(testMnemonic, "about", "aboutzzz", 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMnemonic(tt.mnemonic)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, perrors.Is(err, perrors.ErrInvalidMnemonic))
			}
		})
	}
}

func TestNormalizeMnemonicInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"uppercase", "ABANDON ABOUT", "abandon about"},
		{"commas", "abandon,about", "abandon about"},
		{"extra whitespace", "  abandon \t about \n", "abandon about"},
		{"bullets", "- abandon\n- about", "abandon about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMnemonicInput(tt.input))
		})
	}
}

func TestFromMnemonic_KnownVector(t *testing.T) {
	id, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)

	assert.Equal(t, testMnemonicAddress, id.Address())
	require.NotNil(t, id.PrivateKey())
}

func TestFromMnemonic_Deterministic(t *testing.T) {
	first, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	second, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)

	assert.Equal(t, first.Address(), second.Address())
}

func TestFromMnemonic_PassphraseChangesIdentity(t *testing.T) {
	plain, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	withPass, err := FromMnemonic(testMnemonic, "trezor")
	require.NoError(t, err)

	assert.NotEqual(t, plain.Address(), withPass.Address())
}

func TestFromMnemonic_Invalid(t *testing.T) {
	_, err := FromMnemonic("not a mnemonic", "")
	assert.True(t, perrors.Is(err, perrors.ErrInvalidMnemonic))
}

func TestSuggestWord(t *testing.T) {
	assert.Equal(t, "abandon", SuggestWord("abandan"))
	assert.Equal(t, "abandon", SuggestWord("abandon"))
	assert.Empty(t, SuggestWord("zzzzzzzzzz"))
}

func TestDetectTypos(t *testing.T) {
	typos := DetectTypos("abandon abandan about")
	require.Len(t, typos, 1)
	assert.Equal(t, 1, typos[0].Index)
	assert.Equal(t, "abandan", typos[0].Word)
	assert.Equal(t, "abandon", typos[0].Suggestion)

	hint := FormatTypoSuggestions(typos)
	assert.Contains(t, hint, "word 2")
	assert.Contains(t, hint, "did you mean 'abandon'?")
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress(testMnemonicAddress))
	assert.True(t, IsValidAddress("0x0000000000000000000000000000000000000000"))
	assert.False(t, IsValidAddress(""))
	assert.False(t, IsValidAddress("0x123"))
	assert.False(t, IsValidAddress("9858EfFD232B4033E47d90003D41EC34EcaEda9400"))
	assert.False(t, IsValidAddress("0xZZ58EfFD232B4033E47d90003D41EC34EcaEda94"))
}

func TestDerivationPath(t *testing.T) {
	assert.Equal(t, "m/44'/60'/0'/0/0", DerivationPath())
}

func TestZeroBytes(t *testing.T) {
	data := []byte{1, 2, 3}
	ZeroBytes(data)
	assert.Equal(t, []byte{0, 0, 0}, data)
}
