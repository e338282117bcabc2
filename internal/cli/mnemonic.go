package cli

import (
	"github.com/spf13/cobra"

	"github.com/payrun/payrun/internal/fileutil"
	"github.com/payrun/payrun/internal/output"
	"github.com/payrun/payrun/internal/secret"
	"github.com/payrun/payrun/internal/wallet"
	perrors "github.com/payrun/payrun/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var mnemonicFilePath string

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Manage the sender recovery phrase",
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var mnemonicEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a recovery phrase to a passphrase-protected file",
	Long: `Encrypt prompts for a BIP-39 recovery phrase and a passphrase, validates
the phrase, and writes it age-encrypted to the given file. Point
PAYRUN_MNEMONIC_FILE at that file so batch runs never read the phrase
from plain text.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return encryptMnemonic()
	},
}

func encryptMnemonic() error {
	phrase, err := secret.PromptLine("Recovery phrase: ")
	if err != nil {
		return err
	}
	phrase = wallet.NormalizeMnemonicInput(phrase)

	if err = wallet.ValidateMnemonic(phrase); err != nil {
		return err
	}

	passphrase, err := secret.PromptPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	confirm, err := secret.PromptPassphrase("Confirm passphrase: ")
	if err != nil {
		return err
	}
	if passphrase != confirm {
		return perrors.Wrap(perrors.ErrConfiguration, "passphrases do not match")
	}

	encrypted, err := secret.Encrypt([]byte(phrase), passphrase)
	if err != nil {
		return err
	}

	if err = fileutil.WriteAtomic(mnemonicFilePath, encrypted, 0o600); err != nil {
		return perrors.Wrap(perrors.WithCause(perrors.ErrConfiguration, err),
			"failed to write %s", mnemonicFilePath)
	}

	return output.FormatSuccess(formatter.Writer(),
		"encrypted recovery phrase written to "+mnemonicFilePath, formatter.Format())
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	mnemonicEncryptCmd.Flags().StringVarP(&mnemonicFilePath, "file", "f", "", "destination file (required)")
	_ = mnemonicEncryptCmd.MarkFlagRequired("file")

	mnemonicCmd.AddCommand(mnemonicEncryptCmd)
	rootCmd.AddCommand(mnemonicCmd)
}
