package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"golang.org/x/crypto/sha3"
)

// BIP44 path constants for the signing identity: m/44'/60'/0'/0/0.
// A single keypair is derived once per process and shared read-only across
// all chains; EVM chains share coin type 60.
const (
	purposeBIP44 = 44
	coinTypeETH  = 60
)

// DerivationPath returns the BIP44 path of the signing identity.
func DerivationPath() string {
	return fmt.Sprintf("m/%d'/%d'/0'/0/0", purposeBIP44, coinTypeETH)
}

// Identity is the process-wide signing identity. It is initialized once and
// never mutated afterwards.
type Identity struct {
	address string
	key     *ecdsa.PrivateKey
}

// Address returns the EIP-55 checksummed address of the identity.
func (id *Identity) Address() string {
	return id.address
}

// PrivateKey returns the ECDSA signing key.
func (id *Identity) PrivateKey() *ecdsa.PrivateKey {
	return id.key
}

// FromMnemonic derives the signing identity from a secret recovery phrase.
// The intermediate seed and extended keys are zeroed before returning.
func FromMnemonic(mnemonic, passphrase string) (*Identity, error) {
	seed, err := MnemonicToSeed(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(seed)

	lockSeed(seed)
	defer unlockSeed(seed)

	key, err := deriveBIP44Key(seed)
	if err != nil {
		return nil, err
	}

	address, err := addressFromKey(key)
	if err != nil {
		return nil, err
	}

	return &Identity{address: address, key: key}, nil
}

// deriveBIP44Key walks m/44'/60'/0'/0/0 from the seed.
func deriveBIP44Key(seed []byte) (*ecdsa.PrivateKey, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}

	steps := []uint32{
		bip32.FirstHardenedChild + purposeBIP44, // m/44'
		bip32.FirstHardenedChild + coinTypeETH,  // m/44'/60'
		bip32.FirstHardenedChild,                // m/44'/60'/0'
		0,                                       // m/44'/60'/0'/0
		0,                                       // m/44'/60'/0'/0/0
	}

	key := masterKey
	for _, step := range steps {
		key, err = key.NewChildKey(step)
		if err != nil {
			return nil, fmt.Errorf("deriving child key %d: %w", step, err)
		}
	}

	privateKey, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, fmt.Errorf("parsing derived key: %w", err)
	}

	return privateKey, nil
}

// addressFromKey computes the EIP-55 checksummed address of a private key:
// keccak256(uncompressed pubkey[1:])[12:].
func addressFromKey(key *ecdsa.PrivateKey) (string, error) {
	pubKey := crypto.FromECDSAPub(&key.PublicKey) // 65 bytes, 0x04 prefix

	hash := sha3.NewLegacyKeccak256()
	hash.Write(pubKey[1:]) // Skip 0x04 prefix
	addrBytes := hash.Sum(nil)[12:]

	return toChecksumAddress(addrBytes)
}

// toChecksumAddress converts a 20-byte address to an EIP-55 checksummed hex string.
func toChecksumAddress(addr []byte) (string, error) {
	const ethAddressBytes = 20

	if len(addr) != ethAddressBytes {
		return "", fmt.Errorf("invalid address length: expected %d bytes, got %d",
			ethAddressBytes, len(addr))
	}

	addrHex := hex.EncodeToString(addr) // Always 40 chars for 20 bytes

	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(addrHex))
	hashBytes := hash.Sum(nil)

	const hexLen = ethAddressBytes * 2 // 40
	result := make([]byte, hexLen)
	for i := 0; i < hexLen; i++ {
		result[i] = checksumChar(addrHex[i], hashBytes[i/2], i%2 == 1)
	}

	return "0x" + string(result), nil
}

// checksumChar applies EIP-55 checksum to a single hex character.
func checksumChar(c, hashByte byte, isOddPosition bool) byte {
	if c >= '0' && c <= '9' {
		return c
	}

	nibble := hashByte >> 4
	if isOddPosition {
		nibble = hashByte & 0x0F
	}

	if nibble >= 8 {
		return c - 32 // Uppercase
	}
	return c // Lowercase
}

// IsValidAddress checks the 0x-prefixed 40-hex-char address format.
func IsValidAddress(address string) bool {
	if len(address) != 42 || address[0] != '0' || address[1] != 'x' {
		return false
	}

	for _, c := range address[2:] {
		if !isHexChar(c) {
			return false
		}
	}
	return true
}

// isHexChar checks if a rune is a valid hexadecimal character.
func isHexChar(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ZeroBytes zeros out a byte slice.
func ZeroBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
