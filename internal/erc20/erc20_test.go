package erc20

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPackTransfer verifies the canonical transfer selector and argument layout.
func TestPackTransfer(t *testing.T) {
	recipient := common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	amount := big.NewInt(1_000_000)

	data, err := PackTransfer(recipient, amount)
	require.NoError(t, err)
	require.Len(t, data, 4+32+32)

	assert.Equal(t, "a9059cbb", hex.EncodeToString(data[:4]))
	assert.Equal(t, recipient, common.BytesToAddress(data[4:36]))
	assert.Equal(t, amount, new(big.Int).SetBytes(data[36:68]))
}

// TestPackDecimals verifies the decimals() selector.
func TestPackDecimals(t *testing.T) {
	data, err := PackDecimals()
	require.NoError(t, err)
	require.Len(t, data, 4)
	assert.Equal(t, "313ce567", hex.EncodeToString(data))
}

// TestUnpackDecimals round-trips an ABI-encoded uint8.
func TestUnpackDecimals(t *testing.T) {
	encoded := make([]byte, 32)
	encoded[31] = 6

	decimals, err := UnpackDecimals(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), decimals)
}

// TestUnpackDecimalsGarbage rejects malformed return data.
func TestUnpackDecimalsGarbage(t *testing.T) {
	_, err := UnpackDecimals([]byte{0x01, 0x02})
	assert.Error(t, err)
}
