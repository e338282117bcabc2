// Package erc20 provides call-data packing for the standard fungible-token
// interface consumed by the dispatcher: decimals() and transfer(address,uint256).
package erc20

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// abiJSON is the subset of the ERC-20 ABI the dispatcher consumes.
const abiJSON = `[
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"}
]`

//nolint:gochecknoglobals // Parsed once at startup; read-only afterwards
var parsedABI = mustParseABI()

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("parsing erc20 ABI: %v", err))
	}
	return parsed
}

// PackTransfer builds the call data for transfer(recipient, amount).
func PackTransfer(recipient common.Address, amount *big.Int) ([]byte, error) {
	data, err := parsedABI.Pack("transfer", recipient, amount)
	if err != nil {
		return nil, fmt.Errorf("packing transfer call: %w", err)
	}
	return data, nil
}

// PackDecimals builds the call data for decimals().
func PackDecimals() ([]byte, error) {
	data, err := parsedABI.Pack("decimals")
	if err != nil {
		return nil, fmt.Errorf("packing decimals call: %w", err)
	}
	return data, nil
}

// UnpackDecimals parses the return data of a decimals() call.
func UnpackDecimals(data []byte) (uint8, error) {
	out, err := parsedABI.Unpack("decimals", data)
	if err != nil {
		return 0, fmt.Errorf("unpacking decimals result: %w", err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("unexpected decimals result arity: %d", len(out))
	}

	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals result type: %T", out[0])
	}
	return decimals, nil
}
