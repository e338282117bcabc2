// Package registry maps chain identifiers to RPC endpoints and
// (chain, token symbol) pairs to contract addresses. It is built once at
// startup from configuration and is read-only afterwards.
package registry

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/payrun/payrun/internal/config"
	perrors "github.com/payrun/payrun/pkg/errors"
)

// MaxSuggestionDistance is the maximum Levenshtein distance for a
// "did you mean" suggestion on an unknown chain or token.
const MaxSuggestionDistance = 2

// Endpoint describes a configured chain endpoint.
type Endpoint struct {
	Chain        string // canonical lowercase chain identifier
	ChainID      int64  // numeric EVM chain id
	RPCURL       string
	NativeSymbol string
}

// Token describes a transferable asset on a chain. A native entry carries
// no contract address.
type Token struct {
	Chain   string
	Symbol  string
	Address string // empty for the chain's native currency
}

// IsNative reports whether the token is the chain's native currency.
func (t Token) IsNative() bool {
	return t.Address == ""
}

// Registry resolves chains and tokens. Read-only after construction.
type Registry struct {
	endpoints map[string]Endpoint
	tokens    map[string]map[string]string // chain -> upper(symbol) -> address
	names     []string
}

// New builds a registry from configuration. Construction fails fast with a
// configuration error if any chain entry is incomplete; this is a startup
// precondition, not a per-row error.
func New(cfg *config.Config) (*Registry, error) {
	r := &Registry{
		endpoints: make(map[string]Endpoint, len(cfg.Chains)),
		tokens:    make(map[string]map[string]string, len(cfg.Chains)),
	}

	for name, cc := range cfg.Chains {
		key := strings.ToLower(name)

		if cc.RPC == "" {
			return nil, perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
				"chain":  name,
				"reason": "empty RPC endpoint",
			})
		}
		if cc.NativeSymbol == "" || cc.ChainID == 0 {
			return nil, perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
				"chain":  name,
				"reason": "incomplete chain entry",
			})
		}

		r.endpoints[key] = Endpoint{
			Chain:        key,
			ChainID:      cc.ChainID,
			RPCURL:       cc.RPC,
			NativeSymbol: cc.NativeSymbol,
		}

		table := make(map[string]string, len(cc.Tokens))
		for _, tok := range cc.Tokens {
			table[strings.ToUpper(tok.Symbol)] = tok.Address
		}
		r.tokens[key] = table

		r.names = append(r.names, key)
	}

	sort.Strings(r.names)
	return r, nil
}

// ResolveEndpoint returns the endpoint for a chain identifier.
// Matching is case-insensitive. Unknown chains fail with UNSUPPORTED_CHAIN.
func (r *Registry) ResolveEndpoint(chain string) (Endpoint, error) {
	key := strings.ToLower(strings.TrimSpace(chain))

	ep, ok := r.endpoints[key]
	if !ok {
		err := perrors.WithDetails(perrors.ErrUnsupportedChain, map[string]string{
			"chain": chain,
		})
		if s := suggest(key, r.names); s != "" {
			err = perrors.WithSuggestion(err, "did you mean '"+s+"'?")
		}
		return Endpoint{}, err
	}

	return ep, nil
}

// ResolveToken returns the token descriptor for a (chain, symbol) pair.
// A symbol equal to the chain's native symbol (case-insensitive) resolves to
// the native entry; anything else must appear in the chain's token table or
// the pair fails with UNSUPPORTED_TOKEN.
func (r *Registry) ResolveToken(chain, symbol string) (Token, error) {
	ep, err := r.ResolveEndpoint(chain)
	if err != nil {
		return Token{}, err
	}

	sym := strings.ToUpper(strings.TrimSpace(symbol))

	if sym == strings.ToUpper(ep.NativeSymbol) {
		return Token{Chain: ep.Chain, Symbol: ep.NativeSymbol}, nil
	}

	addr, ok := r.tokens[ep.Chain][sym]
	if !ok {
		rerr := perrors.WithDetails(perrors.ErrUnsupportedToken, map[string]string{
			"chain": ep.Chain,
			"token": symbol,
		})
		if s := suggest(sym, r.tokenSymbols(ep)); s != "" {
			rerr = perrors.WithSuggestion(rerr, "did you mean '"+s+"'?")
		}
		return Token{}, rerr
	}

	return Token{Chain: ep.Chain, Symbol: sym, Address: addr}, nil
}

// Chains returns the configured chain identifiers in sorted order.
func (r *Registry) Chains() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Tokens returns the token symbols configured for a chain, native first.
func (r *Registry) Tokens(chain string) ([]string, error) {
	ep, err := r.ResolveEndpoint(chain)
	if err != nil {
		return nil, err
	}
	return r.tokenSymbols(ep), nil
}

// tokenSymbols lists the resolvable symbols for an endpoint: the native
// symbol plus the configured contract symbols.
func (r *Registry) tokenSymbols(ep Endpoint) []string {
	symbols := []string{strings.ToUpper(ep.NativeSymbol)}
	for sym := range r.tokens[ep.Chain] {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols[1:])
	return symbols
}

// suggest finds the closest candidate within MaxSuggestionDistance.
func suggest(input string, candidates []string) string {
	best := ""
	bestDist := MaxSuggestionDistance + 1

	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(input), strings.ToLower(c))
		if d < bestDist {
			bestDist = d
			best = c
		}
	}

	if bestDist > MaxSuggestionDistance {
		return ""
	}
	return best
}
