package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/payrun/payrun/internal/output"
	"github.com/payrun/payrun/internal/registry"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List configured chains and their tokens",
	RunE: func(_ *cobra.Command, _ []string) error {
		reg, err := registry.New(cfg)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return printChainsJSON(reg)
		}
		return printChainsTable(reg)
	},
}

type chainListing struct {
	Chain   string   `json:"chain"`
	ChainID int64    `json:"chain_id"`
	Native  string   `json:"native"`
	Tokens  []string `json:"tokens"`
	RPC     string   `json:"rpc"`
}

func listChains(reg *registry.Registry) ([]chainListing, error) {
	names := reg.Chains()
	listings := make([]chainListing, 0, len(names))
	for _, name := range names {
		endpoint, err := reg.ResolveEndpoint(name)
		if err != nil {
			return nil, err
		}
		tokens, err := reg.Tokens(name)
		if err != nil {
			return nil, err
		}
		listings = append(listings, chainListing{
			Chain:   endpoint.Chain,
			ChainID: endpoint.ChainID,
			Native:  endpoint.NativeSymbol,
			Tokens:  tokens,
			RPC:     endpoint.RPCURL,
		})
	}
	return listings, nil
}

func printChainsJSON(reg *registry.Registry) error {
	listings, err := listChains(reg)
	if err != nil {
		return err
	}
	return formatter.Print(listings)
}

func printChainsTable(reg *registry.Registry) error {
	listings, err := listChains(reg)
	if err != nil {
		return err
	}

	table := newChainsTable(listings)
	return formatter.Println(strings.TrimRight(table, "\n"))
}

func newChainsTable(listings []chainListing) string {
	table := output.NewTable("CHAIN", "CHAIN_ID", "NATIVE", "TOKENS")
	for _, l := range listings {
		table.AddRow(l.Chain, strconv.FormatInt(l.ChainID, 10), l.Native, strings.Join(l.Tokens, ","))
	}
	return table.String()
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(chainsCmd)
}
