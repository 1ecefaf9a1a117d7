package cli

import (
	"encoding/json"
	"fmt"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "query the node rpc",
}

var helperAddress = ""

func init() {
	queryCmd.PersistentFlags().StringVar(&helperAddress, "helper", "", "address of the helper instance, empty if only one is deployed")
	queryCmd.AddCommand(heightCmd)
	queryCmd.AddCommand(balanceCmd)
	queryCmd.AddCommand(balancesCmd)
	queryCmd.AddCommand(supplyCmd)
	queryCmd.AddCommand(contractCmd)
	queryCmd.AddCommand(contractsCmd)
	queryCmd.AddCommand(poolCmd)
	queryCmd.AddCommand(feeInfoCmd)
	queryCmd.AddCommand(factoryCmd)
	queryCmd.AddCommand(txByHashCmd)
}

var (
	heightCmd = &cobra.Command{
		Use:   "height",
		Short: "query the latest committed height",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Height())
		},
	}

	balanceCmd = &cobra.Command{
		Use:   "balance <address> <denom>",
		Short: "query the balance of a single denom",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(amount(client.Balance(argToAddress(args[0]), args[1])))
		},
	}

	balancesCmd = &cobra.Command{
		Use:   "balances <address>",
		Short: "query every balance of an address",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Balances(argToAddress(args[0])))
		},
	}

	supplyCmd = &cobra.Command{
		Use:   "supply <denom>",
		Short: "query the total supply of a denom",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(amount(client.Supply(args[0])))
		},
	}

	contractCmd = &cobra.Command{
		Use:   "contract <address> <json query>",
		Short: "run a smart query against a contract",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if !json.Valid([]byte(args[1])) {
				writeToConsole(nil, lib.ErrJSONUnmarshal(fmt.Errorf("%q is not valid json", args[1])))
			}
			writeToConsole(client.Contract(argToAddress(args[0]), json.RawMessage(args[1])))
		},
	}

	contractsCmd = &cobra.Command{
		Use:   "contracts",
		Short: "query every contract instance",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Contracts())
		},
	}

	poolCmd = &cobra.Command{
		Use:   "pool <address>",
		Short: "query the reserves and share supply of a pool",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Pool(argToAddress(args[0])))
		},
	}

	feeInfoCmd = &cobra.Command{
		Use:   "fee-info <pair-type> --helper=<address>",
		Short: "query the fee schedule of a pool type through the helper",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			pairType, err := lib.ParsePairType(args[0])
			if err != nil {
				writeToConsole(nil, err)
			}
			writeToConsole(client.FeeInfo(optionalAddress(helperAddress), pairType))
		},
	}

	factoryCmd = &cobra.Command{
		Use:   "factory --helper=<address>",
		Short: "query the factory the helper is bound to",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Factory(optionalAddress(helperAddress)))
		},
	}

	txByHashCmd = &cobra.Command{
		Use:   "tx <hash>",
		Short: "query a journaled transaction result by its hash",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.TransactionByHash(args[0]))
		},
	}
)

// amount renders an integer amount in decimal
func amount(a *uint256.Int, err lib.ErrorI) (any, error) {
	if err != nil {
		return nil, err
	}
	if a == nil {
		return "0", nil
	}
	return a.Dec(), nil
}

// argToAddress() accepts a hex address, or a developer account name as `@name`
func argToAddress(arg string) crypto.Address {
	if len(arg) > 1 && arg[0] == '@' {
		return crypto.NewAccountAddress(arg[1:])
	}
	address, err := crypto.NewAddressFromString(arg)
	if err != nil {
		writeToConsole(nil, lib.ErrInvalidAddress(err))
	}
	return address
}

func optionalAddress(arg string) crypto.Address {
	if arg == "" {
		return nil
	}
	return argToAddress(arg)
}
