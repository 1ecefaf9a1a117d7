package cli

import (
	"time"

	"github.com/canopy-network/lphelper/helper"
	"github.com/canopy-network/lphelper/lib"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "submit transactions to the node rpc",
}

var (
	memo, minOut, recipient = "", "", ""
)

func init() {
	txCmd.PersistentFlags().StringVar(&memo, "memo", "", "optional memo attached to the transaction")
	provideCmd.Flags().StringVar(&minOut, "min-out", "", "minimum pool shares the deposit must mint")
	provideCmd.Flags().StringVar(&recipient, "recipient", "", "receiver of the minted shares, defaults to the sender")
	provideCmd.Flags().StringVar(&helperAddress, "helper", "", "address of the helper instance, empty if only one is deployed")
	txCmd.AddCommand(sendCmd)
	txCmd.AddCommand(provideCmd)
}

var (
	sendCmd = &cobra.Command{
		Use:   "send <from> <to> <coins...> --memo=hello",
		Short: "transfer coins between accounts, coins are formatted as 100uatom",
		Args:  cobra.MinimumNArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			tx := newTransaction(args[0], lib.NewSendMessage(argToAddress(args[1]), argsToBasket(args[2:])))
			writeToConsole(client.Transaction(tx))
		},
	}

	provideCmd = &cobra.Command{
		Use:   "provide <from> <pool> <pair-type> <coins...> --min-out=1 --recipient=<address> --helper=<address>",
		Short: "deposit coins into a pool through the helper, swapping the excess so the deposit matches the pool ratio",
		Args:  cobra.MinimumNArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			pairType, err := lib.ParsePairType(args[2])
			if err != nil {
				writeToConsole(nil, err)
			}
			// the rpc resolves the single deployed helper when the flag is omitted
			helperAddr, err := client.Helper(optionalAddress(helperAddress))
			if err != nil {
				writeToConsole(nil, err)
			}
			pool := helper.PoolDescriptor{Address: argToAddress(args[1]), PairType: pairType}
			msg, err := helper.NewClient(helperAddr).ProvideMessage(argsToBasket(args[3:]), pool, argToMinOut(minOut), optionalAddress(recipient))
			if err != nil {
				writeToConsole(nil, err)
			}
			writeToConsole(client.Transaction(newTransaction(args[0], msg)))
		},
	}
)

// newTransaction() wraps the messages into a transaction; the nonce keeps repeated commands distinct
func newTransaction(from string, messages ...*lib.Message) *lib.Transaction {
	return &lib.Transaction{
		Sender:   argToAddress(from),
		Messages: messages,
		Memo:     memo,
		Nonce:    uint64(time.Now().UnixNano()),
	}
}

func argsToBasket(args []string) lib.Basket {
	assets := make([]lib.AssetAmount, 0, len(args))
	for _, arg := range args {
		asset, err := lib.ParseAssetAmount(arg)
		if err != nil {
			writeToConsole(nil, err)
		}
		assets = append(assets, asset)
	}
	basket, err := lib.NewBasket(assets...)
	if err != nil {
		writeToConsole(nil, err)
	}
	return basket
}

func argToMinOut(arg string) *uint256.Int {
	if arg == "" {
		return nil
	}
	out, err := uint256.FromDecimal(arg)
	if err != nil {
		writeToConsole(nil, lib.ErrInvalidArgument(err))
	}
	return out
}
