package helper

import (
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
)

// Client builds requests for, and reads from, a helper instance
type Client struct {
	Address crypto.Address
}

// NewClient() returns a client bound to the helper at address
func NewClient(address crypto.Address) *Client { return &Client{Address: address} }

// ProvideMessage() builds the balancing_provide_liquidity execution with the assets attached as funds
// an empty recipient lets the helper default to the sender
func (c *Client) ProvideMessage(assets lib.Basket, pool PoolDescriptor, minOut *uint256.Int, recipient crypto.Address) (*lib.Message, lib.ErrorI) {
	msg := &BalancingProvideLiquidityMsg{Assets: assets.Sorted(), MinOut: minOut, Pool: pool}
	if !recipient.Empty() {
		msg.Recipient = recipient.String()
	}
	return lib.NewExecuteMessage(c.Address, ExecuteMsg{BalancingProvideLiquidity: msg}, msg.Assets)
}

// ProvideTransaction() wraps ProvideMessage() into a single message transaction from sender
func (c *Client) ProvideTransaction(sender crypto.Address, assets lib.Basket, pool PoolDescriptor, minOut *uint256.Int, recipient crypto.Address, memo string) (*lib.Transaction, lib.ErrorI) {
	msg, err := c.ProvideMessage(assets, pool, minOut, recipient)
	if err != nil {
		return nil, err
	}
	return &lib.Transaction{Sender: sender, Messages: []*lib.Message{msg}, Memo: memo}, nil
}

// ConfiguredFactory() returns the factory the helper reads fees from
func (c *Client) ConfiguredFactory(q fsm.QuerierI) (crypto.Address, lib.ErrorI) {
	resp := new(ConfiguredFactoryResponse)
	if err := q.QuerySmart(c.Address, QueryMsg{ConfiguredFactory: &struct{}{}}, resp); err != nil {
		return nil, err
	}
	return resp.Factory, nil
}

// FeeInfo() returns the fee schedule of a pool type as seen through the helper
func (c *Client) FeeInfo(q fsm.QuerierI, pairType lib.PairType) (*FeeInfoResponse, lib.ErrorI) {
	resp := new(FeeInfoResponse)
	if err := q.QuerySmart(c.Address, QueryMsg{FeeInfo: &FeeInfoQuery{PairType: pairType}}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
