package rpc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/helper"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/cenkalti/backoff/v4"
	"github.com/holiman/uint256"
)

// Client calls the RPC of a running node
// queries are retried with exponential backoff; transactions are sent exactly once
type Client struct {
	rpcURL  string
	client  http.Client
	retries uint64
}

func NewClient(rpcURL string) *Client {
	return &Client{rpcURL: rpcURL, client: http.Client{Timeout: 10 * time.Second}, retries: 3}
}

func (c *Client) Version() (version *string, err lib.ErrorI) {
	version = new(string)
	err = c.get(VersionRouteName, version)
	return
}

func (c *Client) Height() (p *uint64, err lib.ErrorI) {
	resp := new(heightResponse)
	if err = c.query(HeightRouteName, nil, resp); err != nil {
		return nil, err
	}
	return &resp.Height, nil
}

func (c *Client) Balance(address crypto.Address, denom string) (p *uint256.Int, err lib.ErrorI) {
	resp := new(balanceResponse)
	if err = c.query(BalanceRouteName, balanceRequest{Address: address, Denom: denom}, resp); err != nil {
		return nil, err
	}
	if resp.Amount.Amount == nil {
		return new(uint256.Int), nil
	}
	return resp.Amount.Amount, nil
}

func (c *Client) Balances(address crypto.Address) (p lib.Basket, err lib.ErrorI) {
	err = c.query(BalancesRouteName, addressRequest{Address: address}, &p)
	return
}

func (c *Client) Supply(denom string) (p *uint256.Int, err lib.ErrorI) {
	resp := new(supplyResponse)
	if err = c.query(SupplyRouteName, denomRequest{Denom: denom}, resp); err != nil {
		return nil, err
	}
	return resp.Supply.Amount, nil
}

func (c *Client) Contract(address crypto.Address, msg json.RawMessage) (p json.RawMessage, err lib.ErrorI) {
	err = c.query(ContractRouteName, contractRequest{Address: address, Msg: msg}, &p)
	return
}

func (c *Client) Contracts() (p []*fsm.ContractInfo, err lib.ErrorI) {
	err = c.query(ContractsRouteName, nil, &p)
	return
}

func (c *Client) Pool(pair crypto.Address) (p *dex.PoolResponse, err lib.ErrorI) {
	p = new(dex.PoolResponse)
	err = c.query(PoolRouteName, addressRequest{Address: pair}, p)
	return
}

func (c *Client) FeeInfo(helperAddress crypto.Address, pairType lib.PairType) (p *helper.FeeInfoResponse, err lib.ErrorI) {
	p = new(helper.FeeInfoResponse)
	err = c.query(FeeInfoRouteName, feeInfoRequest{helperRequest: helperRequest{Helper: helperAddress}, PairType: pairType}, p)
	return
}

func (c *Client) Factory(helperAddress crypto.Address) (p crypto.Address, err lib.ErrorI) {
	resp := new(factoryResponse)
	if err = c.query(FactoryRouteName, helperRequest{Helper: helperAddress}, resp); err != nil {
		return nil, err
	}
	return resp.Factory, nil
}

// Helper() resolves the helper instance; a nil address selects the only one deployed
func (c *Client) Helper(helperAddress crypto.Address) (p crypto.Address, err lib.ErrorI) {
	resp := new(helperResponse)
	if err = c.query(HelperRouteName, helperRequest{Helper: helperAddress}, resp); err != nil {
		return nil, err
	}
	return resp.Helper, nil
}

func (c *Client) TransactionByHash(hash string) (p *lib.TxResult, err lib.ErrorI) {
	p = new(lib.TxResult)
	err = c.query(TxByHashRouteName, hashRequest{Hash: hash}, p)
	return
}

func (c *Client) Config() (p *lib.Config, err lib.ErrorI) {
	p = new(lib.Config)
	err = c.get(ConfigRouteName, p)
	return
}

// Transaction submits a transaction; a transaction that applied and failed returns its result along with ErrTxFailed
func (c *Client) Transaction(tx *lib.Transaction) (p *lib.TxResult, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(tx)
	if err != nil {
		return nil, err
	}
	p = new(lib.TxResult)
	if err = c.post(TxRouteName, bz, p); err != nil {
		return nil, err
	}
	if p.Error != nil {
		return p, ErrTxFailed(p.TxHash, p.Error)
	}
	return p, nil
}

// query() posts an idempotent request, retrying transport failures
// an answer with a non-200 status is final
func (c *Client) query(routeName string, request any, ptr any) lib.ErrorI {
	bz := []byte("{}")
	if request != nil {
		var err lib.ErrorI
		if bz, err = lib.MarshalJSON(request); err != nil {
			return err
		}
	}
	var final lib.ErrorI
	_ = backoff.Retry(func() error {
		final = c.post(routeName, bz, ptr)
		if final == nil {
			return nil
		}
		if final.Module() != lib.MainModule || final.Code() != lib.CodePostRequest {
			return backoff.Permanent(final)
		}
		return final
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries))
	return final
}

func (c *Client) url(routeName string) string {
	return c.rpcURL + routePaths[routeName].Path
}

func (c *Client) post(routeName string, json []byte, ptr any) lib.ErrorI {
	resp, err := c.client.Post(c.url(routeName), ApplicationJSON, bytes.NewBuffer(json))
	if err != nil {
		return lib.ErrPostRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) get(routeName string, ptr any) lib.ErrorI {
	resp, err := c.client.Get(c.url(routeName))
	if err != nil {
		return lib.ErrGetRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) unmarshal(resp *http.Response, ptr any) lib.ErrorI {
	defer func() { _ = resp.Body.Close() }()
	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return lib.ErrReadBody(err)
	}
	if resp.StatusCode != http.StatusOK {
		return lib.ErrHttpStatus(resp.Status, resp.StatusCode, bz)
	}
	return lib.UnmarshalJSON(bz, ptr)
}
