package controller

import (
	"encoding/json"

	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/helper"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
)

/* This file contains the read only lookups served against committed state */

// ReadOnly() runs fn against a state machine over a snapshot of the latest committed height
// any writes fn makes are dropped with the snapshot
func (c *Controller) ReadOnly(fn func(sm *fsm.StateMachine) lib.ErrorI) lib.ErrorI {
	view := c.DB.NewReadOnly()
	defer view.Discard()
	sm, err := fsm.New(c.Config, view, Codes(), c.log.WithPrefix("query"))
	if err != nil {
		return err
	}
	return fn(sm)
}

// QueryBalance() returns the balance of one denom held by an address
func (c *Controller) QueryBalance(address crypto.Address, denom string) (balance *uint256.Int, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) (e lib.ErrorI) {
		balance, e = sm.GetBalance(address, denom)
		return
	})
	return
}

// QueryBalances() returns every non-zero balance held by an address
func (c *Controller) QueryBalances(address crypto.Address) (balances lib.Basket, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) (e lib.ErrorI) {
		balances, e = sm.GetBalances(address)
		return
	})
	return
}

// QuerySupply() returns the total supply of a denom
func (c *Controller) QuerySupply(denom string) (supply *uint256.Int, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) (e lib.ErrorI) {
		supply, e = sm.GetSupply(denom)
		return
	})
	return
}

// QueryContracts() lists every contract instance
func (c *Controller) QueryContracts() (list []*fsm.ContractInfo, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) (e lib.ErrorI) {
		list, e = sm.GetContracts()
		return
	})
	return
}

// QuerySmart() forwards a raw json query to a contract
func (c *Controller) QuerySmart(contract crypto.Address, msg json.RawMessage) (resp json.RawMessage, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) (e lib.ErrorI) {
		resp, e = sm.QuerySmartRaw(contract, msg)
		return
	})
	return
}

// QueryFeeInfo() returns the fee schedule of a pool type as resolved through a helper
// an empty address selects the only helper instance
func (c *Controller) QueryFeeInfo(address crypto.Address, pairType lib.PairType) (info *helper.FeeInfoResponse, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) lib.ErrorI {
		client, e := resolveHelper(sm, address)
		if e != nil {
			return e
		}
		info, e = client.FeeInfo(sm, pairType)
		return e
	})
	return
}

// QueryFactory() returns the factory a helper is bound to
// an empty address selects the only helper instance
func (c *Controller) QueryFactory(address crypto.Address) (factory crypto.Address, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) lib.ErrorI {
		client, e := resolveHelper(sm, address)
		if e != nil {
			return e
		}
		factory, e = client.ConfiguredFactory(sm)
		return e
	})
	return
}

// QueryHelper() returns the address of the helper instance selected by address
func (c *Controller) QueryHelper(address crypto.Address) (resolved crypto.Address, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) lib.ErrorI {
		client, e := resolveHelper(sm, address)
		if e != nil {
			return e
		}
		resolved = client.Address
		return nil
	})
	return
}

// QueryPool() returns the reserves and share supply of a pair
func (c *Controller) QueryPool(pair crypto.Address) (pool *dex.PoolResponse, err lib.ErrorI) {
	err = c.ReadOnly(func(sm *fsm.StateMachine) lib.ErrorI {
		pool = new(dex.PoolResponse)
		return sm.QuerySmart(pair, dex.PairQueryMsg{Pool: &dex.Empty{}}, pool)
	})
	return
}

// QueryTx() returns the journaled result of a transaction
func (c *Controller) QueryTx(hash string) (*lib.TxResult, lib.ErrorI) {
	return c.Journal.Get(hash)
}

// resolveHelper() returns a client for the helper at address, or for the only helper when address is empty
func resolveHelper(sm *fsm.StateMachine, address crypto.Address) (*helper.Client, lib.ErrorI) {
	if !address.Empty() {
		info, err := sm.GetContract(address)
		if err != nil {
			return nil, err
		}
		if info.Code != helper.Code {
			return nil, ErrNotHelper(address.String(), info.Code)
		}
		return helper.NewClient(address), nil
	}
	contracts, err := sm.GetContracts()
	if err != nil {
		return nil, err
	}
	var found []crypto.Address
	for _, info := range contracts {
		if info.Code == helper.Code {
			found = append(found, info.Address)
		}
	}
	switch len(found) {
	case 0:
		return nil, ErrHelperNotFound()
	case 1:
		return helper.NewClient(found[0]), nil
	default:
		return nil, ErrAmbiguousHelper(len(found))
	}
}
