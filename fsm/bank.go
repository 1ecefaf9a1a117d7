package fsm

import (
	"strings"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
)

/* This file contains the bank: balances keyed by (address, denom) and the supply of each denom */

// GetBalance() returns the amount of denom held by an address, zero if none
func (s *StateMachine) GetBalance(address crypto.Address, denom string) (*uint256.Int, lib.ErrorI) {
	bz, err := s.Get(KeyForBalance(address, denom))
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(bz), nil
}

// GetBalances() returns every non-zero balance of an address sorted by denom
func (s *StateMachine) GetBalances(address crypto.Address) (balances lib.Basket, err lib.ErrorI) {
	err = s.IterateAndExecute(BalancePrefix(address), func(key, value []byte) lib.ErrorI {
		balances = append(balances, lib.AssetAmount{Denom: DenomFromBalanceKey(key), Amount: new(uint256.Int).SetBytes(value)})
		return nil
	})
	return
}

// SetBalance() overwrites the balance of an address, removing the key when zero
func (s *StateMachine) SetBalance(address crypto.Address, denom string, amount *uint256.Int) lib.ErrorI {
	if amount == nil || amount.IsZero() {
		return s.Delete(KeyForBalance(address, denom))
	}
	bz := amount.Bytes32()
	return s.Set(KeyForBalance(address, denom), bz[:])
}

// AccountAdd() adds an amount to the balance of an address
func (s *StateMachine) AccountAdd(address crypto.Address, asset lib.AssetAmount) lib.ErrorI {
	if asset.IsZero() {
		return nil
	}
	balance, err := s.GetBalance(address, asset.Denom)
	if err != nil {
		return err
	}
	if _, overflow := balance.AddOverflow(balance, asset.Amount); overflow {
		return lib.ErrAmountOverflow()
	}
	return s.SetBalance(address, asset.Denom, balance)
}

// AccountSub() removes an amount from the balance of an address
func (s *StateMachine) AccountSub(address crypto.Address, asset lib.AssetAmount) lib.ErrorI {
	if asset.IsZero() {
		return nil
	}
	balance, err := s.GetBalance(address, asset.Denom)
	if err != nil {
		return err
	}
	if balance.Lt(asset.Amount) {
		return ErrInsufficientFunds(address.String(), asset.Denom)
	}
	return s.SetBalance(address, asset.Denom, balance.Sub(balance, asset.Amount))
}

// Transfer() moves a basket from one address to another and emits a transfer event
func (s *StateMachine) Transfer(from, to crypto.Address, amount lib.Basket) lib.ErrorI {
	for _, asset := range amount {
		if err := s.AccountSub(from, asset); err != nil {
			return err
		}
		if err := s.AccountAdd(to, asset); err != nil {
			return err
		}
	}
	s.emit(lib.NewEvent(EventTypeTransfer, AttrSender, from.String(), AttrRecipient, to.String(), AttrAmount, amount.String()))
	return nil
}

// GetSupply() returns the total minted amount of denom
func (s *StateMachine) GetSupply(denom string) (*uint256.Int, lib.ErrorI) {
	bz, err := s.Get(KeyForSupply(denom))
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(bz), nil
}

// Mint() creates new units of a denom for an address and tracks the supply
func (s *StateMachine) Mint(to crypto.Address, asset lib.AssetAmount) lib.ErrorI {
	if asset.IsZero() {
		return nil
	}
	supply, err := s.GetSupply(asset.Denom)
	if err != nil {
		return err
	}
	if _, overflow := supply.AddOverflow(supply, asset.Amount); overflow {
		return lib.ErrAmountOverflow()
	}
	if err = s.setSupply(asset.Denom, supply); err != nil {
		return err
	}
	if err = s.AccountAdd(to, asset); err != nil {
		return err
	}
	s.emit(lib.NewEvent(EventTypeMint, AttrRecipient, to.String(), AttrAmount, asset.String()))
	return nil
}

// Burn() destroys units of a denom held by an address
func (s *StateMachine) Burn(from crypto.Address, asset lib.AssetAmount) lib.ErrorI {
	if asset.IsZero() {
		return nil
	}
	if err := s.AccountSub(from, asset); err != nil {
		return err
	}
	supply, err := s.GetSupply(asset.Denom)
	if err != nil {
		return err
	}
	// supply tracks every mint, so it always covers a holder's balance
	if supply.Lt(asset.Amount) {
		return lib.NewDefect(lib.CodeInsufficientFunds, lib.StateMachineModule, "supply of "+asset.Denom+" is below a holder balance")
	}
	if err = s.setSupply(asset.Denom, supply.Sub(supply, asset.Amount)); err != nil {
		return err
	}
	s.emit(lib.NewEvent(EventTypeBurn, AttrBurner, from.String(), AttrAmount, asset.String()))
	return nil
}

func (s *StateMachine) setSupply(denom string, amount *uint256.Int) lib.ErrorI {
	if amount.IsZero() {
		return s.Delete(KeyForSupply(denom))
	}
	bz := amount.Bytes32()
	return s.Set(KeyForSupply(denom), bz[:])
}

// ContractDenomPrefix() is the namespace of the denoms a contract may mint and burn
func ContractDenomPrefix(contract crypto.Address) string { return contract.String() + "/" }

// canMint() checks that a contract only touches its own namespaced denoms
func canMint(contract crypto.Address, denom string) lib.ErrorI {
	prefix := ContractDenomPrefix(contract)
	if !strings.HasPrefix(denom, prefix) || len(denom) == len(prefix) {
		return ErrUnauthorizedMint(contract.String(), denom)
	}
	return nil
}
