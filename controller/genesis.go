package controller

import (
	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/helper"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/holiman/uint256"
)

/* This file contains the developer genesis written to a fresh data directory */

const (
	FactoryLabel = "factory"
	HelperLabel  = "helper"
)

var (
	// FaucetAddress funds the default genesis and seeds its pools
	FaucetAddress = crypto.NewAccountAddress("faucet")
	// FeeAddress receives the maker fees of the default factory
	FeeAddress = crypto.NewAccountAddress("fees")
)

// FactoryAddress() is the address of the factory in the default genesis
func FactoryAddress() crypto.Address { return crypto.NewContractAddress(FactoryLabel) }

// HelperAddress() is the address of the helper in the default genesis
func HelperAddress() crypto.Address { return crypto.NewContractAddress(HelperLabel) }

// DefaultPairs() are the pairs the default factory creates
func DefaultPairs() []dex.CreatePairMsg {
	return []dex.CreatePairMsg{
		{Denoms: []string{"uatom", "uusdc"}, PairType: lib.PairTypeXyk},
		{Denoms: []string{"uusdc", "uusdt"}, PairType: lib.PairTypeStable},
	}
}

// DefaultGenesis() is a funded faucet, a factory with a seeded xyk and stable pair, and a helper bound to the factory
func DefaultGenesis() (*fsm.GenesisState, lib.ErrorI) {
	factoryMsg, err := fsm.GenesisMsg(dex.FactoryInstantiateMsg{
		FeeAddress: FeeAddress,
		PairConfigs: []dex.PairConfig{
			{PairType: lib.PairTypeXyk, TotalFeeBps: 30, MakerFeeBps: 10},
			{PairType: lib.PairTypeStable, TotalFeeBps: 5, MakerFeeBps: 2},
		},
		Pairs: DefaultPairs(),
	})
	if err != nil {
		return nil, err
	}
	helperMsg, err := fsm.GenesisMsg(helper.InstantiateMsg{Factory: FactoryAddress()})
	if err != nil {
		return nil, err
	}
	genesis := &fsm.GenesisState{
		Balances: []*fsm.GenesisBalance{{
			Address: FaucetAddress,
			Coins:   []string{"1000000000000uatom", "1000000000000uusdc", "1000000000000uusdt"},
		}},
		Contracts: []*fsm.GenesisContract{
			{Code: dex.FactoryCode, Label: FactoryLabel, Msg: factoryMsg},
			{Code: helper.Code, Label: HelperLabel, Msg: helperMsg},
		},
	}
	// seed every pair from the faucet
	seeds := map[lib.PairType]lib.Basket{
		lib.PairTypeXyk: {
			{Denom: "uatom", Amount: uint256.NewInt(1_000_000_000)},
			{Denom: "uusdc", Amount: uint256.NewInt(10_000_000_000)},
		},
		lib.PairTypeStable: {
			{Denom: "uusdc", Amount: uint256.NewInt(5_000_000_000)},
			{Denom: "uusdt", Amount: uint256.NewInt(5_000_000_000)},
		},
	}
	for _, p := range DefaultPairs() {
		assets := seeds[p.PairType]
		msg, e := fsm.GenesisMsg(dex.PairExecuteMsg{ProvideLiquidity: &dex.ProvideLiquidityMsg{Assets: assets}})
		if e != nil {
			return nil, e
		}
		var funds []string
		for _, a := range assets {
			funds = append(funds, a.String())
		}
		genesis.Executions = append(genesis.Executions, &fsm.GenesisExecution{
			Sender:   FaucetAddress,
			Contract: dex.PairAddress(FactoryAddress(), p.Denoms, p.PairType),
			Msg:      msg,
			Funds:    funds,
		})
	}
	return genesis, nil
}
