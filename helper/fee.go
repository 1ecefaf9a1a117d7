package helper

import (
	"fmt"

	"github.com/canopy-network/lphelper/dex"
	"github.com/canopy-network/lphelper/fsm"
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
)

// QueryFeeInfo() asks the factory for the fee schedule of a pool type and converts it into rates
func QueryFeeInfo(q fsm.QuerierI, factory crypto.Address, pairType lib.PairType) (*FeeInfo, lib.ErrorI) {
	resp, err := queryFeeBps(q, factory, pairType)
	if err != nil {
		return nil, err
	}
	return &FeeInfo{FeeAddress: resp.FeeAddress, TotalFeeRate: resp.TotalFeeRate, MakerFeeRate: resp.MakerFeeRate}, nil
}

// queryFeeBps() performs the factory fee_info query and validates the bps it returns
func queryFeeBps(q fsm.QuerierI, factory crypto.Address, pairType lib.PairType) (*FeeInfoResponse, lib.ErrorI) {
	raw := new(dex.FeeInfoResponse)
	if err := q.QuerySmart(factory, dex.FactoryQueryMsg{FeeInfo: &dex.FeeInfoQuery{PairType: pairType}}, raw); err != nil {
		return nil, ErrUpstreamQueryFailure(err)
	}
	return FeeInfoFromBps(raw)
}

// FeeInfoFromBps() converts a factory bps answer into rates, rejecting out of range values
func FeeInfoFromBps(raw *dex.FeeInfoResponse) (*FeeInfoResponse, lib.ErrorI) {
	if raw.TotalFeeBps > dex.MaxFeeBps || raw.MakerFeeBps > raw.TotalFeeBps {
		return nil, ErrUpstreamQueryFailure(fmt.Errorf("malformed fee info: total %d bps, maker %d bps", raw.TotalFeeBps, raw.MakerFeeBps))
	}
	return &FeeInfoResponse{
		FeeAddress:   raw.FeeAddress,
		TotalFeeBps:  raw.TotalFeeBps,
		MakerFeeBps:  raw.MakerFeeBps,
		TotalFeeRate: dex.BpsToRate(raw.TotalFeeBps),
		MakerFeeRate: dex.BpsToRate(raw.MakerFeeBps),
	}, nil
}
