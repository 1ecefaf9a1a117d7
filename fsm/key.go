package fsm

import (
	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
)

/* key.go contains prefix keys logic for the underlying store */

var (
	balancePrefix       = []byte{1} // store key prefix for account balances
	supplyPrefix        = []byte{2} // store key prefix for the supply of each denom
	contractPrefix      = []byte{3} // store key prefix for contract instance metadata
	contractStatePrefix = []byte{4} // store key prefix for the private state of each contract
)

/*
- Prefixes group similar data in a schemaless key-value database environment

- Length prefixed append is used to be able to easily separate the segments of a key

- A contract's private state lives under its own segment so a contract can never address another's keys
*/

func BalancePrefix(address crypto.Address) []byte {
	return lib.JoinLenPrefix(balancePrefix, address.Bytes())
}
func KeyForBalance(address crypto.Address, denom string) []byte {
	return lib.JoinLenPrefix(balancePrefix, address.Bytes(), []byte(denom))
}
func KeyForSupply(denom string) []byte { return lib.JoinLenPrefix(supplyPrefix, []byte(denom)) }
func ContractPrefix() []byte           { return lib.JoinLenPrefix(contractPrefix) }
func KeyForContract(address crypto.Address) []byte {
	return lib.JoinLenPrefix(contractPrefix, address.Bytes())
}
func ContractStatePrefix(address crypto.Address) []byte {
	return lib.JoinLenPrefix(contractStatePrefix, address.Bytes())
}

// DenomFromBalanceKey() extracts the denom segment of a balance key
func DenomFromBalanceKey(key []byte) string {
	segments := lib.DecodeLengthPrefixed(key)
	return string(segments[len(segments)-1])
}
