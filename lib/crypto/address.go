package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	AddressSize = 20
	HashSize    = sha256.Size

	contractAddressDomain = "contract/"
	accountAddressDomain  = "account/"
)

// Hash() is sha256; it identifies transactions and keys ledger state
func Hash(msg []byte) []byte {
	h := sha256.Sum256(msg)
	return h[:]
}

// ShortHash() is Hash() truncated to an address
func ShortHash(msg []byte) []byte { return Hash(msg)[:AddressSize] }

// HashString() is the hex form of Hash()
func HashString(msg []byte) string { return hex.EncodeToString(Hash(msg)) }

// Address identifies an account or a contract on the ledger, 20 bytes rendered in hex
type Address []byte

// NewAddress() copies the bytes into an Address
func NewAddress(b []byte) Address {
	out := make(Address, len(b))
	copy(out, b)
	return out
}

// NewAddressFromString() decodes a hex address
func NewAddressFromString(s string) (Address, error) {
	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, err
	}
	if len(bz) != AddressSize {
		return nil, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(bz))
	}
	return bz, nil
}

// NewContractAddress() derives the address of a contract instance from its label
func NewContractAddress(label string) Address {
	h := sha3.Sum256([]byte(contractAddressDomain + label))
	return NewAddress(h[:AddressSize])
}

// NewAccountAddress() derives a deterministic developer account address from a name
func NewAccountAddress(name string) Address {
	return ShortHash([]byte(accountAddressDomain + name))
}

func (a Address) Bytes() []byte         { return a }
func (a Address) String() string        { return hex.EncodeToString(a) }
func (a Address) Equals(e Address) bool { return bytes.Equal(a, e) }
func (a Address) Empty() bool           { return len(a) == 0 }

func (a Address) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

// Validate() checks the length of the address
func (a Address) Validate() error {
	if len(a) != AddressSize {
		return fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(a))
	}
	return nil
}

func (a *Address) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	addr, err := NewAddressFromString(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a Address) MarshalYAML() (any, error) { return a.String(), nil }

func (a *Address) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	addr, err := NewAddressFromString(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
