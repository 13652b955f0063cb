// Package wallet derives Bitcoin Cash addresses from wallet key material.
package wallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	bchcfg "github.com/gcash/bchd/chaincfg"
	"github.com/gcash/bchutil"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

var netParams = &bchcfg.MainNetParams

// AddressFromWIF returns the P2PKH cashaddr of the key encoded in wif.
func AddressFromWIF(wif string) (string, error) {
	decoded, err := btcutil.DecodeWIF(strings.TrimSpace(wif))
	if err != nil {
		return "", fmt.Errorf("decode wif: %w", err)
	}
	return P2PKHAddress(btcutil.Hash160(decoded.SerializePubKey()))
}

// P2PKHAddress encodes a 20 byte public key hash.
func P2PKHAddress(pubKeyHash []byte) (string, error) {
	addr, err := bchutil.NewAddressPubKeyHash(pubKeyHash, netParams)
	if err != nil {
		return "", fmt.Errorf("encode p2pkh address: %w", err)
	}
	return model.NormalizeAddress(addr.EncodeAddress()), nil
}

// P2SHAddress encodes a 20 or 32 byte script hash.
func P2SHAddress(scriptHash []byte) (string, error) {
	if len(scriptHash) == p2sh32HashSize {
		return encodeP2SH32(scriptHash)
	}
	addr, err := bchutil.NewAddressScriptHashFromHash(scriptHash, netParams)
	if err != nil {
		return "", fmt.Errorf("encode p2sh address: %w", err)
	}
	return model.NormalizeAddress(addr.EncodeAddress()), nil
}

// Normalize validates address and returns it as a prefixed lower-case cashaddr.
func Normalize(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" || strings.EqualFold(address, model.CashAddrPrefix) {
		return "", nil
	}
	addr, err := decode(address)
	if err != nil {
		return "", err
	}
	return model.NormalizeAddress(addr.EncodeAddress()), nil
}

// decode parses a mainnet P2PKH or P2SH cashaddr.
func decode(address string) (bchutil.Address, error) {
	addr, err := bchutil.DecodeAddress(strings.ToLower(strings.TrimSpace(address)), netParams)
	if err != nil {
		return nil, fmt.Errorf("address %q: %w", address, err)
	}
	if !addr.IsForNet(netParams) {
		return nil, fmt.Errorf("address %q: not a mainnet address", address)
	}
	switch addr.(type) {
	case *bchutil.AddressPubKeyHash, *bchutil.AddressScriptHash:
		return addr, nil
	default:
		return nil, fmt.Errorf("address %q: unsupported address type %T", address, addr)
	}
}
