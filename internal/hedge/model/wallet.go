package model

import (
	"fmt"
	"strings"
)

// CashAddrPrefix is the human readable part of mainnet Bitcoin Cash addresses.
const CashAddrPrefix = "bitcoincash:"

// Wallet is one configured (unit of account, wallet) pairing.
// Address is used for balance lookups, PrivateKeyWIF for contract discovery.
// Either may be empty.
type Wallet struct {
	Currency      Currency
	Address       string
	PrivateKeyWIF string
}

// HasAddress reports whether a balance can be looked up for the wallet.
func (w Wallet) HasAddress() bool {
	return w.Address != "" && w.Address != CashAddrPrefix
}

// HasKey reports whether the wallet carries key material for contract discovery.
func (w Wallet) HasKey() bool {
	return strings.TrimSpace(w.PrivateKeyWIF) != ""
}

// UnmarshalFlag parses the CURRENCY/ADDRESS/WIF form used on the command line.
// Trailing parts may be omitted.
func (w *Wallet) UnmarshalFlag(value string) error {
	parts := strings.Split(value, "/")
	if len(parts) == 0 || len(parts) > 3 {
		return fmt.Errorf("wallet %q: expected CURRENCY/ADDRESS/WIF", value)
	}
	currency, err := ParseCurrency(parts[0])
	if err != nil {
		return fmt.Errorf("wallet %q: %w", value, err)
	}
	w.Currency = currency
	w.Address = ""
	w.PrivateKeyWIF = ""
	if len(parts) > 1 {
		w.Address = NormalizeAddress(parts[1])
	}
	if len(parts) > 2 {
		w.PrivateKeyWIF = strings.TrimSpace(parts[2])
	}
	return nil
}

// String hides key material.
func (w Wallet) String() string {
	return fmt.Sprintf("%s/%s", w.Currency, w.Address)
}

// NormalizeAddress returns a lower-case cashaddr with the mainnet prefix.
func NormalizeAddress(address string) string {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return ""
	}
	if strings.HasPrefix(address, CashAddrPrefix) {
		return address
	}
	return CashAddrPrefix + address
}

// SameAddress compares two cashaddrs ignoring prefix and case.
func SameAddress(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizeAddress(a) == NormalizeAddress(b)
}
