// Package model holds the hedge domain types shared across packages.
package model

import (
	"fmt"
	"strings"
)

type Currency string

var (
	USD Currency = "USD"
	EUR Currency = "EUR"
	INR Currency = "INR"
	CNY Currency = "CNY"
	XAU Currency = "XAU"
	XAG Currency = "XAG"
	BTC Currency = "BTC"
	ETH Currency = "ETH"
)

// OracleKeys maps a unit of account to the public key of its production price oracle.
var OracleKeys = map[Currency]string{
	USD: "02d09db08af1ff4e8453919cc866a4be427d7bfe18f2c05e5444c196fcf6fd2818",
	EUR: "02bb9b3324df889a66a57bc890b3452b84a2a74ba753f8842b06bba03e0fa0dfc5",
	INR: "02e82ad82eb88fcdfd02fd5e2e0a67bc6ef4139bbcb63ce0b107a7604deb9f7ce1",
	CNY: "030654b9598186fe4bc9e1b0490c6b85b13991cdb9a7afa34af1bbeee22a35487a",
	XAU: "021f8338ccd45a7790025de198a266f252ac43c95bf81d2469feff110beeac89dd",
	XAG: "02712c349ebb7555b17bdbbe9f7aad5a337fa4179d0680eec3f6c8d77bac9cfa79",
	BTC: "0245a107de5c6aabc9e7b976f26625b01474f90d1a7d11c180bec990b6938e731e",
	ETH: "038ab22e37cf020f6bbef40111ddc51083a936f0821de56ac01f799cf15b87904d",
}

// ParseCurrency resolves a case-insensitive currency code.
func ParseCurrency(value string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := OracleKeys[c]; !ok {
		return "", fmt.Errorf("unsupported currency %q", value)
	}
	return c, nil
}

// OracleKey returns the oracle public key for the currency.
func (c Currency) OracleKey() (string, error) {
	key, ok := OracleKeys[c]
	if !ok {
		return "", fmt.Errorf("no oracle key for currency %q", c)
	}
	return key, nil
}
