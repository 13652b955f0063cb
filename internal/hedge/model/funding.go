package model

// ContractFunding classifies one wallet transaction independently of the wallet asking.
// ContractAddress is nil when the transaction has no contract output. SpentFrom lists
// the addresses its inputs were spent from, when the detail source reported them.
type ContractFunding struct {
	TxID            string   `json:"txId"`
	PreFundingTxID  string   `json:"preFundingTxId"`
	ContractAddress *string  `json:"contractAddress"`
	SpentFrom       []string `json:"spentFrom,omitempty"`
}

// IsContract reports whether the transaction pays a hedge contract.
func (f ContractFunding) IsContract() bool {
	return f.ContractAddress != nil && *f.ContractAddress != ""
}

// FundedFrom reports whether the transaction funded its contract from address.
// Records without input addresses count for every wallet whose history lists them.
func (f ContractFunding) FundedFrom(address string) bool {
	if !f.IsContract() {
		return false
	}
	if len(f.SpentFrom) == 0 {
		return true
	}
	for _, from := range f.SpentFrom {
		if SameAddress(from, address) {
			return true
		}
	}
	return false
}

// Address returns the contract address or an empty string.
func (f ContractFunding) Address() string {
	if f.ContractAddress == nil {
		return ""
	}
	return *f.ContractAddress
}
