package model

import "fmt"

// ScriptTypeScriptHash is the script type reported for pay-to-script-hash outputs.
const ScriptTypeScriptHash = "scripthash"

// Transaction is a fully fetched transaction with its inputs and outputs.
type Transaction struct {
	TxID    string
	Inputs  []TransactionInput
	Outputs []TransactionOutput
}

// TransactionInput references the output it spends.
type TransactionInput struct {
	PrevTxID   string
	PrevIndex  uint32
	Recipient  string
	Value      uint64
	ScriptType string
}

// TransactionOutput is a single output of a transaction.
type TransactionOutput struct {
	Index      uint32
	Recipient  string
	Value      uint64
	ScriptType string
	ScriptHex  string
}

// Validate rejects records that came back without inputs or outputs.
func (t Transaction) Validate() error {
	if len(t.Inputs) == 0 || len(t.Outputs) == 0 {
		return NewDataIntegrityError(fmt.Sprintf("transaction %s returned with empty inputs or outputs", t.TxID))
	}
	return nil
}
