package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/gcash/bchutil"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

// ScriptOutput is a classified locking script.
type ScriptOutput struct {
	Type      string
	Recipient string
}

// isP2SH32 matches OP_HASH256 <32 bytes> OP_EQUAL, which txscript does not know about.
func isP2SH32(script []byte) bool {
	return len(script) == 35 &&
		script[0] == txscript.OP_HASH256 &&
		script[1] == txscript.OP_DATA_32 &&
		script[34] == txscript.OP_EQUAL
}

// DecodeScript classifies a hex locking script. Recipient is set for pay-to-pubkey-hash
// and pay-to-script-hash scripts only.
func DecodeScript(scriptHex string) (ScriptOutput, error) {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return ScriptOutput{}, fmt.Errorf("decode script hex: %w", err)
	}

	if isP2SH32(script) {
		addr, err := P2SHAddress(script[2:34])
		if err != nil {
			return ScriptOutput{}, err
		}
		return ScriptOutput{Type: model.ScriptTypeScriptHash, Recipient: addr}, nil
	}

	class := txscript.GetScriptClass(script)
	out := ScriptOutput{Type: class.String()}
	switch class {
	case txscript.PubKeyHashTy, txscript.ScriptHashTy:
	default:
		return out, nil
	}

	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, &chaincfg.MainNetParams)
	if err != nil {
		return ScriptOutput{}, fmt.Errorf("extract script address: %w", err)
	}
	if len(addrs) != 1 {
		return out, nil
	}
	hash := addrs[0].ScriptAddress()
	if class == txscript.PubKeyHashTy {
		out.Recipient, err = P2PKHAddress(hash)
	} else {
		out.Recipient, err = P2SHAddress(hash)
	}
	if err != nil {
		return ScriptOutput{}, err
	}
	return out, nil
}

// LockingScript builds the output script paying to a P2PKH or 20 byte P2SH address.
func LockingScript(address string) ([]byte, error) {
	addr, err := decode(address)
	if err != nil {
		return nil, err
	}

	b := txscript.NewScriptBuilder()
	switch addr.(type) {
	case *bchutil.AddressPubKeyHash:
		b.AddOp(txscript.OP_DUP).AddOp(txscript.OP_HASH160).AddData(addr.ScriptAddress()).
			AddOp(txscript.OP_EQUALVERIFY).AddOp(txscript.OP_CHECKSIG)
	default:
		b.AddOp(txscript.OP_HASH160).AddData(addr.ScriptAddress()).AddOp(txscript.OP_EQUAL)
	}
	return b.Script()
}

// ElectrumScriptHash returns the script hash Electrum servers index addresses by:
// the sha256 of the locking script in reversed byte order.
func ElectrumScriptHash(address string) (string, error) {
	script, err := LockingScript(address)
	if err != nil {
		return "", err
	}
	return chainhash.HashH(script).String(), nil
}
