// Package node reads transactions from a Bitcoin Cash full node over JSON-RPC.
package node

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/wallet"
)

const serviceName = "node"

// Source is a transaction detail source. Input recipients and values are resolved
// from the spent outputs, so the node needs -txindex.
type Source struct {
	rpc RPCClient
}

func NewSource(rpc RPCClient) *Source {
	return &Source{rpc: rpc}
}

// FetchTransactions returns the records of txids in request order.
func (s *Source) FetchTransactions(ctx context.Context, txids []string) ([]model.Transaction, error) {
	prevouts := make(map[string]*btcjson.TxRawResult)
	txs := make([]model.Transaction, 0, len(txids))
	for _, txid := range txids {
		raw, err := s.get(ctx, txid)
		if err != nil {
			return nil, err
		}
		tx, err := s.convert(ctx, raw, prevouts)
		if err != nil {
			return nil, err
		}
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (s *Source) get(ctx context.Context, txid string) (*btcjson.TxRawResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, fmt.Errorf("txid %q: %w", txid, err)
	}
	raw, err := s.rpc.GetRawTransactionVerbose(hash)
	if err != nil {
		return nil, model.NewNetworkError(serviceName, fmt.Errorf("get transaction %s: %w", txid, err))
	}
	if raw == nil {
		return nil, model.NewDataIntegrityError(fmt.Sprintf("transaction %s: empty rpc result", txid))
	}
	return raw, nil
}

func (s *Source) convert(ctx context.Context, raw *btcjson.TxRawResult, prevouts map[string]*btcjson.TxRawResult) (model.Transaction, error) {
	tx := model.Transaction{
		TxID:    raw.Txid,
		Inputs:  make([]model.TransactionInput, 0, len(raw.Vin)),
		Outputs: make([]model.TransactionOutput, 0, len(raw.Vout)),
	}

	for _, vin := range raw.Vin {
		if vin.IsCoinBase() {
			continue
		}
		in := model.TransactionInput{PrevTxID: vin.Txid, PrevIndex: vin.Vout}

		prev, ok := prevouts[vin.Txid]
		if !ok {
			var err error
			prev, err = s.get(ctx, vin.Txid)
			if err != nil {
				return model.Transaction{}, err
			}
			prevouts[vin.Txid] = prev
		}
		spent, err := findVout(prev, vin.Vout)
		if err != nil {
			return model.Transaction{}, err
		}
		out, err := convertOutput(prev.Txid, spent)
		if err != nil {
			return model.Transaction{}, err
		}
		in.Recipient, in.Value, in.ScriptType = out.Recipient, out.Value, out.ScriptType
		tx.Inputs = append(tx.Inputs, in)
	}

	for _, vout := range raw.Vout {
		out, err := convertOutput(raw.Txid, vout)
		if err != nil {
			return model.Transaction{}, err
		}
		tx.Outputs = append(tx.Outputs, out)
	}
	return tx, nil
}

func findVout(raw *btcjson.TxRawResult, n uint32) (btcjson.Vout, error) {
	for _, vout := range raw.Vout {
		if vout.N == n {
			return vout, nil
		}
	}
	return btcjson.Vout{}, model.NewDataIntegrityError(fmt.Sprintf("transaction %s has no output %d", raw.Txid, n))
}

func convertOutput(txid string, vout btcjson.Vout) (model.TransactionOutput, error) {
	value, err := BchToSatoshis(vout.Value)
	if err != nil {
		return model.TransactionOutput{}, fmt.Errorf("tx %s output %d value: %w", txid, vout.N, err)
	}
	decoded, err := wallet.DecodeScript(vout.ScriptPubKey.Hex)
	if err != nil {
		return model.TransactionOutput{}, fmt.Errorf("tx %s output %d: %w", txid, vout.N, err)
	}
	return model.TransactionOutput{
		Index:      vout.N,
		Recipient:  decoded.Recipient,
		Value:      value,
		ScriptType: decoded.Type,
		ScriptHex:  vout.ScriptPubKey.Hex,
	}, nil
}
