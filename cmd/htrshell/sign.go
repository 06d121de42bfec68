// SPDX-License-Identifier: MIT
// Copyright (C) 2026 Hathor Labs

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/HathorNetwork/ledger-app-hathor/internal/hathor"
)

// txFile is the JSON transaction description the sign command reads. Values
// are in centi-HTR. At most one output may carry change_key_index, which
// marks it as change returned to the device's own wallet; the device
// verifies it instead of showing it to the operator.
type txFile struct {
	Tokens  []string `json:"tokens"`
	Inputs  []struct {
		TxID     string `json:"tx_id"`
		Index    uint8  `json:"index"`
		KeyIndex uint32 `json:"key_index"`
	} `json:"inputs"`
	Outputs []struct {
		Address        string  `json:"address"`
		Value          uint64  `json:"value"`
		TokenData      uint8   `json:"token_data"`
		ChangeKeyIndex *uint32 `json:"change_key_index"`
	} `json:"outputs"`
}

func (s *shellState) cmdSign(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sign <tx.json>")
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read transaction file: %w", err)
	}
	var file txFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("malformed transaction file: %w", err)
	}

	tx, change, keyIndexes, err := buildTransaction(&file)
	if err != nil {
		return err
	}

	data, err := hathor.SignRequestData(tx, change)
	if err != nil {
		return err
	}

	fmt.Printf("Streaming transaction (%d inputs, %d outputs), review on the device...\n",
		len(tx.Inputs), len(tx.Outputs))
	sigs, err := s.client.SignTx(data, keyIndexes)
	if err != nil {
		return err
	}

	for i, sig := range sigs {
		fmt.Printf("Input %d (key %d): %s\n", i, keyIndexes[i], hex.EncodeToString(sig))
	}
	return nil
}

func buildTransaction(file *txFile) (*hathor.Transaction, *hathor.ChangeInfo, []uint32, error) {
	if len(file.Inputs) == 0 {
		return nil, nil, nil, fmt.Errorf("transaction has no inputs")
	}
	if len(file.Outputs) == 0 {
		return nil, nil, nil, fmt.Errorf("transaction has no outputs")
	}

	tx := &hathor.Transaction{Version: hathor.TxVersion}

	for _, tok := range file.Tokens {
		uid, err := hex.DecodeString(tok)
		if err != nil || len(uid) != 32 {
			return nil, nil, nil, fmt.Errorf("invalid token uid %q", tok)
		}
		var u [32]byte
		copy(u[:], uid)
		tx.Tokens = append(tx.Tokens, u)
	}

	keyIndexes := make([]uint32, 0, len(file.Inputs))
	for _, in := range file.Inputs {
		txid, err := hex.DecodeString(in.TxID)
		if err != nil || len(txid) != 32 {
			return nil, nil, nil, fmt.Errorf("invalid input tx id %q", in.TxID)
		}
		input := hathor.Input{Index: in.Index}
		copy(input.TxID[:], txid)
		tx.Inputs = append(tx.Inputs, input)
		keyIndexes = append(keyIndexes, in.KeyIndex)
	}

	var change *hathor.ChangeInfo
	for i, out := range file.Outputs {
		output, err := hathor.NewP2PKHOutput(out.Value, out.Address)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("output %d: %w", i, err)
		}
		output.TokenData = out.TokenData
		tx.Outputs = append(tx.Outputs, output)

		if out.ChangeKeyIndex != nil {
			if change != nil {
				return nil, nil, nil, fmt.Errorf("more than one change output declared")
			}
			change = &hathor.ChangeInfo{OutputIndex: uint8(i), KeyIndex: *out.ChangeKeyIndex}
		}
	}
	return tx, change, keyIndexes, nil
}
