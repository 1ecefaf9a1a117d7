package fsm

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

/* This file contains transaction handling logic */

// ApplyTransaction() applies every message of a transaction as a single unit
// the messages run inside one txn over the root store: the txn is written only if every message
// (and every message they dispatch) succeeds, otherwise nothing the transaction did is kept
// a result is always returned; err is the reason the transaction failed
func (s *StateMachine) ApplyTransaction(tx *lib.Transaction) (result *lib.TxResult, err lib.ErrorI) {
	hash, err := TxHash(tx)
	if err != nil {
		return nil, err
	}
	result = &lib.TxResult{TxHash: hash, Height: s.height, Tx: tx}
	if tx != nil {
		result.Sender = tx.Sender.String()
		for _, m := range tx.Messages {
			result.Messages = append(result.Messages, m.Name())
		}
	}
	defer func() {
		if err != nil {
			result.Error = asError(err)
		}
	}()
	if err = s.CheckTransaction(tx); err != nil {
		return
	}
	if _, ok := s.store.(lib.StoreI); !ok {
		return result, ErrWrongStoreType()
	}
	txn, previous := s.TxnWrap()
	s.resetEvents()
	defer s.SetStore(previous)
	if err = s.applyMessages(tx); err != nil {
		txn.Discard()
		s.resetEvents()
		return
	}
	if err = txn.Write(); err != nil {
		return
	}
	result.Events = s.resetEvents()
	return
}

// applyMessages() runs the messages in order and converts a panic of any contract into an error
func (s *StateMachine) applyMessages(tx *lib.Transaction) (err lib.ErrorI) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("panic recovered while applying transaction: %v\n%s", r, string(debug.Stack()))
			err = lib.ErrPanic()
		}
	}()
	for _, m := range tx.Messages {
		if err = s.HandleMessage(tx.Sender, m, 0); err != nil {
			return
		}
	}
	return
}

// CheckTransaction() performs stateless validation of a transaction
func (s *StateMachine) CheckTransaction(tx *lib.Transaction) lib.ErrorI {
	if tx == nil || len(tx.Messages) == 0 {
		return ErrEmptyTransaction()
	}
	if err := tx.Sender.Validate(); err != nil {
		return lib.ErrInvalidAddress(err)
	}
	for i, m := range tx.Messages {
		if err := m.Check(); err != nil {
			return ErrInvalidMessage(fmt.Errorf("message %d: %s", i, err.Error()))
		}
	}
	return nil
}

// TxHash() is the hex sha256 of the deterministic protobuf encoding of the transaction's json form
// structpb gives the json a canonical binary layout with sorted keys
func TxHash(tx *lib.Transaction) (string, lib.ErrorI) {
	bz, err := lib.MarshalJSON(tx)
	if err != nil {
		return "", err
	}
	var fields map[string]any
	if err = lib.UnmarshalJSON(bz, &fields); err != nil {
		return "", err
	}
	st, e := structpb.NewStruct(fields)
	if e != nil {
		return "", lib.ErrProtoMarshal(e)
	}
	canonical, e := proto.MarshalOptions{Deterministic: true}.Marshal(st)
	if e != nil {
		return "", lib.ErrProtoMarshal(e)
	}
	return crypto.HashString(canonical), nil
}

// asError() converts an ErrorI into the serializable error of a result
func asError(err lib.ErrorI) *lib.Error {
	var e *lib.Error
	if errors.As(err, &e) {
		return e
	}
	return lib.NewError(err.Code(), err.Module(), err.Error())
}
