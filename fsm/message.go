package fsm

import (
	"fmt"

	"github.com/canopy-network/lphelper/lib"
	"github.com/canopy-network/lphelper/lib/crypto"
)

/* This file contains the message handlers; contract responses are dispatched depth-first */

// HandleMessage() routes a message to its handler
// every message a contract returns is applied, together with its own sub-messages, before the next sibling
func (s *StateMachine) HandleMessage(sender crypto.Address, msg *lib.Message, depth int) lib.ErrorI {
	if depth > s.Config.MaxDepth {
		return ErrMaxDepth(s.Config.MaxDepth)
	}
	if err := msg.Check(); err != nil {
		return err
	}
	switch {
	case msg.Send != nil:
		return s.HandleMessageSend(sender, msg.Send)
	case msg.Execute != nil:
		return s.HandleMessageExecute(sender, msg.Execute, depth)
	case msg.Instantiate != nil:
		return s.HandleMessageInstantiate(sender, msg.Instantiate, depth)
	default:
		return ErrUnknownMessage(msg.Name())
	}
}

// HandleMessageSend() is the message handler for a transfer
func (s *StateMachine) HandleMessageSend(sender crypto.Address, msg *lib.MessageSend) lib.ErrorI {
	return s.Transfer(sender, msg.To, msg.Amount)
}

// HandleMessageExecute() escrows the funds into the contract, invokes it and dispatches its response
func (s *StateMachine) HandleMessageExecute(sender crypto.Address, msg *lib.MessageExecute, depth int) lib.ErrorI {
	info, code, err := s.loadCode(msg.Contract)
	if err != nil {
		return err
	}
	if len(msg.Funds) != 0 {
		if err = s.Transfer(sender, info.Address, msg.Funds); err != nil {
			return err
		}
	}
	resp, err := code.Execute(s.newEnv(info.Address, sender, msg.Funds, depth), msg.Msg)
	if err != nil {
		return err
	}
	if resp == nil {
		resp = NewResponse()
	}
	s.EventExecute(info.Address.String(), sender.String(), resp.Attributes)
	return s.dispatch(info.Address, resp.Messages, depth)
}

// HandleMessageInstantiate() creates a contract instance at the address derived from the label
func (s *StateMachine) HandleMessageInstantiate(sender crypto.Address, msg *lib.MessageInstantiate, depth int) lib.ErrorI {
	if !validLabel(msg.Label) {
		return ErrInvalidMessage(fmt.Errorf("invalid label %q", msg.Label))
	}
	code, ok := s.codes[msg.Code]
	if !ok {
		return ErrUnknownCode(msg.Code)
	}
	address := crypto.NewContractAddress(msg.Label)
	existing, err := s.Get(KeyForContract(address))
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateContract(address.String())
	}
	info := &ContractInfo{Address: address, Code: msg.Code, Label: msg.Label, Creator: sender, Height: s.height}
	if err = setJSON(s.store, KeyForContract(address), info); err != nil {
		return err
	}
	if len(msg.Funds) != 0 {
		if err = s.Transfer(sender, address, msg.Funds); err != nil {
			return err
		}
	}
	resp, err := code.Instantiate(s.newEnv(address, sender, msg.Funds, depth), msg.Msg)
	if err != nil {
		return err
	}
	if resp == nil {
		resp = NewResponse()
	}
	s.EventInstantiate(address.String(), msg.Code, msg.Label, resp.Attributes)
	return s.dispatch(address, resp.Messages, depth)
}

// dispatch() applies the messages a contract returned, in order, with the contract as the sender
func (s *StateMachine) dispatch(contract crypto.Address, messages []*lib.Message, depth int) lib.ErrorI {
	for _, m := range messages {
		if err := s.HandleMessage(contract, m, depth+1); err != nil {
			return err
		}
	}
	return nil
}
