package lib

import (
	"encoding/json"
	"fmt"

	"github.com/canopy-network/lphelper/lib/crypto"
)

/* This file defines the transaction, message and result types shared by the ledger, the controller and the rpc */

// Transaction is a list of messages applied atomically on behalf of a single sender
type Transaction struct {
	Sender   crypto.Address `json:"sender"`
	Messages []*Message     `json:"messages"`
	Memo     string         `json:"memo,omitempty"`
	Nonce    uint64         `json:"nonce,omitempty"` // distinguishes otherwise identical transactions
}

// Message is a tagged union over the messages the ledger understands; exactly one field is set
type Message struct {
	Send        *MessageSend        `json:"send,omitempty"`
	Execute     *MessageExecute     `json:"execute,omitempty"`
	Instantiate *MessageInstantiate `json:"instantiate,omitempty"`
}

// MessageSend transfers funds from the sender to an address
type MessageSend struct {
	To     crypto.Address `json:"to"`
	Amount Basket         `json:"amount"`
}

// MessageExecute escrows funds into a contract and invokes it with a json message
type MessageExecute struct {
	Contract crypto.Address  `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    Basket          `json:"funds,omitempty"`
}

// MessageInstantiate creates a new contract instance of a registered code
type MessageInstantiate struct {
	Code  string          `json:"code"`
	Label string          `json:"label"`
	Msg   json.RawMessage `json:"msg"`
	Funds Basket          `json:"funds,omitempty"`
}

// NewSendMessage() creates a transfer message
func NewSendMessage(to crypto.Address, amount Basket) *Message {
	return &Message{Send: &MessageSend{To: to, Amount: amount}}
}

// NewExecuteMessage() json encodes msg and wraps it in an execute message
func NewExecuteMessage(contract crypto.Address, msg any, funds Basket) (*Message, ErrorI) {
	bz, err := MarshalJSON(msg)
	if err != nil {
		return nil, err
	}
	return &Message{Execute: &MessageExecute{Contract: contract, Msg: bz, Funds: funds}}, nil
}

// NewInstantiateMessage() json encodes msg and wraps it in an instantiate message
func NewInstantiateMessage(code, label string, msg any) (*Message, ErrorI) {
	bz, err := MarshalJSON(msg)
	if err != nil {
		return nil, err
	}
	return &Message{Instantiate: &MessageInstantiate{Code: code, Label: label, Msg: bz}}, nil
}

// Name() returns the tag of the populated field
func (m *Message) Name() string {
	switch {
	case m == nil:
		return ""
	case m.Send != nil:
		return MessageSendName
	case m.Execute != nil:
		return MessageExecuteName
	case m.Instantiate != nil:
		return MessageInstantiateName
	}
	return ""
}

const (
	MessageSendName        = "send"
	MessageExecuteName     = "execute"
	MessageInstantiateName = "instantiate"
)

// Check() performs stateless validation of the message
func (m *Message) Check() ErrorI {
	set := 0
	for _, populated := range []bool{m != nil && m.Send != nil, m != nil && m.Execute != nil, m != nil && m.Instantiate != nil} {
		if populated {
			set++
		}
	}
	if set != 1 {
		return ErrInvalidArgument(fmt.Errorf("message must have exactly one field set, got %d", set))
	}
	switch {
	case m.Send != nil:
		if err := m.Send.To.Validate(); err != nil {
			return ErrInvalidAddress(err)
		}
		return m.Send.Amount.Validate()
	case m.Execute != nil:
		if err := m.Execute.Contract.Validate(); err != nil {
			return ErrInvalidAddress(err)
		}
		if !json.Valid(m.Execute.Msg) {
			return ErrInvalidArgument(fmt.Errorf("execute msg is not valid json"))
		}
		if len(m.Execute.Funds) == 0 {
			return nil
		}
		return m.Execute.Funds.Validate()
	default:
		if m.Instantiate.Code == "" || m.Instantiate.Label == "" {
			return ErrInvalidArgument(fmt.Errorf("instantiate requires a code and a label"))
		}
		if !json.Valid(m.Instantiate.Msg) {
			return ErrInvalidArgument(fmt.Errorf("instantiate msg is not valid json"))
		}
		if len(m.Instantiate.Funds) == 0 {
			return nil
		}
		return m.Instantiate.Funds.Validate()
	}
}

// Event is a typed list of attributes emitted while applying a transaction
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Attribute is a single key value pair of an event
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewEvent() creates an event from alternating key value pairs
func NewEvent(eventType string, kvs ...string) *Event {
	e := &Event{Type: eventType}
	for i := 0; i+1 < len(kvs); i += 2 {
		e.Attributes = append(e.Attributes, Attribute{Key: kvs[i], Value: kvs[i+1]})
	}
	return e
}

// Get() returns the first attribute value under key
func (e *Event) Get(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// TxResult is the outcome of applying a transaction
type TxResult struct {
	TxHash    string       `json:"txHash"`
	RequestID string       `json:"requestID,omitempty"`
	Height    uint64       `json:"height"`
	Sender    string       `json:"sender"`
	Messages  []string     `json:"messages"`
	Events    []*Event     `json:"events,omitempty"`
	Error     *Error       `json:"error,omitempty"`
	Tx        *Transaction `json:"transaction,omitempty"`
}

// Success() is true when every message of the transaction applied
func (x *TxResult) Success() bool { return x.Error == nil }

// EventsOf() filters the events by type
func (x *TxResult) EventsOf(eventType string) (out []*Event) {
	for _, e := range x.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return
}
