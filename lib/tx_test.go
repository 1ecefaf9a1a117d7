package lib

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/canopy-network/lphelper/lib/crypto"
	"github.com/stretchr/testify/require"
)

func TestMessageCheck(t *testing.T) {
	to := crypto.NewAccountAddress("to")
	funds := Basket{NewAssetAmount("uatom", 10)}
	tests := []struct {
		name     string
		detail   string
		msg      *Message
		expected ErrorI
	}{
		{
			name:   "send",
			detail: "a valid transfer",
			msg:    NewSendMessage(to, funds),
		},
		{
			name:   "execute without funds",
			detail: "funds are optional on an execution",
			msg:    &Message{Execute: &MessageExecute{Contract: to, Msg: json.RawMessage(`{}`)}},
		},
		{
			name:     "nil",
			detail:   "a message must set exactly one field",
			msg:      nil,
			expected: ErrInvalidArgument(errors.New("")),
		},
		{
			name:   "two fields",
			detail: "a message must set exactly one field",
			msg: &Message{
				Send:    &MessageSend{To: to, Amount: funds},
				Execute: &MessageExecute{Contract: to, Msg: json.RawMessage(`{}`)},
			},
			expected: ErrInvalidArgument(errors.New("")),
		},
		{
			name:     "bad recipient",
			detail:   "the recipient is not address sized",
			msg:      NewSendMessage(crypto.Address{0x1}, funds),
			expected: ErrInvalidAddress(errors.New("")),
		},
		{
			name:     "empty transfer",
			detail:   "a transfer must move something",
			msg:      NewSendMessage(to, nil),
			expected: ErrEmptyBasket(),
		},
		{
			name:     "invalid execute json",
			detail:   "the contract message must be json",
			msg:      &Message{Execute: &MessageExecute{Contract: to, Msg: json.RawMessage(`{`)}},
			expected: ErrInvalidArgument(errors.New("")),
		},
		{
			name:     "instantiate without label",
			detail:   "a contract instance needs a code and a label",
			msg:      &Message{Instantiate: &MessageInstantiate{Code: "pair", Msg: json.RawMessage(`{}`)}},
			expected: ErrInvalidArgument(errors.New("")),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.msg.Check()
			if test.expected == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, ErrorIs(err, test.expected), err)
		})
	}
}

func TestMessageName(t *testing.T) {
	require.Equal(t, MessageSendName, NewSendMessage(nil, nil).Name())
	msg, err := NewExecuteMessage(nil, map[string]any{"a": 1}, nil)
	require.NoError(t, err)
	require.Equal(t, MessageExecuteName, msg.Name())
	require.JSONEq(t, `{"a":1}`, string(msg.Execute.Msg))
	msg, err = NewInstantiateMessage("pair", "label", struct{}{})
	require.NoError(t, err)
	require.Equal(t, MessageInstantiateName, msg.Name())
	require.Empty(t, (*Message)(nil).Name())
}

func TestTxResultEvents(t *testing.T) {
	result := &TxResult{Events: []*Event{
		NewEvent("transfer", "amount", "1uatom"),
		NewEvent("execute", "action", "provide", "dangling"),
		NewEvent("transfer", "amount", "2uatom"),
	}}
	require.True(t, result.Success())
	transfers := result.EventsOf("transfer")
	require.Len(t, transfers, 2)
	amount, ok := transfers[1].Get("amount")
	require.True(t, ok)
	require.Equal(t, "2uatom", amount)
	// an odd trailing key is dropped
	execute := result.EventsOf("execute")[0]
	require.Len(t, execute.Attributes, 1)
	_, ok = execute.Get("dangling")
	require.False(t, ok)
}
