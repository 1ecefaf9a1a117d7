package fsm

import "github.com/canopy-network/lphelper/lib"

const (
	EventTypeTransfer    = "transfer"
	EventTypeMint        = "mint"
	EventTypeBurn        = "burn"
	EventTypeExecute     = "execute"
	EventTypeInstantiate = "instantiate"

	AttrSender    = "sender"
	AttrRecipient = "recipient"
	AttrBurner    = "burner"
	AttrAmount    = "amount"
	AttrContract  = "contract"
	AttrCode      = "code"
	AttrLabel     = "label"
)

// emit() appends an event to the transaction in flight
func (s *StateMachine) emit(e *lib.Event) { s.events = append(s.events, e) }

// EventExecute() records a contract invocation along with the attributes the contract reported
func (s *StateMachine) EventExecute(contract, sender string, attributes []lib.Attribute) {
	e := lib.NewEvent(EventTypeExecute, AttrContract, contract, AttrSender, sender)
	e.Attributes = append(e.Attributes, attributes...)
	s.emit(e)
}

// EventInstantiate() records the creation of a contract instance
func (s *StateMachine) EventInstantiate(contract, code, label string, attributes []lib.Attribute) {
	e := lib.NewEvent(EventTypeInstantiate, AttrContract, contract, AttrCode, code, AttrLabel, label)
	e.Attributes = append(e.Attributes, attributes...)
	s.emit(e)
}

// Events() returns the events of the transaction in flight
func (s *StateMachine) Events() []*lib.Event { return s.events }

// resetEvents() clears the events and returns the previous list
func (s *StateMachine) resetEvents() (previous []*lib.Event) {
	previous, s.events = s.events, nil
	return
}
