package telebus

import (
	"github.com/bft-labs/telebus/internal/correlation"
	"github.com/bft-labs/telebus/internal/domain"
	"github.com/bft-labs/telebus/internal/payload"
)

// SendMessage queues text for number. The result is the object path of the
// outgoing message.
func (s *Session) SendMessage(slot Slot, number, text string, cb Callback[string]) error {
	if err := required(domain.OpSendMessage, "number", number); err != nil {
		return err
	}
	if err := required(domain.OpSendMessage, "text", text); err != nil {
		return err
	}
	return call(s, request{
		op:     domain.OpSendMessage,
		slot:   slot,
		iface:  MessageManager,
		member: "SendMessage",
		params: []any{number, text},
	}, payload.String(), cb)
}

// GetMessages lists the messages pending in the outgoing queue, up to
// Config.MaxMessages.
func (s *Session) GetMessages(slot Slot, cb Callback[[]MessageInfo]) error {
	return call(s, request{
		op:     domain.OpGetMessages,
		slot:   slot,
		iface:  MessageManager,
		member: "GetMessages",
	}, payload.List(domain.MessageInfoTable, s.listCap(func(c Config) int { return c.MaxMessages })), cb)
}

// GetServiceCenter reads the SMS service center address.
func (s *Session) GetServiceCenter(slot Slot, cb Callback[string]) error {
	return call(s, request{
		op:     domain.OpGetServiceCenter,
		slot:   slot,
		iface:  MessageManager,
		kind:   correlation.KindGetProperty,
		member: "ServiceCenterAddress",
	}, payload.String(), cb)
}

// SetServiceCenter sets the SMS service center address.
func (s *Session) SetServiceCenter(slot Slot, address string, cb Callback[struct{}]) error {
	if err := required(domain.OpSetServiceCenter, "address", address); err != nil {
		return err
	}
	return call(s, request{
		op:     domain.OpSetServiceCenter,
		slot:   slot,
		iface:  MessageManager,
		kind:   correlation.KindSetProperty,
		member: "ServiceCenterAddress",
		params: []any{address},
	}, payload.Empty(), cb)
}

// WatchIncomingMessage delivers every received short message.
func (s *Session) WatchIncomingMessage(slot Slot, cb Callback[MessageInfo]) (WatchID, error) {
	return watch(s, domain.OpWatchIncomingMessage, slot, MessageManager, "IncomingMessage",
		payload.Func(domain.DecodeIncomingMessage), cb)
}

// WatchImmediateMessage delivers every received class 0 (flash) message.
func (s *Session) WatchImmediateMessage(slot Slot, cb Callback[MessageInfo]) (WatchID, error) {
	return watch(s, domain.OpWatchImmediateMessage, slot, MessageManager, "ImmediateMessage",
		payload.Func(domain.DecodeIncomingMessage), cb)
}
