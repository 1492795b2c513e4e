package domain

import (
	"fmt"

	"github.com/bft-labs/telebus/pkg/propbag"
)

// Signal and reply bodies that are not a single property bag are reshaped
// here into one before table decoding.

// DecodePropertyChange decodes a PropertyChanged body: (name, value).
func DecodePropertyChange(body []propbag.Variant) (PropertyChange, propbag.Report, error) {
	if len(body) != 2 {
		return PropertyChange{}, propbag.Report{}, fmt.Errorf("%w: PropertyChanged has %d arguments", propbag.ErrMalformed, len(body))
	}
	name, ok := body[0].AsString()
	if !ok || name == "" {
		return PropertyChange{}, propbag.Report{}, fmt.Errorf("%w: PropertyChanged name is %s", propbag.ErrMalformed, body[0].Kind())
	}
	if !body[1].Valid() {
		return PropertyChange{}, propbag.Report{}, fmt.Errorf("%w: PropertyChanged %s has no value", propbag.ErrMalformed, name)
	}
	return PropertyChange{Name: name, Value: body[1]}, propbag.Report{}, nil
}

// DecodeIncomingMessage decodes an IncomingMessage or ImmediateMessage
// body: (text, info).
func DecodeIncomingMessage(body []propbag.Variant) (MessageInfo, propbag.Report, error) {
	if len(body) != 2 {
		return MessageInfo{}, propbag.Report{}, fmt.Errorf("%w: message signal has %d arguments", propbag.ErrMalformed, len(body))
	}
	info, ok := body[1].AsBag()
	if !ok {
		return MessageInfo{}, propbag.Report{}, fmt.Errorf("%w: message info is %s", propbag.ErrMalformed, body[1].Kind())
	}
	bag := make(propbag.Bag, 0, len(info)+1)
	bag = append(bag, propbag.Prop("Text", body[0]))
	bag = append(bag, info...)
	return propbag.DecodeRecord(bag, MessageInfoTable)
}

// DecodeContextAdded decodes a ContextAdded body: (path, properties).
func DecodeContextAdded(body []propbag.Variant) (ApnContext, propbag.Report, error) {
	if len(body) != 2 {
		return ApnContext{}, propbag.Report{}, fmt.Errorf("%w: ContextAdded has %d arguments", propbag.ErrMalformed, len(body))
	}
	path, ok := body[0].AsString()
	if !ok {
		return ApnContext{}, propbag.Report{}, fmt.Errorf("%w: ContextAdded path is %s", propbag.ErrMalformed, body[0].Kind())
	}
	props, ok := body[1].AsBag()
	if !ok {
		return ApnContext{}, propbag.Report{}, fmt.Errorf("%w: ContextAdded properties are %s", propbag.ErrMalformed, body[1].Kind())
	}
	return propbag.DecodeEntry(propbag.Entry{ObjectID: path, Props: props}, ApnContextTable)
}

// DecodeSsInitiate decodes the reply of SupplementaryServices.Initiate:
// (type, result). A USSD result is a string; anything else is an
// (operation, service, ...) structure.
func DecodeSsInitiate(body []propbag.Variant) (SsInitiateInfo, propbag.Report, error) {
	if len(body) != 2 {
		return SsInitiateInfo{}, propbag.Report{}, fmt.Errorf("%w: Initiate reply has %d arguments", propbag.ErrMalformed, len(body))
	}
	bag := propbag.Bag{propbag.Prop("Type", body[0])}
	switch body[1].Kind() {
	case propbag.KindString:
		bag = append(bag, propbag.Prop("Message", body[1]))
	case propbag.KindArray:
		parts, _ := body[1].AsArray()
		if len(parts) < 2 {
			return SsInitiateInfo{}, propbag.Report{}, fmt.Errorf("%w: Initiate result has %d fields", propbag.ErrMalformed, len(parts))
		}
		bag = append(bag, propbag.Prop("Operation", parts[0]), propbag.Prop("Service", parts[1]))
	default:
		return SsInitiateInfo{}, propbag.Report{}, fmt.Errorf("%w: Initiate result is %s", propbag.ErrMalformed, body[1].Kind())
	}
	return propbag.DecodeRecord(bag, SsInitiateInfoTable)
}
