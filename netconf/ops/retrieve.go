package ops

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/client"
	"github.com/pkg/errors"
)

// Get retrieves running configuration and device state information.
type Get struct {
	rpc
}

// NewGet delivers a Get operation that submits via s.
func NewGet(s client.Session) *Get {
	return &Get{rpc{session: s}}
}

// Request issues a get request. A nil filter retrieves everything.
func (o *Get) Request(filter *Filter) (*GetReply, error) {
	body := etree.NewElement("get")
	if err := appendFilter(body, filter); err != nil {
		return nil, err
	}
	return o.request(body)
}

// GetConfig retrieves all or part of a configuration datastore.
type GetConfig struct {
	rpc
}

// NewGetConfig delivers a GetConfig operation that submits via s.
func NewGetConfig(s client.Session) *GetConfig {
	return &GetConfig{rpc{session: s}}
}

// Request issues a get-config request against source, which is the name of a datastore
// or a url. A nil filter retrieves the whole configuration.
func (o *GetConfig) Request(source string, filter *Filter) (*GetReply, error) {
	body := etree.NewElement("get-config")
	if err := o.appendSource(body, source); err != nil {
		return nil, err
	}
	if err := appendFilter(body, filter); err != nil {
		return nil, err
	}
	return o.request(body)
}

// Dispatch issues an arbitrary, typically vendor specific, retrieval rpc.
type Dispatch struct {
	rpc
}

// NewDispatch delivers a Dispatch operation that submits via s.
func NewDispatch(s client.Session) *Dispatch {
	return &Dispatch{rpc{session: s}}
}

// Request issues the rpc defined by command, which may be:
//   - a string naming the rpc, e.g. "clear-arp-table",
//   - an *etree.Element defining the rpc body, which is copied, or
//   - a struct with xml tags, which is marshalled as the rpc body.
//
// source and filter are added to the rpc body when defined; source is ignored if empty.
func (o *Dispatch) Request(command interface{}, source string, filter *Filter) (*GetReply, error) {
	body, err := commandElement(command)
	if err != nil {
		return nil, err
	}
	if source != "" {
		if err = o.appendSource(body, source); err != nil {
			return nil, err
		}
	}
	if err = appendFilter(body, filter); err != nil {
		return nil, err
	}
	return o.request(body)
}

func commandElement(command interface{}) (*etree.Element, error) {
	const op = "dispatch"
	switch v := command.(type) {
	case string:
		if v == "" || strings.ContainsAny(v, " \t\r\n<>/\"'&=") {
			return nil, requestError(op, "command", nil, "%q is not an element name", v)
		}
		return etree.NewElement(v), nil
	case *etree.Element:
		if v == nil {
			return nil, requestError(op, "command", nil, "nil element")
		}
		return v.Copy(), nil
	case nil:
		return nil, requestError(op, "command", nil, "no command")
	default:
		b, err := marshalStruct(v)
		if err != nil {
			return nil, requestError(op, "command", err, "%v", err)
		}
		doc := etree.NewDocument()
		if err = doc.ReadFromBytes(b); err != nil || doc.Root() == nil {
			return nil, requestError(op, "command", err, "%T does not marshal to an element", v)
		}
		return doc.Root(), nil
	}
}

// SendCommand submits a complete, pre-built rpc element verbatim. Unlike the other operations
// it adds no envelope, and delivers the reply as a parsed document rather than a Reply.
type SendCommand struct {
	rpc
}

// NewSendCommand delivers a SendCommand operation that submits via s.
func NewSendCommand(s client.Session) *SendCommand {
	return &SendCommand{rpc{session: s}}
}

// Request submits command and parses the reply. A reply that is not well formed xml is
// reported as an error wrapping ErrMalformedReply.
func (o *SendCommand) Request(command *etree.Element) (*etree.Document, error) {
	if command == nil {
		return nil, requestError("send-command", "command", nil, "nil element")
	}
	raw, err := o.session.Submit(command)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err = doc.ReadFromString(raw); err != nil {
		return nil, errors.Wrap(ErrMalformedReply, err.Error())
	}
	if doc.Root() == nil {
		return nil, errors.Wrap(ErrMalformedReply, "no root element")
	}
	return doc, nil
}
