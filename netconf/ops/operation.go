package ops

import (
	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/client"
	"github.com/damianoneill/ncops/netconf/common"
	"github.com/damianoneill/ncops/netconf/device"
	"github.com/google/uuid"
)

// rpc holds the behaviour shared by the operations: wrapping a request body in an
// envelope, submitting it, and wrapping the reply.
type rpc struct {
	session client.Session
}

// profile delivers the profile of the session, or the default profile if the session has none.
func (o *rpc) profile() *device.Profile {
	if p := o.session.Profile(); p != nil {
		return p
	}
	return device.Default()
}

// envelope builds the rpc element carrying body, with a fresh message-id and the
// namespace declarations of the device profile.
func (o *rpc) envelope(body *etree.Element) (*etree.Element, error) {
	attrs, err := o.profile().RequestAttrs()
	if err != nil {
		return nil, requestError(body.Tag, device.ParamNamespaces, err, "%v", err)
	}

	env := etree.NewElement(common.NameRPC.Local)
	env.CreateAttr("message-id", uuid.New().String())
	for _, a := range attrs {
		env.CreateAttr(a.Key, a.Value)
	}
	env.AddChild(body)
	return env, nil
}

// request submits body, and wraps the reply for retrieval.
func (o *rpc) request(body *etree.Element) (*GetReply, error) {
	env, err := o.envelope(body)
	if err != nil {
		return nil, err
	}
	raw, err := o.session.Submit(env)
	if err != nil {
		return nil, err
	}
	return NewGetReply(raw, o.session.Profile()), nil
}

// appendSource adds a source element to body, if source is defined.
func (o *rpc) appendSource(body *etree.Element, source string) error {
	el, err := datastoreOrURL(body.Tag, "source", source, o.session.ServerCapabilities())
	if err != nil {
		return err
	}
	body.AddChild(el)
	return nil
}

// appendFilter adds a filter element to body, if filter is defined.
func appendFilter(body *etree.Element, filter *Filter) error {
	if filter == nil {
		return nil
	}
	el, err := filter.build(body.Tag)
	if err != nil {
		return err
	}
	body.AddChild(el)
	return nil
}
