package ops

import (
	"encoding/xml"
	"testing"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/device"
	"github.com/damianoneill/ncops/netconf/mocks"
	"github.com/stretchr/testify/mock"
)

func newOpsSessionWithMockClient(t *testing.T) (OpSession, *mocks.Session) {
	return newOpsSessionWithProfile(t, device.Default())
}

func newOpsSessionWithProfile(t *testing.T, profile *device.Profile, caps ...string) (OpSession, *mocks.Session) {
	mockClient := mocks.NewSession(t)
	mockClient.On("Profile").Return(profile).Maybe()
	mockClient.On("ServerCapabilities").Return(caps).Maybe()
	return &sImpl{mockClient}, mockClient
}

// submitted records the envelope passed to the mock session.
type submitted struct {
	env *etree.Element
}

func expectSubmit(mcli *mocks.Session, reply string, err error) *submitted {
	s := &submitted{}
	mcli.On("Submit", mock.Anything).Run(func(args mock.Arguments) {
		s.env = args.Get(0).(*etree.Element)
	}).Return(reply, err).Once()
	return s
}

func (s *submitted) body() *etree.Element {
	return s.env.ChildElements()[0]
}

func (s *submitted) bodyXML() string {
	return toXML(s.body())
}

func toXML(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, _ := doc.WriteToString()
	return s
}

const dataReply = `<rpc-reply xmlns="urn:ietf:params:xml:ns:netconf:base:1.0" message-id="1"><data><element attr1="ABC"/></data></rpc-reply>`

type Element struct {
	XMLName xml.Name `xml:"element"`
	Attr1   string   `xml:"attr1,attr"`
}
