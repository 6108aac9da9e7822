package common

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	assert "github.com/stretchr/testify/require"
)

func TestRPCErrorString(t *testing.T) {

	err := &RPCError{
		Severity: "Severity",
		Message:  "Message",
	}

	assert.Equal(t, "netconf rpc [Severity] 'Message'", err.Error())
}

func TestNewRPCError(t *testing.T) {

	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromString(`<rpc-error>
  <error-type>application</error-type>
  <error-tag>invalid-value</error-tag>
  <error-severity>error</error-severity>
  <error-path>/top/leaf</error-path>
  <error-message xml:lang="en">bad value</error-message>
  <error-info><bad-element>leaf</bad-element></error-info>
</rpc-error>`))

	err := NewRPCError(doc.Root())
	assert.Equal(t, "application", err.Type)
	assert.Equal(t, "invalid-value", err.Tag)
	assert.Equal(t, SeverityError, err.Severity)
	assert.Equal(t, "/top/leaf", err.Path)
	assert.Equal(t, "bad value", err.Message)
	assert.Equal(t, "<bad-element>leaf</bad-element>", err.Info)
	assert.Same(t, doc.Root(), err.Element)
	assert.True(t, err.IsError())
	assert.Nil(t, err.Unwrap())
}

func TestSyntheticRPCError(t *testing.T) {

	cause := errors.New("unexpected EOF")
	err := SyntheticRPCError(TagMalformedMessage, cause)

	assert.Equal(t, TagMalformedMessage, err.Tag)
	assert.Equal(t, "unexpected EOF", err.Message)
	assert.Nil(t, err.Element)
	assert.True(t, errors.Is(err, cause))
}

func TestPeerSupportsChunkedFraming(t *testing.T) {
	assert.False(t, PeerSupportsChunkedFraming([]string{NetconfNS, NetconfNotifyNS, CapBase10}))
	assert.True(t, PeerSupportsChunkedFraming([]string{NetconfNS, NetconfNotifyNS, CapBase11}))
}

func TestSupportsCapability(t *testing.T) {
	assert.True(t, SupportsCapability(DefaultCapabilities, ":candidate"))
	assert.True(t, SupportsCapability(DefaultCapabilities, ":url"))
	assert.True(t, SupportsCapability([]string{"urn:ietf:params:netconf:capability:startup:1.1"}, ":startup"))
	assert.False(t, SupportsCapability([]string{CapBase10, CapBase11}, ":candidate"))
	assert.False(t, SupportsCapability([]string{"http://example.com/candidate"}, ":candidate"))
}

func TestInnerXML(t *testing.T) {

	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromString(`<get><filter type="subtree"><top/></filter>text</get>`))

	assert.Equal(t, `<filter type="subtree"><top/></filter>text`, InnerXML(doc.Root()))
	assert.Equal(t, ``, InnerXML(etree.NewElement("empty")))
	assert.Equal(t, `<get><filter type="subtree"><top/></filter>text</get>`, toXMLString(t, doc),
		"Source element should be unchanged")
}

func toXMLString(t *testing.T, doc *etree.Document) string {
	s, err := doc.WriteToString()
	assert.NoError(t, err)
	return s
}
