package common

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Defines the names and message structures shared by the netconf packages.

// HelloMessage defines the message sent/received during session negotiation.
type HelloMessage struct {
	XMLName      xml.Name `xml:"urn:ietf:params:xml:ns:netconf:base:1.0 hello"`
	Capabilities []string `xml:"capabilities>capability"`
	SessionID    uint64   `xml:"session-id,omitempty"`
}

// RPCError defines an error entry carried by an rpc-reply.
type RPCError struct {
	Type     string `xml:"error-type"`
	Tag      string `xml:"error-tag"`
	Severity string `xml:"error-severity"`
	Path     string `xml:"error-path"`
	Message  string `xml:"error-message"`
	Info     string `xml:"error-info"`

	// Element is the rpc-error element the entry was extracted from; nil for synthetic errors.
	Element *etree.Element `xml:"-"`

	cause error
}

// NewRPCError builds an RPCError from an rpc-error element.
func NewRPCError(el *etree.Element) *RPCError {
	e := &RPCError{Element: el}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "error-type":
			e.Type = child.Text()
		case "error-tag":
			e.Tag = child.Text()
		case "error-severity":
			e.Severity = child.Text()
		case "error-path":
			e.Path = child.Text()
		case "error-message":
			e.Message = child.Text()
		case "error-info":
			e.Info = InnerXML(child)
		}
	}
	return e
}

// SyntheticRPCError builds an RPCError that stands in for a failure detected locally,
// such as a reply that could not be parsed.
func SyntheticRPCError(tag string, cause error) *RPCError {
	return &RPCError{
		Type:     ErrorTypeRPC,
		Tag:      tag,
		Severity: SeverityError,
		Message:  cause.Error(),
		cause:    cause,
	}
}

// Error generates a string representation of the RPC error
func (re *RPCError) Error() string {
	return fmt.Sprintf("netconf rpc [%s] '%s'", re.Severity, re.Message)
}

// Unwrap delivers the local cause of a synthetic error, if any.
func (re *RPCError) Unwrap() error {
	return re.cause
}

// IsError reports whether the entry has error (rather than warning) severity.
func (re *RPCError) IsError() bool {
	return re.Severity == SeverityError
}

// InnerXML delivers the serialised content of el, excluding el itself.
func InnerXML(el *etree.Element) string {
	doc := etree.NewDocument()
	children := append([]etree.Token(nil), el.Copy().Child...)
	for _, child := range children {
		doc.AddChild(child)
	}
	// Writes to memory do not fail.
	s, _ := doc.WriteToString()
	return s
}

// Rpc error types, severities and tags used by this library.
const (
	ErrorTypeRPC        = "rpc"
	SeverityError       = "error"
	SeverityWarning     = "warning"
	TagMalformedMessage = "malformed-message"
	TagOperationFailed  = "operation-failed"
)

// Configuration datastores.
const (
	RunningCfg   = "running"
	CandidateCfg = "candidate"
	StartupCfg   = "startup"
)

// Define xml names for different netconf messages.
var (
	NameHello        = xml.Name{Space: NetconfNS, Local: "hello"}
	NameRPC          = xml.Name{Space: NetconfNS, Local: "rpc"}
	NameRPCReply     = xml.Name{Space: NetconfNS, Local: "rpc-reply"}
	NameNotification = xml.Name{Space: NetconfNotifyNS, Local: "notification"}
)

// Define netconf URNs.
const (
	NetconfNS       = "urn:ietf:params:xml:ns:netconf:base:1.0"
	NetconfNotifyNS = "urn:ietf:params:xml:ns:netconf:notification:1.0"

	CapBase10           = "urn:ietf:params:netconf:base:1.0"
	CapBase11           = "urn:ietf:params:netconf:base:1.1"
	CapWritableRunning  = "urn:ietf:params:netconf:capability:writable-running:1.0"
	CapCandidate        = "urn:ietf:params:netconf:capability:candidate:1.0"
	CapConfirmedCommit  = "urn:ietf:params:netconf:capability:confirmed-commit:1.0"
	CapRollbackOnError  = "urn:ietf:params:netconf:capability:rollback-on-error:1.0"
	CapStartup          = "urn:ietf:params:netconf:capability:startup:1.0"
	CapURL              = "urn:ietf:params:netconf:capability:url:1.0?scheme=http,ftp,file,https,sftp"
	CapValidate         = "urn:ietf:params:netconf:capability:validate:1.0"
	CapXpath            = "urn:ietf:params:netconf:capability:xpath:1.0"
	CapNotification     = "urn:ietf:capability:notification:1.0"
	CapInterleave       = "urn:ietf:params:netconf:capability:interleave:1.0"
	CapWithDefaults     = "urn:ietf:params:netconf:capability:with-defaults:1.0"
	capabilityURNPrefix = "urn:ietf:params:netconf:capability:"
)

// DefaultCapabilities defines the capabilities advertised by the client library, before
// any vendor adjustment.
var DefaultCapabilities = []string{
	CapBase10,
	CapBase11,
	CapWritableRunning,
	CapCandidate,
	CapConfirmedCommit,
	CapRollbackOnError,
	CapStartup,
	CapURL,
	CapValidate,
	CapXpath,
	CapNotification,
	CapInterleave,
	CapWithDefaults,
}

// PeerSupportsChunkedFraming returns true if capability list indicates support for chunked framing.
func PeerSupportsChunkedFraming(caps []string) bool {
	for _, capability := range caps {
		if capability == CapBase11 {
			return true
		}
	}
	return false
}

// SupportsCapability reports whether caps contains the capability identified by the
// abbreviated name, e.g. ":candidate" or ":url". Parameters following a '?' are ignored, and
// any version is accepted.
func SupportsCapability(caps []string, name string) bool {
	for _, capability := range caps {
		if abbreviate(capability) == name {
			return true
		}
	}
	return false
}

func abbreviate(uri string) string {
	if !strings.HasPrefix(uri, capabilityURNPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(uri, capabilityURNPrefix)
	if i := strings.IndexAny(rest, ":?"); i >= 0 {
		rest = rest[:i]
	}
	return ":" + rest
}
