package testserver

import (
	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/common"
)

// RequestHandler is a function type that will be invoked by the session handler to handle an RPC
// request.
type RequestHandler func(h *SessionHandler, req *RPCRequest)

// EchoRequestHandler responds to a request with a reply containing a data element holding
// the content of the requested operation.
var EchoRequestHandler = func(h *SessionHandler, req *RPCRequest) {
	reply := etree.NewElement("rpc-reply")
	data := reply.CreateElement("data")
	if req.Operation != nil {
		for _, child := range req.Operation.Copy().ChildElements() {
			data.AddChild(child)
		}
	}
	_ = h.Reply(req, reply)
}

// OkRequestHandler responds to a request with an ok acknowledgement.
var OkRequestHandler = func(h *SessionHandler, req *RPCRequest) {
	reply := etree.NewElement("rpc-reply")
	reply.CreateElement("ok")
	_ = h.Reply(req, reply)
}

// FailingRequestHandler replies to a request with an error.
var FailingRequestHandler = ErrorRequestHandler(common.SeverityError, "oops")

// ErrorRequestHandler delivers a handler that replies with a single rpc-error.
func ErrorRequestHandler(severity, message string) RequestHandler {
	return func(h *SessionHandler, req *RPCRequest) {
		reply := etree.NewElement("rpc-reply")
		rpcErr := reply.CreateElement("rpc-error")
		rpcErr.CreateElement("error-type").SetText("application")
		rpcErr.CreateElement("error-tag").SetText(common.TagOperationFailed)
		rpcErr.CreateElement("error-severity").SetText(severity)
		rpcErr.CreateElement("error-message").SetText(message)
		_ = h.Reply(req, reply)
	}
}

// RawReplyHandler delivers a handler that replies with msg, verbatim.
func RawReplyHandler(msg string) RequestHandler {
	return func(h *SessionHandler, req *RPCRequest) {
		_ = h.Send([]byte(msg))
	}
}

// NotifyThenEchoRequestHandler sends a notification before echoing the request.
var NotifyThenEchoRequestHandler = func(h *SessionHandler, req *RPCRequest) {
	_ = h.Send([]byte(`<notification xmlns="` + common.NetconfNotifyNS + `"><eventTime>2026-01-01T00:00:00Z</eventTime><event/></notification>`))
	EchoRequestHandler(h, req)
}

// CloseRequestHandler closes the transport channel on request receipt.
var CloseRequestHandler = func(h *SessionHandler, req *RPCRequest) {
	h.Close()
}

// IgnoreRequestHandler does nothing on receipt of a request.
var IgnoreRequestHandler = func(h *SessionHandler, req *RPCRequest) {}

// DataRequestHandler delivers a handler that replies with a data element holding content, an
// xml fragment.
func DataRequestHandler(content string) RequestHandler {
	return func(h *SessionHandler, req *RPCRequest) {
		doc := etree.NewDocument()
		if err := doc.ReadFromString(`<rpc-reply><data>` + content + `</data></rpc-reply>`); err != nil {
			ErrorRequestHandler(common.SeverityError, err.Error())(h, req)
			return
		}
		_ = h.Reply(req, doc.Root())
	}
}
