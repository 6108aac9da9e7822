package testserver

import (
	"bytes"
	"encoding/xml"
	"io"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/common"
	"github.com/damianoneill/ncops/netconf/rfc6242"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

// SessionHandler represents the server side of an active netconf SSH session.
type SessionHandler struct {
	server *TestNCServer
	trace  *Trace

	// ch is the underlying transport channel.
	ch ssh.Channel

	// The codecs used to handle client i/o
	enc *rfc6242.Encoder
	dec *rfc6242.Decoder

	// Serialises access to encoder.
	encLock sync.Mutex

	// The capabilities advertised to the client.
	capabilities []string
	// The session id to be reported to the client.
	sid uint64
	// silent suppresses the server hello.
	silent bool

	// startwg is released once the client hello has been received, or the session fails.
	startwg sync.WaitGroup

	// The HelloMessage sent by the connecting client.
	ClientHello *common.HelloMessage

	reqLock     sync.Mutex
	reqHandlers []RequestHandler
	requests    []*RPCRequest
}

// RPCRequest represents an rpc request received from a client.
type RPCRequest struct {
	// Envelope is the rpc element.
	Envelope *etree.Element
	// MessageID is the message-id attribute of the envelope.
	MessageID string
	// Operation is the first child element of the envelope.
	Operation *etree.Element
	// Raw is the message as received.
	Raw string
}

// Name delivers the local name of the requested operation.
func (r *RPCRequest) Name() string {
	if r.Operation == nil {
		return ""
	}
	return r.Operation.Tag
}

// Body delivers the serialised content of the operation element.
func (r *RPCRequest) Body() string {
	if r.Operation == nil {
		return ""
	}
	return common.InnerXML(r.Operation)
}

func newSessionHandler(s *TestNCServer, ch ssh.Channel, sid uint64, caps []string, handlers []RequestHandler) *SessionHandler {
	sh := &SessionHandler{
		server:       s,
		trace:        s.trace,
		ch:           ch,
		enc:          rfc6242.NewEncoder(ch),
		dec:          rfc6242.NewDecoder(ch),
		capabilities: caps,
		sid:          sid,
		reqHandlers:  append([]RequestHandler(nil), handlers...),
	}
	sh.startwg.Add(1)
	return sh
}

// Handle runs the netconf session until the channel is closed.
func (h *SessionHandler) Handle() {
	h.trace.StartSession(h)

	started := false
	defer func() {
		if !started {
			h.startwg.Done()
		}
		_ = h.ch.Close()
	}()

	if h.silent {
		// Hold the channel open without negotiating.
		_, err := io.Copy(io.Discard, h.ch)
		h.trace.EndSession(h, err)
		return
	}

	// Send server hello to client.
	err := h.encodeHello()
	if err == nil {
		if err = h.receiveHello(); err == nil {
			started = true
			h.startwg.Done()
			err = h.serveRequests()
		}
	}
	h.trace.EndSession(h, err)
}

// WaitStart waits until the client hello has been received, or the session has failed.
func (h *SessionHandler) WaitStart() {
	h.startwg.Wait()
}

// Close initiates session tear-down by closing the underlying transport channel.
func (h *SessionHandler) Close() {
	_ = h.ch.Close()
}

// ID delivers the session id allocated to the session.
func (h *SessionHandler) ID() uint64 {
	return h.sid
}

// ReqCount delivers the number of requests received by the session.
func (h *SessionHandler) ReqCount() int {
	h.reqLock.Lock()
	defer h.reqLock.Unlock()
	return len(h.requests)
}

// LastReq delivers the last request received by the session, or nil.
func (h *SessionHandler) LastReq() *RPCRequest {
	h.reqLock.Lock()
	defer h.reqLock.Unlock()
	if len(h.requests) == 0 {
		return nil
	}
	return h.requests[len(h.requests)-1]
}

// Reply sends an rpc-reply to the client. The reply element is completed with the base
// namespace and the message-id of the request.
func (h *SessionHandler) Reply(req *RPCRequest, reply *etree.Element) error {
	if reply.SelectAttr("xmlns") == nil {
		reply.CreateAttr("xmlns", common.NetconfNS)
	}
	if req != nil && req.MessageID != "" {
		reply.CreateAttr("message-id", req.MessageID)
	}
	doc := etree.NewDocument()
	doc.SetRoot(reply)
	b, err := doc.WriteToBytes()
	if err != nil {
		return err
	}
	return h.Send(b)
}

// Send sends msg to the client without interpretation.
func (h *SessionHandler) Send(msg []byte) error {
	h.encLock.Lock()
	defer h.encLock.Unlock()
	err := h.enc.WriteMessage(msg)
	h.trace.Encoded(h, err)
	return err
}

func (h *SessionHandler) encodeHello() error {
	b, err := xml.Marshal(&common.HelloMessage{Capabilities: h.capabilities, SessionID: h.sid})
	if err != nil {
		return err
	}
	return h.Send(append([]byte(xml.Header), b...))
}

func (h *SessionHandler) receiveHello() error {
	type result struct {
		hello *common.HelloMessage
		err   error
	}
	rchan := make(chan result, 1)
	go func() {
		msg, err := h.dec.ReadMessage()
		h.trace.Decoded(h, err)
		if err != nil {
			rchan <- result{err: err}
			return
		}
		hello := &common.HelloMessage{}
		err = xml.Unmarshal(msg, hello)
		rchan <- result{hello: hello, err: err}
	}()

	select {
	case r := <-rchan:
		if r.err != nil {
			return r.err
		}
		h.ClientHello = r.hello
	case <-time.After(5 * time.Second):
		return errors.New("timed out waiting for client hello")
	}

	if common.PeerSupportsChunkedFraming(h.ClientHello.Capabilities) && common.PeerSupportsChunkedFraming(h.capabilities) {
		// Update the codec to use chunked framing from now.
		rfc6242.SetChunkedFraming(h.dec, h.enc)
	}
	return nil
}

func (h *SessionHandler) serveRequests() error {
	for {
		msg, err := h.dec.ReadMessage()
		if err != nil {
			return err
		}

		req, err := parseRequest(msg)
		h.trace.Decoded(h, err)
		if err != nil {
			continue
		}
		h.nextHandler(req)(h, req)
	}
}

func (h *SessionHandler) nextHandler(req *RPCRequest) RequestHandler {
	h.reqLock.Lock()
	defer h.reqLock.Unlock()

	h.requests = append(h.requests, req)
	if len(h.reqHandlers) == 0 {
		return EchoRequestHandler
	}
	rh := h.reqHandlers[0]
	h.reqHandlers = h.reqHandlers[1:]
	return rh
}

func parseRequest(msg []byte) (*RPCRequest, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(bytes.TrimSpace(msg)); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil || root.Tag != common.NameRPC.Local {
		return nil, errors.New("request is not an rpc")
	}
	req := &RPCRequest{
		Envelope:  root,
		MessageID: root.SelectAttrValue("message-id", ""),
		Raw:       string(msg),
	}
	if children := root.ChildElements(); len(children) > 0 {
		req.Operation = children[0]
	}
	return req, nil
}
