package client

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/common"
	"github.com/damianoneill/ncops/netconf/device"
	"github.com/damianoneill/ncops/netconf/rfc6242"
	"github.com/pkg/errors"
)

// ErrHelloTimeout is reported when the server does not send its hello in time.
var ErrHelloTimeout = errors.New("failed to get hello from server")

// Session represents a Netconf Session
type Session interface {
	// Submit sends the rpc envelope to the server and returns the raw text of the reply.
	// Submit is synchronous; concurrent calls are serialised.
	Submit(envelope *etree.Element) (string, error)

	// Close closes the session and releases any associated resources.
	Close()

	// ID delivers the server-allocated id of the session.
	ID() uint64

	// ServerCapabilities delivers the server-supplied capabilities.
	ServerCapabilities() []string

	// Profile delivers the device profile that the session was established with.
	Profile() *device.Profile
}

type sesImpl struct {
	cfg     *Config
	t       Transport
	dec     *rfc6242.Decoder
	enc     *rfc6242.Encoder
	trace   *ClientTrace
	profile *device.Profile

	hello   *common.HelloMessage
	reqLock sync.Mutex

	target string
}

// NewSession creates a new Netconf session, using the supplied Transport, and exchanges
// hello messages with the server. The capabilities advertised are those of the profile.
func NewSession(ctx context.Context, t Transport, profile *device.Profile, cfg *Config) (Session, error) {

	si := &sesImpl{
		cfg:     cfg,
		t:       t,
		dec:     rfc6242.NewDecoder(t),
		enc:     rfc6242.NewEncoder(t),
		trace:   ContextClientTrace(ctx),
		profile: profile,
	}
	if ti, ok := t.(*tImpl); ok {
		si.target = ti.target
	}

	// Send hello
	err := si.sendHello()
	if err != nil {
		si.trace.Error("Failed to encode hello", si.target, err)
		si.Close()
		return nil, err
	}

	err = si.waitForServerHello()
	if err != nil {
		si.trace.Error("Failed to receive hello", si.target, err)
		si.Close()
		return nil, err
	}
	return si, nil
}

func (si *sesImpl) Submit(envelope *etree.Element) (reply string, err error) {

	si.trace.SubmitStart(envelope)
	defer func(begin time.Time) {
		si.trace.SubmitDone(envelope, reply, err, time.Since(begin))
	}(time.Now())

	msg, err := serialise(envelope)
	if err != nil {
		return "", err
	}

	// Only one request may be outstanding; the next rpc-reply belongs to it.
	si.reqLock.Lock()
	defer si.reqLock.Unlock()

	if err = si.enc.WriteMessage(msg); err != nil {
		si.trace.Error("Failed to send request", si.target, err)
		return "", err
	}
	return si.readReply()
}

func (si *sesImpl) readReply() (string, error) {
	for {
		msg, err := si.dec.ReadMessage()
		if err != nil {
			si.trace.Error("Failed to read reply", si.target, err)
			return "", err
		}

		name, err := rootName(msg)
		if err != nil {
			// Leave malformed content to the caller to diagnose.
			return string(msg), nil
		}
		if name.Local == common.NameRPCReply.Local {
			return string(msg), nil
		}
		si.trace.MessageSkipped(si.target, name.Local)
	}
}

func (si *sesImpl) Close() {
	err := si.t.Close()
	if err != nil {
		si.trace.Error("Session close failed", si.target, err)
	}
}

func (si *sesImpl) ID() uint64 {
	return si.hello.SessionID
}

func (si *sesImpl) ServerCapabilities() []string {
	return si.hello.Capabilities
}

func (si *sesImpl) Profile() *device.Profile {
	return si.profile
}

func (si *sesImpl) sendHello() error {
	caps := si.profile.Capabilities()
	if si.cfg.DisableChunkedCodec {
		caps = withoutCapability(caps, common.CapBase11)
	}

	b, err := xml.Marshal(&common.HelloMessage{Capabilities: caps})
	if err != nil {
		return err
	}
	return si.enc.WriteMessage(append([]byte(xml.Header), b...))
}

func (si *sesImpl) waitForServerHello() (err error) {

	type result struct {
		msg []byte
		err error
	}
	rchan := make(chan result, 1)
	go func() {
		msg, err := si.dec.ReadMessage()
		rchan <- result{msg, err}
	}()

	var r result
	select {
	case r = <-rchan:
	case <-time.After(time.Duration(si.cfg.SetupTimeoutSecs) * time.Second):
		return ErrHelloTimeout
	}
	if r.err != nil {
		return errors.Wrap(r.err, "failed to read server hello")
	}

	hello := &common.HelloMessage{}
	if err = xml.Unmarshal(r.msg, hello); err != nil {
		return errors.Wrap(err, "failed to decode server hello")
	}
	si.hello = hello

	if !si.cfg.DisableChunkedCodec && common.PeerSupportsChunkedFraming(hello.Capabilities) {
		// Update the codec to use chunked framing from now.
		rfc6242.SetChunkedFraming(si.dec, si.enc)
	}

	si.trace.HelloDone(hello)
	return nil
}

func serialise(envelope *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(envelope.Copy())

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to serialise request")
	}
	return buf.Bytes(), nil
}

// rootName delivers the name of the first element in msg.
func rootName(msg []byte) (xml.Name, error) {
	d := xml.NewDecoder(bytes.NewReader(msg))
	for {
		token, err := d.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return xml.Name{}, err
		}
		if start, ok := token.(xml.StartElement); ok {
			return start.Name, nil
		}
	}
}

func withoutCapability(caps []string, capability string) []string {
	out := caps[:0]
	for _, c := range caps {
		if c != capability {
			out = append(out, c)
		}
	}
	return out
}
