package client

import (
	"context"
	"log"
	"time"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/common"
	"github.com/imdario/mergo"
	"golang.org/x/crypto/ssh"
)

// unique type to prevent assignment.
type clientEventContextKey struct{}

// ContextClientTrace returns the Trace associated with the
// provided context. If none, it returns the no-op hooks.
func ContextClientTrace(ctx context.Context) *ClientTrace {
	trace, _ := ctx.Value(clientEventContextKey{}).(*ClientTrace)
	if trace == nil {
		trace = NoOpLoggingHooks
	} else {
		resolved := *trace
		_ = mergo.Merge(&resolved, NoOpLoggingHooks)
		trace = &resolved
	}
	return trace
}

// WithClientTrace returns a new context based on the provided parent
// ctx. Netconf client requests made with the returned context will use
// the provided trace hooks
func WithClientTrace(ctx context.Context, trace *ClientTrace) context.Context {
	ctx = context.WithValue(ctx, clientEventContextKey{}, trace)
	return ctx
}

// ClientTrace defines a structure for handling trace events
//nolint: golint
type ClientTrace struct {
	// ConnectStart is called when starting to create a netconf connection to a remote server.
	ConnectStart func(target string)

	// ConnectDone is called when the transport connection attempt completes, with err indicating
	// whether it was successful.
	ConnectDone func(target string, err error, d time.Duration)

	// DialStart is called when starting to dial a remote server.
	DialStart func(clientConfig *ssh.ClientConfig, target string)

	// DialDone is called when dial completes.
	DialDone func(clientConfig *ssh.ClientConfig, target string, err error, d time.Duration)

	// SubsystemRequested is called after each attempt to start an SSH subsystem.
	SubsystemRequested func(target, subsystem string, err error)

	// HelloDone is called when the hello message has been received from the server.
	HelloDone func(msg *common.HelloMessage)

	// ConnectionClosed is called after a transport connection has been closed, with
	// err indicating any error condition.
	ConnectionClosed func(target string, err error)

	// ReadStart is called before a read from the underlying transport.
	ReadStart func(buf []byte)

	// ReadDone is called after a read from the underlying transport.
	ReadDone func(buf []byte, c int, err error, d time.Duration)

	// WriteStart is called before a write to the underlying transport.
	WriteStart func(buf []byte)

	// WriteDone is called after a write to the underlying transport.
	WriteDone func(buf []byte, c int, err error, d time.Duration)

	// Error is called after an error condition has been detected.
	Error func(context, target string, err error)

	// MessageSkipped is called when a message that is not an rpc-reply is discarded while
	// waiting for a reply.
	MessageSkipped func(target, name string)

	// SubmitStart is called before an rpc request is sent.
	SubmitStart func(envelope *etree.Element)

	// SubmitDone is called after the reply to an rpc request has been received.
	SubmitDone func(envelope *etree.Element, reply string, err error, d time.Duration)
}

// DefaultLoggingHooks provides a default logging hook to report errors.
var DefaultLoggingHooks = &ClientTrace{
	Error: func(context, target string, err error) {
		log.Printf("NETCONF-Error context:%s target:%s err:%v\n", context, target, err)
	},
}

// MetricLoggingHooks provides a set of hooks that will log network metrics.
var MetricLoggingHooks = &ClientTrace{
	ConnectDone: func(target string, err error, d time.Duration) {
		log.Printf("NETCONF-ConnectDone target:%s err:%v took:%dms\n", target, err, d.Milliseconds())
	},
	DialDone: func(clientConfig *ssh.ClientConfig, target string, err error, d time.Duration) {
		log.Printf("NETCONF-DialDone target:%s user:%s err:%v took:%dms\n", target, clientConfig.User, err, d.Milliseconds())
	},
	ReadDone: func(p []byte, c int, err error, d time.Duration) {
		log.Printf("NETCONF-ReadDone len:%d err:%v took:%dms\n", c, err, d.Milliseconds())
	},
	WriteDone: func(p []byte, c int, err error, d time.Duration) {
		log.Printf("NETCONF-WriteDone len:%d err:%v took:%dms\n", c, err, d.Milliseconds())
	},

	Error: DefaultLoggingHooks.Error,

	SubmitDone: func(envelope *etree.Element, reply string, err error, d time.Duration) {
		log.Printf("NETCONF-SubmitDone len:%d err:%v took:%dms\n", len(reply), err, d.Milliseconds())
	},
}

// DiagnosticLoggingHooks provides a set of default diagnostic hooks
var DiagnosticLoggingHooks = &ClientTrace{
	ConnectStart: func(target string) {
		log.Printf("NETCONF-ConnectStart target:%s\n", target)
	},
	ConnectDone: MetricLoggingHooks.ConnectDone,
	DialStart: func(clientConfig *ssh.ClientConfig, target string) {
		log.Printf("NETCONF-DialStart target:%s user:%s\n", target, clientConfig.User)
	},
	DialDone: MetricLoggingHooks.DialDone,
	SubsystemRequested: func(target, subsystem string, err error) {
		log.Printf("NETCONF-SubsystemRequested target:%s subsystem:%s err:%v\n", target, subsystem, err)
	},
	HelloDone: func(msg *common.HelloMessage) {
		log.Printf("NETCONF-HelloDone session-id:%d capabilities:%d\n", msg.SessionID, len(msg.Capabilities))
	},
	ConnectionClosed: func(target string, err error) {
		log.Printf("NETCONF-ConnectionClosed target:%s err:%v\n", target, err)
	},
	ReadStart: func(p []byte) {
		log.Printf("NETCONF-ReadStart capacity:%d\n", len(p))
	},
	ReadDone: MetricLoggingHooks.ReadDone,
	WriteStart: func(p []byte) {
		log.Printf("NETCONF-WriteStart len:%d\n", len(p))
	},
	WriteDone: MetricLoggingHooks.WriteDone,

	Error: DefaultLoggingHooks.Error,

	MessageSkipped: func(target, name string) {
		log.Printf("NETCONF-MessageSkipped target:%s message:%s\n", target, name)
	},
	SubmitStart: func(envelope *etree.Element) {
		log.Printf("NETCONF-SubmitStart message-id:%s\n", envelope.SelectAttrValue("message-id", ""))
	},
	SubmitDone: func(envelope *etree.Element, reply string, err error, d time.Duration) {
		log.Printf("NETCONF-SubmitDone message-id:%s len:%d err:%v took:%dms\n",
			envelope.SelectAttrValue("message-id", ""), len(reply), err, d.Milliseconds())
	},
}

// NoOpLoggingHooks provides set of hooks that do nothing.
var NoOpLoggingHooks = &ClientTrace{
	ConnectStart:       func(target string) {},
	ConnectDone:        func(target string, err error, d time.Duration) {},
	DialStart:          func(clientConfig *ssh.ClientConfig, target string) {},
	DialDone:           func(clientConfig *ssh.ClientConfig, target string, err error, d time.Duration) {},
	SubsystemRequested: func(target, subsystem string, err error) {},
	ConnectionClosed:   func(target string, err error) {},
	HelloDone:          func(msg *common.HelloMessage) {},
	ReadStart:          func(p []byte) {},
	ReadDone:           func(p []byte, c int, err error, d time.Duration) {},

	WriteStart: func(p []byte) {},
	WriteDone:  func(p []byte, c int, err error, d time.Duration) {},

	Error:          func(context, target string, err error) {},
	MessageSkipped: func(target, name string) {},
	SubmitStart:    func(envelope *etree.Element) {},
	SubmitDone:     func(envelope *etree.Element, reply string, err error, d time.Duration) {},
}
