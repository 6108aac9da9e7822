package testserver

import (
	"fmt"
	"net"
	"runtime"
	"sync"

	"github.com/damianoneill/ncops/netconf/common"
	"github.com/imdario/mergo"
	assert "github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// Defines credentials used for test sessions.
const (
	TestUserName = "testUser"
	TestPassword = "testPassword"
)

// TestNCServer represents a Netconf Server that can be used for 'on-board' testing.
// It accepts SSH connections on an ephemeral localhost port, and runs a netconf session
// handler on each accepted subsystem request.
type TestNCServer struct {
	listener net.Listener
	tctx     assert.TestingT

	mu              sync.Mutex
	trace           *Trace
	sessionHandlers map[uint64]*SessionHandler
	reqHandlers     []RequestHandler
	caps            []string
	subsystems      []string
	silent          bool
	nextSid         uint64
}

// NewTestNetconfServer creates a new TestNCServer that will accept Netconf localhost connections on an ephemeral port (available
// via Port(), with credentials defined by TestUserName and TestPassword.
// tctx will be used for handling failures; if the supplied value is nil, a default test context will be used.
// The behaviour of the Netconf session handler can be configured using the WithCapabilities,
// WithSubsystems and WithRequestHandler methods.
func NewTestNetconfServer(tctx assert.TestingT) *TestNCServer {

	ts := &TestNCServer{
		sessionHandlers: make(map[uint64]*SessionHandler),
		caps:            []string{common.CapBase10, common.CapBase11, common.CapCandidate, common.CapStartup, common.CapURL},
		subsystems:      []string{"netconf"},
		trace:           NoOpLoggingHooks,
	}

	if tctx == nil {
		// Default test context to built-in implementation.
		tctx = ts
	}
	ts.tctx = tctx

	sshcfg, err := PasswordConfig(TestUserName, TestPassword)
	assert.NoError(tctx, err, "Failed to create ssh configuration")

	ts.listener, err = net.Listen("tcp", "localhost:0")
	ts.trace.Listened("localhost:0", err)
	assert.NoError(tctx, err, "Listen failed")

	go ts.acceptConnections(sshcfg)
	return ts
}

// WithRequestHandler adds a request handler to the netconf session. Handlers are used
// in the order they were added, one per request; once exhausted, requests are echoed.
func (ts *TestNCServer) WithRequestHandler(rh RequestHandler) *TestNCServer {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.reqHandlers = append(ts.reqHandlers, rh)
	return ts
}

// WithCapabilities define the capabilities that the server will advertise when a netconf client connects.
func (ts *TestNCServer) WithCapabilities(caps []string) *TestNCServer {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.caps = caps
	return ts
}

// WithSubsystems defines the ssh subsystem names that the server accepts.
func (ts *TestNCServer) WithSubsystems(names ...string) *TestNCServer {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.subsystems = names
	return ts
}

// WithoutHello prevents the server from sending its hello, so that client session setup times out.
func (ts *TestNCServer) WithoutHello() *TestNCServer {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.silent = true
	return ts
}

// WithTrace defines the hooks used to report server events. Sessions started beforehand
// keep the hooks they were started with.
func (ts *TestNCServer) WithTrace(trace *Trace) *TestNCServer {
	resolved := *trace
	_ = mergo.Merge(&resolved, NoOpLoggingHooks)

	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.trace = &resolved
	return ts
}

// Port delivers the tcp port number on which the server is listening.
func (ts *TestNCServer) Port() int {
	return ts.listener.Addr().(*net.TCPAddr).Port
}

// Address delivers the host:port on which the server is listening.
func (ts *TestNCServer) Address() string {
	return fmt.Sprintf("localhost:%d", ts.Port())
}

// Close closes any active transport to the test server and prevents subsequent connections.
func (ts *TestNCServer) Close() {
	ts.mu.Lock()
	handlers := make([]*SessionHandler, 0, len(ts.sessionHandlers))
	for _, h := range ts.sessionHandlers {
		handlers = append(handlers, h)
	}
	ts.mu.Unlock()

	for _, h := range handlers {
		h.Close()
	}
	_ = ts.listener.Close()
}

// SessionHandler delivers the netconf session handler associated with the specified session id.
func (ts *TestNCServer) SessionHandler(id uint64) *SessionHandler {
	ts.mu.Lock()
	sh, ok := ts.sessionHandlers[id]
	ts.mu.Unlock()
	if !ok {
		ts.tctx.Errorf("Failed to get handler for session %d", id)
		ts.tctx.FailNow()
	}
	return sh
}

// LastHandler delivers the most recently created session handler.
func (ts *TestNCServer) LastHandler() *SessionHandler {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.sessionHandlers[ts.nextSid]
}

// Errorf provides testing.T compatibility if a test context is not provided when the test server is
// created.
func (ts *TestNCServer) Errorf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// FailNow provides testing.T compatibility if a test context is not provided when the test server is
// created.
func (ts *TestNCServer) FailNow() {
	runtime.Goexit()
}

func (ts *TestNCServer) acceptConnections(config *ssh.ServerConfig) {
	for {
		nConn, err := ts.listener.Accept()
		ts.tracer().Accepted(nConn, err)
		if err != nil {
			return
		}
		go ts.serveConnection(nConn, config)
	}
}

func (ts *TestNCServer) serveConnection(nConn net.Conn, config *ssh.ServerConfig) {
	_, chch, reqch, err := ssh.NewServerConn(nConn, config)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqch)

	// Service the incoming Channel channel.
	for newChannel := range chch {
		ch, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}
		go ts.serveChannel(ch, requests)
	}
}

// serveChannel starts a netconf session once an acceptable subsystem has been requested.
func (ts *TestNCServer) serveChannel(ch ssh.Channel, requests <-chan *ssh.Request) {
	started := false
	for req := range requests {
		accepted := false
		if req.Type == "subsystem" && !started {
			name := subsystemName(req.Payload)
			accepted = ts.acceptsSubsystem(name)
			ts.tracer().SubsystemRequested(name, accepted)
		}
		_ = req.Reply(accepted, nil)

		if accepted {
			started = true
			go ts.newSessionHandler(ch).Handle()
		}
	}
}

func (ts *TestNCServer) tracer() *Trace {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.trace
}

func (ts *TestNCServer) acceptsSubsystem(name string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, s := range ts.subsystems {
		if s == name {
			return true
		}
	}
	return false
}

func (ts *TestNCServer) newSessionHandler(ch ssh.Channel) *SessionHandler {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.nextSid++
	sh := newSessionHandler(ts, ch, ts.nextSid, ts.caps, ts.reqHandlers)
	sh.silent = ts.silent
	ts.sessionHandlers[sh.sid] = sh
	return sh
}
