package testserver_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/client"
	"github.com/damianoneill/ncops/netconf/common"
	"github.com/damianoneill/ncops/netconf/testserver"
	assert "github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

const req = `<get>
   <filter type="subtree">
       <physical-ports xmlns="http://www.lumentum.com/lumentum-ote-port" xmlns:loteeth="http://www.lumentum.com/lumentum-ote-port-ethernet">
       </physical-ports>
   </filter>
</get>`

func TestMultipleTestServersWithoutChunkedEncoding(t *testing.T) {
	exerciseServers(t, createServers(t, 5, common.CapBase10), 50)
}

func TestMultipleTestServersWithChunkedEncoding(t *testing.T) {
	exerciseServers(t, createServers(t, 5, common.CapBase10, common.CapBase11), 50)
}

func TestMultipleSessions(t *testing.T) {

	ts := testserver.NewTestNetconfServer(t)
	defer ts.Close()

	ncs := newNCClientSession(t, ts)
	assert.Nil(t, ts.SessionHandler(ncs.ID()).LastReq(), "No requests should have been executed")

	reply, err := ncs.Submit(envelope("1", req))
	assert.NoError(t, err, "Not expecting exec to fail")
	assert.Contains(t, reply, `message-id="1"`)
	assert.Equal(t, "get", ts.SessionHandler(ncs.ID()).LastReq().Name())

	ncs.Close()

	ncs2 := newNCClientSession(t, ts)
	defer ncs2.Close()
	assert.NotEqual(t, ncs.ID(), ncs2.ID(), "Sessions should have distinct ids")

	reply, err = ncs2.Submit(envelope("2", `<get><response/></get>`))
	assert.NoError(t, err, "Not expecting exec to fail")
	assert.Contains(t, reply, `<data><response/></data>`)
	assert.Equal(t, 1, ts.LastHandler().ReqCount())
}

func TestIgnoredRequest(t *testing.T) {

	ts := testserver.NewTestNetconfServer(t).WithRequestHandler(testserver.IgnoreRequestHandler)
	defer ts.Close()

	ncs := newNCClientSession(t, ts)
	defer ncs.Close()

	errCh := make(chan error, 1)
	go func() {
		_, err := ncs.Submit(envelope("1", req))
		errCh <- err
	}()

	sh := ts.SessionHandler(ncs.ID())
	assert.Eventually(t, func() bool { return sh.ReqCount() == 1 }, 5*time.Second, 10*time.Millisecond,
		"Request should have been received")

	select {
	case <-errCh:
		t.Fatal("Not expecting a reply to an ignored request")
	case <-time.After(100 * time.Millisecond):
	}

	sh.Close()
	select {
	case err := <-errCh:
		assert.Error(t, err, "Expecting request to fail once the session is closed")
	case <-time.After(5 * time.Second):
		t.Fatal("Request should fail once the session is closed")
	}
}

func TestDataRequestHandler(t *testing.T) {

	ts := testserver.NewTestNetconfServer(t).
		WithRequestHandler(testserver.DataRequestHandler(`<top><leaf>1</leaf></top>`)).
		WithRequestHandler(testserver.DataRequestHandler(`<unterminated>`))
	defer ts.Close()

	ncs := newNCClientSession(t, ts)
	defer ncs.Close()

	reply, err := ncs.Submit(envelope("1", req))
	assert.NoError(t, err)
	assert.Contains(t, reply, `<data><top><leaf>1</leaf></top></data>`)

	reply, err = ncs.Submit(envelope("2", req))
	assert.NoError(t, err)
	assert.Contains(t, reply, `<rpc-error>`, "Invalid content should be reported as an error")
}

type traceEvents struct {
	sync.Mutex
	subsystems []string
	started    int
	ended      int
	decoded    int
}

func (e *traceEvents) counts() (int, int, int) {
	e.Lock()
	defer e.Unlock()
	return e.started, e.ended, e.decoded
}

func TestServerTrace(t *testing.T) {

	events := &traceEvents{}
	trace := &testserver.Trace{
		SubsystemRequested: func(name string, accepted bool) {
			events.Lock()
			defer events.Unlock()
			events.subsystems = append(events.subsystems, name)
		},
		StartSession: func(s *testserver.SessionHandler) {
			events.Lock()
			defer events.Unlock()
			events.started++
		},
		EndSession: func(s *testserver.SessionHandler, err error) {
			events.Lock()
			defer events.Unlock()
			events.ended++
		},
		Decoded: func(s *testserver.SessionHandler, err error) {
			events.Lock()
			defer events.Unlock()
			events.decoded++
		},
	}

	ts := testserver.NewTestNetconfServer(t).WithTrace(trace)
	defer ts.Close()

	ncs := newNCClientSession(t, ts)
	_, err := ncs.Submit(envelope("1", req))
	assert.NoError(t, err)
	ncs.Close()

	assert.Eventually(t, func() bool {
		_, ended, _ := events.counts()
		return ended == 1
	}, 5*time.Second, 10*time.Millisecond, "Session end should be traced")

	started, _, decoded := events.counts()
	assert.Equal(t, 1, started)
	// The client hello and the request.
	assert.Equal(t, 2, decoded)
	events.Lock()
	assert.Equal(t, []string{"netconf"}, events.subsystems)
	events.Unlock()
}

func exerciseServers(t *testing.T, ts []*testserver.TestNCServer, reqCount int) {
	defer func() {
		for i := 0; i < len(ts); i++ {
			ts[i].Close()
		}
	}()

	ss := make([]client.Session, len(ts))
	for i := 0; i < len(ts); i++ {
		ss[i] = newNCClientSession(t, ts[i])
	}

	wg := &sync.WaitGroup{}
	for i := 0; i < len(ss); i++ {
		wg.Add(1)
		go exSession(t, ss[i], wg, reqCount)
	}
	wg.Wait()

	for i := 0; i < len(ts); i++ {
		assert.Equal(t, reqCount, ts[i].LastHandler().ReqCount())
	}
}

func exSession(t *testing.T, s client.Session, wg *sync.WaitGroup, reqCount int) {
	defer wg.Done()
	defer s.Close()
	for e := 0; e < reqCount; e++ {
		reply, err := s.Submit(envelope("1", req))
		assert.NoError(t, err, "Submit failed unexpectedly")
		assert.NotEmpty(t, reply, "Submit failed unexpectedly")
	}
}

func createServers(t *testing.T, count int, caps ...string) []*testserver.TestNCServer {
	ts := make([]*testserver.TestNCServer, count)
	for i := 0; i < count; i++ {
		ts[i] = testserver.NewTestNetconfServer(t).WithCapabilities(caps)
	}
	return ts
}

func envelope(id, body string) *etree.Element {
	doc := etree.NewDocument()
	_ = doc.ReadFromString(`<rpc xmlns="` + common.NetconfNS + `" message-id="` + id + `">` + body + `</rpc>`)
	return doc.Root()
}

func newNCClientSession(t assert.TestingT, ts *testserver.TestNCServer) client.Session {
	sshConfig := &ssh.ClientConfig{
		User:            testserver.TestUserName,
		Auth:            []ssh.AuthMethod{ssh.Password(testserver.TestPassword)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	s, err := client.NewRPCSession(context.Background(), sshConfig, ts.Address())
	assert.NoError(t, err, "Failed to create session")
	return s
}
