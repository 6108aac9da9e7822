package client

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

// The Secure Transport layer provides a communication path between
// the client and server.  NETCONF can be layered over any
// transport protocol that provides a set of basic requirements.

// Transport interface defines what characteristics make up a NETCONF transport
// layer object.
type Transport interface {
	io.ReadWriteCloser
}

type tImpl struct {
	reader      io.Reader
	writeCloser io.WriteCloser
	sshSession  *ssh.Session
	sshClient   *ssh.Client
	trace       *ClientTrace
	target      string
}

// NewSSHTransport creates a new SSH transport, connecting to the target with the supplied client configuration
// and requesting the first of the subsystems that the server accepts.
func NewSSHTransport(ctx context.Context, clientConfig *ssh.ClientConfig, target string, subsystems ...string) (rt Transport, err error) {

	impl := &tImpl{target: target, trace: ContextClientTrace(ctx)}

	impl.trace.ConnectStart(target)
	defer func(begin time.Time) {
		impl.trace.ConnectDone(target, err, time.Since(begin))
	}(time.Now())

	defer func() {
		if err != nil {
			_ = impl.Close()
		}
	}()

	if err = impl.dial(clientConfig); err != nil {
		return
	}

	if err = impl.startSubsystem(subsystems); err != nil {
		return
	}

	impl.reader = &traceReader{r: impl.reader, trace: impl.trace}
	impl.writeCloser = &traceWriter{w: impl.writeCloser, trace: impl.trace}
	return impl, nil
}

func (t *tImpl) dial(clientConfig *ssh.ClientConfig) (err error) {
	t.trace.DialStart(clientConfig, t.target)
	defer func(begin time.Time) {
		t.trace.DialDone(clientConfig, t.target, err, time.Since(begin))
	}(time.Now())

	t.sshClient, err = ssh.Dial("tcp", t.target, clientConfig)
	return
}

// startSubsystem tries each subsystem in turn, on a fresh ssh session, until one is accepted.
func (t *tImpl) startSubsystem(subsystems []string) (err error) {
	if len(subsystems) == 0 {
		return errors.New("no ssh subsystem to request")
	}

	for _, name := range subsystems {
		if t.sshSession, err = t.sshClient.NewSession(); err != nil {
			return
		}
		err = t.sshSession.RequestSubsystem(name)
		t.trace.SubsystemRequested(t.target, name, err)
		if err == nil {
			break
		}
		_ = t.sshSession.Close()
		t.sshSession = nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to start any of subsystems %v", subsystems)
	}

	if t.reader, err = t.sshSession.StdoutPipe(); err != nil {
		return
	}
	t.writeCloser, err = t.sshSession.StdinPipe()
	return
}

func (t *tImpl) Read(p []byte) (n int, err error) {
	return t.reader.Read(p)
}

func (t *tImpl) Write(p []byte) (n int, err error) {
	return t.writeCloser.Write(p)
}

// Close closes all session resources in the following order:
//
//  1. stdin pipe
//  2. SSH session
//  3. SSH client
//
// Errors are returned with priority matching the same order.
func (t *tImpl) Close() (err error) {

	defer func() {
		t.trace.ConnectionClosed(t.target, err)
	}()

	var (
		writeCloseErr      error
		sshSessionCloseErr error
	)

	if t.writeCloser != nil {
		writeCloseErr = t.writeCloser.Close()
	}

	if t.sshSession != nil {
		sshSessionCloseErr = t.sshSession.Close()
	}

	if t.sshClient != nil {
		err = t.sshClient.Close()
	}

	if err == nil {
		err = writeCloseErr
	}

	if err == nil {
		err = sshSessionCloseErr
	}

	return err
}

type traceReader struct {
	r     io.Reader
	trace *ClientTrace
}

func (tr *traceReader) Read(p []byte) (c int, err error) {
	tr.trace.ReadStart(p)
	defer func(begin time.Time) {
		tr.trace.ReadDone(p, c, err, time.Since(begin))
	}(time.Now())

	c, err = tr.r.Read(p)
	return
}

type traceWriter struct {
	w     io.WriteCloser
	trace *ClientTrace
}

func (tw *traceWriter) Write(p []byte) (c int, err error) {
	tw.trace.WriteStart(p)
	defer func(begin time.Time) {
		tw.trace.WriteDone(p, c, err, time.Since(begin))
	}(time.Now())

	c, err = tw.w.Write(p)
	return
}

func (tw *traceWriter) Close() (err error) {
	return tw.w.Close()
}
