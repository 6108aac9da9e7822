package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/damianoneill/ncops/netconf/testserver"
	assert "github.com/stretchr/testify/require"
)

func writeDevice(t *testing.T, ts *testserver.TestNCServer) string {
	path := filepath.Join(t.TempDir(), "device.yaml")
	content := fmt.Sprintf("target: %s\nusername: %s\npassword: %s\nsetup_timeout: 2\n",
		ts.Address(), testserver.TestUserName, testserver.TestPassword)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGetCommand(t *testing.T) {
	ts := testserver.NewTestNetconfServer(t)
	defer ts.Close()

	out, _, err := execute("--device", writeDevice(t, ts), "get", "--subtree", "<top/>")
	assert.NoError(t, err)
	assert.Equal(t, `<data xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"><filter type="subtree"><top/></filter></data>`+"\n", out)
}

func TestGetConfigCommand(t *testing.T) {
	ts := testserver.NewTestNetconfServer(t)
	defer ts.Close()

	out, _, err := execute("--device", writeDevice(t, ts), "--trace", "default",
		"get-config", "--source", "candidate", "--xpath", "/t:top", "--ns", "t=urn:t")
	assert.NoError(t, err)
	assert.Contains(t, out, `<source><candidate/></source>`)
	assert.Contains(t, out, `<filter type="xpath" xmlns:t="urn:t" select="/t:top"/>`)
}

func TestDispatchCommand(t *testing.T) {
	ts := testserver.NewTestNetconfServer(t).WithRequestHandler(testserver.OkRequestHandler)
	defer ts.Close()

	out, _, err := execute("--device", writeDevice(t, ts), "dispatch", "clear-arp-table")
	assert.NoError(t, err)
	assert.Equal(t, "ok\n", out)
	assert.Equal(t, "clear-arp-table", ts.LastHandler().LastReq().Name())
}

func TestCommandReportsReplyErrors(t *testing.T) {
	ts := testserver.NewTestNetconfServer(t).WithRequestHandler(testserver.FailingRequestHandler)
	defer ts.Close()

	out, errOut, err := execute("--device", writeDevice(t, ts), "get")
	assert.Equal(t, errReplyErrors, err)
	assert.Equal(t, "", out)
	assert.Contains(t, errOut, "operation-failed: netconf rpc [error] 'oops'")
}

func TestCommandArgumentErrors(t *testing.T) {
	ts := testserver.NewTestNetconfServer(t)
	defer ts.Close()
	path := writeDevice(t, ts)

	_, _, err := execute("--device", path, "get", "--subtree", "<a/>", "--xpath", "/a")
	assert.Error(t, err, "Filters should be exclusive")

	_, _, err = execute("--device", path, "get", "--xpath", "/a:b", "--ns", "a")
	assert.Error(t, err, "Namespace should be prefix=uri")

	_, _, err = execute("--device", path, "--trace", "verbose", "get")
	assert.Error(t, err, "Trace should be known")

	_, _, err = execute("--device", path, "get-config", "--source", "nowhere")
	assert.Error(t, err, "Source should be validated")

	_, _, err = execute("--device", path, "dispatch")
	assert.Error(t, err, "Dispatch needs a name")

	_, _, err = execute("--device", filepath.Join(t.TempDir(), "missing.yaml"), "get")
	assert.Error(t, err, "Device file should exist")
}

func TestSchemasCommand(t *testing.T) {
	ts := testserver.NewTestNetconfServer(t).WithRequestHandler(testserver.DataRequestHandler(
		`<netconf-state xmlns="urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring"><schemas>` +
			`<schema><identifier>ietf-interfaces</identifier><version>2018-02-20</version><format>yang</format></schema>` +
			`<schema><identifier>ietf-ip</identifier><version>2018-02-22</version><format>yang</format></schema>` +
			`</schemas></netconf-state>`))
	defer ts.Close()

	out, _, err := execute("--device", writeDevice(t, ts), "schemas")
	assert.NoError(t, err)
	assert.Equal(t, "ietf-interfaces\t2018-02-20\tyang\nietf-ip\t2018-02-22\tyang\n", out)
	assert.Equal(t, "get", ts.LastHandler().LastReq().Name())
}

func TestSchemaCommand(t *testing.T) {
	ts := testserver.NewTestNetconfServer(t).WithRequestHandler(testserver.DataRequestHandler(`module ietf-ip { }`))
	defer ts.Close()

	out, _, err := execute("--device", writeDevice(t, ts), "schemas", "ietf-ip", "--format", "yang")
	assert.NoError(t, err)
	assert.Equal(t, "module ietf-ip { }\n", out)

	req := ts.LastHandler().LastReq()
	assert.Equal(t, "get-schema", req.Name())
	assert.Equal(t, `<identifier>ietf-ip</identifier><format>yang</format>`, req.Body())
}
