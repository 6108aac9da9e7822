package ops

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"github.com/damianoneill/ncops/netconf/common"
	"github.com/damianoneill/ncops/netconf/testserver"

	"golang.org/x/crypto/ssh"
)

func exampleSSHConfig() *ssh.ClientConfig {
	return &ssh.ClientConfig{
		User:            testserver.TestUserName,
		Auth:            []ssh.AuthMethod{ssh.Password(testserver.TestPassword)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint: gosec
	}
}

func ExampleOpSession_GetSubtree() {

	ts := testserver.NewTestNetconfServer(nil)
	defer ts.Close()

	s, err := NewSession(context.Background(), exampleSSHConfig(), ts.Address())
	if err != nil {
		fmt.Printf("Failed to start session %s\n", err)
		return
	}
	defer s.Close()

	response := ""
	err = s.GetSubtree("<top><sub/></top>", &response)
	if err != nil {
		fmt.Printf("Failed to execute RPC:%s\n", err)
		return
	}
	fmt.Printf("%s\n", response)

	// Output: <filter type="subtree"><top><sub/></top></filter>
}

func ExampleOpSession_GetConfig() {

	ts := testserver.NewTestNetconfServer(nil)
	defer ts.Close()

	s, err := NewSession(context.Background(), exampleSSHConfig(), ts.Address())
	if err != nil {
		fmt.Printf("Failed to start session %s\n", err)
		return
	}
	defer s.Close()

	reply, err := s.GetConfig(common.RunningCfg, SubtreeFilter(`<top/>`))
	if err != nil {
		fmt.Printf("Failed to execute RPC:%s\n", err)
		return
	}
	fmt.Println(reply.DataXML())

	// Output: <data xmlns="urn:ietf:params:xml:ns:netconf:base:1.0"><source><running/></source><filter type="subtree"><top/></filter></data>
}

func ExampleOpSession_Dispatch() {

	ts := testserver.NewTestNetconfServer(nil).WithRequestHandler(testserver.FailingRequestHandler)
	defer ts.Close()

	s, err := NewSession(context.Background(), exampleSSHConfig(), ts.Address())
	if err != nil {
		fmt.Printf("Failed to start session %s\n", err)
		return
	}
	defer s.Close()

	reply, err := s.Dispatch("clear-arp-table", "", nil)
	if err != nil {
		fmt.Printf("Failed to execute RPC:%s\n", err)
		return
	}
	for _, e := range reply.Errors() {
		fmt.Println(e)
	}
	fmt.Println(reply.Data() == nil)

	// Output:
	// netconf rpc [error] 'oops'
	// true
}

func ExampleOpSession_SendCommand() {

	ts := testserver.NewTestNetconfServer(nil)
	defer ts.Close()

	s, err := NewSession(context.Background(), exampleSSHConfig(), ts.Address())
	if err != nil {
		fmt.Printf("Failed to start session %s\n", err)
		return
	}
	defer s.Close()

	command := etree.NewElement("rpc")
	command.CreateAttr("xmlns", common.NetconfNS)
	command.CreateAttr("message-id", "101")
	command.CreateElement("get")

	doc, err := s.SendCommand(command)
	if err != nil {
		fmt.Printf("Failed to execute RPC:%s\n", err)
		return
	}
	fmt.Println(doc.Root().Tag, doc.Root().SelectAttrValue("message-id", ""))

	// Output: rpc-reply 101
}
