package testserver

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// PasswordConfig delivers an ssh server configuration accepting the single user identified by
// uname and password, with a freshly generated host key.
func PasswordConfig(uname, password string) (*ssh.ServerConfig, error) {
	config := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			return checkCredentials(uname, password, c, pass)
		},
	}

	hostKey, err := generateHostKey()
	if err != nil {
		return nil, err
	}
	config.AddHostKey(hostKey)
	return config, nil
}

func checkCredentials(uname, password string, c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
	if c.User() == uname && string(pass) == password {
		return nil, nil
	}
	return nil, fmt.Errorf("password rejected for %q", c.User())
}

func generateHostKey() (hostkey ssh.Signer, err error) {
	var key *rsa.PrivateKey
	if key, err = rsa.GenerateKey(rand.Reader, 2048); err != nil {
		return
	}
	privBlock := pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	return ssh.ParsePrivateKey(pem.EncodeToMemory(&privBlock))
}

// subsystemName extracts the subsystem name from the payload of a "subsystem" channel request.
func subsystemName(payload []byte) string {
	var msg struct {
		Name string
	}
	if err := ssh.Unmarshal(payload, &msg); err != nil {
		return ""
	}
	return msg.Name
}
