package rfc6242

import (
	"bytes"
	"errors"
	"testing"

	"github.com/damianoneill/ncops/netconf/mocks"
	"github.com/golang/mock/gomock"
	assert "github.com/stretchr/testify/require"
)

func TestEncodeEndOfMessage(t *testing.T) {

	var out bytes.Buffer
	enc := NewEncoder(&out)
	assert.NoError(t, enc.WriteMessage([]byte("<hello/>")))
	assert.Equal(t, "<hello/>]]>]]>", out.String())
}

func TestEncodeChunked(t *testing.T) {

	var out bytes.Buffer
	enc := NewEncoder(&out, WithMaximumChunkSize(4))
	SetChunkedFraming(enc)
	assert.NoError(t, enc.WriteMessage([]byte("<rpc/>")))
	assert.Equal(t, "\n#4\n<rpc\n#2\n/>\n##\n", out.String())

	ClearChunkedFraming(enc)
	out.Reset()
	assert.NoError(t, enc.WriteMessage([]byte("<rpc/>")))
	assert.Equal(t, "<rpc/>]]>]]>", out.String())
}

func TestEncoderWriteFailures(t *testing.T) {

	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	// Failure on write of message
	mockt := mocks.NewMockTransport(mockCtrl)
	mockt.EXPECT().Write(gomock.Any()).Return(0, errors.New("failed"))
	assert.Error(t, NewEncoder(mockt).WriteMessage([]byte("<rpc/>")), "Expect failure")

	// Failure on write of message delimiter
	mockt = mocks.NewMockTransport(mockCtrl)
	gomock.InOrder(
		mockt.EXPECT().Write([]byte("<rpc/>")).Return(6, nil),
		mockt.EXPECT().Write(tokenEOM).Return(0, errors.New("failed")),
	)
	assert.Error(t, NewEncoder(mockt).WriteMessage([]byte("<rpc/>")), "Expect failure")

	// Failure on write of chunk header
	mockt = mocks.NewMockTransport(mockCtrl)
	mockt.EXPECT().Write(gomock.Any()).Return(0, errors.New("failed"))
	enc := NewEncoder(mockt)
	SetChunkedFraming(enc)
	assert.Error(t, enc.WriteMessage([]byte("<rpc/>")), "Expect failure")
}
