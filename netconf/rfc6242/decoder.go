// Copyright 2018 Andrew Fort
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package rfc6242

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ErrBadChunk is reported when the input does not follow the chunked framing syntax.
var ErrBadChunk = errors.New("rfc6242: invalid chunk framing")

// defaultReaderBufferSize is the default read buffer capacity size.
const defaultReaderBufferSize = 65536

// Decoder reads framed netconf messages from an underlying reader.
//
// Decoder is not safe for concurrent use.
type Decoder struct {
	// ChunkedFraming sets whether messages use chunked framing (true) or end-of-message
	// framing (false)
	ChunkedFraming bool

	r *bufio.Reader
}

// NewDecoder delivers a Decoder reading from input.
func NewDecoder(input io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(input, defaultReaderBufferSize)}
}

// ReadMessage delivers the next complete message, with framing removed.
// io.EOF is reported if the input ends between messages; io.ErrUnexpectedEOF if it ends
// part way through a message.
func (d *Decoder) ReadMessage() ([]byte, error) {
	if d.ChunkedFraming {
		return d.readChunked()
	}
	return d.readEndOfMessage()
}

func (d *Decoder) readEndOfMessage() ([]byte, error) {
	var buf bytes.Buffer
	for {
		b, err := d.r.ReadBytes('>')
		buf.Write(b)
		if bytes.HasSuffix(buf.Bytes(), tokenEOM) {
			return bytes.TrimLeft(buf.Bytes()[:buf.Len()-len(tokenEOM)], " \t\r\n"), nil
		}
		if err != nil {
			return nil, eofError(err, len(bytes.TrimSpace(buf.Bytes())) > 0)
		}
	}
}

func (d *Decoder) readChunked() ([]byte, error) {
	var buf bytes.Buffer
	for {
		size, err := d.readChunkHeader(buf.Len() > 0)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			if buf.Len() == 0 {
				return nil, errors.Wrap(ErrBadChunk, "message has no chunks")
			}
			return buf.Bytes(), nil
		}
		if _, err = io.CopyN(&buf, d.r, int64(size)); err != nil {
			return nil, eofError(err, true)
		}
	}
}

// readChunkHeader consumes a chunk header, delivering the chunk size, or zero for the
// end-of-chunks marker. Whitespace preceding the header is ignored.
func (d *Decoder) readChunkHeader(inMessage bool) (uint64, error) {
	c, err := d.skipWhitespace()
	if err != nil {
		return 0, eofError(err, inMessage)
	}
	if c != '#' {
		return 0, errors.Wrapf(ErrBadChunk, "unexpected %q", c)
	}

	line, err := d.r.ReadString('\n')
	if err != nil {
		return 0, eofError(err, true)
	}
	line = line[:len(line)-1]
	if line == "#" {
		return 0, nil
	}

	size, err := strconv.ParseUint(line, 10, 32)
	if err != nil || size == 0 || line[0] == '0' {
		return 0, errors.Wrapf(ErrBadChunk, "bad chunk size %q", line)
	}
	return size, nil
}

func (d *Decoder) skipWhitespace() (byte, error) {
	for {
		c, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch c {
		case '\n', '\r', ' ', '\t':
		default:
			return c, nil
		}
	}
}

func eofError(err error, inMessage bool) error {
	if err == io.EOF {
		if inMessage {
			return io.ErrUnexpectedEOF
		}
		return io.EOF
	}
	return err
}
