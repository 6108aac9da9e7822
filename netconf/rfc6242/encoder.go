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
	"io"
	"strconv"
)

var (
	tokenEOM          = []byte("]]>]]>")
	tokenEndOfChunks  = []byte("\n##\n")
	chunkHeaderPrefix = []byte("\n#")
)

// RFC6242 section 4.2 defines the maximum allowed chunk-size.
const maximumAllowedChunkSize = 4294967295

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithMaximumChunkSize limits the size of the chunks written by the encoder.
func WithMaximumChunkSize(size uint32) EncoderOption {
	return func(e *Encoder) {
		e.MaxChunkSize = size
	}
}

// Encoder writes netconf messages to an underlying writer, using end-of-message framing
// until chunked framing is enabled.
type Encoder struct {
	// Output is the underlying Writer to receive encoded output
	Output io.Writer
	// ChunkedFraming sets whether messages use chunked framing (true) or end-of-message
	// framing (false)
	ChunkedFraming bool
	// MaxChunkSize is the maximum size of chunks the encoder will write.
	MaxChunkSize uint32
}

// NewEncoder delivers an Encoder writing to output.
func NewEncoder(output io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{Output: output, MaxChunkSize: maximumAllowedChunkSize}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WriteMessage writes msg as a single framed message.
func (e *Encoder) WriteMessage(msg []byte) error {
	if e.ChunkedFraming {
		return e.writeChunked(msg)
	}
	if _, err := e.Output.Write(msg); err != nil {
		return err
	}
	_, err := e.Output.Write(tokenEOM)
	return err
}

func (e *Encoder) writeChunked(msg []byte) error {
	for n := 0; n < len(msg); {
		size := len(msg) - n
		if e.MaxChunkSize > 0 && uint64(size) > uint64(e.MaxChunkSize) {
			size = int(e.MaxChunkSize)
		}

		// chunk encoding:
		// \n#<size>\n<size bytes data...>
		header := append(append([]byte{}, chunkHeaderPrefix...), strconv.Itoa(size)+"\n"...)
		if _, err := e.Output.Write(header); err != nil {
			return err
		}
		if _, err := e.Output.Write(msg[n : n+size]); err != nil {
			return err
		}
		n += size
	}
	_, err := e.Output.Write(tokenEndOfChunks)
	return err
}
