// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package calltrace

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/fileio/lib/codec"
	"github.com/bureau-foundation/fileio/lib/fileio"
)

// Version is the trace format version written by this package.
const Version uint8 = 1

// magic identifies a trace file.
var magic = [4]byte{'F', 'I', 'O', 'T'}

const headerSize = len(magic) + 2

// ErrNotTrace is returned when a file does not start with the trace
// magic.
var ErrNotTrace = errors.New("calltrace: not a trace file")

// Header is the fixed prefix of a trace file.
type Header struct {
	Version     uint8
	Compression codec.Compression
}

func (h Header) encode() []byte {
	header := make([]byte, 0, headerSize)
	header = append(header, magic[:]...)
	return append(header, h.Version, byte(h.Compression))
}

func parseHeader(data []byte) (Header, error) {
	if len(data) < headerSize || !bytes.Equal(data[:len(magic)], magic[:]) {
		return Header{}, ErrNotTrace
	}
	header := Header{Version: data[4], Compression: codec.Compression(data[5])}
	if header.Version != Version {
		return Header{}, fmt.Errorf("calltrace: unsupported trace version %d", header.Version)
	}
	return header, nil
}

// Encode writes a complete trace (header, summary, records) to w.
func Encode(w io.Writer, compression codec.Compression, summary Summary, records []Record) error {
	if _, err := w.Write(Header{Version: Version, Compression: compression}.encode()); err != nil {
		return fmt.Errorf("writing trace header: %w", err)
	}
	compressor, err := codec.NewCompressedWriter(w, compression)
	if err != nil {
		return err
	}
	encoder := codec.NewEncoder(compressor)
	summary.Records = len(records)
	if err := encoder.Encode(summary); err != nil {
		compressor.Close()
		return fmt.Errorf("encoding trace summary: %w", err)
	}
	for i := range records {
		if err := encoder.Encode(records[i]); err != nil {
			compressor.Close()
			return fmt.Errorf("encoding trace record %d: %w", i, err)
		}
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("finishing %s stream: %w", compression, err)
	}
	return nil
}

// Payload reads the header from r and returns a reader over the
// decompressed CBOR sequence that follows it. The caller closes the
// returned reader.
func Payload(r io.Reader) (Header, io.ReadCloser, error) {
	prefix := make([]byte, headerSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, nil, ErrNotTrace
		}
		return Header{}, nil, fmt.Errorf("reading trace header: %w", err)
	}
	header, err := parseHeader(prefix)
	if err != nil {
		return Header{}, nil, err
	}
	payload, err := codec.NewCompressedReader(r, header.Compression)
	if err != nil {
		return Header{}, nil, err
	}
	return header, payload, nil
}

// Decode reads a complete trace from r.
func Decode(r io.Reader) (*Trace, error) {
	header, payload, err := Payload(r)
	if err != nil {
		return nil, err
	}
	defer payload.Close()

	trace := &Trace{Header: header}
	decoder := codec.NewDecoder(payload)
	if err := decoder.Decode(&trace.Summary); err != nil {
		return nil, fmt.Errorf("decoding trace summary: %w", err)
	}
	trace.Records = make([]Record, 0, trace.Summary.Records)
	for {
		var record Record
		err := decoder.Decode(&record)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding trace record %d: %w", len(trace.Records), err)
		}
		trace.Records = append(trace.Records, record)
	}
	if len(trace.Records) != trace.Summary.Records {
		return nil, fmt.Errorf("calltrace: summary lists %d records, payload holds %d",
			trace.Summary.Records, len(trace.Records))
	}
	return trace, nil
}

// WriteFile persists the recorder's contents to path, replacing any
// existing file. Options are passed to [fileio.Open]; the handle is
// always buffered.
func (r *Recorder) WriteFile(path string, compression codec.Compression, options ...fileio.Option) (err error) {
	r.mu.Lock()
	summary := Summary{Dropped: r.dropped}
	records := append([]Record(nil), r.records...)
	r.mu.Unlock()

	file, err := fileio.Open(path, fileio.Write|fileio.Create|fileio.Truncate|fileio.Buffered, 0o644, options...)
	if err != nil {
		return fmt.Errorf("creating trace %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing trace %s: %w", path, closeErr))
		}
	}()

	if err := Encode(fileio.FullWriter(file), compression, summary, records); err != nil {
		return fmt.Errorf("writing trace %s: %w", path, err)
	}
	if err := file.Flush(); err != nil {
		return fmt.Errorf("flushing trace %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the trace file at path.
func ReadFile(path string, options ...fileio.Option) (*Trace, error) {
	file, err := fileio.Open(path, fileio.Read|fileio.Buffered, 0, options...)
	if err != nil {
		return nil, fmt.Errorf("opening trace %s: %w", path, err)
	}
	defer file.Close()

	trace, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("reading trace %s: %w", path, err)
	}
	return trace, nil
}
