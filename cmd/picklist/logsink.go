package main

import (
	"bytes"
	"net/url"
	"os"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// zstdMagic is the frame header every zstd stream starts with.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// zstdSink routes zap output through a zstd encoder. It is registered under
// the zstd:// URL scheme so the logger config can point straight at a
// compressed file.
type zstdSink struct {
	file    *os.File
	encoder *zstd.Encoder
}

// newCompressedSink opens the log file named by the URL path. A file that
// already holds zstd frames is appended to (decoders treat concatenated
// frames as one stream); anything else is truncated so the file stays
// decodable.
func newCompressedSink(u *url.URL) (zap.Sink, error) {
	path := u.Path

	flags := os.O_CREATE | os.O_WRONLY
	if hasZstdFrame(path) {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}

	encoder, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &zstdSink{file: file, encoder: encoder}, nil
}

// hasZstdFrame reports whether the file exists and starts with the zstd
// magic number.
func hasZstdFrame(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() {
		_ = file.Close()
	}()

	buf := make([]byte, len(zstdMagic))
	n, err := file.Read(buf)
	if err != nil || n < len(zstdMagic) {
		return false
	}

	return bytes.Equal(buf, zstdMagic)
}

// Write reports the uncompressed byte count to satisfy the io.Writer
// contract, not whatever the encoder happened to emit.
func (s *zstdSink) Write(p []byte) (int, error) {
	if _, err := s.encoder.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sync flushes the encoder buffer and syncs the file to disk.
func (s *zstdSink) Sync() error {
	if err := s.encoder.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close finalizes the current zstd frame and then closes the file. The file
// is closed even when the encoder fails so the descriptor never leaks.
func (s *zstdSink) Close() error {
	encErr := s.encoder.Close()
	fileErr := s.file.Close()

	if encErr != nil {
		return encErr
	}
	return fileErr
}
