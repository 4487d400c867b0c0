package main

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestHasZstdFrame(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(string) error
		expected bool
	}{
		{
			name: "Non-existent file returns false",
			setup: func(path string) error {
				return nil
			},
			expected: false,
		},
		{
			name: "Empty file returns false",
			setup: func(path string) error {
				return os.WriteFile(path, []byte{}, 0644)
			},
			expected: false,
		},
		{
			name: "Valid zstd file returns true",
			setup: func(path string) error {
				return os.WriteFile(path, zstdFrame(t, "log entry"), 0644)
			},
			expected: true,
		},
		{
			name: "Wrong magic number returns false",
			setup: func(path string) error {
				return os.WriteFile(path, []byte{0x00, 0x00, 0x00, 0x00}, 0644)
			},
			expected: false,
		},
		{
			name: "Plain text file returns false",
			setup: func(path string) error {
				return os.WriteFile(path, []byte("plain text log"), 0644)
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(t.TempDir(), "test.log")

			err := tt.setup(testFile)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, hasZstdFrame(testFile))
		})
	}
}

func TestNewCompressedSink(t *testing.T) {
	tests := []struct {
		name        string
		fileContent []byte
		contains    []string
		notContains []string
	}{
		{
			name:        "Non-existent file creates new file",
			fileContent: nil,
			contains:    []string{"test log entry"},
		},
		{
			name:        "Existing valid zstd file appends a frame",
			fileContent: zstdFrame(t, "initial log"),
			contains:    []string{"initial log", "test log entry"},
		},
		{
			name:        "Existing invalid file is truncated",
			fileContent: []byte("corrupted data"),
			contains:    []string{"test log entry"},
			notContains: []string{"corrupted data"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(t.TempDir(), "test.log")

			if tt.fileContent != nil {
				err := os.WriteFile(testFile, tt.fileContent, 0644)
				require.NoError(t, err)
			}

			sink := openTestSink(t, testFile)

			_, err := sink.Write([]byte("test log entry"))
			assert.NoError(t, err)
			assert.NoError(t, sink.Sync())

			// Close finalizes the zstd frame; only then is the file decodable.
			require.NoError(t, sink.Close())

			decoded := decodeZstdFile(t, testFile)
			for _, want := range tt.contains {
				assert.Contains(t, decoded, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, decoded, unwanted)
			}
		})
	}
}

func TestSinkWriteReportsInputLength(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.log")

	sink := openTestSink(t, testFile)
	defer func() {
		_ = sink.Close()
	}()

	testData := []byte("test message that will be compressed")
	n, err := sink.Write(testData)
	assert.NoError(t, err)

	// io.Writer contract: return the number of input bytes written, not the
	// compressed byte count.
	assert.Equal(t, len(testData), n)
}

func TestSinkAppendsAcrossReopen(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.log")

	sink := openTestSink(t, testFile)
	_, err := sink.Write([]byte("first session"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	sink = openTestSink(t, testFile)
	_, err = sink.Write([]byte("second session"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	decoded := decodeZstdFile(t, testFile)
	assert.Contains(t, decoded, "first session")
	assert.Contains(t, decoded, "second session")
}

func TestSinkWithZapLogger(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "picklist.zst")

	sink := openTestSink(t, testFile)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = ""
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, zapcore.AddSync(sink), zap.InfoLevel)
	logger := zap.New(core)

	logger.Info("test message 1")
	logger.Info("test message 2")
	require.NoError(t, logger.Sync())
	require.NoError(t, sink.Close())

	assert.True(t, hasZstdFrame(testFile))

	decoded := decodeZstdFile(t, testFile)
	assert.Contains(t, decoded, "test message 1")
	assert.Contains(t, decoded, "test message 2")
}

func openTestSink(t *testing.T, path string) zap.Sink {
	t.Helper()

	fileURL, err := url.Parse("zstd://" + filepath.ToSlash(path))
	require.NoError(t, err)

	sink, err := newCompressedSink(fileURL)
	require.NoError(t, err)
	require.NotNil(t, sink)
	return sink
}

func decodeZstdFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	dec, err := zstd.NewReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer dec.Close()

	result, err := io.ReadAll(dec)
	require.NoError(t, err)
	return string(result)
}

func zstdFrame(t *testing.T, data string) []byte {
	t.Helper()

	var buf bytes.Buffer
	encoder, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	require.NoError(t, err)
	_, err = encoder.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, encoder.Close())
	return buf.Bytes()
}
