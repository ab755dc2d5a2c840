// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewObserveConnFunc populates all fields from Config and the provided logger.
func TestNewObserveConnFunc(t *testing.T) {
	fn := NewObserveConnFunc(NewConfig(), DefaultSLogger())

	require.NotNil(t, fn)
	assert.NotNil(t, fn.Logger)
	assert.NotNil(t, fn.TimeNow)
	assert.NotNil(t, fn.ErrClassifier)
}

// Read and Write delegate to the underlying connection.
func TestObservedConnReadWrite(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// ioErr is the error returned by the underlying conn.
		ioErr error
	}{
		{
			name:  "success",
			ioErr: nil,
		},

		{
			name:  "failure",
			ioErr: errors.New("connection reset by peer"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var written []byte
			mockConn := newMinimalConn()
			mockConn.ReadFunc = func(b []byte) (int, error) {
				if tt.ioErr != nil {
					return 0, tt.ioErr
				}
				return copy(b, "1Menu\t/\tlocalhost\t70\r\n"), nil
			}
			mockConn.WriteFunc = func(b []byte) (int, error) {
				if tt.ioErr != nil {
					return 0, tt.ioErr
				}
				written = append(written, b...)
				return len(b), nil
			}

			observed, err := NewObserveConnFunc(NewConfig(), DefaultSLogger()).Call(context.Background(), mockConn)
			require.NoError(t, err)

			buf := make([]byte, 128)
			count, err := observed.Read(buf)
			if tt.ioErr != nil {
				require.ErrorIs(t, err, tt.ioErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "1Menu\t/\tlocalhost\t70\r\n", string(buf[:count]))
			}

			count, err = observed.Write([]byte("/docs\r\n"))
			if tt.ioErr != nil {
				require.ErrorIs(t, err, tt.ioErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 7, count)
				assert.Equal(t, "/docs\r\n", string(written))
			}
		})
	}
}

// Second Close returns net.ErrClosed without calling the underlying Close again.
func TestObservedConnCloseOnce(t *testing.T) {
	closeCount := 0
	mockConn := newMinimalConn()
	mockConn.CloseFunc = func() error {
		closeCount++
		return nil
	}

	observed, _ := NewObserveConnFunc(NewConfig(), DefaultSLogger()).Call(context.Background(), mockConn)

	require.NoError(t, observed.Close())
	require.ErrorIs(t, observed.Close(), net.ErrClosed)
	assert.Equal(t, 1, closeCount)
}

// Close propagates errors from the underlying connection on the first call.
func TestObservedConnCloseError(t *testing.T) {
	wantErr := errors.New("close error")
	mockConn := newMinimalConn()
	mockConn.CloseFunc = func() error { return wantErr }

	observed, _ := NewObserveConnFunc(NewConfig(), DefaultSLogger()).Call(context.Background(), mockConn)

	require.ErrorIs(t, observed.Close(), wantErr)
}

// Addresses and deadlines are those of the underlying connection.
func TestObservedConnDelegation(t *testing.T) {
	laddr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321}
	raddr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 70}
	wantDeadline := time.Now().Add(time.Hour)
	var gotDeadline time.Time

	mockConn := newMinimalConn()
	mockConn.LocalAddrFunc = func() net.Addr { return laddr }
	mockConn.RemoteAddrFunc = func() net.Addr { return raddr }
	mockConn.SetDeadlineFunc = func(t time.Time) error {
		gotDeadline = t
		return nil
	}

	observed, _ := NewObserveConnFunc(NewConfig(), DefaultSLogger()).Call(context.Background(), mockConn)

	assert.Equal(t, laddr, observed.LocalAddr())
	assert.Equal(t, raddr, observed.RemoteAddr())
	require.NoError(t, observed.SetDeadline(wantDeadline))
	assert.Equal(t, wantDeadline, gotDeadline)
}

// Read, Write and Close emit span events with endpoint attributes.
func TestObservedConnLogging(t *testing.T) {
	logger, records := newCapturingLogger()

	mockConn := newMinimalConn()
	mockConn.LocalAddrFunc = func() net.Addr {
		return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321}
	}
	mockConn.ReadFunc = func(b []byte) (int, error) { return 0, nil }
	mockConn.WriteFunc = func(b []byte) (int, error) { return len(b), nil }
	mockConn.CloseFunc = func() error { return nil }

	observed, _ := NewObserveConnFunc(NewConfig(), logger).Call(context.Background(), mockConn)
	_, _ = observed.Read(make([]byte, 10))
	_, _ = observed.Write([]byte("\r\n"))
	_ = observed.Close()

	expect := []string{
		"readStart", "readDone",
		"writeStart", "writeDone",
		"closeStart", "closeDone",
	}
	require.Equal(t, expect, recordMessages(*records))

	levels := []slog.Level{
		slog.LevelDebug, slog.LevelDebug,
		slog.LevelDebug, slog.LevelDebug,
		slog.LevelInfo, slog.LevelInfo,
	}
	for idx, record := range *records {
		assert.Equal(t, levels[idx], record.Level)

		var localAddr string
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == "localAddr" {
				localAddr = attr.Value.String()
			}
			return true
		})
		assert.Equal(t, "127.0.0.1:54321", localAddr)
	}
}
