package node

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroadcasterDeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe("tz1alice")
	defer cancel()

	b.Publish(LogRecord{Address: "tz1alice", Level: "INFO", Text: "hello"})

	select {
	case rec := <-ch:
		require.Equal(t, "hello", rec.Text)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for log record")
	}
}

func TestBroadcasterDoesNotCrossDeliver(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe("tz1bob")
	defer cancel()

	b.Publish(LogRecord{Address: "tz1alice", Level: "INFO", Text: "not for bob"})

	select {
	case <-ch:
		t.Fatal("bob's channel should not have received alice's record")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestParseLogLine(t *testing.T) {
	rec, ok := parseLogLine("[tz1alice] INFO: deposit applied")
	require.True(t, ok)
	require.Equal(t, "tz1alice", rec.Address)
	require.Equal(t, "INFO", rec.Level)
	require.Equal(t, "deposit applied", rec.Text)
}

type stubReceipts struct {
	receipts map[string]Receipt
}

func (s stubReceipts) Receipt(hash string) (Receipt, bool) {
	r, ok := s.receipts[hash]
	return r, ok
}

func TestHandleOperationFound(t *testing.T) {
	srv := New(NewBroadcaster(), stubReceipts{receipts: map[string]Receipt{
		"abc": {Hash: "abc", Success: true},
	}})

	req := httptest.NewRequest(http.MethodGet, "/operations/abc", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Success)
}

func TestHandleOperationNotFound(t *testing.T) {
	srv := New(NewBroadcaster(), stubReceipts{receipts: map[string]Receipt{}})

	req := httptest.NewRequest(http.MethodGet, "/operations/missing", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
