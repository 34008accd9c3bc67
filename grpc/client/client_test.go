package client

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	grpccfg "github.com/kbukum/vetta/grpc"
	"github.com/kbukum/vetta/logger"
)

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "vetta", buf)
}

func TestNewClient_LazyUnixTarget(t *testing.T) {
	var buf bytes.Buffer
	socket := filepath.Join(t.TempDir(), "missing.sock")

	conn, err := NewClient(socket, grpccfg.Config{}, testLogger(&buf))
	if err != nil {
		t.Fatalf("NewClient should not dial, got %v", err)
	}
	defer conn.Close()

	if want := "unix://" + socket; conn.Target() != want {
		t.Errorf("target = %q, want %q", conn.Target(), want)
	}
	if !strings.Contains(buf.String(), "gRPC client created") {
		t.Errorf("expected creation to be logged, got %q", buf.String())
	}
}

func TestNewClient_Rejects(t *testing.T) {
	var buf bytes.Buffer
	log := testLogger(&buf)

	if _, err := NewClient("", grpccfg.Config{}, log); err == nil {
		t.Error("expected error for empty socket path")
	}
	bad := grpccfg.Config{Keepalive: grpccfg.KeepaliveConfig{Time: time.Second}}
	if _, err := NewClient("/tmp/whisper.sock", bad, log); err == nil || !strings.Contains(err.Error(), "grpc client config") {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestBuildDialOptions_Keepalive(t *testing.T) {
	log := logger.NewDefault("test")
	base := len(buildDialOptions(grpccfg.Config{MaxRecvMsgSize: 1, MaxSendMsgSize: 1}, log))

	withKeepalive := grpccfg.Config{MaxRecvMsgSize: 1, MaxSendMsgSize: 1}
	withKeepalive.Keepalive.Time = 30 * time.Second
	if got := len(buildDialOptions(withKeepalive, log)); got != base+1 {
		t.Errorf("expected keepalive to add one option, got %d vs %d", got, base)
	}
}
