package fields

import (
	"testing"

	"github.com/JupiterMetaLabs/ionbridge"
)

func TestFields(t *testing.T) {
	tests := []struct {
		attr ionbridge.Attr
		key  string
		want string
	}{
		{Method("GET"), KeyMethod, "GET"},
		{Path("/orders"), KeyPath, "/orders"},
		{StatusCode(503), KeyStatusCode, "503"},
		{RemoteAddr("10.0.0.1:443"), KeyRemoteAddr, "10.0.0.1:443"},
		{UserAgent("curl/8"), KeyUserAgent, "curl/8"},
		{RPCService("pkg.Svc"), KeyRPCService, "pkg.Svc"},
		{RPCMethod("Get"), KeyRPCMethod, "Get"},
		{RPCKind("unary"), KeyRPCKind, "unary"},
		{Component("checkout"), KeyComponent, "checkout"},
		{Operation("pay"), KeyOperation, "pay"},
		{Session("s-1"), KeySession, "s-1"},
		{Screen("home"), KeyScreen, "home"},
		{DurationMs(12.5), KeyDuration, "12.5"},
		{Success(true), "success", "true"},
		{Reason("timeout"), KeyReason, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("key = %v, want %q", tt.attr.Key, tt.key)
			}
			if got := ionbridge.Stringify(tt.attr.Value); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFields_AsEventAttributes(t *testing.T) {
	m := ionbridge.Attrs{Method("POST"), Path("/a"), Path("/b")}.Map()
	if len(m) != 2 || m[KeyPath] != "/b" {
		t.Errorf("Map() = %v", m)
	}
}
