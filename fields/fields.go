// Package fields provides attribute helpers with consistent naming for
// events reported through the bridge.
//
// Usage:
//
//	import "github.com/JupiterMetaLabs/ionbridge/fields"
//
//	bridge.RecordCustomEvent("Checkout", "order_placed", ionbridge.Attrs{
//	    fields.Component("cart"),
//	    fields.DurationMs(12.5),
//	    fields.Success(true),
//	})
package fields

import "github.com/JupiterMetaLabs/ionbridge"

// Attribute keys shared by the middleware and the helpers below.
const (
	KeyComponent  = "component"
	KeyOperation  = "operation"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatusCode = "status_code"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyRPCService = "rpc_service"
	KeyRPCMethod  = "rpc_method"
	KeyRPCKind    = "rpc_kind"
	KeyDuration   = "duration_ms"
	KeySession    = "session_id"
	KeyScreen     = "screen"
	KeyReason     = "reason"
)

// --- Request Fields ---

// Method creates a method name field (gRPC/HTTP).
func Method(method string) ionbridge.Attr {
	return ionbridge.A(KeyMethod, method)
}

// Path creates a request path field.
func Path(path string) ionbridge.Attr {
	return ionbridge.A(KeyPath, path)
}

// StatusCode creates a response status code field.
func StatusCode(code int) ionbridge.Attr {
	return ionbridge.A(KeyStatusCode, code)
}

// RemoteAddr creates a remote address field.
func RemoteAddr(addr string) ionbridge.Attr {
	return ionbridge.A(KeyRemoteAddr, addr)
}

// UserAgent creates a user agent field.
func UserAgent(ua string) ionbridge.Attr {
	return ionbridge.A(KeyUserAgent, ua)
}

// RPCService creates a gRPC service name field.
func RPCService(service string) ionbridge.Attr {
	return ionbridge.A(KeyRPCService, service)
}

// RPCMethod creates a gRPC method name field.
func RPCMethod(method string) ionbridge.Attr {
	return ionbridge.A(KeyRPCMethod, method)
}

// RPCKind creates a gRPC call kind field ("unary" or "stream").
func RPCKind(kind string) ionbridge.Attr {
	return ionbridge.A(KeyRPCKind, kind)
}

// --- Application Fields ---

// Component creates a component name field.
func Component(name string) ionbridge.Attr {
	return ionbridge.A(KeyComponent, name)
}

// Operation creates an operation name field.
func Operation(op string) ionbridge.Attr {
	return ionbridge.A(KeyOperation, op)
}

// Session creates a session ID field.
func Session(id string) ionbridge.Attr {
	return ionbridge.A(KeySession, id)
}

// Screen creates a screen or view name field.
func Screen(name string) ionbridge.Attr {
	return ionbridge.A(KeyScreen, name)
}

// --- Timing Fields ---

// DurationMs creates a duration field in milliseconds.
func DurationMs(ms float64) ionbridge.Attr {
	return ionbridge.A(KeyDuration, ms)
}

// --- Status Fields ---

// Success creates a success boolean field.
func Success(ok bool) ionbridge.Attr {
	return ionbridge.A("success", ok)
}

// Reason creates a reason field (for failures/decisions).
func Reason(r string) ionbridge.Attr {
	return ionbridge.A(KeyReason, r)
}
