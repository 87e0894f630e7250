// Package transport describes whether a request arrived over an encrypted connection.
package transport

type Transport uint8

const (
	Insecure Transport = iota
	Secure
)

func (t Transport) String() string {
	if t == Secure {
		return "secure"
	}

	return "insecure"
}

// Scheme returns the URL scheme, conventionally associated with the transport.
func (t Transport) Scheme() string {
	if t == Secure {
		return "https"
	}

	return "http"
}
