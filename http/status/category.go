package status

type Category uint8

const (
	Unknown Category = iota
	Information
	Successful
	Redirection
	ClientError
	ServerError
)

func (c Category) String() string {
	lut := [...]string{
		Unknown:     "unknown",
		Information: "information",
		Successful:  "successful",
		Redirection: "redirection",
		ClientError: "client error",
		ServerError: "server error",
	}
	if int(c) >= len(lut) {
		return lut[Unknown]
	}

	return lut[c]
}

// Category returns the class of the code, which is determined by its first digit.
func (c Code) Category() Category {
	switch {
	case c >= 100 && c < 200:
		return Information
	case c >= 200 && c < 300:
		return Successful
	case c >= 300 && c < 400:
		return Redirection
	case c >= 400 && c < 500:
		return ClientError
	case c >= 500 && c < 600:
		return ServerError
	default:
		return Unknown
	}
}

func (c Code) String() string {
	return StringCode(c) + " " + Text(c)
}

// RequiredHeaders returns names of headers, which a response with the code must include
// in order to be well-formed. The returned slice must not be modified.
func (c Code) RequiredHeaders() []string {
	switch c {
	case SwitchingProtocols, UpgradeRequired:
		return upgrade
	case MovedPermanently, Found, SeeOther, TemporaryRedirect, PermanentRedirect:
		return location
	case Unauthorized:
		return wwwAuthenticate
	case MethodNotAllowed:
		return allow
	case ProxyAuthRequired:
		return proxyAuthenticate
	default:
		return nil
	}
}

var (
	upgrade           = []string{"Upgrade"}
	location          = []string{"Location"}
	wwwAuthenticate   = []string{"WWW-Authenticate"}
	allow             = []string{"Allow"}
	proxyAuthenticate = []string{"Proxy-Authenticate"}
)

// StringCode returns the decimal representation of the code.
func StringCode(code Code) string {
	if code > 999 {
		return "???"
	}

	return string([]byte{
		byte('0' + code/100),
		byte('0' + code/10%10),
		byte('0' + code%10),
	})
}
