package codec

import (
	"github.com/indigo-web/facet/http/headers"
)

// Codec compresses whole bodies with a content coding.
type Codec interface {
	// Coding returns the content coding token associated with the codec.
	Coding() headers.Coding
	// Encode returns the compressed copy of the body. The source is left untouched.
	Encode(body []byte) ([]byte, error)
}
