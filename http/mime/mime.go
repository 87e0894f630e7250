// Package mime names the media types and charsets the server deals with and guesses
// media types of files served from disk.
package mime

import (
	"path/filepath"
	"strings"
)

type (
	// MIME is a media type essence: type and subtype without parameters.
	MIME = string
	// Charset is a charset name as it appears in Content-Type and Accept-Charset.
	Charset = string
)

const UTF8 Charset = "utf-8"

const (
	OctetStream    MIME = "application/octet-stream"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	CSS            MIME = "text/css"
	JS             MIME = "text/javascript"
	XML            MIME = "text/xml"
	JSON           MIME = "application/json"
	YAML           MIME = "application/yaml"
	PDF            MIME = "application/pdf"
	WASM           MIME = "application/wasm"
	ZIP            MIME = "application/zip"
	GZIP           MIME = "application/gzip"
	PNG            MIME = "image/png"
	JPEG           MIME = "image/jpeg"
	GIF            MIME = "image/gif"
	SVG            MIME = "image/svg+xml"
	WEBP           MIME = "image/webp"
	ICO            MIME = "image/vnd.microsoft.icon"
)

var byExtension = map[string]MIME{
	".txt":  Plain,
	".htm":  HTML,
	".html": HTML,
	".css":  CSS,
	".js":   JS,
	".mjs":  JS,
	".xml":  XML,
	".json": JSON,
	".yaml": YAML,
	".yml":  YAML,
	".pdf":  PDF,
	".wasm": WASM,
	".zip":  ZIP,
	".gz":   GZIP,
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".svg":  SVG,
	".webp": WEBP,
	".ico":  ICO,
}

// DefaultCharset holds charsets textual media types are assumed to be encoded in
// when the Content-Type carries none.
var DefaultCharset = map[MIME]Charset{
	Plain: UTF8,
	HTML:  UTF8,
	CSS:   UTF8,
	JS:    UTF8,
	XML:   UTF8,
	JSON:  UTF8,
	YAML:  UTF8,
}

// Classify guesses the media type of the file by its extension, case-insensitively.
// Unknown extensions give OctetStream.
func Classify(path string) MIME {
	if m, ok := byExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}

	return OctetStream
}
