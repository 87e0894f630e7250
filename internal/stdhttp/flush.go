package stdhttp

import (
	"mime/multipart"
	nethttp "net/http"
	"net/textproto"

	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
)

var crlf = []byte("\r\n")

// Flush writes the response collected by the sink. The first entity carries the response
// headers and the body. Additional entities are only possible in multipart responses and
// are written as parts, the first entity's body becoming the preamble.
func Flush(w nethttp.ResponseWriter, sink *response.Sink) error {
	first, found := sink.Entity()
	if !found {
		w.WriteHeader(int(sink.Status()))
		return nil
	}

	parts := sink.Entities()[1:]
	contentType, _ := first.Headers().ContentType()

	if len(parts) == 0 || !contentType.IsMultipart() {
		writeHeaders(w.Header(), first.Headers())
		w.WriteHeader(int(sink.Status()))
		_, err := w.Write(first.Body())
		return err
	}

	mw := multipart.NewWriter(w)
	if boundary, ok := contentType.Param("boundary"); ok {
		if err := mw.SetBoundary(boundary); err != nil {
			return err
		}
	}

	// the length of the first entity doesn't account for the parts
	hdrs := first.Headers().
		Without(headers.ContentLength).
		With(headers.ContentType, contentType.WithParam("boundary", mw.Boundary()))
	writeHeaders(w.Header(), hdrs)
	w.WriteHeader(int(sink.Status()))

	if preamble := first.Body(); len(preamble) > 0 {
		if _, err := w.Write(preamble); err != nil {
			return err
		}

		if _, err := w.Write(crlf); err != nil {
			return err
		}
	}

	for _, part := range parts {
		if err := writePart(mw, part); err != nil {
			return err
		}
	}

	return mw.Close()
}

func writePart(mw *multipart.Writer, part entity.Entity) error {
	hdrs := make(textproto.MIMEHeader, part.Headers().Len())
	for name, value := range part.Headers().Pairs() {
		hdrs.Add(name, value.String())
	}

	pw, err := mw.CreatePart(hdrs)
	if err != nil {
		return err
	}

	_, err = pw.Write(part.Body())
	return err
}

func writeHeaders(dst nethttp.Header, src headers.Map) {
	for name, value := range src.Pairs() {
		dst.Add(name, value.String())
	}
}
