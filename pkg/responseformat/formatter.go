package responseformat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Content types written by the formatter
const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgPack = "application/x-msgpack"
)

// ErrEncoding wraps failures to encode a body. Nothing has been written to
// the client when WriteResponse returns it.
var ErrEncoding = errors.New("error encoding response")

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// WantsMsgPack reports whether the client asked for MessagePack with format=msgpack
func WantsMsgPack(req *http.Request) bool {
	return req.URL.Query().Get("format") == "msgpack"
}

// WriteResponse writes data with the given status code. JSON is the default
// format; MessagePack is used when format=msgpack is specified. The body is
// encoded before anything is written, so on an encoding error w is untouched
// and the caller can still send an error response.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, status int, data any) error {
	var (
		body        bytes.Buffer
		contentType string
		err         error
	)
	if WantsMsgPack(req) {
		contentType = ContentTypeMsgPack
		err = encodeMsgPack(&body, data)
	} else {
		contentType = ContentTypeJSON
		err = json.NewEncoder(&body).Encode(data)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	// Always set CORS header
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err = w.Write(body.Bytes())
	return err
}

// WriteError writes an {"error": msg} body with the given status code
func (f *Formatter) WriteError(w http.ResponseWriter, req *http.Request, status int, msg string) error {
	return f.WriteResponse(w, req, status, ErrorResponse{Error: msg})
}

func encodeMsgPack(buf *bytes.Buffer, data any) error {
	encoder := msgpack.NewEncoder(buf)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
