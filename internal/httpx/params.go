package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"catalogapi/internal/record"
)

// ErrInvalidBody is returned when a request body cannot be decoded.
var ErrInvalidBody = &record.InvalidInputError{Message: "Invalid request body"}

// Params holds the raw request parameters of a create/update call. A key
// that is present with an empty value is different from a missing key.
type Params map[string]string

// Lookup returns the raw value of key and whether it was sent at all.
func (p Params) Lookup(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Get returns the raw value of key, or "" when absent.
func (p Params) Get(key string) string {
	return p[key]
}

// ReadParams collects parameters from the query string and the body. The
// body may be a JSON object, urlencoded or multipart form; body values win
// over query values. JSON strings are taken as-is, JSON null counts as
// absent, and any other JSON value is kept as its JSON text so a native
// array such as [1,2] reads the same as the string "[1,2]".
func ReadParams(r *http.Request) (Params, error) {
	params := Params{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	if r.Body == nil || r.Body == http.NoBody {
		return params, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json":
		return params, readJSONParams(r, params)
	case mediaType == "application/x-www-form-urlencoded", strings.HasPrefix(mediaType, "multipart/"):
		return params, readFormParams(r, params)
	default:
		return params, nil
	}
}

func readJSONParams(r *http.Request, params Params) error {
	var body map[string]json.RawMessage
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	for key, raw := range body {
		text := strings.TrimSpace(string(raw))
		switch {
		case text == "null":
			delete(params, key)
		case strings.HasPrefix(text, `"`):
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidBody, err)
			}
			params[key] = s
		default:
			params[key] = text
		}
	}
	return nil
}

func readFormParams(r *http.Request, params Params) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(32 << 10)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	for key, values := range r.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return nil
}
