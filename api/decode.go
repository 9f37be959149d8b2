package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

func isJSONContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// DoInto performs the request with normalized-error semantics and decodes the
// response into dst. A JSON content type selects JSON decoding; anything else
// is read as plain text, which requires dst to be *string or *[]byte.
// The response body is always closed.
func (c *Client) DoInto(req *http.Request, dst any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	if resp.Body == nil {
		return nil
	}
	defer resp.Body.Close()

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if !isJSONContentType(resp.Header.Get("Content-Type")) {
		return decodeText(req, resp, dst)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(req.Method, req.URL.String(), err, false)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// The server labeled the body as JSON but it does not parse; report
		// it as a transport-class failure with the decode error as cause.
		return newTransportError(req.Method, req.URL.String(), err, false)
	}
	return nil
}

func decodeText(req *http.Request, resp *http.Response, dst any) error {
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(req.Method, req.URL.String(), err, false)
	}
	switch d := dst.(type) {
	case *string:
		*d = string(b)
		return nil
	case *[]byte:
		*d = b
		return nil
	case *any:
		*d = string(b)
		return nil
	default:
		return newTransportError(req.Method, req.URL.String(),
			errors.New("non-JSON response requires a *string, *[]byte or *any target"), false)
	}
}
