package http

import (
	"net/http"

	"github.com/abdul-hamid-achik/httpie/packages/kvpair"
)

type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

// NewJSONRequest builds a request whose body is the JSON object formed by pairs.
func NewJSONRequest(method, requestURL string, pairs kvpair.Pairs) (*Request, error) {
	body, err := kvpair.Body(pairs)
	if err != nil {
		return nil, err
	}
	r := NewRequest(method, requestURL)
	r.SetBody(body)
	r.SetHeader("Content-Type", "application/json")
	return r, nil
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[http.CanonicalHeaderKey(key)] = value
	return r
}

func (r *Request) SetHeaders(headers map[string]string) *Request {
	for k, v := range headers {
		r.SetHeader(k, v)
	}
	return r
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}
