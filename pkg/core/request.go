package core

import (
	"net/url"
	"strings"
)

// QueryParam is one key/value pair of a query string.
type QueryParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Request describes one exchange call before it is signed and sent.
// Builders construct it; nothing mutates it afterwards.
type Request struct {
	Op      Operation    `json:"op"`
	Method  string       `json:"method"`
	Path    string       `json:"path"`
	Query   []QueryParam `json:"query,omitempty"`
	Body    any          `json:"body,omitempty"`
	Private bool         `json:"private"`
	Schema  Schema       `json:"schema"`
}

// NewRequest starts a request from an endpoint descriptor.
func NewRequest(ep Endpoint) *Request {
	return &Request{
		Op:      ep.Op,
		Method:  ep.Method,
		Path:    ep.Path,
		Private: ep.Private,
		Schema:  ep.Schema,
	}
}

// SetQuery sets key to value, keeping the position of an existing key.
func (r *Request) SetQuery(key, value string) *Request {
	for i := range r.Query {
		if r.Query[i].Key == key {
			r.Query[i].Value = value
			return r
		}
	}
	r.Query = append(r.Query, QueryParam{Key: key, Value: value})
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

// QueryString encodes the query in insertion order.
func (r *Request) QueryString() string {
	if len(r.Query) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range r.Query {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// URL returns the path followed by the encoded query, if any.
func (r *Request) URL() string {
	qs := r.QueryString()
	if qs == "" {
		return r.Path
	}
	return r.Path + "?" + qs
}
