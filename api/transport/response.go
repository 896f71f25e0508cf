package transport

import "encoding/json"

// Meta carries pagination information alongside a list payload. Total is the
// filtered count before slicing, so callers can render page controls.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Response is the success envelope. Data is always present on the wire, even
// when null (delete returns data: null). Error responses are carried by
// domain.Error instead; exactly one of the two shapes is ever emitted.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// NewResponse wraps a payload in a success envelope.
func NewResponse(data any) *Response {
	return &Response{Data: data}
}

// NewListResponse wraps a page of results with its pagination meta.
func NewListResponse(data any, meta Meta) *Response {
	return &Response{Data: data, Meta: &meta}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (r *Response) String() string {
	out, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(out)
}
