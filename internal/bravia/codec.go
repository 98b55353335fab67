// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bravia

import (
	"encoding/json"
	"fmt"
)

// ResultShape selects how a method's result payload is unwrapped. The
// device documents which shape each method returns; callers pick it
// explicitly instead of guessing per call site.
type ResultShape int

const (
	// ShapeNone ignores the result payload entirely
	ShapeNone ResultShape = iota
	// ShapeFlat unwraps result as a one-element array holding one mapping
	ShapeFlat
	// ShapeNested unwraps result as [_, [mapping, ...]]
	ShapeNested
)

type requestKind int

const (
	kindSimple requestKind = iota
	kindWithParams
	kindRawIRCC
)

// Request is a closed set of request variants: a parameterless REST call,
// a REST call with parameters, or a raw IRCC code injection. Service
// resolution is carried by the variant itself.
type Request struct {
	kind    requestKind
	method  BraviaMethod
	params  []any
	service BraviaService
	code    BraviaRemoteCode
}

// Simple builds a parameterless REST request
func Simple(method BraviaMethod) Request {
	return Request{kind: kindSimple, method: method}
}

// WithParams builds a REST request carrying parameters
func WithParams(method BraviaMethod, params ...any) Request {
	return Request{kind: kindWithParams, method: method, params: params}
}

// RawIRCC builds a SOAP infrared-code injection request
func RawIRCC(code BraviaRemoteCode) Request {
	return Request{kind: kindRawIRCC, code: code}
}

// OnService overrides the service binding. Needed for getMethodTypes,
// which is valid against every service.
func (r Request) OnService(service BraviaService) Request {
	r.service = service
	return r
}

// resolveService returns the service path segment for this request
func (r Request) resolveService() (BraviaService, error) {
	if r.service != "" {
		return r.service, nil
	}
	service, ok := serviceBindings[r.method]
	if !ok {
		return "", fmt.Errorf("%w: no service binding for method %q", ErrNotFound, r.method)
	}
	return service, nil
}

// CreatePayload assembles the JSON-RPC-shaped request body
func CreatePayload(id int, method BraviaMethod, params []any) BraviaPayload {
	if params == nil {
		params = []any{}
	}

	return BraviaPayload{
		ID:      id,
		Version: "1.0",
		Method:  string(method),
		Params:  params,
	}
}

// irccEnvelope is the fixed SOAP body with the code substituted into a
// single element
const irccEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
  <s:Body>
    <u:X_SendIRCC xmlns:u="urn:schemas-sony-com:service:IRCC:1">
      <IRCCCode>%s</IRCCCode>
    </u:X_SendIRCC>
  </s:Body>
</s:Envelope>`

// envelope mirrors the three response shapes the device produces: a
// result payload, an error pair, or both absent
type envelope struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  []any           `json:"error"`
}

// Do executes a request and decodes the response per the given shape.
// An embedded error field in a 200 response is surfaced as
// *ApplicationError, a failure channel distinct from transport errors.
func (c *BraviaClient) Do(req Request, shape ResultShape) (*Result, error) {
	if req.kind == kindRawIRCC {
		// IRCC responses are fire-and-forget; no body parsing
		body := fmt.Sprintf(irccEnvelope, req.code)
		if _, err := c.Post(IRCCService, "text/xml; charset=utf-8", []byte(body)); err != nil {
			return nil, fmt.Errorf("ircc request failed: %w", err)
		}
		return &Result{}, nil
	}

	service, err := req.resolveService()
	if err != nil {
		return nil, err
	}

	payload := CreatePayload(1, req.method, req.params)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	respBody, err := c.Post(service, "application/json", data)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", req.method, err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("%s: invalid response: %w", req.method, err)
	}

	if len(env.Error) == 2 {
		code, _ := env.Error[0].(float64)
		message := asString(env.Error[1])
		return nil, &ApplicationError{Code: int(code), Message: message}
	}

	return normalizeResult(env.Result, shape)
}
