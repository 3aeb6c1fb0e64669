package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/koustreak/tierline/internal/gateway/backend"
)

// Kind is the class of a page render. Exactly one applies per backend call.
type Kind int

const (
	KindNetworkError Kind = iota // no response at all
	KindAPIError                 // response status other than 200
	KindDecodeError              // body is not a JSON array
	KindEmpty                    // empty array
	KindRows                     // non-empty array
)

func (k Kind) String() string {
	switch k {
	case KindNetworkError:
		return "network_error"
	case KindAPIError:
		return "api_error"
	case KindDecodeError:
		return "decode_error"
	case KindEmpty:
		return "empty"
	case KindRows:
		return "rows"
	default:
		return "unknown"
	}
}

// missing stands in for an absent or null row field.
const missing = "?"

// Row is an item prepared for display. Values are raw text; escaping
// happens in the template.
type Row struct {
	ID   string
	Name string
}

// Outcome is the classified result of one backend call.
type Outcome struct {
	Kind    Kind
	Message string // set for the three failure kinds
	Rows    []Row  // set for KindRows
}

// Failed reports whether the outcome is one of the failure kinds.
func (o Outcome) Failed() bool {
	return o.Kind == KindNetworkError || o.Kind == KindAPIError || o.Kind == KindDecodeError
}

// Classify turns the result of backend.Client.Fetch into an Outcome,
// checking transport failure, then status, then body shape.
func Classify(resp *backend.Response, err error) Outcome {
	if err != nil || resp == nil {
		if err == nil {
			err = errors.New("no response from backend")
		}
		return Outcome{Kind: KindNetworkError, Message: "Failed to connect to API: " + err.Error()}
	}

	if !resp.OK() {
		return Outcome{Kind: KindAPIError, Message: "API Error: Received status " + resp.StatusLine}
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return Outcome{Kind: KindDecodeError, Message: "Failed to decode JSON response from API: " + err.Error()}
	}
	if len(rows) == 0 {
		return Outcome{Kind: KindEmpty}
	}
	return Outcome{Kind: KindRows, Rows: rows}
}

// decodeRows parses body as a JSON array. Any other JSON value, or
// invalid JSON, is an error.
func decodeRows(body []byte) ([]Row, error) {
	if !json.Valid(body) {
		// Unmarshal reports the precise syntax error.
		err := json.Unmarshal(body, new(any))
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %s", jsonType(v))
	}

	rows := make([]Row, 0, len(list))
	for _, el := range list {
		obj, _ := el.(map[string]any)
		rows = append(rows, Row{ID: field(obj, "id"), Name: field(obj, "name")})
	}
	return rows, nil
}

// field renders obj[key] as text, or missing when absent or null.
// Non-object elements arrive as a nil map and render missing for both fields.
func field(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return missing
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return missing
		}
		return string(b)
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
