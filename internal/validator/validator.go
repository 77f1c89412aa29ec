package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DefaultDeviceID is stored when the payload carries no device_id
const DefaultDeviceID = "unknown"

var (
	// ErrEmptyPayload is returned for an empty JSON object
	ErrEmptyPayload = errors.New("no data provided")
	// ErrMalformedPayload is returned for a missing, unparseable or non-object body
	ErrMalformedPayload = errors.New("invalid JSON payload")
)

// RangeRule describes one required numeric field and its inclusive bounds
type RangeRule struct {
	Field string
	Min   float64
	Max   float64
	Unit  string
}

// ReadingRules are the field rules applied to every sensor payload
var ReadingRules = []RangeRule{
	{Field: "temperature", Min: -50, Max: 100, Unit: "°C"},
	{Field: "humidity", Min: 0, Max: 100, Unit: "%"},
}

// FieldError describes a single rejected field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError holds every field error found in one validation stage
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Reading is a validated payload, ready to be timestamped and stored
type Reading struct {
	Temperature float64
	Humidity    float64
	DeviceID    string
}

// Payload is a decoded JSON object with numbers preserved as json.Number
type Payload map[string]any

// DecodePayload parses a request body into a Payload
func DecodePayload(body []byte) (Payload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrMalformedPayload
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	// exactly one JSON value per body
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrMalformedPayload)
	}
	if payload == nil {
		return nil, ErrMalformedPayload
	}
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	return payload, nil
}

// Validator checks payloads against a set of range rules
type Validator struct {
	rules []RangeRule
}

// NewValidator creates a new validator for the given rules
func NewValidator(rules []RangeRule) *Validator {
	return &Validator{rules: rules}
}

// Validate checks presence, then numeric type, then range of every rule,
// stopping after the first stage that reports errors.
func (v *Validator) Validate(payload Payload) (Reading, error) {
	var missing []string
	for _, rule := range v.rules {
		if _, ok := payload[rule.Field]; !ok {
			missing = append(missing, rule.Field)
		}
	}
	if len(missing) > 0 {
		fields := make([]FieldError, 0, len(missing))
		for _, name := range missing {
			fields = append(fields, FieldError{Field: name, Message: "field is required"})
		}
		return Reading{}, &ValidationError{
			Message: "Missing required fields: " + strings.Join(missing, ", "),
			Fields:  fields,
		}
	}

	values := make(map[string]float64, len(v.rules))
	var typeErrs []FieldError
	for _, rule := range v.rules {
		value, err := toFloat(payload[rule.Field])
		if err != nil {
			typeErrs = append(typeErrs, FieldError{
				Field:   rule.Field,
				Message: fmt.Sprintf("%s must be a numeric value", rule.Field),
			})
			continue
		}
		values[rule.Field] = value
	}
	if len(typeErrs) > 0 {
		return Reading{}, &ValidationError{Message: typeErrs[0].Message, Fields: typeErrs}
	}

	var rangeErrs []FieldError
	for _, rule := range v.rules {
		value := values[rule.Field]
		if !(value >= rule.Min && value <= rule.Max) {
			rangeErrs = append(rangeErrs, FieldError{
				Field: rule.Field,
				Message: fmt.Sprintf("%s out of valid range (%s to %s%s)",
					capitalize(rule.Field), formatBound(rule.Min), formatBound(rule.Max), rule.Unit),
			})
		}
	}
	if len(rangeErrs) > 0 {
		return Reading{}, &ValidationError{Message: rangeErrs[0].Message, Fields: rangeErrs}
	}

	deviceID, err := deviceIDFrom(payload)
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		Temperature: values["temperature"],
		Humidity:    values["humidity"],
		DeviceID:    deviceID,
	}, nil
}

func deviceIDFrom(payload Payload) (string, error) {
	raw, ok := payload["device_id"]
	if !ok || raw == nil {
		return DefaultDeviceID, nil
	}
	id, ok := raw.(string)
	if !ok {
		return "", &ValidationError{
			Message: "device_id must be a string",
			Fields:  []FieldError{{Field: "device_id", Message: "device_id must be a string"}},
		}
	}
	if strings.TrimSpace(id) == "" {
		return DefaultDeviceID, nil
	}
	return id, nil
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Float64()
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatBound(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
