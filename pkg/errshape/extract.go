package errshape

import "strings"

// MaxExtractDepth is the deepest nesting level Extract inspects; the root is depth 0.
const MaxExtractDepth = 7

// Shape names the rule that produced an ExtractionResult.
type Shape string

const (
	ShapeNone          Shape = "none"
	ShapeElements      Shape = "elements"
	ShapeErrors        Shape = "errors"
	ShapeFlatConnector Shape = "flat_connector"
	ShapeGeneric       Shape = "generic"
	ShapeFallback      Shape = "fallback"
)

// ExtractionResult is the most specific message found in an error payload.
type ExtractionResult struct {
	Message             string   `json:"message,omitempty"`
	Path                []string `json:"path,omitempty"`
	IsConnectorSpecific bool     `json:"isConnectorSpecific"`
	// Shape is the rule that fired, at whatever depth the message was found.
	Shape Shape `json:"shape"`
}

// Found reports whether a message was extracted.
func (r ExtractionResult) Found() bool { return r.Message != "" }

// genericDenylist marks messages too vague to count as specific.
var genericDenylist = []string{
	"connector",
	"unknown",
	"occurred",
	"failed to process",
	"internal server",
	"validation exception",
	"bad request",
}

// nestedKeys are descended into, in order, when no shape rule fires.
var nestedKeys = []string{"error", "detail", "errors", "issues"}

// IsGenericMessage reports whether msg contains one of the vague phrases
// gateways and connectors use for otherwise unexplained failures.
func IsGenericMessage(msg string) bool {
	l := lower(msg)
	for _, phrase := range genericDenylist {
		if strings.Contains(l, phrase) {
			return true
		}
	}
	return false
}

// Extract returns the single most specific human-readable message found
// anywhere in v, along with a canonical field path when the connector
// reported one. Extraction does not look below MaxExtractDepth and never
// modifies v.
func Extract(v Value) ExtractionResult {
	return extractAt(v, 0, DefaultResourceName)
}

// ExtractFor is Extract with paths qualified by resource.
func ExtractFor(v Value, resource string) ExtractionResult {
	return extractAt(v, 0, resource)
}

func extractAt(node Value, depth int, resource string) ExtractionResult {
	if !node.IsContainer() || depth > MaxExtractDepth {
		return ExtractionResult{Shape: ShapeNone}
	}

	if r, ok := fromElements(node); ok {
		return r
	}
	if r, ok := fromErrorsArray(node, resource); ok {
		return r
	}
	if r, ok := fromFlatConnector(node); ok {
		return r
	}
	if msg, ok := messageOf(node); ok && !IsGenericMessage(msg) {
		return ExtractionResult{Message: msg, Shape: ShapeGeneric}
	}

	for _, key := range nestedKeys {
		child, ok := node.Get(key)
		if !ok {
			continue
		}
		if child.Kind() == KindArray {
			if child.Len() == 0 {
				continue
			}
			child = child.Index(0)
		}
		if r := extractAt(child, depth+1, resource); r.Found() {
			return r
		}
	}

	if msg, ok := messageOf(node); ok {
		return ExtractionResult{Message: msg, Shape: ShapeFallback}
	}
	return ExtractionResult{Shape: ShapeNone}
}

// fromElements handles {Elements: [{ValidationErrors: [{Message}]}]} and
// {Elements: [{Message}]}.
func fromElements(node Value) (ExtractionResult, bool) {
	first, ok := firstItem(node.Field("Elements"))
	if !ok {
		return ExtractionResult{}, false
	}
	if ve, ok := firstItem(first.Field("ValidationErrors")); ok {
		if msg, ok := ve.Field("Message").Str(); ok {
			return ExtractionResult{Message: msg, IsConnectorSpecific: true, Shape: ShapeElements}, true
		}
	}
	if msg, ok := first.Field("Message").Str(); ok {
		return ExtractionResult{Message: msg, IsConnectorSpecific: true, Shape: ShapeElements}, true
	}
	return ExtractionResult{}, false
}

// fromErrorsArray handles {Errors: [{Message, AdditionalDetails}]}. When the
// chosen text is itself a field path, the path is normalized and the entry's
// Message is reported alongside it.
func fromErrorsArray(node Value, resource string) (ExtractionResult, bool) {
	first, ok := firstItem(node.Field("Errors"))
	if !ok {
		return ExtractionResult{}, false
	}
	message, hasMessage := first.Field("Message").Str()
	chosen, ok := first.Field("AdditionalDetails").Str()
	if !ok {
		chosen, ok = message, hasMessage
	}
	if !ok {
		return ExtractionResult{}, false
	}

	r := ExtractionResult{Message: chosen, IsConnectorSpecific: true, Shape: ShapeErrors}
	if LooksLikePath(chosen) {
		r.Path = NormalizePath(chosen, resource)
		if hasMessage {
			r.Message = message
		}
	}
	return r, true
}

// fromFlatConnector handles {Message, ErrorNumber, Type} where Type is not a
// ValidationException.
func fromFlatConnector(node Value) (ExtractionResult, bool) {
	msg, ok := node.Field("Message").Str()
	if !ok {
		return ExtractionResult{}, false
	}
	if !present(node, "ErrorNumber") || !present(node, "Type") {
		return ExtractionResult{}, false
	}
	if node.Field("Type").String() == "ValidationException" {
		return ExtractionResult{}, false
	}
	return ExtractionResult{Message: msg, IsConnectorSpecific: true, Shape: ShapeFlatConnector}, true
}

// messageOf returns node.message, else node.Message.
func messageOf(node Value) (string, bool) {
	if msg, ok := node.Field("message").Str(); ok {
		return msg, true
	}
	return node.Field("Message").Str()
}

func present(node Value, key string) bool {
	v, ok := node.Get(key)
	return ok && !v.IsNull()
}

// firstItem returns the first element of a non-empty Array.
func firstItem(v Value) (Value, bool) {
	if v.Kind() != KindArray || v.Len() == 0 {
		return Value{}, false
	}
	return v.Index(0), true
}
