package errshape

import "fmt"

// Origin classifies where the text of a ParsedError came from.
type Origin string

const (
	// OriginConnector covers Elements, Errors and flat connector shapes,
	// including connector errors the gateway wrapped under detail.error.
	OriginConnector Origin = "connector_structured_validation"
	// OriginGateway covers SDKValidationError and RequestValidationError envelopes.
	OriginGateway Origin = "gateway_structured_validation"
	// OriginGeneric is a flat message field, or usable non-object input.
	OriginGeneric Origin = "generic_message"
	// OriginUnrecognized means nothing usable was found.
	OriginUnrecognized Origin = "unrecognized"
)

// Origins lists every Origin in reporting order.
var Origins = []Origin{OriginConnector, OriginGateway, OriginGeneric, OriginUnrecognized}

// ParseOrigin validates s as an Origin name.
func ParseOrigin(s string) (Origin, error) {
	for _, o := range Origins {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown origin %q", s)
}

func originFromShape(s Shape) Origin {
	switch s {
	case ShapeElements, ShapeErrors, ShapeFlatConnector:
		return OriginConnector
	case ShapeGeneric, ShapeFallback:
		return OriginGeneric
	default:
		return OriginUnrecognized
	}
}
