package errshape

import (
	"strings"
	"unicode/utf8"
)

const (
	// shortTitleLimit is the exclusive code-point bound for text promoted to a title.
	shortTitleLimit = 70
	// foldedDescriptionLimit caps "{title}: {message}" descriptions.
	foldedDescriptionLimit = 150
)

// Fallback issue messages for envelope entries that carry no text.
const (
	sdkIssueFallback       = "Validation issue"
	requestIssueFallback   = "API validation issue"
	connectorIssueFallback = "Connector validation error"
)

// FormIssue is one field-level problem. Path holds canonical segments and is
// nil when the problem cannot be tied to a field.
type FormIssue struct {
	Path    []string `json:"path,omitempty"`
	Message string   `json:"message"`
}

// PathString joins the issue path with dots, the form field identifiers use.
func (i FormIssue) PathString() string {
	return strings.Join(i.Path, ".")
}

// ParsedError is the normalized view of an error payload.
type ParsedError struct {
	ToastTitle       string      `json:"toastTitle"`
	ToastDescription string      `json:"toastDescription"`
	FormIssues       []FormIssue `json:"formIssues"`
	Origin           Origin      `json:"origin"`
}

type envelope int

const (
	envelopeNone envelope = iota
	envelopeSDK
	envelopeRequest
	envelopeConnector
)

// Parse normalizes apiError into a ParsedError. It never fails: unrecognized
// input degrades toward the default title, and the result always carries a
// non-empty title, a non-empty description and at least one FormIssue.
func Parse(apiError Value, opts ...Option) ParsedError {
	o := newParseOptions(opts)

	if !apiError.IsContainer() {
		return parseNonObject(apiError, o)
	}

	extracted := ExtractFor(apiError, o.resource)
	apiMsg, _ := apiError.Field("message").Str()
	best := firstNonEmpty(extracted.Message, apiMsg, o.defaultTitle)

	title, description := synthesizeTitle(apiError, best, apiMsg, o.defaultTitle)

	issues, env := structuredIssues(apiError, o.resource)
	if env == envelopeSDK {
		title, description = applySDKDetailMessage(apiError.Path("detail", "message"), title, description, o.defaultTitle)
	}

	if len(issues) == 0 && extracted.Found() {
		issues = append(issues, FormIssue{Path: extracted.Path, Message: extracted.Message})
	}

	if len(issues) == 0 {
		msg := firstNonEmpty(best, apiMsg, o.defaultTitle)
		issues = append(issues, FormIssue{Message: msg})
		if description == o.defaultTitle {
			description = msg
		}
	}

	title, description = reconcile(issues[0].Message, title, description, o.defaultTitle)

	return ParsedError{
		ToastTitle:       title,
		ToastDescription: description,
		FormIssues:       issues,
		Origin:           classify(env, extracted),
	}
}

func parseNonObject(v Value, o parseOptions) ParsedError {
	description := o.defaultTitle
	origin := OriginUnrecognized
	switch v.Kind() {
	case KindString:
		if s, ok := v.Str(); ok {
			description = s
			origin = OriginGeneric
		}
	case KindNumber, KindBool:
		description = v.String()
	}
	return ParsedError{
		ToastTitle:       o.defaultTitle,
		ToastDescription: description,
		FormIssues:       []FormIssue{{Message: description}},
		Origin:           origin,
	}
}

// synthesizeTitle picks the toast title. The branch order is load-bearing;
// downstream consumers depend on exactly this precedence.
func synthesizeTitle(apiError Value, best, apiMsg, defaultTitle string) (title, description string) {
	title, description = defaultTitle, best

	detail := apiError.Field("detail")
	detailType := firstString(detail.Field("typeName"), detail.Field("name"))

	switch {
	case apiMsg != "" && apiMsg != best && !strings.Contains(best, apiMsg) && runeLen(apiMsg) < shortTitleLimit:
		title = apiMsg
	case detailType != "" && detailType != best:
		title = detailType
	case runeLen(best) < shortTitleLimit && best != defaultTitle && best != apiMsg:
		title = best
		if apiMsg != "" && apiMsg != title {
			description = apiMsg + ": " + best
		} else if apiMsg != "" {
			description = apiMsg
		}
	}
	return title, description
}

// structuredIssues maps the first recognized detail envelope to form issues.
func structuredIssues(apiError Value, resource string) ([]FormIssue, envelope) {
	detail := apiError.Field("detail")

	if name, _ := detail.Field("name").Str(); name == "SDKValidationError" {
		if list := detail.Field("issues"); nonEmptyArray(list) {
			return mapIssues(list, func(issue Value) FormIssue {
				return FormIssue{
					Path: NormalizePath(joinPath(issue.Field("path")), resource),
					Message: firstNonEmpty(
						ExtractFor(issue, resource).Message,
						stringField(issue, "message"),
						sdkIssueFallback,
					),
				}
			}), envelopeSDK
		}
	}

	if typeName, _ := detail.Field("typeName").Str(); typeName == "RequestValidationError" {
		if list := detail.Path("detail", "errors"); nonEmptyArray(list) {
			return mapIssues(list, func(e Value) FormIssue {
				return FormIssue{
					Path:    NormalizePath(joinPath(e.Field("path")), resource),
					Message: firstNonEmpty(stringField(e, "message"), requestIssueFallback),
				}
			}), envelopeRequest
		}
	}

	if list := detail.Path("error", "Errors"); nonEmptyArray(list) {
		return mapIssues(list, func(e Value) FormIssue {
			details := stringField(e, "AdditionalDetails")
			return FormIssue{
				Path:    NormalizePath(details, resource),
				Message: firstNonEmpty(details, stringField(e, "Message"), connectorIssueFallback),
			}
		}), envelopeConnector
	}

	return nil, envelopeNone
}

// applySDKDetailMessage lets a specific detail.message on an SDKValidationError
// replace a generic title, or otherwise the description.
func applySDKDetailMessage(v Value, title, description, defaultTitle string) (string, string) {
	msg, ok := v.Str()
	if !ok || IsGenericMessage(msg) || msg == description || msg == title {
		return title, description
	}
	if isGenericTitle(title, defaultTitle) && runeLen(msg) < shortTitleLimit {
		return msg, description
	}
	return title, msg
}

// reconcile folds the first issue into the toast when neither title nor
// description already says it.
func reconcile(first, title, description, defaultTitle string) (string, string) {
	if first != title && first != description {
		if isGenericTitle(title, defaultTitle) {
			description = first
		} else {
			description = truncateRunes(title+": "+first, foldedDescriptionLimit)
		}
	}
	if title == description && runeLen(title) > shortTitleLimit {
		title = defaultTitle
	}
	return title, description
}

func classify(env envelope, extracted ExtractionResult) Origin {
	switch env {
	case envelopeSDK, envelopeRequest:
		return OriginGateway
	case envelopeConnector:
		return OriginConnector
	}
	return originFromShape(extracted.Shape)
}

func isGenericTitle(title, defaultTitle string) bool {
	return title == defaultTitle || strings.Contains(lower(title), "connector")
}

func mapIssues(list Value, fn func(Value) FormIssue) []FormIssue {
	out := make([]FormIssue, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, fn(list.Index(i)))
	}
	return out
}

// joinPath accepts either a dotted string or an array of segments.
func joinPath(v Value) string {
	switch v.Kind() {
	case KindString:
		return v.String()
	case KindArray:
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, v.Index(i).String())
		}
		return strings.Join(parts, ".")
	default:
		return ""
	}
}

func nonEmptyArray(v Value) bool {
	return v.Kind() == KindArray && v.Len() > 0
}

func stringField(v Value, key string) string {
	s, _ := v.Field(key).Str()
	return s
}

func firstString(values ...Value) string {
	for _, v := range values {
		if s, ok := v.Str(); ok {
			return s
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
