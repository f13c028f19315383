package errshape

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireWellFormed(t *testing.T, p ParsedError) {
	t.Helper()
	require.NotEmpty(t, p.ToastTitle)
	require.NotEmpty(t, p.ToastDescription)
	require.NotEmpty(t, p.FormIssues)
	for _, issue := range p.FormIssues {
		require.NotEmpty(t, issue.Message)
	}
}

func TestParse_BareString(t *testing.T) {
	p := Parse(NewString("Network timeout"))
	assert.Equal(t, ParsedError{
		ToastTitle:       DefaultTitle,
		ToastDescription: "Network timeout",
		FormIssues:       []FormIssue{{Message: "Network timeout"}},
		Origin:           OriginGeneric,
	}, p)
}

func TestParse_NonObjectInputs(t *testing.T) {
	p := Parse(Null(), WithDefaultTitle("Could not save invoice"))
	assert.Equal(t, "Could not save invoice", p.ToastTitle)
	assert.Equal(t, "Could not save invoice", p.ToastDescription)
	assert.Equal(t, []FormIssue{{Message: "Could not save invoice"}}, p.FormIssues)
	assert.Equal(t, OriginUnrecognized, p.Origin)

	p = Parse(NewNumber("502"))
	assert.Equal(t, "502", p.ToastDescription)
	assert.Equal(t, "502", p.FormIssues[0].Message)

	p = Parse(NewString(""))
	assert.Equal(t, DefaultTitle, p.ToastDescription)
}

func TestParse_EmptyObject(t *testing.T) {
	p := Parse(NewObject(nil))
	assert.Equal(t, ParsedError{
		ToastTitle:       DefaultTitle,
		ToastDescription: DefaultTitle,
		FormIssues:       []FormIssue{{Message: DefaultTitle}},
		Origin:           OriginUnrecognized,
	}, p)
}

func TestParse_DenylistedMessageStillSurfaces(t *testing.T) {
	p := Parse(obj(map[string]any{"message": "An unknown connector error occurred"}))
	requireWellFormed(t, p)
	assert.Equal(t, DefaultTitle, p.ToastTitle)
	assert.Equal(t, "An unknown connector error occurred", p.ToastDescription)
	assert.Equal(t, "An unknown connector error occurred", p.FormIssues[0].Message)
}

func TestParse_ErrorsArrayPath(t *testing.T) {
	p := Parse(obj(map[string]any{
		"Errors": []any{map[string]any{"Message": "Field invalid", "AdditionalDetails": "Lines[0].TaxCode.UID"}},
	}), WithResourceName("invoice"))

	assert.Equal(t, "Field invalid", p.ToastTitle)
	assert.Equal(t, "Field invalid", p.ToastDescription)
	require.Len(t, p.FormIssues, 1)
	assert.Equal(t, []string{"invoice", "lineitems", "0", "taxcode", "id"}, p.FormIssues[0].Path)
	assert.Equal(t, "invoice.lineitems.0.taxcode.id", p.FormIssues[0].PathString())
	assert.Equal(t, OriginConnector, p.Origin)
}

func TestParse_TitleFromTopLevelMessage(t *testing.T) {
	p := Parse(obj(map[string]any{
		"message":  "Connector request failed",
		"Elements": []any{map[string]any{"ValidationErrors": []any{map[string]any{"Message": "Invalid tax rate"}}}},
	}))
	assert.Equal(t, "Connector request failed", p.ToastTitle)
	assert.Equal(t, "Invalid tax rate", p.ToastDescription)
	assert.Equal(t, []FormIssue{{Message: "Invalid tax rate"}}, p.FormIssues)
}

func TestParse_TitleFromDenylistedTopLevelMessage(t *testing.T) {
	p := Parse(obj(map[string]any{
		"message": "Bad Request",
		"detail":  map[string]any{"Elements": []any{map[string]any{"Message": "Contact name required"}}},
	}))
	assert.Equal(t, "Bad Request", p.ToastTitle)
	assert.Equal(t, "Contact name required", p.ToastDescription)
	assert.Equal(t, OriginConnector, p.Origin)
}

func TestParse_TitleFromBestMessage(t *testing.T) {
	p := Parse(obj(map[string]any{
		"Message":     "Tax rate is inactive",
		"ErrorNumber": 10,
		"Type":        "ValidationError",
	}))
	assert.Equal(t, "Tax rate is inactive", p.ToastTitle)
	assert.Equal(t, "Tax rate is inactive", p.ToastDescription)
	assert.Equal(t, OriginConnector, p.Origin)
}

func TestParse_TitleFromBestMessageFoldsShortTopLevel(t *testing.T) {
	p := Parse(obj(map[string]any{
		"message":  "Invalid",
		"Elements": []any{map[string]any{"ValidationErrors": []any{map[string]any{"Message": "Invalid tax rate"}}}},
	}))
	assert.Equal(t, "Invalid tax rate", p.ToastTitle)
	assert.Equal(t, "Invalid: Invalid tax rate", p.ToastDescription)
}

func TestParse_RequestValidationError(t *testing.T) {
	p := Parse(obj(map[string]any{
		"detail": map[string]any{
			"typeName": "RequestValidationError",
			"detail": map[string]any{
				"errors": []any{
					map[string]any{"path": "request.body.Contact.Email", "message": "must be a valid email"},
					map[string]any{"path": "request.body.Date", "message": ""},
				},
			},
		},
	}), WithResourceName("customer"))

	assert.Equal(t, "RequestValidationError", p.ToastTitle)
	assert.Equal(t, "must be a valid email", p.ToastDescription)
	assert.Equal(t, []FormIssue{
		{Path: []string{"customer", "contact", "email"}, Message: "must be a valid email"},
		{Path: []string{"customer", "date"}, Message: "API validation issue"},
	}, p.FormIssues)
	assert.Equal(t, OriginGateway, p.Origin)
}

func TestParse_SDKValidationError(t *testing.T) {
	p := Parse(obj(map[string]any{
		"message": "Input validation failed",
		"detail": map[string]any{
			"name":    "SDKValidationError",
			"message": "Invoice date is required",
			"issues": []any{
				map[string]any{"path": []any{"Lines", 0, "Amount"}, "message": "Expected number, received string"},
				map[string]any{"path": []any{"dueDate"}, "message": "Required"},
				map[string]any{"path": []any{"contact", "name"}},
			},
		},
	}), WithResourceName("invoice"))

	assert.Equal(t, "SDKValidationError", p.ToastTitle)
	assert.Equal(t, "SDKValidationError: Expected number, received string", p.ToastDescription)
	assert.Equal(t, []FormIssue{
		{Path: []string{"lines", "0", "amount"}, Message: "Expected number, received string"},
		{Message: "Required"},
		{Path: []string{"contact", "name"}, Message: "Validation issue"},
	}, p.FormIssues)
	assert.Equal(t, OriginGateway, p.Origin)
}

func TestParse_ConnectorErrorsUnderDetail(t *testing.T) {
	p := Parse(obj(map[string]any{
		"message": "Request failed with status code 400",
		"detail": map[string]any{
			"error": map[string]any{
				"Errors": []any{
					map[string]any{"Message": "Invalid account code", "AdditionalDetails": "The account code 999 does not exist"},
					map[string]any{"Message": "Invalid tax code", "AdditionalDetails": "Lines[1].TaxCode.UID"},
					map[string]any{},
				},
			},
		},
	}), WithResourceName("bill"))

	assert.Equal(t, DefaultTitle, p.ToastTitle)
	assert.Equal(t, "The account code 999 does not exist", p.ToastDescription)
	assert.Equal(t, []FormIssue{
		{Message: "The account code 999 does not exist"},
		{Path: []string{"bill", "lineitems", "1", "taxcode", "id"}, Message: "Lines[1].TaxCode.UID"},
		{Message: "Connector validation error"},
	}, p.FormIssues)
	assert.Equal(t, OriginConnector, p.Origin)
}

func TestParse_FoldedDescriptionIsTruncated(t *testing.T) {
	long := strings.Repeat("line amount exceeds limit ", 10)
	p := Parse(obj(map[string]any{
		"message": "Input validation failed",
		"detail": map[string]any{
			"name":   "SDKValidationError",
			"issues": []any{map[string]any{"path": []any{"lines", 0}, "message": long}},
		},
	}))

	assert.Equal(t, "SDKValidationError", p.ToastTitle)
	assert.Equal(t, foldedDescriptionLimit, utf8.RuneCountInString(p.ToastDescription))
	assert.True(t, strings.HasPrefix(p.ToastDescription, "SDKValidationError: line amount"))
}

func TestParse_DepthBound(t *testing.T) {
	v := nest(20, obj(map[string]any{"message": "deep failure"}))
	var p ParsedError
	require.NotPanics(t, func() { p = Parse(v) })
	requireWellFormed(t, p)
	assert.Equal(t, DefaultTitle, p.ToastDescription)
}

func TestParse_Idempotent(t *testing.T) {
	v := obj(map[string]any{
		"message": "Input validation failed",
		"detail": map[string]any{
			"name":   "SDKValidationError",
			"issues": []any{map[string]any{"path": []any{"Lines", 0, "Amount"}, "message": "Expected number"}},
		},
	})
	before, err := v.MarshalJSON()
	require.NoError(t, err)

	first := Parse(v, WithResourceName("invoice"))
	second := Parse(v, WithResourceName("invoice"))
	assert.Equal(t, first, second)

	after, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestParse_AlwaysWellFormed(t *testing.T) {
	inputs := []string{
		`null`, `""`, `"x"`, `0`, `-1.5e3`, `true`, `false`, `[]`, `{}`, `[null]`, `[{"message":"in array"}]`,
		`{"message":null}`, `{"message":42}`, `{"Elements":[]}`, `{"Elements":[null]}`, `{"Errors":[1,2]}`,
		`{"detail":{"name":"SDKValidationError","issues":[]}}`,
		`{"detail":{"name":"SDKValidationError","issues":["bad"]}}`,
		`{"detail":{"typeName":"RequestValidationError","detail":{"errors":[{}]}}}`,
		`{"detail":{"error":{"Errors":[null]}}}`,
		`{"error":{"error":{"error":{"Message":"x","ErrorNumber":0,"Type":"Fault"}}}}`,
	}
	for _, in := range inputs {
		v, err := Decode([]byte(in))
		require.NoError(t, err, in)
		requireWellFormed(t, Parse(v))
	}
}

func TestReconcile(t *testing.T) {
	long := strings.Repeat("x", shortTitleLimit+1)

	title, desc := reconcile(long, long, long, DefaultTitle)
	assert.Equal(t, DefaultTitle, title)
	assert.Equal(t, long, desc)

	title, desc = reconcile("Amount is required", "Connector error", "Something", DefaultTitle)
	assert.Equal(t, "Connector error", title)
	assert.Equal(t, "Amount is required", desc)

	title, desc = reconcile("Amount is required", "Invoice rejected", "Something", DefaultTitle)
	assert.Equal(t, "Invoice rejected", title)
	assert.Equal(t, "Invoice rejected: Amount is required", desc)
}

func TestApplySDKDetailMessage(t *testing.T) {
	title, desc := applySDKDetailMessage(NewString("Invoice date is required"), DefaultTitle, "Input invalid", DefaultTitle)
	assert.Equal(t, "Invoice date is required", title)
	assert.Equal(t, "Input invalid", desc)

	title, desc = applySDKDetailMessage(NewString("Invoice date is required"), "SDKValidationError", "Input invalid", DefaultTitle)
	assert.Equal(t, "SDKValidationError", title)
	assert.Equal(t, "Invoice date is required", desc)

	title, desc = applySDKDetailMessage(NewString("Bad Request"), DefaultTitle, "Input invalid", DefaultTitle)
	assert.Equal(t, DefaultTitle, title)
	assert.Equal(t, "Input invalid", desc)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo wörld", 5))
	assert.Equal(t, "short", truncateRunes("short", 10))
}
