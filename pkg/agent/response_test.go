package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalize_NilResult(t *testing.T) {
	g := Normalize(nil)
	require.Equal(t, "", g.Explanation)
	require.Equal(t, "", g.ImageURL)
	require.True(t, g.Specs.IsZero())
}

func TestNormalize_EmptyObject(t *testing.T) {
	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{}`), &r))
	g := Normalize(&r)
	require.Equal(t, "", g.Explanation)
	require.Equal(t, "", g.ImageURL)
	require.True(t, g.Specs.IsZero())
}

func TestNormalize_ExplanationPrecedence(t *testing.T) {
	r := &Result{
		Success: true,
		Response: &Response{
			Message: strPtr("message"),
			Result: &InnerResult{
				RawText:  strPtr("outer"),
				Response: &NestedResponse{RawText: strPtr("nested")},
			},
		},
	}
	require.Equal(t, "nested", Normalize(r).Explanation)

	r.Response.Result.Response = nil
	require.Equal(t, "outer", Normalize(r).Explanation)

	r.Response.Result.RawText = nil
	require.Equal(t, "message", Normalize(r).Explanation)

	r.Response.Message = nil
	require.Equal(t, "", Normalize(r).Explanation)
}

func TestNormalize_PresentEmptyStringWins(t *testing.T) {
	// An explicitly present empty raw_text shadows the fallbacks, matching
	// present-but-empty semantics of the upstream payload.
	r := &Result{
		Response: &Response{
			Message: strPtr("message"),
			Result:  &InnerResult{Response: &NestedResponse{RawText: strPtr("")}},
		},
	}
	require.Equal(t, "", Normalize(r).Explanation)
}

func TestNormalize_FullPayload(t *testing.T) {
	raw := `{
		"success": true,
		"response": {
			"result": {
				"raw_text": "Done",
				"design_specifications": {
					"brand_name": "Acme",
					"colors": ["orange", "cream"]
				}
			}
		},
		"module_outputs": {"artifact_files": {"url": "http://x/img.png"}}
	}`
	var r Result
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	g := Normalize(&r)
	require.Equal(t, "Done", g.Explanation)
	require.Equal(t, "http://x/img.png", g.ImageURL)
	require.Equal(t, "Acme", g.Specs.BrandName)
	require.Equal(t, []string{"orange", "cream"}, g.Specs.Colors)
	require.Empty(t, g.Specs.GeometricElements)
}
