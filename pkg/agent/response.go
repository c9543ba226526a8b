package agent

// Result is the loosely-shaped payload returned by the design agent. The
// upstream service does not guarantee any field beyond success; everything
// below it is decoded into optional sub-structs so that absent objects stay
// nil and absent strings stay distinguishable from empty ones.
type Result struct {
	Success       bool           `json:"success"`
	Response      *Response      `json:"response,omitempty"`
	ModuleOutputs *ModuleOutputs `json:"module_outputs,omitempty"`
}

type Response struct {
	Message *string      `json:"message,omitempty"`
	Result  *InnerResult `json:"result,omitempty"`
}

type InnerResult struct {
	RawText              *string              `json:"raw_text,omitempty"`
	Response             *NestedResponse      `json:"response,omitempty"`
	DesignSpecifications *DesignSpecification `json:"design_specifications,omitempty"`
}

type NestedResponse struct {
	RawText *string `json:"raw_text,omitempty"`
}

type ModuleOutputs struct {
	ArtifactFiles *ArtifactFiles `json:"artifact_files,omitempty"`
}

type ArtifactFiles struct {
	URL *string `json:"url,omitempty"`
}

// DesignSpecification is the structured metadata accompanying a generated
// image. Every field is optional; consumers only render present, non-empty
// values.
type DesignSpecification struct {
	BrandName         string   `json:"brand_name,omitempty"`
	Dimensions        string   `json:"dimensions,omitempty"`
	Platform          string   `json:"platform,omitempty"`
	Style             string   `json:"style,omitempty"`
	Colors            []string `json:"colors,omitempty"`
	GeometricElements []string `json:"geometric_elements,omitempty"`
	LogoPlacement     []string `json:"logo_placement,omitempty"`
}

// IsZero reports whether no specification field is populated.
func (d DesignSpecification) IsZero() bool {
	return d.BrandName == "" && d.Dimensions == "" && d.Platform == "" && d.Style == "" &&
		len(d.Colors) == 0 && len(d.GeometricElements) == 0 && len(d.LogoPlacement) == 0
}

// Generated is the normalized view of a successful agent response.
type Generated struct {
	Explanation string
	ImageURL    string
	Specs       DesignSpecification
}

// Normalize extracts explanation text, image URL and design specifications
// from a raw result. Each value is resolved through an ordered chain of
// accessors, first present wins; a nil result or missing fields degrade to
// zero values rather than failing.
func Normalize(r *Result) Generated {
	g := Generated{}
	if r == nil {
		return g
	}
	for _, get := range []func(*Result) (string, bool){
		nestedRawText,
		resultRawText,
		topLevelMessage,
	} {
		if s, ok := get(r); ok {
			g.Explanation = s
			break
		}
	}
	if r.ModuleOutputs != nil && r.ModuleOutputs.ArtifactFiles != nil && r.ModuleOutputs.ArtifactFiles.URL != nil {
		g.ImageURL = *r.ModuleOutputs.ArtifactFiles.URL
	}
	if r.Response != nil && r.Response.Result != nil && r.Response.Result.DesignSpecifications != nil {
		g.Specs = *r.Response.Result.DesignSpecifications
	}
	return g
}

func nestedRawText(r *Result) (string, bool) {
	if r.Response == nil || r.Response.Result == nil || r.Response.Result.Response == nil {
		return "", false
	}
	if t := r.Response.Result.Response.RawText; t != nil {
		return *t, true
	}
	return "", false
}

func resultRawText(r *Result) (string, bool) {
	if r.Response == nil || r.Response.Result == nil {
		return "", false
	}
	if t := r.Response.Result.RawText; t != nil {
		return *t, true
	}
	return "", false
}

func topLevelMessage(r *Result) (string, bool) {
	if r.Response == nil {
		return "", false
	}
	if m := r.Response.Message; m != nil {
		return *m, true
	}
	return "", false
}
