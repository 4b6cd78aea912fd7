package domain

import "strings"

// ParamLocation identifies where a parameter travels in an HTTP request.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
	InBody   ParamLocation = "body"
	InFile   ParamLocation = "file"
)

// Param describes a single operation parameter. Body fields carry a dotted
// path in Name (e.g. "user.address.city"). A Param is treated as immutable
// once constructed; callers that need to mutate one speculatively must Clone
// it first.
type Param struct {
	Name     string        `json:"name"`
	Location ParamLocation `json:"location,omitempty"`
	Type     string        `json:"type,omitempty"`
	Required bool          `json:"required,omitempty"`
	Pattern  string        `json:"pattern,omitempty"`
	Example  string        `json:"example,omitempty"`
	Desc     string        `json:"desc,omitempty"`
	IsAuth   bool          `json:"is_auth_param,omitempty"`
}

// Clone returns a deep copy of the parameter.
func (p Param) Clone() Param {
	return p
}

// Operation is one REST operation as produced by an API-description source.
// The core pipeline never retains it beyond a single generation pass.
type Operation struct {
	Verb        string      `json:"verb"`
	URL         string      `json:"url"`
	BasePath    string      `json:"base_path,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Description string      `json:"desc,omitempty"`
	OperationID string      `json:"operation_id,omitempty"`
	Intent      string      `json:"intent,omitempty"`
	Params      []Param     `json:"params,omitempty"`
	Canonicals  []Canonical `json:"canonicals,omitempty"`
}

// PathParams returns the parameters located in the URL path.
func (o *Operation) PathParams() []Param {
	var ret []Param
	for _, p := range o.Params {
		if p.Location == InPath {
			ret = append(ret, p)
		}
	}
	return ret
}

// FindParam looks a parameter up by its exact name.
func (o *Operation) FindParam(name string) (Param, bool) {
	for _, p := range o.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// DefaultIntent derives the fallback intent label from the verb and URL when
// no operation id is available.
func (o *Operation) DefaultIntent() string {
	label := o.Verb + "_" + o.URL
	label = strings.ReplaceAll(label, "/", " ")
	label = strings.ReplaceAll(label, " ", "_")
	label = strings.ReplaceAll(label, "{", "")
	label = strings.ReplaceAll(label, "}", "")
	return label
}

// Canonical is a generated natural-language description of an operation's
// intent along with the parameters the utterance references.
type Canonical struct {
	Intent    string  `json:"intent,omitempty"`
	Utterance string  `json:"canonical"`
	Params    []Param `json:"entities,omitempty"`
}

// API aggregates the operations of one API description document.
type API struct {
	Title      string      `json:"title,omitempty"`
	URL        string      `json:"url,omitempty"`
	Protocols  []string    `json:"protocols,omitempty"`
	Operations []Operation `json:"operations"`
}
