package domain

import "strings"

// ResourceType classifies one URL path segment.
type ResourceType string

const (
	ResourceUnknown       ResourceType = "Unknown"
	ResourceUnknownParam  ResourceType = "UnknownParam"
	ResourceCollection    ResourceType = "Collection"
	ResourceSingleton     ResourceType = "Singleton"
	ResourceAttribute     ResourceType = "Attribute"
	ResourceAction        ResourceType = "Action"
	ResourceMethodName    ResourceType = "MethodName"
	ResourceCount         ResourceType = "Count"
	ResourceSearch        ResourceType = "Search"
	ResourceFilter        ResourceType = "Filter"
	ResourceAuth          ResourceType = "Auth"
	ResourceFileExtension ResourceType = "FileExtension"
	ResourceSpecMarker    ResourceType = "SpecMarker"
	ResourceAll           ResourceType = "All"
	ResourceVersion       ResourceType = "Version"
	ResourceBaseNoun      ResourceType = "BaseNoun"
	ResourceBaseVerb      ResourceType = "BaseVerb"
)

// ResourceTypes lists every resource type, in the order used when seeding
// placeholder counters.
var ResourceTypes = []ResourceType{
	ResourceUnknown, ResourceCollection, ResourceSingleton, ResourceAttribute,
	ResourceAction, ResourceCount, ResourceSearch, ResourceFileExtension,
	ResourceAuth, ResourceSpecMarker, ResourceFilter, ResourceAll,
	ResourceUnknownParam, ResourceVersion, ResourceBaseVerb, ResourceBaseNoun,
	ResourceMethodName,
}

// Controller reports whether the type names a behavioral segment (an
// attribute, action or method name) rather than an entity.
func (t ResourceType) Controller() bool {
	switch t {
	case ResourceAttribute, ResourceAction, ResourceMethodName:
		return true
	}
	return false
}

// Resource is one classified segment of a URL path. A Singleton resource is
// materialized from two segments: the collection name (kept as Name) and the
// identifying path parameter (kept as Param), and therefore receives two
// placeholder ids when templatized.
type Resource struct {
	Name    string       `json:"name"`
	Type    ResourceType `json:"resource_type"`
	IsParam bool         `json:"is_param,omitempty"`
	Param   *Param       `json:"param,omitempty"`

	// IDs holds the placeholder identifiers assigned during
	// delexicalization, e.g. ["Collection_1", "Singleton_1"].
	IDs []string `json:"ids,omitempty"`
}

// IsPlaceholderToken reports whether a template token is a resource
// placeholder such as "Collection_2".
func IsPlaceholderToken(token string) bool {
	for _, t := range ResourceTypes {
		if strings.HasPrefix(token, string(t)+"_") {
			return true
		}
	}
	return false
}
