package phrase_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
	"github.com/api2can/api2can/internal/phrase"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubSampler struct {
	values []string
}

func (s stubSampler) Sample(p domain.Param, n int) []string { return s.values }

func TestGenerator_Generate(t *testing.T) {
	lex := lexical.NewService()
	g := phrase.NewGenerator(lex, nil, discard())

	idParam := domain.Param{Name: "id", Location: domain.InPath, Type: "integer"}
	customerParam := domain.Param{Name: "customerId", Location: domain.InPath, Type: "string"}

	tests := []struct {
		name      string
		verb      string
		resources []domain.Resource
		want      string
	}{
		{
			name:      "get collection",
			verb:      "get",
			resources: []domain.Resource{{Name: "pets", Type: domain.ResourceCollection}},
			want:      "get the list of pets",
		},
		{
			name:      "post collection",
			verb:      "post",
			resources: []domain.Resource{{Name: "pets", Type: domain.ResourceCollection}},
			want:      "create a pet",
		},
		{
			name:      "delete collection",
			verb:      "delete",
			resources: []domain.Resource{{Name: "pets", Type: domain.ResourceCollection}},
			want:      "delete all pets",
		},
		{
			name: "get singleton",
			verb: "get",
			resources: []domain.Resource{
				{Name: "users", Type: domain.ResourceSingleton, IsParam: true, Param: &idParam},
			},
			want: "get a user with id being << id >>",
		},
		{
			name: "put singleton",
			verb: "put",
			resources: []domain.Resource{
				{Name: "users", Type: domain.ResourceSingleton, IsParam: true, Param: &idParam},
			},
			want: "replace a user with id being << id >>",
		},
		{
			name: "patch singleton",
			verb: "patch",
			resources: []domain.Resource{
				{Name: "users", Type: domain.ResourceSingleton, IsParam: true, Param: &idParam},
			},
			want: "update a user with id being << id >>",
		},
		{
			name: "collection of a singleton",
			verb: "get",
			resources: []domain.Resource{
				{Name: "accounts", Type: domain.ResourceCollection},
				{Name: "customers", Type: domain.ResourceSingleton, IsParam: true, Param: &customerParam},
			},
			want: "get the list of accounts of a customer with customer id being << customerId >>",
		},
		{
			name: "adjective before collection",
			verb: "get",
			resources: []domain.Resource{
				{Name: "active", Type: domain.ResourceAttribute},
				{Name: "orders", Type: domain.ResourceCollection},
			},
			want: "get the list of active orders",
		},
		{
			name:      "unsupported verb",
			verb:      "head",
			resources: []domain.Resource{{Name: "pets", Type: domain.ResourceCollection}},
			want:      "",
		},
		{
			name:      "no resources",
			verb:      "get",
			resources: nil,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Generate(tt.verb, tt.resources, false))
		})
	}
}

func TestGenerator_Generate_SampledValues(t *testing.T) {
	lex := lexical.NewService()
	g := phrase.NewGenerator(lex, stubSampler{values: []string{"42"}}, discard())

	idParam := domain.Param{Name: "id", Location: domain.InPath, Type: "integer"}
	resources := []domain.Resource{
		{Name: "users", Type: domain.ResourceSingleton, IsParam: true, Param: &idParam},
	}

	assert.Equal(t, "get a user with id being << 42 >>", g.Generate("get", resources, true))
}
