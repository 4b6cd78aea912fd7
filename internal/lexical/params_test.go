package lexical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/api2can/api2can/internal/domain"
	"github.com/api2can/api2can/internal/lexical"
)

func TestBraces(t *testing.T) {
	assert := assert.New(t)

	assert.True(lexical.IsBraced("{userId}"))
	assert.False(lexical.IsBraced("users"))
	assert.False(lexical.IsBraced(""))
	assert.Equal("userId", lexical.TrimBraces("{userId}"))
	assert.Equal("users", lexical.TrimBraces("users"))
}

func TestService_IsAuthTerm(t *testing.T) {
	assert := assert.New(t)
	svc := lexical.NewService()

	tests := []struct {
		in   string
		want bool
	}{
		{"token", true},
		{"api_key", true},
		{"accessToken", true},
		{"userId", false},
		{"city", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(tt.want, svc.IsAuthTerm(tt.in))
		})
	}
}

func TestService_IsVersionTerm(t *testing.T) {
	assert := assert.New(t)
	svc := lexical.NewService()

	assert.True(svc.IsVersionTerm("v2"))
	assert.True(svc.IsVersionTerm("version"))
	assert.True(svc.IsVersionTerm("v1.2"))
	assert.False(svc.IsVersionTerm("users"))
	assert.False(svc.IsVersionTerm(""))
}

func TestService_IsIdentifier(t *testing.T) {
	assert := assert.New(t)
	svc := lexical.NewService()

	assert.True(svc.IsIdentifier("id"))
	assert.True(svc.IsIdentifier("userId"))
	assert.True(svc.IsIdentifier("uuid"))
	assert.False(svc.IsIdentifier("city"))
}

func TestService_IsEntityParam(t *testing.T) {
	assert := assert.New(t)
	svc := lexical.NewService()

	tests := []struct {
		name string
		in   domain.Param
		want bool
	}{
		{name: "path parameter", in: domain.Param{Name: "userId", Location: domain.InPath}, want: true},
		{name: "header excluded", in: domain.Param{Name: "userId", Location: domain.InHeader}, want: false},
		{name: "file excluded", in: domain.Param{Name: "avatar", Location: domain.InFile}, want: false},
		{name: "auth excluded", in: domain.Param{Name: "token", Location: domain.InQuery, IsAuth: true}, want: false},
		{name: "version excluded", in: domain.Param{Name: "version", Location: domain.InQuery}, want: false},
		{name: "username excluded", in: domain.Param{Name: "username", Location: domain.InPath}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(tt.want, svc.IsEntityParam(tt.in))
		})
	}
}

type stubSpell struct {
	bad       map[string]bool
	corrected string
}

func (s stubSpell) Misspellings(sentence string) []string {
	if s.bad[sentence] {
		return []string{sentence}
	}
	return nil
}

func (s stubSpell) CorrectSpelling(sentence string) string { return s.corrected }

func TestService_HumanReadableName(t *testing.T) {
	assert := assert.New(t)
	svc := lexical.NewService()

	p := domain.Param{Name: "userId"}
	assert.Equal("user id", svc.HumanReadableName(p, nil))

	// misspelled name with a long description falls back to correction
	sc := stubSpell{bad: map[string]bool{"usr idx": true}, corrected: "user index"}
	p = domain.Param{Name: "usr_idx", Desc: "the index of the user record to address"}
	assert.Equal("user index", svc.HumanReadableName(p, sc))

	// misspelled name with a clean short description uses the description
	sc = stubSpell{bad: map[string]bool{"usr idx": true}}
	p = domain.Param{Name: "usr_idx", Desc: "record number"}
	assert.Equal("record number", svc.HumanReadableName(p, sc))
}
