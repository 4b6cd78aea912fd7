package langtool_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2can/api2can/internal/adapter/outbound/langtool"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// matchServer answers every check request with the same canned matches and
// records the submitted texts.
func matchServer(t *testing.T, responses ...[]langtool.Match) (*httptest.Server, *[]string) {
	t.Helper()
	var texts []string
	call := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/check", r.URL.Path)
		require.NoError(t, r.ParseForm())
		texts = append(texts, r.FormValue("text"))
		require.Equal(t, "en-US", r.FormValue("language"))

		matches := []langtool.Match{}
		if call < len(responses) {
			matches = responses[call]
		}
		call++
		json.NewEncoder(w).Encode(map[string]any{"matches": matches})
	}))
	return srv, &texts
}

func TestClient_Check_FiltersCategories(t *testing.T) {
	srv, _ := matchServer(t, []langtool.Match{
		{Message: "typo", Rule: langtool.Rule{Category: langtool.Category{ID: "TYPOS"}}},
		{Message: "style", Rule: langtool.Rule{Category: langtool.Category{ID: "STYLE"}}},
	})
	defer srv.Close()

	c := langtool.New(srv.URL, srv.Client(), testLogger())
	matches, err := c.Check(context.Background(), "some text", []string{"TYPOS"})

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "typo", matches[0].Message)
}

func TestClient_Correct(t *testing.T) {
	srv, _ := matchServer(t,
		[]langtool.Match{{
			Offset: 0, Length: 3,
			Replacements: []langtool.Replacement{{Value: "Get"}},
			Rule:         langtool.Rule{Category: langtool.Category{ID: "MISC"}},
		}},
		nil, // clean on recheck
	)
	defer srv.Close()

	c := langtool.New(srv.URL, srv.Client(), testLogger())
	assert.Equal(t, "Get the pets", c.Correct("get the pets", []string{"MISC"}))
}

func TestClient_Correct_ServerDown(t *testing.T) {
	c := langtool.New("http://127.0.0.1:1", &http.Client{}, testLogger())
	assert.Equal(t, "get the pets", c.Correct("get the pets", nil))
}

func TestClient_CorrectWord(t *testing.T) {
	srv, texts := matchServer(t, []langtool.Match{{
		Offset: 0, Length: 8,
		Replacements: []langtool.Replacement{{Value: "customers"}},
		Rule:         langtool.Rule{IssueType: "misspelling"},
	}})
	defer srv.Close()

	c := langtool.New(srv.URL, srv.Client(), testLogger())
	assert.Equal(t, "customers", c.CorrectWord("customrs"))
	require.Len(t, *texts, 1)
}

func TestClient_CorrectWord_UnderscoresRestored(t *testing.T) {
	srv, texts := matchServer(t, []langtool.Match{{
		Offset: 0, Length: 7,
		Replacements: []langtool.Replacement{{Value: "user id"}},
		Rule:         langtool.Rule{IssueType: "misspelling"},
	}})
	defer srv.Close()

	c := langtool.New(srv.URL, srv.Client(), testLogger())
	assert.Equal(t, "user_id", c.CorrectWord("user_id"))
	// underscores are sent to the server as spaces
	assert.Equal(t, []string{"user id"}, *texts)
}

func TestClient_Misspellings(t *testing.T) {
	srv, _ := matchServer(t, []langtool.Match{
		{Offset: 4, Length: 7, Rule: langtool.Rule{Category: langtool.Category{ID: "TYPOS"}}},
	})
	defer srv.Close()

	c := langtool.New(srv.URL, srv.Client(), testLogger())
	assert.Equal(t, []string{"customr"}, c.Misspellings("the customr record"))
}

func TestClient_CorrectSpelling(t *testing.T) {
	srv, _ := matchServer(t, []langtool.Match{{
		Offset: 4, Length: 7,
		Replacements: []langtool.Replacement{{Value: "customer"}},
		Rule:         langtool.Rule{Category: langtool.Category{ID: "TYPOS"}},
	}})
	defer srv.Close()

	c := langtool.New(srv.URL, srv.Client(), testLogger())
	assert.Equal(t, "the customer record", c.CorrectSpelling("the customr record"))
}
