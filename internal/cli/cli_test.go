package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Help(t *testing.T) {
	assert := assert.New(t)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(out.String(), "canonicals")
	assert.Contains(out.String(), "dataset")
	assert.Contains(out.String(), "templates")
}

func TestSplitStages(t *testing.T) {
	assert := assert.New(t)

	files := make([]string, 20)
	for i := range files {
		files[i] = string(rune('a' + i))
	}

	stages := splitStages(files)
	assert.Len(stages["train"], 18)
	assert.Len(stages["validation"], 1)
	assert.Len(stages["test"], 1)
	assert.Equal(files[:18], stages["train"])
	assert.Equal(files[18:19], stages["validation"])
	assert.Equal(files[19:], stages["test"])
}

func TestSplitStages_Small(t *testing.T) {
	stages := splitStages([]string{"only.yaml"})
	assert.Empty(t, stages["train"])
	assert.Empty(t, stages["validation"])
	assert.Equal(t, []string{"only.yaml"}, stages["test"])
}

func TestSpecFiles(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.json", "c.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := specFiles(dir)
	require.NoError(t, err)
	assert.Equal([]string{dir + "/a.yaml", dir + "/b.json", dir + "/c.yml"}, files)
}

func TestLoadExpertCanonicals(t *testing.T) {
	assert := assert.New(t)

	expert, err := loadExpertCanonicals("")
	require.NoError(t, err)
	assert.Empty(expert)

	path := filepath.Join(t.TempDir(), "expert.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"get/pets": "get the list of pets"}`), 0o644))

	expert, err = loadExpertCanonicals(path)
	require.NoError(t, err)
	assert.Equal("get the list of pets", expert["get/pets"])

	_, err = loadExpertCanonicals(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(err)
}

const datasetSpec = `openapi: 3.0.0
info:
  title: Petstore
  version: "1.0"
paths:
  /:
    get:
      responses:
        "200":
          description: ok
  /pets:
    get:
      responses:
        "200":
          description: ok
`

func TestDatasetCmd_ExpertPrecedence(t *testing.T) {
	assert := assert.New(t)

	specsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(specsDir, "petstore.yaml"), []byte(datasetSpec), 0o644))

	expertPath := filepath.Join(t.TempDir(), "expert.json")
	expert := `{"get/pets": "show me some pets", "get/": "ping the service"}`
	require.NoError(t, os.WriteFile(expertPath, []byte(expert), 0o644))

	outDir := t.TempDir()
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"dataset", "--specs", specsDir, "--out", outDir, "--expert", expertPath})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(outDir, "API2Can-test.json"))
	require.NoError(t, err)
	var items []datasetItem
	require.NoError(t, json.Unmarshal(data, &items))
	require.Len(t, items, 2)

	// no resources on "/", so the expert utterance survives
	require.Len(t, items[0].Canonicals, 1)
	assert.Equal("get/", items[0].Verb+items[0].URL)
	assert.Equal("ping the service", items[0].Canonicals[0].Utterance)

	// a successful rule translation beats the expert utterance
	require.Len(t, items[1].Canonicals, 1)
	assert.Equal("get/pets", items[1].Verb+items[1].URL)
	assert.Equal("get the list of pets", items[1].Canonicals[0].Utterance)
}
