package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	mem "rabbit-pedigree/internal/adapters/storage/memory"
	"rabbit-pedigree/internal/domain/animals"
	"rabbit-pedigree/internal/domain/breeding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const herdYAML = `
animals:
  - id: 10
    name: Bruno
    gender: male
    breed_id: 1
  - id: 20
    name: Luna
    gender: female
    breed_id: 1
  # ids menores que los de sus padres
  - id: 5
    name: Copo
    gender: male
    sire: 10
    dam: 20
  - id: 6
    name: Mora
    gender: female
    sire: 10
    dam: 20
  - id: 30
    name: Nube
    gender: female
    breed_id: 2
`

const breedsTableYAML = `
breeds:
  - {id: 1, name: Holland Lop}
  - {id: 2, name: Rex}
pairs:
  - breeds: [1, 2]
    score: 70
    expected_traits: [plush coat]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeVerdict(t *testing.T, out string) breeding.Verdict {
	t.Helper()
	var v breeding.Verdict
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestEvaluate_Siblings(t *testing.T) {
	herd := writeFile(t, "herd.yaml", herdYAML)

	out, err := run(t, "evaluate", "--herd", herd, "--male", "5", "--female", "6")
	require.ErrorIs(t, err, errIncompatible)

	v := decodeVerdict(t, out)
	assert.Equal(t, breeding.ReasonSiblings, v.Reason)
	assert.Equal(t, breeding.RiskHigh, v.RiskLevel)
}

func TestEvaluate_CompatibleWithBreeds(t *testing.T) {
	herd := writeFile(t, "herd.yaml", herdYAML)
	table := writeFile(t, "breeds.yaml", breedsTableYAML)

	out, err := run(t, "evaluate", "--herd", herd, "--breeds", table, "--male", "10", "--female", "30")
	require.NoError(t, err)

	v := decodeVerdict(t, out)
	assert.True(t, v.Compatible)
	require.NotNil(t, v.Breed)
	assert.Equal(t, 70, v.Breed.Score)
}

func TestEvaluate_UnknownAnimal(t *testing.T) {
	herd := writeFile(t, "herd.yaml", herdYAML)

	_, err := run(t, "evaluate", "--herd", herd, "--male", "99", "--female", "6")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errIncompatible)
}

func TestHerd_RegisterOrdersParentsFirst(t *testing.T) {
	h, err := loadHerd(strings.NewReader(herdYAML))
	require.NoError(t, err)

	repo := mem.NewAnimalRepo()
	ids, err := h.register(context.Background(), animals.NewService(repo, animals.Options{}))
	require.NoError(t, err)
	require.Len(t, ids, 5)

	kit, err := repo.GetByID(context.Background(), ids[5])
	require.NoError(t, err)
	assert.Equal(t, []string{
		strconv.FormatInt(ids[10], 10),
		strconv.FormatInt(ids[20], 10),
	}, kit.Ancestry)
}

func TestHerd_Errors(t *testing.T) {
	cases := map[string]string{
		"duplicate id":   "animals:\n  - {id: 1, name: A, gender: male}\n  - {id: 1, name: B, gender: female}\n",
		"unknown parent": "animals:\n  - {id: 1, name: A, gender: male, sire: 7}\n",
		"cycle":          "animals:\n  - {id: 1, name: A, gender: male, dam: 2}\n  - {id: 2, name: B, gender: female, sire: 1}\n",
		"unknown field":  "animals:\n  - {id: 1, name: A, gender: male, color: brown}\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			h, err := loadHerd(strings.NewReader(doc))
			if err == nil {
				_, err = h.register(context.Background(), animals.NewService(mem.NewAnimalRepo(), animals.Options{}))
			}
			assert.Error(t, err)
		})
	}
}

func TestCheck_RemoteServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("maleId") == "1" {
			_, _ = w.Write([]byte(`{"compatible":true,"riskLevel":"none"}`))
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	out, err := run(t, "check", "--server", srv.URL, "--male", "1", "--female", "2")
	require.NoError(t, err)
	assert.True(t, decodeVerdict(t, out).Compatible)

	out, err = run(t, "check", "--server", srv.URL, "--male", "3", "--female", "2")
	require.ErrorIs(t, err, errIncompatible)
	assert.Equal(t, breeding.FailClosed(), decodeVerdict(t, out))
}
