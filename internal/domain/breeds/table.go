package breeds

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Table es el formato del archivo de seed (BREEDS_FILE):
//
//	breeds:
//	  - id: 1
//	    name: Holland Lop
//	pairs:
//	  - breeds: [1, 2]
//	    score: 85
//	    expected_traits: [lop ears, compact body]
//	    recommended: true
type Table struct {
	Breeds []tableBreed `yaml:"breeds"`
	Pairs  []tablePair  `yaml:"pairs"`
}

type tableBreed struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type tablePair struct {
	Breeds         []int64  `yaml:"breeds"`
	Score          int      `yaml:"score"`
	ExpectedTraits []string `yaml:"expected_traits"`
	Recommended    bool     `yaml:"recommended"`
}

// LoadTable parsea y valida el YAML.
func LoadTable(r io.Reader) (Table, error) {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if err == io.EOF {
			return Table{}, nil
		}
		return Table{}, fmt.Errorf("%w: decode breeds table: %v", ErrInvalidInput, err)
	}
	if err := t.validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// LoadTableFile abre path y delega en LoadTable.
func LoadTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open breeds table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

func (t Table) validate() error {
	known := make(map[int64]struct{}, len(t.Breeds))
	for _, b := range t.Breeds {
		if b.ID <= 0 {
			return fmt.Errorf("%w: breed id must be positive", ErrInvalidInput)
		}
		if _, dup := known[b.ID]; dup {
			return fmt.Errorf("%w: duplicate breed id %d", ErrInvalidInput, b.ID)
		}
		known[b.ID] = struct{}{}
	}

	for i, p := range t.Pairs {
		if len(p.Breeds) != 2 || p.Breeds[0] == p.Breeds[1] {
			return fmt.Errorf("%w: pair #%d must reference two distinct breeds", ErrInvalidInput, i)
		}
		for _, id := range p.Breeds {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("%w: pair #%d references unknown breed %d", ErrInvalidInput, i, id)
			}
		}
		if p.Score < 0 || p.Score > 100 {
			return fmt.Errorf("%w: pair #%d score must be 0-100", ErrInvalidInput, i)
		}
	}
	return nil
}

func (t Table) breeds() []Breed {
	out := make([]Breed, 0, len(t.Breeds))
	for _, b := range t.Breeds {
		out = append(out, Breed{ID: b.ID, Name: b.Name})
	}
	return out
}

func (t Table) compatibilities() []Compatibility {
	out := make([]Compatibility, 0, len(t.Pairs))
	for _, p := range t.Pairs {
		out = append(out, Compatibility{
			BreedA:         p.Breeds[0],
			BreedB:         p.Breeds[1],
			Score:          p.Score,
			ExpectedTraits: p.ExpectedTraits,
			Recommended:    p.Recommended,
		}.Normalized())
	}
	return out
}
