package graph

import (
	"context"
	"fmt"
	"time"

	"rabbit-pedigree/internal/domain/animals"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// AnimalsRepo guarda cada animal como nodo :Animal con relaciones
// (hijo)-[:SIRE]->(padre) y (hijo)-[:DAM]->(madre). Los ids numéricos salen
// de un nodo :Sequence.
type AnimalsRepo struct {
	store *Store
}

func NewAnimalsRepo(store *Store) *AnimalsRepo {
	return &AnimalsRepo{store: store}
}

// linkParents reemplaza las relaciones de linaje de `a` según sus props.
const linkParents = `
WITH a
OPTIONAL MATCH (a)-[old:SIRE|DAM]->()
DELETE old
WITH DISTINCT a
OPTIONAL MATCH (s:Animal {id: a.parent_male_id})
OPTIONAL MATCH (d:Animal {id: a.parent_female_id})
FOREACH (_ IN CASE WHEN s IS NULL THEN [] ELSE [1] END | MERGE (a)-[:SIRE]->(s))
FOREACH (_ IN CASE WHEN d IS NULL THEN [] ELSE [1] END | MERGE (a)-[:DAM]->(d))
RETURN a.id AS id
`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	params := animalParams(a)

	res, err := r.store.execute(ctx, `
MERGE (seq:Sequence {name: 'animal'})
ON CREATE SET seq.value = 0
SET seq.value = seq.value + 1
WITH seq.value AS id
CREATE (a:Animal {id: id})
SET a += $props
`+linkParents, params)
	if err != nil {
		return animals.Animal{}, err
	}
	if len(res.Records) == 0 {
		return animals.Animal{}, fmt.Errorf("create animal: no id returned")
	}

	id, err := recordInt(res.Records[0], "id")
	if err != nil {
		return animals.Animal{}, err
	}
	a.ID = id
	if a.Ancestry == nil {
		a.Ancestry = []string{}
	}
	return a, nil
}

// En Neo4j un null dentro de += elimina la propiedad.
const updateAnimal = `
MATCH (a:Animal {id: $id})
SET a += $props
` + linkParents

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	params := animalParams(a)
	params["id"] = a.ID

	res, err := r.store.execute(ctx, updateAnimal, params)
	if err != nil {
		return err
	}
	if len(res.Records) == 0 {
		return animals.ErrNotFound
	}
	return nil
}

// UpdateLineage corre todas las actualizaciones en una transacción de escritura.
func (r *AnimalsRepo) UpdateLineage(ctx context.Context, batch []animals.Animal) error {
	return r.store.write(ctx, func(tx neo4j.ManagedTransaction) error {
		for _, a := range batch {
			params := animalParams(a)
			params["id"] = a.ID

			res, err := tx.Run(ctx, updateAnimal, params)
			if err != nil {
				return err
			}
			records, err := res.Collect(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return animals.ErrNotFound
			}
		}
		return nil
	})
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id int64) (animals.Animal, error) {
	res, err := r.store.execute(ctx, `MATCH (a:Animal {id: $id}) RETURN a`, map[string]any{"id": id})
	if err != nil {
		return animals.Animal{}, err
	}
	if len(res.Records) == 0 {
		return animals.Animal{}, animals.ErrNotFound
	}
	return recordAnimal(res.Records[0], "a")
}

func (r *AnimalsRepo) ListByGenderStatus(ctx context.Context, gender animals.Gender, status animals.Status) ([]animals.Animal, error) {
	res, err := r.store.execute(ctx, `
MATCH (a:Animal)
WHERE a.gender = $gender AND a.status = $status
RETURN a
ORDER BY a.id ASC
`, map[string]any{"gender": string(gender), "status": string(status)})
	if err != nil {
		return nil, err
	}
	return recordAnimals(res.Records, "a")
}

func (r *AnimalsRepo) ListChildren(ctx context.Context, parentID int64) ([]animals.Animal, error) {
	res, err := r.store.execute(ctx, `
MATCH (c:Animal)-[:SIRE|DAM]->(:Animal {id: $id})
RETURN DISTINCT c
ORDER BY c.id ASC
`, map[string]any{"id": parentID})
	if err != nil {
		return nil, err
	}
	return recordAnimals(res.Records, "c")
}

func animalParams(a animals.Animal) map[string]any {
	anc := a.Ancestry
	if anc == nil {
		anc = []string{}
	}

	props := map[string]any{
		"name":             a.Name,
		"gender":           string(a.Gender),
		"status":           string(a.Status),
		"ancestry":         anc,
		"notes":            a.Notes,
		"created_at":       a.CreatedAt.UTC(),
		"updated_at":       a.UpdatedAt.UTC(),
		"breed_id":         optionalID(a.BreedID),
		"parent_male_id":   optionalID(a.ParentMaleID),
		"parent_female_id": optionalID(a.ParentFemaleID),
		"birth_date":       nil,
	}
	if a.BirthDate != nil {
		props["birth_date"] = a.BirthDate.UTC()
	}
	return map[string]any{"props": props}
}

func optionalID(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func recordAnimals(records []*neo4j.Record, key string) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0, len(records))
	for _, rec := range records {
		a, err := recordAnimal(rec, key)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func recordAnimal(rec *neo4j.Record, key string) (animals.Animal, error) {
	v, ok := rec.Get(key)
	if !ok {
		return animals.Animal{}, fmt.Errorf("record missing %q", key)
	}
	node, ok := v.(neo4j.Node)
	if !ok {
		return animals.Animal{}, fmt.Errorf("record %q is %T, not a node", key, v)
	}
	return nodeToAnimal(node)
}

func recordInt(rec *neo4j.Record, key string) (int64, error) {
	v, ok := rec.Get(key)
	if !ok {
		return 0, fmt.Errorf("record missing %q", key)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("record %q is %T, not an integer", key, v)
	}
	return n, nil
}

func nodeToAnimal(n neo4j.Node) (animals.Animal, error) {
	p := n.Props

	id, ok := p["id"].(int64)
	if !ok {
		return animals.Animal{}, fmt.Errorf("animal node without integer id")
	}

	a := animals.Animal{
		ID:             id,
		Name:           propString(p, "name"),
		Gender:         animals.Gender(propString(p, "gender")),
		Status:         animals.Status(propString(p, "status")),
		Notes:          propString(p, "notes"),
		BreedID:        propID(p, "breed_id"),
		ParentMaleID:   propID(p, "parent_male_id"),
		ParentFemaleID: propID(p, "parent_female_id"),
		Ancestry:       propStrings(p, "ancestry"),
		CreatedAt:      propTime(p, "created_at"),
		UpdatedAt:      propTime(p, "updated_at"),
	}
	if bd := propTime(p, "birth_date"); !bd.IsZero() {
		a.BirthDate = &bd
	}
	return a, nil
}

func propString(p map[string]any, k string) string {
	s, _ := p[k].(string)
	return s
}

func propID(p map[string]any, k string) *int64 {
	v, ok := p[k].(int64)
	if !ok {
		return nil
	}
	return &v
}

func propStrings(p map[string]any, k string) []string {
	out := []string{}
	switch vs := p[k].(type) {
	case []any:
		for _, v := range vs {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, vs...)
	}
	return out
}

func propTime(p map[string]any, k string) time.Time {
	switch v := p[k].(type) {
	case time.Time:
		return v
	case neo4j.LocalDateTime:
		return v.Time()
	case neo4j.Date:
		return v.Time()
	default:
		return time.Time{}
	}
}
