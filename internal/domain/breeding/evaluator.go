package breeding

import (
	"strings"

	"rabbit-pedigree/internal/domain/animals"
)

// Evaluate decide si male y female pueden cruzarse. Es una función pura:
// no hace I/O, no modifica sus argumentos y se puede llamar concurrentemente.
//
// Las reglas se aplican en orden y gana la primera que matchea:
//  1. mismo animal
//  2. padre-hijo (solo sire de female o dam de male)
//  3. mismo sire: hermanos completos si además comparten dam, si no medio hermanos
//  4. misma dam: medio hermanos
//  5. ancestros comunes en Ancestry
//
// No valida el sexo de los argumentos.
func Evaluate(male, female animals.Animal) Verdict {
	if male.ID == female.ID {
		return incompatible(ReasonSelf, RiskHigh)
	}

	// Solo dos de las cuatro orientaciones posibles; no completar.
	if sameID(female.ParentMaleID, male.ID) || sameID(male.ParentFemaleID, female.ID) {
		return incompatible(ReasonParentChild, RiskHigh)
	}

	if bothEqual(male.ParentMaleID, female.ParentMaleID) {
		if bothEqual(male.ParentFemaleID, female.ParentFemaleID) {
			return incompatible(ReasonSiblings, RiskHigh)
		}
		return incompatible(ReasonHalfSiblings, RiskHigh)
	}

	if bothEqual(male.ParentFemaleID, female.ParentFemaleID) {
		return incompatible(ReasonHalfSiblings, RiskHigh)
	}

	if len(male.Ancestry) > 0 && len(female.Ancestry) > 0 {
		if shared := SharedAncestors(male.Ancestry, female.Ancestry); len(shared) > 0 {
			return incompatible(ReasonSharedAncestorsPrefix+strings.Join(shared, ", "), RiskMedium)
		}
	}

	return Verdict{Compatible: true, RiskLevel: RiskNone}
}

// SharedAncestors es la intersección de ambos sets, en el orden en que
// aparecen en a y sin duplicados.
func SharedAncestors(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	inB := make(map[string]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, id := range a {
		if _, ok := inB[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sameID(p *int64, id int64) bool {
	return p != nil && *p == id
}

func bothEqual(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
