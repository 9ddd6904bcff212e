package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", registerAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}/status", updateStatusHandler(svc))
		ar.Put("/{animalID}/parents", setParentsHandler(svc))

		// Linaje
		ar.Get("/{animalID}/pedigree", pedigreeHandler(svc))
		ar.Get("/{animalID}/ancestry/audit", auditAncestryHandler(svc))
	})
}

type registerAnimalRequest struct {
	Name           string `json:"name"`
	Gender         Gender `json:"gender" enums:"male,female"`
	BreedID        *int64 `json:"breed_id"`
	ParentMaleID   *int64 `json:"parent_male_id"`
	ParentFemaleID *int64 `json:"parent_female_id"`
	Status         Status `json:"status" enums:"active,breeding,retired,sold,deceased"`
	BirthDate      string `json:"birth_date"` // YYYY-MM-DD opcional
	Notes          string `json:"notes"`
}

type updateStatusRequest struct {
	Status Status `json:"status" enums:"active,breeding,retired,sold,deceased"`
}

type setParentsRequest struct {
	ParentMaleID   *int64 `json:"parent_male_id"`
	ParentFemaleID *int64 `json:"parent_female_id"`
}

// AnimalResponse representa un animal devuelto por la API.
type AnimalResponse struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Gender         Gender     `json:"gender"`
	BreedID        *int64     `json:"breed_id,omitempty"`
	ParentMaleID   *int64     `json:"parent_male_id,omitempty"`
	ParentFemaleID *int64     `json:"parent_female_id,omitempty"`
	Ancestry       []string   `json:"ancestry"`
	Status         Status     `json:"status"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type pedigreeResponse struct {
	Animal     AnimalResponse    `json:"animal"`
	Generation int               `json:"generation"`
	Sire       *pedigreeResponse `json:"sire,omitempty"`
	Dam        *pedigreeResponse `json:"dam,omitempty"`
}

type auditResponse struct {
	AnimalID int64    `json:"animal_id"`
	InSync   bool     `json:"in_sync"`
	Missing  []string `json:"missing"`
}

// registerAnimalHandler godoc
// @Summary Registrar animal
// @Description Da de alta un animal. Si se indican padres, deben existir y tener el sexo correcto; la ancestry se calcula a partir de ellos.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body registerAnimalRequest true "Datos del animal; birth_date en formato YYYY-MM-DD"
// @Success 201 {object} AnimalResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 500 {string} string "internal error"
// @Router /animals [post]
func registerAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		a, err := svc.Register(r.Context(), RegisterInput{
			Name:           req.Name,
			Gender:         req.Gender,
			BreedID:        req.BreedID,
			ParentMaleID:   req.ParentMaleID,
			ParentFemaleID: req.ParentFemaleID,
			Status:         req.Status,
			BirthDate:      bd,
			Notes:          req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animales por sexo y estado
// @Description Lista en orden de creación. Se usa para poblar los selectores de cruza (status por defecto: active).
// @Tags animals
// @Produce json
// @Param gender query string true "male | female"
// @Param status query string false "active | breeding | retired | sold | deceased"
// @Success 200 {array} AnimalResponse
// @Failure 400 {string} string "invalid filter"
// @Failure 500 {string} string "internal error"
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gender := Gender(strings.ToLower(strings.TrimSpace(q.Get("gender"))))
		status := Status(strings.ToLower(strings.TrimSpace(q.Get("status"))))

		items, err := svc.ListByGenderStatus(r.Context(), gender, status)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]AnimalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, ToResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Obtener animal
// @Tags animals
// @Produce json
// @Param animalID path int true "ID del animal"
// @Success 200 {object} AnimalResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := animalIDParam(w, r)
		if !ok {
			return
		}

		a, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(a))
	}
}

// updateStatusHandler godoc
// @Summary Cambiar estado del animal
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path int true "ID del animal"
// @Param payload body updateStatusRequest true "Nuevo estado"
// @Success 200 {object} AnimalResponse
// @Failure 400 {string} string "invalid status"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/status [patch]
func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := animalIDParam(w, r)
		if !ok {
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(a))
	}
}

// setParentsHandler godoc
// @Summary Corregir padres del animal
// @Description Reemplaza sire/dam y recalcula la ancestry del animal y de todos sus descendientes.
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path int true "ID del animal"
// @Param payload body setParentsRequest true "IDs de padre y madre (null = sin registrar)"
// @Success 200 {object} AnimalResponse
// @Failure 400 {string} string "padre inválido"
// @Failure 404 {string} string "animal not found"
// @Failure 409 {string} string "lineage cycle"
// @Router /animals/{animalID}/parents [put]
func setParentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := animalIDParam(w, r)
		if !ok {
			return
		}

		var req setParentsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.SetParents(r.Context(), id, req.ParentMaleID, req.ParentFemaleID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(a))
	}
}

// pedigreeHandler godoc
// @Summary Árbol genealógico
// @Tags animals
// @Produce json
// @Param animalID path int true "ID del animal"
// @Param generations query int false "Generaciones hacia atrás (default 4)"
// @Success 200 {object} pedigreeResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/pedigree [get]
func pedigreeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := animalIDParam(w, r)
		if !ok {
			return
		}

		gens := 0
		if v := strings.TrimSpace(r.URL.Query().Get("generations")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "generations must be a positive integer", http.StatusBadRequest)
				return
			}
			gens = n
		}

		tree, err := svc.Pedigree(r.Context(), id, gens)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPedigreeResponse(&tree))
	}
}

// auditAncestryHandler godoc
// @Summary Auditar ancestry desnormalizada
// @Description Recorre el linaje real (hasta el máximo de generaciones) y devuelve los ids que faltan en ancestry.
// @Tags animals
// @Produce json
// @Param animalID path int true "ID del animal"
// @Success 200 {object} auditResponse
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID}/ancestry/audit [get]
func auditAncestryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := animalIDParam(w, r)
		if !ok {
			return
		}

		missing, err := svc.AuditAncestry(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, auditResponse{
			AnimalID: id,
			InSync:   len(missing) == 0,
			Missing:  missing,
		})
	}
}

func ToResponse(a Animal) AnimalResponse {
	anc := a.Ancestry
	if anc == nil {
		anc = []string{}
	}
	return AnimalResponse{
		ID:             a.ID,
		Name:           a.Name,
		Gender:         a.Gender,
		BreedID:        a.BreedID,
		ParentMaleID:   a.ParentMaleID,
		ParentFemaleID: a.ParentFemaleID,
		Ancestry:       anc,
		Status:         a.Status,
		BirthDate:      a.BirthDate,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toPedigreeResponse(n *PedigreeNode) *pedigreeResponse {
	if n == nil {
		return nil
	}
	return &pedigreeResponse{
		Animal:     ToResponse(n.Animal),
		Generation: n.Generation,
		Sire:       toPedigreeResponse(n.Sire),
		Dam:        toPedigreeResponse(n.Dam),
	}
}

func animalIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "animalID"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "animal not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrLineageCycle):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidParent):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON se repite en cada módulo de dominio (animals/breeds/breeding).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
