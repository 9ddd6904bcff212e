package breeds

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/breeds", func(br chi.Router) {
		br.Get("/", listBreedsHandler(svc))
		br.Get("/compatibility", getCompatibilityHandler(svc))
	})
}

type breedResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CompatibilityResponse es la forma JSON de una entrada de la matriz.
type CompatibilityResponse struct {
	BreedA         int64    `json:"breedA"`
	BreedB         int64    `json:"breedB"`
	Score          int      `json:"score"`
	ExpectedTraits []string `json:"expectedTraits"`
	Recommended    bool     `json:"recommended"`
}

// listBreedsHandler godoc
// @Summary Listar razas
// @Tags breeds
// @Produce json
// @Success 200 {array} breedResponse
// @Failure 500 {string} string "internal error"
// @Router /breeds [get]
func listBreedsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListBreeds(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]breedResponse, 0, len(items))
		for _, b := range items {
			out = append(out, breedResponse{ID: b.ID, Name: b.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getCompatibilityHandler godoc
// @Summary Compatibilidad entre dos razas
// @Tags breeds
// @Produce json
// @Param a query int true "ID de raza"
// @Param b query int true "ID de raza"
// @Success 200 {object} CompatibilityResponse
// @Failure 400 {string} string "a and b must be distinct breed ids"
// @Failure 404 {string} string "breed compatibility not found"
// @Router /breeds/compatibility [get]
func getCompatibilityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		a, errA := strconv.ParseInt(strings.TrimSpace(q.Get("a")), 10, 64)
		b, errB := strconv.ParseInt(strings.TrimSpace(q.Get("b")), 10, 64)
		if errA != nil || errB != nil {
			http.Error(w, "a and b must be distinct breed ids", http.StatusBadRequest)
			return
		}

		c, err := svc.Get(r.Context(), a, b)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "a and b must be distinct breed ids", http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "breed compatibility not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(c))
	}
}

func ToResponse(c Compatibility) CompatibilityResponse {
	traits := c.ExpectedTraits
	if traits == nil {
		traits = []string{}
	}
	return CompatibilityResponse{
		BreedA:         c.BreedA,
		BreedB:         c.BreedB,
		Score:          c.Score,
		ExpectedTraits: traits,
		Recommended:    c.Recommended,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
