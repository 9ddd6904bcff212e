package breeding

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rabbit-pedigree/internal/domain/animals"
	"rabbit-pedigree/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.NewNop()
	}

	r.Route("/breeding", func(br chi.Router) {
		br.Get("/compatibility", compatibilityHandler(svc, log))
		br.Get("/candidates", candidatesHandler(svc))
	})

	r.Route("/breedings", func(pr chi.Router) {
		pr.Post("/", recordPairingHandler(svc))
		pr.Get("/", listPairingsHandler(svc))
	})
}

type candidateResponse struct {
	Animal  animals.AnimalResponse `json:"animal"`
	Verdict Verdict                `json:"verdict"`
}

type candidateSummaryResponse struct {
	Total            int     `json:"total"`
	Compatible       int     `json:"compatible"`
	Scored           int     `json:"scored"`
	MeanBreedScore   float64 `json:"mean_breed_score"`
	MedianBreedScore float64 `json:"median_breed_score"`
}

type candidatesResponse struct {
	Male       animals.AnimalResponse   `json:"male"`
	Candidates []candidateResponse      `json:"candidates"`
	Summary    candidateSummaryResponse `json:"summary"`
}

type recordPairingRequest struct {
	MaleID   int64  `json:"male_id"`
	FemaleID int64  `json:"female_id"`
	PairedAt string `json:"paired_at"` // RFC3339 opcional
	Override bool   `json:"override"`
	Notes    string `json:"notes"`
}

type pairingResponse struct {
	ID        string    `json:"id"`
	MaleID    int64     `json:"male_id"`
	FemaleID  int64     `json:"female_id"`
	PairedAt  time.Time `json:"paired_at"`
	RiskLevel RiskLevel `json:"risk_level"`
	Reason    string    `json:"reason,omitempty"`
	Override  bool      `json:"override"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type pairingRejectedResponse struct {
	Error   string  `json:"error"`
	Verdict Verdict `json:"verdict"`
}

// compatibilityHandler godoc
// @Summary Verificar compatibilidad de cruza
// @Description Evalúa un macho y una hembra. Ante cualquier error interno (animal inexistente, store caído) responde 200 con un veredicto incompatible de riesgo high, para que la UI lo muestre igual que un resultado normal.
// @Tags breeding
// @Produce json
// @Param maleId query int true "ID del macho"
// @Param femaleId query int true "ID de la hembra"
// @Success 200 {object} Verdict
// @Failure 400 {object} Verdict "ids faltantes o inválidos (veredicto fail-closed)"
// @Router /breeding/compatibility [get]
func compatibilityHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		maleID, errM := parseID(q.Get("maleId"))
		femaleID, errF := parseID(q.Get("femaleId"))
		if errM != nil || errF != nil {
			writeJSON(w, http.StatusBadRequest, FailClosed())
			return
		}

		v, err := svc.Check(r.Context(), maleID, femaleID)
		if err != nil {
			log.Warn("compatibility check failed", map[string]any{
				"request_id": chimw.GetReqID(r.Context()),
				"male_id":    maleID,
				"female_id":  femaleID,
				"err":        err,
			})
			writeJSON(w, http.StatusOK, FailClosed())
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

// candidatesHandler godoc
// @Summary Candidatas de cruza para un macho
// @Description Evalúa el macho contra todas las hembras activas. Incluye resumen con media/mediana del score de razas.
// @Tags breeding
// @Produce json
// @Param maleId query int true "ID del macho"
// @Success 200 {object} candidatesResponse
// @Failure 400 {string} string "maleId inválido o no es macho"
// @Failure 404 {string} string "animal not found"
// @Router /breeding/candidates [get]
func candidatesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maleID, err := parseID(r.URL.Query().Get("maleId"))
		if err != nil {
			http.Error(w, "maleId must be a positive integer", http.StatusBadRequest)
			return
		}

		rep, err := svc.Candidates(r.Context(), maleID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := candidatesResponse{
			Male:       animals.ToResponse(rep.Male),
			Candidates: make([]candidateResponse, 0, len(rep.Candidates)),
			Summary: candidateSummaryResponse{
				Total:            rep.Summary.Total,
				Compatible:       rep.Summary.Compatible,
				Scored:           rep.Summary.Scored,
				MeanBreedScore:   rep.Summary.MeanBreedScore,
				MedianBreedScore: rep.Summary.MedianBreedScore,
			},
		}
		for _, c := range rep.Candidates {
			out.Candidates = append(out.Candidates, candidateResponse{
				Animal:  animals.ToResponse(c.Animal),
				Verdict: c.Verdict,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recordPairingHandler godoc
// @Summary Registrar cruza
// @Description Registra una cruza. Si el veredicto es incompatible responde 409 con el veredicto, salvo override=true (queda registrado el override).
// @Tags breeding
// @Accept json
// @Produce json
// @Param payload body recordPairingRequest true "Cruza; paired_at en RFC3339 (opcional)"
// @Success 201 {object} pairingResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 404 {string} string "animal not found"
// @Failure 409 {object} pairingRejectedResponse
// @Router /breedings [post]
func recordPairingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordPairingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var pairedAt *time.Time
		if strings.TrimSpace(req.PairedAt) != "" {
			t, err := time.Parse(time.RFC3339, req.PairedAt)
			if err != nil {
				http.Error(w, "paired_at must be RFC3339", http.StatusBadRequest)
				return
			}
			pairedAt = &t
		}

		p, v, err := svc.RecordPairing(r.Context(), PairingInput{
			MaleID:   req.MaleID,
			FemaleID: req.FemaleID,
			PairedAt: pairedAt,
			Override: req.Override,
			Notes:    req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrIncompatiblePairing) {
				writeJSON(w, http.StatusConflict, pairingRejectedResponse{
					Error:   err.Error(),
					Verdict: v,
				})
				return
			}
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPairingResponse(p))
	}
}

// listPairingsHandler godoc
// @Summary Listar cruzas registradas
// @Tags breeding
// @Produce json
// @Param animalId query int false "Filtra por animal (como macho o hembra)"
// @Param limit query int false "Máximo a devolver (1-200). Por defecto 50"
// @Success 200 {array} pairingResponse
// @Failure 400 {string} string "filtro inválido"
// @Router /breedings [get]
func listPairingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var filter PairingFilter

		if v := strings.TrimSpace(q.Get("animalId")); v != "" {
			id, err := parseID(v)
			if err != nil {
				http.Error(w, "animalId must be a positive integer", http.StatusBadRequest)
				return
			}
			filter.AnimalID = id
		}
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > MaxPairingLimit {
				http.Error(w, "limit must be between 1 and 200", http.StatusBadRequest)
				return
			}
			filter.Limit = n
		}

		items, err := svc.ListPairings(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]pairingResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPairingResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toPairingResponse(p Pairing) pairingResponse {
	return pairingResponse{
		ID:        p.ID,
		MaleID:    p.MaleID,
		FemaleID:  p.FemaleID,
		PairedAt:  p.PairedAt,
		RiskLevel: p.RiskLevel,
		Reason:    p.Reason,
		Override:  p.Override,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, ErrInvalidInput
	}
	return id, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, animals.ErrNotFound):
		http.Error(w, "animal not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
