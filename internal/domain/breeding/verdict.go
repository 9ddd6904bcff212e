package breeding

// RiskLevel es el nivel de riesgo de endogamia asociado a un veredicto.
// @Enum none, low, medium, high
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

const (
	ReasonSelf        = "Cannot breed an animal with itself"
	ReasonParentChild = "Parent-child breeding is not allowed due to high inbreeding risk"
	ReasonSiblings    = "Siblings breeding is not allowed due to high inbreeding risk"
	// El texto dice "moderate" pero el riesgo que se informa es high; los
	// clientes dependen de ambos valores tal cual.
	ReasonHalfSiblings = "Half-siblings breeding is not allowed due to moderate inbreeding risk"
	// Prefijo; le sigue la lista de ancestros comunes separada por ", ".
	ReasonSharedAncestorsPrefix = "Animals share common ancestors: "

	ReasonCheckFailed = "Error checking compatibility. Please try again."
)

// Verdict es el resultado de evaluar una cruza. Es un valor: se crea en cada
// evaluación y no se persiste.
type Verdict struct {
	Compatible bool      `json:"compatible"`
	Reason     string    `json:"reason,omitempty"`
	RiskLevel  RiskLevel `json:"riskLevel"`

	// Enriquecimiento opcional con la matriz de razas. Evaluate nunca lo completa.
	Breed *BreedMatch `json:"breedCompatibility,omitempty"`
}

// BreedMatch es la entrada de la matriz de razas aplicada al par evaluado.
type BreedMatch struct {
	BreedA         int64    `json:"breedA"`
	BreedB         int64    `json:"breedB"`
	Score          int      `json:"score"`
	ExpectedTraits []string `json:"expectedTraits"`
	Recommended    bool     `json:"recommended"`
}

// FailClosed es el veredicto ante cualquier falla de lookup/transporte:
// ante la duda se bloquea la cruza.
func FailClosed() Verdict {
	return Verdict{
		Compatible: false,
		Reason:     ReasonCheckFailed,
		RiskLevel:  RiskHigh,
	}
}

func incompatible(reason string, risk RiskLevel) Verdict {
	return Verdict{Compatible: false, Reason: reason, RiskLevel: risk}
}

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskNone, RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}
