// Package docs registra la definición OpenAPI servida en /swagger.
// Se regenera con: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/animals": {
            "get": {
                "description": "Lista en orden de creación. Se usa para poblar los selectores de cruza (status por defecto: active).",
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Listar animales por sexo y estado",
                "parameters": [
                    {"type": "string", "description": "male | female", "name": "gender", "in": "query", "required": true},
                    {"type": "string", "description": "active | breeding | retired | sold | deceased", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/animals.AnimalResponse"}}},
                    "400": {"description": "invalid filter", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Da de alta un animal. Si se indican padres, deben existir y tener el sexo correcto; la ancestry se calcula a partir de ellos.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Registrar animal",
                "parameters": [
                    {"description": "Datos del animal; birth_date en formato YYYY-MM-DD", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/animals.registerAnimalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/animals.AnimalResponse"}},
                    "400": {"description": "invalid json / reglas de negocio", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/animals/{animalID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Obtener animal",
                "parameters": [
                    {"type": "integer", "description": "ID del animal", "name": "animalID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.AnimalResponse"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            }
        },
        "/animals/{animalID}/ancestry/audit": {
            "get": {
                "description": "Recorre el linaje real (hasta el máximo de generaciones) y devuelve los ids que faltan en ancestry.",
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Auditar ancestry desnormalizada",
                "parameters": [
                    {"type": "integer", "description": "ID del animal", "name": "animalID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.auditResponse"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            }
        },
        "/animals/{animalID}/parents": {
            "put": {
                "description": "Reemplaza sire/dam y recalcula la ancestry del animal y de todos sus descendientes.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Corregir padres del animal",
                "parameters": [
                    {"type": "integer", "description": "ID del animal", "name": "animalID", "in": "path", "required": true},
                    {"description": "IDs de padre y madre (null = sin registrar)", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/animals.setParentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.AnimalResponse"}},
                    "400": {"description": "padre inválido", "schema": {"type": "string"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}},
                    "409": {"description": "lineage cycle", "schema": {"type": "string"}}
                }
            }
        },
        "/animals/{animalID}/pedigree": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Árbol genealógico",
                "parameters": [
                    {"type": "integer", "description": "ID del animal", "name": "animalID", "in": "path", "required": true},
                    {"type": "integer", "description": "Generaciones hacia atrás (default 4)", "name": "generations", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.pedigreeResponse"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            }
        },
        "/animals/{animalID}/status": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Cambiar estado del animal",
                "parameters": [
                    {"type": "integer", "description": "ID del animal", "name": "animalID", "in": "path", "required": true},
                    {"description": "Nuevo estado", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/animals.updateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.AnimalResponse"}},
                    "400": {"description": "invalid status", "schema": {"type": "string"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            }
        },
        "/breeding/candidates": {
            "get": {
                "description": "Evalúa el macho contra todas las hembras activas. Incluye resumen con media/mediana del score de razas.",
                "produces": ["application/json"],
                "tags": ["breeding"],
                "summary": "Candidatas de cruza para un macho",
                "parameters": [
                    {"type": "integer", "description": "ID del macho", "name": "maleId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/breeding.candidatesResponse"}},
                    "400": {"description": "maleId inválido o no es macho", "schema": {"type": "string"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            }
        },
        "/breeding/compatibility": {
            "get": {
                "description": "Evalúa un macho y una hembra. Ante cualquier error interno (animal inexistente, store caído) responde 200 con un veredicto incompatible de riesgo high, para que la UI lo muestre igual que un resultado normal.",
                "produces": ["application/json"],
                "tags": ["breeding"],
                "summary": "Verificar compatibilidad de cruza",
                "parameters": [
                    {"type": "integer", "description": "ID del macho", "name": "maleId", "in": "query", "required": true},
                    {"type": "integer", "description": "ID de la hembra", "name": "femaleId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/breeding.Verdict"}},
                    "400": {"description": "ids faltantes o inválidos (veredicto fail-closed)", "schema": {"$ref": "#/definitions/breeding.Verdict"}}
                }
            }
        },
        "/breedings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["breeding"],
                "summary": "Listar cruzas registradas",
                "parameters": [
                    {"type": "integer", "description": "Filtra por animal (como macho o hembra)", "name": "animalId", "in": "query"},
                    {"type": "integer", "description": "Máximo a devolver (1-200). Por defecto 50", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/breeding.pairingResponse"}}},
                    "400": {"description": "filtro inválido", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Registra una cruza. Si el veredicto es incompatible responde 409 con el veredicto, salvo override=true (queda registrado el override).",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["breeding"],
                "summary": "Registrar cruza",
                "parameters": [
                    {"description": "Cruza; paired_at en RFC3339 (opcional)", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/breeding.recordPairingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/breeding.pairingResponse"}},
                    "400": {"description": "invalid json / reglas de negocio", "schema": {"type": "string"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/breeding.pairingRejectedResponse"}}
                }
            }
        },
        "/breeds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["breeds"],
                "summary": "Listar razas",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/breeds.breedResponse"}}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/breeds/compatibility": {
            "get": {
                "produces": ["application/json"],
                "tags": ["breeds"],
                "summary": "Compatibilidad entre dos razas",
                "parameters": [
                    {"type": "integer", "description": "ID de raza", "name": "a", "in": "query", "required": true},
                    {"type": "integer", "description": "ID de raza", "name": "b", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/breeds.CompatibilityResponse"}},
                    "400": {"description": "a and b must be distinct breed ids", "schema": {"type": "string"}},
                    "404": {"description": "breed compatibility not found", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "animals.AnimalResponse": {
            "type": "object",
            "properties": {
                "ancestry": {"type": "array", "items": {"type": "string"}},
                "birth_date": {"type": "string"},
                "breed_id": {"type": "integer"},
                "created_at": {"type": "string"},
                "gender": {"$ref": "#/definitions/animals.Gender"},
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "notes": {"type": "string"},
                "parent_female_id": {"type": "integer"},
                "parent_male_id": {"type": "integer"},
                "status": {"$ref": "#/definitions/animals.Status"},
                "updated_at": {"type": "string"}
            }
        },
        "animals.Gender": {
            "type": "string",
            "enum": ["male", "female"],
            "x-enum-varnames": ["GenderMale", "GenderFemale"]
        },
        "animals.Status": {
            "type": "string",
            "enum": ["active", "breeding", "retired", "sold", "deceased"],
            "x-enum-varnames": ["StatusActive", "StatusBreeding", "StatusRetired", "StatusSold", "StatusDeceased"]
        },
        "animals.auditResponse": {
            "type": "object",
            "properties": {
                "animal_id": {"type": "integer"},
                "in_sync": {"type": "boolean"},
                "missing": {"type": "array", "items": {"type": "string"}}
            }
        },
        "animals.pedigreeResponse": {
            "type": "object",
            "properties": {
                "animal": {"$ref": "#/definitions/animals.AnimalResponse"},
                "dam": {"$ref": "#/definitions/animals.pedigreeResponse"},
                "generation": {"type": "integer"},
                "sire": {"$ref": "#/definitions/animals.pedigreeResponse"}
            }
        },
        "animals.registerAnimalRequest": {
            "type": "object",
            "properties": {
                "birth_date": {"description": "YYYY-MM-DD opcional", "type": "string"},
                "breed_id": {"type": "integer"},
                "gender": {"enum": ["male", "female"], "allOf": [{"$ref": "#/definitions/animals.Gender"}]},
                "name": {"type": "string"},
                "notes": {"type": "string"},
                "parent_female_id": {"type": "integer"},
                "parent_male_id": {"type": "integer"},
                "status": {"enum": ["active", "breeding", "retired", "sold", "deceased"], "allOf": [{"$ref": "#/definitions/animals.Status"}]}
            }
        },
        "animals.setParentsRequest": {
            "type": "object",
            "properties": {
                "parent_female_id": {"type": "integer"},
                "parent_male_id": {"type": "integer"}
            }
        },
        "animals.updateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"enum": ["active", "breeding", "retired", "sold", "deceased"], "allOf": [{"$ref": "#/definitions/animals.Status"}]}
            }
        },
        "breeding.BreedMatch": {
            "type": "object",
            "properties": {
                "breedA": {"type": "integer"},
                "breedB": {"type": "integer"},
                "expectedTraits": {"type": "array", "items": {"type": "string"}},
                "recommended": {"type": "boolean"},
                "score": {"type": "integer"}
            }
        },
        "breeding.RiskLevel": {
            "type": "string",
            "enum": ["none", "low", "medium", "high"],
            "x-enum-varnames": ["RiskNone", "RiskLow", "RiskMedium", "RiskHigh"]
        },
        "breeding.Verdict": {
            "type": "object",
            "properties": {
                "breedCompatibility": {"$ref": "#/definitions/breeding.BreedMatch"},
                "compatible": {"type": "boolean"},
                "reason": {"type": "string"},
                "riskLevel": {"$ref": "#/definitions/breeding.RiskLevel"}
            }
        },
        "breeding.candidateResponse": {
            "type": "object",
            "properties": {
                "animal": {"$ref": "#/definitions/animals.AnimalResponse"},
                "verdict": {"$ref": "#/definitions/breeding.Verdict"}
            }
        },
        "breeding.candidateSummaryResponse": {
            "type": "object",
            "properties": {
                "compatible": {"type": "integer"},
                "mean_breed_score": {"type": "number"},
                "median_breed_score": {"type": "number"},
                "scored": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "breeding.candidatesResponse": {
            "type": "object",
            "properties": {
                "candidates": {"type": "array", "items": {"$ref": "#/definitions/breeding.candidateResponse"}},
                "male": {"$ref": "#/definitions/animals.AnimalResponse"},
                "summary": {"$ref": "#/definitions/breeding.candidateSummaryResponse"}
            }
        },
        "breeding.pairingRejectedResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "verdict": {"$ref": "#/definitions/breeding.Verdict"}
            }
        },
        "breeding.pairingResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "female_id": {"type": "integer"},
                "id": {"type": "string"},
                "male_id": {"type": "integer"},
                "notes": {"type": "string"},
                "override": {"type": "boolean"},
                "paired_at": {"type": "string"},
                "reason": {"type": "string"},
                "risk_level": {"$ref": "#/definitions/breeding.RiskLevel"}
            }
        },
        "breeding.recordPairingRequest": {
            "type": "object",
            "properties": {
                "female_id": {"type": "integer"},
                "male_id": {"type": "integer"},
                "notes": {"type": "string"},
                "override": {"type": "boolean"},
                "paired_at": {"description": "RFC3339 opcional", "type": "string"}
            }
        },
        "breeds.CompatibilityResponse": {
            "type": "object",
            "properties": {
                "breedA": {"type": "integer"},
                "breedB": {"type": "integer"},
                "expectedTraits": {"type": "array", "items": {"type": "string"}},
                "recommended": {"type": "boolean"},
                "score": {"type": "integer"}
            }
        },
        "breeds.breedResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Rabbit Pedigree API",
	Description:      "Registro de linaje y verificación de compatibilidad de cruzas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
