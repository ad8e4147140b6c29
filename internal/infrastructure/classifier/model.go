package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jhoicas/docuflow-api/internal/domain"
)

// Model es el artefacto entrenado: vocabulario TF-IDF + clasificador lineal
// multiclase (una fila de pesos por clase). Se serializa como JSON y lo
// produce cmd/train_classifier.
type Model struct {
	Version    int            `json:"version"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Classes    []string       `json:"classes"`
	Weights    [][]float64    `json:"weights"`
	Intercepts []float64      `json:"intercepts"`
}

// LoadModel lee y valida el artefacto. Cualquier problema (archivo ausente,
// JSON corrupto, dimensiones inconsistentes) se reporta como
// domain.ErrModelUnavailable.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrModelUnavailable, path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decodificar %s: %v", domain.ErrModelUnavailable, path, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Model) validate() error {
	if len(m.Vocabulary) == 0 || len(m.Classes) == 0 {
		return fmt.Errorf("%w: artefacto sin vocabulario o sin clases", domain.ErrModelUnavailable)
	}
	if len(m.IDF) != len(m.Vocabulary) {
		return fmt.Errorf("%w: idf (%d) no coincide con vocabulario (%d)", domain.ErrModelUnavailable, len(m.IDF), len(m.Vocabulary))
	}
	if len(m.Weights) != len(m.Classes) {
		return fmt.Errorf("%w: filas de pesos (%d) no coinciden con clases (%d)", domain.ErrModelUnavailable, len(m.Weights), len(m.Classes))
	}
	for i, row := range m.Weights {
		if len(row) != len(m.Vocabulary) {
			return fmt.Errorf("%w: fila de pesos %d con dimensión %d, esperaba %d", domain.ErrModelUnavailable, i, len(row), len(m.Vocabulary))
		}
	}
	if len(m.Intercepts) != len(m.Classes) {
		return fmt.Errorf("%w: intercepts (%d) no coinciden con clases (%d)", domain.ErrModelUnavailable, len(m.Intercepts), len(m.Classes))
	}
	return nil
}
