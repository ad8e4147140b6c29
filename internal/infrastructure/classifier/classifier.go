// Package classifier implementa el clasificador de documentos: TF-IDF sobre
// un vocabulario entrenado + modelo lineal multiclase, cargado desde un
// artefacto JSON.
package classifier

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/observability/metrics"
)

// TFIDF clasifica texto contra el modelo entrenado. Es seguro para uso
// concurrente: el modelo es inmutable tras la carga.
type TFIDF struct {
	model *Model
	// legacyRefit reproduce el comportamiento histórico del servicio original:
	// el vocabulario se reconstruye con cada texto de entrada y los pesos se
	// aplican por posición. Solo para compatibilidad; desactivado por defecto.
	legacyRefit bool
	metrics     *metrics.Registry // nil = sin instrumentación
}

// NewTFIDF construye el clasificador sobre un modelo ya cargado.
func NewTFIDF(model *Model, legacyRefit bool, m *metrics.Registry) *TFIDF {
	return &TFIDF{model: model, legacyRefit: legacyRefit, metrics: m}
}

// PredictCategory devuelve la clase con mayor score lineal para el texto.
func (c *TFIDF) PredictCategory(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		c.record("error")
		return "", err
	}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		c.record("empty")
		return "", fmt.Errorf("%w: el texto no contiene tokens", domain.ErrEmptyInput)
	}

	var features map[int]float64
	if c.legacyRefit {
		features = c.legacyFeatures(tokens)
	} else {
		features = c.tfidfFeatures(tokens)
	}
	if len(features) == 0 {
		c.record("empty")
		return "", fmt.Errorf("%w: ningún token pertenece al vocabulario", domain.ErrEmptyInput)
	}

	best, bestScore := -1, math.Inf(-1)
	for class := range c.model.Classes {
		score := c.model.Intercepts[class]
		for idx, v := range features {
			score += c.model.Weights[class][idx] * v
		}
		if score > bestScore {
			best, bestScore = class, score
		}
	}

	c.record("success")
	return c.model.Classes[best], nil
}

// tfidfFeatures vectoriza con el vocabulario entrenado: tf * idf, normalizado L2.
func (c *TFIDF) tfidfFeatures(tokens []string) map[int]float64 {
	features := make(map[int]float64, len(tokens))
	for term, tf := range TermFrequencies(tokens) {
		idx, ok := c.model.Vocabulary[term]
		if !ok {
			continue
		}
		features[idx] = tf * c.model.IDF[idx]
	}

	var norm float64
	for _, v := range features {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range features {
			features[idx] /= norm
		}
	}
	return features
}

// legacyFeatures reconstruye el vocabulario a partir del texto de entrada
// (términos únicos ordenados, idf = 1) y mapea por posición contra los pesos
// entrenados. El índice posicional no coincide con el vocabulario original,
// que es exactamente lo que hacía el servicio histórico al re-entrenar el
// vectorizador en cada llamada.
func (c *TFIDF) legacyFeatures(tokens []string) map[int]float64 {
	tf := TermFrequencies(tokens)
	terms := make([]string, 0, len(tf))
	for term := range tf {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	dims := len(c.model.Vocabulary)
	features := make(map[int]float64, len(terms))
	for pos, term := range terms {
		if pos >= dims {
			break
		}
		features[pos] = tf[term]
	}

	var norm float64
	for _, v := range features {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range features {
			features[idx] /= norm
		}
	}
	return features
}

// Unavailable reemplaza al clasificador cuando el artefacto no pudo cargarse:
// el servicio arranca igual y cada predicción devuelve el error de carga.
type Unavailable struct {
	Err error
}

func (u Unavailable) PredictCategory(context.Context, string) (string, error) {
	return "", u.Err
}

func (c *TFIDF) record(outcome string) {
	if c.metrics != nil {
		c.metrics.ClassifierPredictions.WithLabelValues(outcome).Inc()
	}
}
