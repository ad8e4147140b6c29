// train_classifier entrena el modelo de clasificación documental a partir de
// un CSV etiquetado (columnas: text,category) y escribe el artefacto JSON que
// carga la API.
//
// Uso: go run ./cmd/train_classifier [ruta/dataset.csv] [ruta/classifier.json]
// Por defecto lee dataset.csv en el directorio actual y escribe
// models/classifier.json.
//
// El modelo es nearest-centroid sobre vectores TF-IDF normalizados L2: una
// fila de pesos por categoría con el centroide de sus ejemplos. Scoring lineal
// W·x, sin intercepts.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/jhoicas/docuflow-api/internal/infrastructure/classifier"
)

func main() {
	csvPath := "dataset.csv"
	outPath := filepath.Join("models", "classifier.json")
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	samples, err := readDataset(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer dataset: %v\n", err)
		os.Exit(1)
	}
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "El dataset no contiene ejemplos")
		os.Exit(1)
	}

	model := train(samples)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Serializar modelo: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir artefacto: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d ejemplos, %d términos, %d clases\n",
		outPath, len(samples), len(model.Vocabulary), len(model.Classes))
}

type sample struct {
	text     string
	category string
}

// readDataset lee el CSV con columnas text,category (con o sin cabecera).
func readDataset(path string) ([]sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	var samples []sample
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "text" && record[1] == "category" {
			continue // cabecera
		}
		if record[0] == "" || record[1] == "" {
			continue
		}
		samples = append(samples, sample{text: record[0], category: record[1]})
	}
	return samples, nil
}

// train construye vocabulario + idf y el centroide TF-IDF de cada clase.
func train(samples []sample) *classifier.Model {
	// Tokenizar una vez y acumular document frequency
	docs := make([]map[string]float64, len(samples))
	df := make(map[string]int)
	for i, s := range samples {
		tf := classifier.TermFrequencies(classifier.Tokenize(s.text))
		docs[i] = tf
		for term := range tf {
			df[term]++
		}
	}

	// Vocabulario ordenado para salida estable
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(samples))
	for i, term := range terms {
		vocabulary[term] = i
		// idf suavizado: ln((1+n)/(1+df)) + 1
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	// Clases ordenadas
	classIndex := make(map[string]int)
	var classes []string
	for _, s := range samples {
		if _, ok := classIndex[s.category]; !ok {
			classIndex[s.category] = 0
			classes = append(classes, s.category)
		}
	}
	sort.Strings(classes)
	for i, c := range classes {
		classIndex[c] = i
	}

	// Centroide por clase: suma de vectores TF-IDF normalizados L2
	weights := make([][]float64, len(classes))
	for i := range weights {
		weights[i] = make([]float64, len(terms))
	}
	counts := make([]float64, len(classes))
	for i, s := range samples {
		vec := make([]float64, len(terms))
		var norm float64
		for term, tf := range docs[i] {
			idx := vocabulary[term]
			v := tf * idf[idx]
			vec[idx] = v
			norm += v * v
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		class := classIndex[s.category]
		for idx, v := range vec {
			weights[class][idx] += v / norm
		}
		counts[class]++
	}
	for class := range weights {
		if counts[class] == 0 {
			continue
		}
		for idx := range weights[class] {
			weights[class][idx] /= counts[class]
		}
	}

	return &classifier.Model{
		Version:    1,
		Vocabulary: vocabulary,
		IDF:        idf,
		Classes:    classes,
		Weights:    weights,
		Intercepts: make([]float64, len(classes)),
	}
}
