package classifier

import (
	"context"
	"testing"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelo mínimo de dos clases: "Finance" pesa los términos de factura,
// "Legal" los de contrato.
func testModel() *Model {
	return &Model{
		Version:    1,
		Vocabulary: map[string]int{"factura": 0, "pago": 1, "contrato": 2, "clausula": 3},
		IDF:        []float64{1.2, 1.0, 1.2, 1.0},
		Classes:    []string{"Finance", "Legal"},
		Weights: [][]float64{
			{1.5, 1.0, -0.5, -0.5},
			{-0.5, -0.5, 1.5, 1.0},
		},
		Intercepts: []float64{0, 0},
	}
}

func TestPredictCategory_ClasificaPorVocabulario(t *testing.T) {
	c := NewTFIDF(testModel(), false, nil)

	cat, err := c.PredictCategory(context.Background(), "Factura de pago mensual")
	require.NoError(t, err)
	assert.Equal(t, "Finance", cat)

	cat, err = c.PredictCategory(context.Background(), "Contrato con cláusula de exclusividad")
	require.NoError(t, err)
	assert.Equal(t, "Legal", cat)
}

func TestPredictCategory_AcentosNormalizados(t *testing.T) {
	c := NewTFIDF(testModel(), false, nil)

	// "cláusula" debe plegar a "clausula" del vocabulario.
	cat, err := c.PredictCategory(context.Background(), "cláusula contrato")
	require.NoError(t, err)
	assert.Equal(t, "Legal", cat)
}

func TestPredictCategory_TextoVacio(t *testing.T) {
	c := NewTFIDF(testModel(), false, nil)

	_, err := c.PredictCategory(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestPredictCategory_SinTokensDelVocabulario(t *testing.T) {
	c := NewTFIDF(testModel(), false, nil)

	_, err := c.PredictCategory(context.Background(), "zanahoria bicicleta")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestPredictCategory_ContextoCancelado(t *testing.T) {
	c := NewTFIDF(testModel(), false, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.PredictCategory(ctx, "factura pago")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictCategory_ModoLegacyUsaIndicesPosicionales(t *testing.T) {
	c := NewTFIDF(testModel(), true, nil)

	// En modo legacy el vocabulario se reconstruye del propio texto: términos
	// únicos ordenados. Para "pago factura" el orden es [factura, pago] →
	// posiciones 0 y 1, que caen sobre los pesos de factura/pago por
	// coincidencia del vocabulario de prueba.
	cat, err := c.PredictCategory(context.Background(), "pago factura")
	require.NoError(t, err)
	assert.Equal(t, "Finance", cat)

	// Términos fuera del vocabulario entrenado igual producen predicción:
	// el modo legacy nunca devuelve ErrEmptyInput por vocabulario.
	_, err = c.PredictCategory(context.Background(), "zanahoria bicicleta")
	assert.NoError(t, err)
}

func TestLoadModel_ArchivoAusente(t *testing.T) {
	_, err := LoadModel("/no/existe/classifier.json")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestModelValidate_DimensionesInconsistentes(t *testing.T) {
	m := testModel()
	m.IDF = m.IDF[:2]
	assert.ErrorIs(t, m.validate(), domain.ErrModelUnavailable)

	m = testModel()
	m.Weights = m.Weights[:1]
	assert.ErrorIs(t, m.validate(), domain.ErrModelUnavailable)
}
