package settle

import "math"

// Valores trafegam como float de reais no JSON e como centavos (int64)
// dentro do servidor, seguindo a regra de nunca fazer aritmética de
// rateio em ponto flutuante.

// FromAmount converte reais (float do JSON) para centavos, arredondando
// meio-para-fora (2.345 → 235).
func FromAmount(v float64) int64 {
	return int64(math.Round(v * 100))
}

// ToAmount converte centavos para reais na borda do JSON.
func ToAmount(cents int64) float64 {
	return float64(cents) / 100
}
