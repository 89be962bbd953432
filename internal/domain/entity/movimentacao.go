package entity

import "time"

// Tipos de movimentação de estoque.
const (
	TipoEntrada = "ENTRADA"
	TipoSaida   = "SAIDA"
)

// Movimentacao é uma linha do livro-razão de estoque. Quantidade é sempre
// positiva; o sentido vem do Tipo. O saldo do produto deve ser igual a
// Σ(ENTRADA) − Σ(SAIDA) das suas movimentações.
type Movimentacao struct {
	ID               int64
	ProdutoID        int64
	Tipo             string
	Quantidade       int64
	Observacao       string
	DataMovimentacao time.Time
	ProdutoNome      string // preenchido no histórico (join com produtos)
}
