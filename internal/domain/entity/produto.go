package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto representa um item do estoque. Quantidade é o saldo corrente e só muda
// via movimentações (entrada/saída); edições de cadastro nunca a alteram.
type Produto struct {
	ID              int64
	Codigo          string // código de negócio, único
	Nome            string
	Categoria       string
	Descricao       string
	Quantidade      int64
	PrecoUnitario   decimal.Decimal
	DataCadastro    time.Time
	DataAtualizacao time.Time
}
