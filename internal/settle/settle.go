// Package settle implementa o rateio de despesas e o cálculo de dívidas
// líquidas entre pares de participantes. Funções puras sobre centavos;
// nada aqui toca o banco de dados.
package settle

import (
	"errors"
	"sort"
)

var (
	// ErrSharesExceedTotal - a soma das cotas fixas passa do total da
	// despesa. Inconsistência de dados: sinalizada, nunca negativada.
	ErrSharesExceedTotal = errors.New("soma das cotas fixas excede o total da despesa")

	// ErrUnassignedRemainder - sobra valor sem participante flexível para
	// absorvê-lo.
	ErrUnassignedRemainder = errors.New("restante da despesa sem participante flexível")
)

// Participant é a entrada do rateio: FixedCents nulo marca cota flexível.
type Participant struct {
	UserID     uint
	FixedCents *int64
}

// Shares rateia totalCents entre os participantes. Cotas fixas são
// descontadas do total; o restante é dividido igualmente entre as cotas
// flexíveis. Centavos de sobra da divisão inteira vão um a um para os
// participantes flexíveis de menor ID, para que o resultado seja
// determinístico e some exatamente o total.
func Shares(totalCents int64, participants []Participant) (map[uint]int64, error) {
	shares := make(map[uint]int64, len(participants))

	var fixedSum int64
	var flex []uint
	for _, p := range participants {
		if p.FixedCents != nil {
			shares[p.UserID] = *p.FixedCents
			fixedSum += *p.FixedCents
		} else {
			flex = append(flex, p.UserID)
		}
	}

	remainder := totalCents - fixedSum
	if remainder < 0 {
		return nil, ErrSharesExceedTotal
	}
	if len(flex) == 0 {
		if remainder != 0 {
			return nil, ErrUnassignedRemainder
		}
		return shares, nil
	}

	sort.Slice(flex, func(i, j int) bool { return flex[i] < flex[j] })

	base := remainder / int64(len(flex))
	left := remainder % int64(len(flex))
	for i, id := range flex {
		share := base
		if int64(i) < left {
			share++
		}
		shares[id] = share
	}

	return shares, nil
}

// Share é a cota de um participante vista pelo cálculo de dívidas.
type Share struct {
	UserID     uint
	FixedCents *int64
	Confirmed  bool
}

// Expense é a projeção mínima de uma despesa para o cálculo de dívidas.
type Expense struct {
	PayerID    uint
	TotalCents int64
	Shares     []Share
}

// Debt - dívida líquida direcionada entre dois participantes.
type Debt struct {
	DebtorID   uint
	CreditorID uint
	Cents      int64
}

// ComputeDebts acumula, para toda cota não confirmada, o valor devido do
// participante ao pagador (auto-pares ignorados), agrega por par e
// compensa dívidas em sentidos opostos em uma única entrada de |X−Y|.
// Pares que se anulam não aparecem. Saída ordenada por (devedor, credor)
// para ser estável; o chamador reordena por nome se precisar.
//
// Despesa sem cota flexível que não cobre o total não é erro aqui: cada
// participante deve só a sua cota fixa e o restante fica com o pagador.
// Uma despesa sem participantes, portanto, não gera dívida nenhuma.
func ComputeDebts(expenses []Expense) ([]Debt, error) {
	type pair struct{ debtor, creditor uint }
	owed := make(map[pair]int64)

	for _, e := range expenses {
		parts := make([]Participant, 0, len(e.Shares))
		for _, s := range e.Shares {
			parts = append(parts, Participant{UserID: s.UserID, FixedCents: s.FixedCents})
		}
		shares, err := Shares(e.TotalCents, parts)
		if errors.Is(err, ErrUnassignedRemainder) {
			shares = make(map[uint]int64, len(e.Shares))
			for _, s := range e.Shares {
				if s.FixedCents != nil {
					shares[s.UserID] = *s.FixedCents
				}
			}
			err = nil
		}
		if err != nil {
			return nil, err
		}
		for _, s := range e.Shares {
			if s.Confirmed || s.UserID == e.PayerID {
				continue
			}
			owed[pair{s.UserID, e.PayerID}] += shares[s.UserID]
		}
	}

	// Compensação bidirecional: visita cada par não ordenado uma vez.
	debts := make([]Debt, 0, len(owed))
	for p, cents := range owed {
		if p.debtor > p.creditor {
			continue // tratado ao visitar o par espelhado
		}
		net := cents - owed[pair{p.creditor, p.debtor}]
		switch {
		case net > 0:
			debts = append(debts, Debt{DebtorID: p.debtor, CreditorID: p.creditor, Cents: net})
		case net < 0:
			debts = append(debts, Debt{DebtorID: p.creditor, CreditorID: p.debtor, Cents: -net})
		}
	}
	// Pares onde só existe o sentido debtor > creditor.
	for p, cents := range owed {
		if p.debtor <= p.creditor {
			continue
		}
		if _, ok := owed[pair{p.creditor, p.debtor}]; ok {
			continue // já compensado acima
		}
		debts = append(debts, Debt{DebtorID: p.debtor, CreditorID: p.creditor, Cents: cents})
	}

	sort.Slice(debts, func(i, j int) bool {
		if debts[i].DebtorID != debts[j].DebtorID {
			return debts[i].DebtorID < debts[j].DebtorID
		}
		return debts[i].CreditorID < debts[j].CreditorID
	})

	return debts, nil
}
