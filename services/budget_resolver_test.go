package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestResolveBudget_PriorityChain(t *testing.T) {
	// Budget du destinataire prioritaire sur tout le reste.
	cents, ok := ResolveBudget(f64(50), f64(80), f64(200), 4)
	assert.True(t, ok)
	assert.Equal(t, int64(5000), cents)

	// Budget alloué au slot si le destinataire n'en a pas.
	cents, ok = ResolveBudget(nil, f64(80), f64(200), 4)
	assert.True(t, ok)
	assert.Equal(t, int64(8000), cents)

	// Pool de l'événement divisé par le nombre de slots.
	cents, ok = ResolveBudget(nil, nil, f64(100), 4)
	assert.True(t, ok)
	assert.Equal(t, int64(2500), cents)
}

func TestResolveBudget_EventPoolTruncates(t *testing.T) {
	// $100 entre 3 destinataires : 3333 centimes, jamais d'arrondi supérieur.
	cents, ok := ResolveBudget(nil, nil, f64(100), 3)
	assert.True(t, ok)
	assert.Equal(t, int64(3333), cents)
}

func TestResolveBudget_NoBudgetAnywhere(t *testing.T) {
	cents, ok := ResolveBudget(nil, nil, nil, 3)
	assert.False(t, ok)
	assert.Equal(t, int64(0), cents)
}

func TestResolveBudget_EventBudgetWithoutRecipients(t *testing.T) {
	// Un budget d'événement sans slot lié ne s'applique pas (division par zéro).
	_, ok := ResolveBudget(nil, nil, f64(100), 0)
	assert.False(t, ok)
}

func TestResolveBudget_ZeroExplicitBudget(t *testing.T) {
	// Un budget explicite à 0 reste un budget qui s'applique.
	cents, ok := ResolveBudget(f64(0), nil, f64(100), 2)
	assert.True(t, ok)
	assert.Equal(t, int64(0), cents)
}
