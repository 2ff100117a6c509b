package services

// ============================================================================
// BUDGET RESOLVER
// Chaîne de priorité : budget du destinataire > budget alloué au slot >
// budget de l'événement divisé par le nombre de destinataires liés.
// ============================================================================

// toCents convertit un montant décimal en centimes entiers.
// Multiplication par 100 puis troncature, jamais d'arrondi : comportement
// volontaire pour éviter toute dérive flottante sur la monnaie.
func toCents(amount float64) int64 {
	return int64(amount * 100)
}

// ResolveBudget retourne (centimes, true) si un budget s'applique, (0, false)
// sinon. recipientCount est le nombre de slots actuellement liés à l'événement.
func ResolveBudget(recipientBudget, allocatedBudget, eventBudget *float64, recipientCount int) (int64, bool) {
	if recipientBudget != nil {
		return toCents(*recipientBudget), true
	}
	if allocatedBudget != nil {
		return toCents(*allocatedBudget), true
	}
	if eventBudget != nil && recipientCount > 0 {
		return toCents(*eventBudget) / int64(recipientCount), true
	}
	return 0, false
}
