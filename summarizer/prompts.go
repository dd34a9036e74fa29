package summarizer

import (
	"fmt"
	"math/rand"

	"github.com/mediscan/mediscan-api/dataset"
)

// promptBuilders are alternative phrasings of the same record. Picking one
// at random keeps regenerated summaries from collapsing onto a single
// wording.
var promptBuilders = []func(m *dataset.Medicine) string{
	func(m *dataset.Medicine) string {
		return fmt.Sprintf("%s is a medicine by %s containing %s. It is used for %s. "+
			"Recommended dosage: %s. Possible side effects include %s. Use in pregnancy: %s.",
			m.DrugName, m.CompanyName, m.ActiveIngredient, m.Indication, m.Dosage, m.SideEffects, m.Pregnancy)
	},
	func(m *dataset.Medicine) string {
		return fmt.Sprintf("Drug: %s | Company: %s | Ingredient: %s | Use: %s | Dosage: %s | "+
			"Side Effects: %s | Pregnancy: %s.",
			m.DrugName, m.CompanyName, m.ActiveIngredient, m.Indication, m.Dosage, m.SideEffects, m.Pregnancy)
	},
	func(m *dataset.Medicine) string {
		return fmt.Sprintf("%s (%s), manufactured by %s. Indication: %s. Dosage: %s. "+
			"Side Effects: %s. Pregnancy: %s.",
			m.DrugName, m.ActiveIngredient, m.CompanyName, m.Indication, m.Dosage, m.SideEffects, m.Pregnancy)
	},
	func(m *dataset.Medicine) string {
		return fmt.Sprintf("Company: %s\nActive Ingredient: %s\nIndication: %s\nDosage: %s\n"+
			"Side Effects: %s\nUse in pregnancy: %s\n",
			m.CompanyName, m.ActiveIngredient, m.Indication, m.Dosage, m.SideEffects, m.Pregnancy)
	},
	func(m *dataset.Medicine) string {
		return fmt.Sprintf("%s is used for %s. Contains %s and is produced by %s. Dosage: %s. "+
			"Side Effects: %s. Pregnancy use: %s.",
			m.DrugName, m.Indication, m.ActiveIngredient, m.CompanyName, m.Dosage, m.SideEffects, m.Pregnancy)
	},
	func(m *dataset.Medicine) string {
		return fmt.Sprintf("%s, made by %s, contains %s. Indicated for %s. Usual dose: %s. "+
			"Side effects: %s. Pregnancy: %s.",
			m.DrugName, m.CompanyName, m.ActiveIngredient, m.Indication, m.Dosage, m.SideEffects, m.Pregnancy)
	},
}

// BuildPrompt renders the medicine record as one of the prompt variants.
func BuildPrompt(m *dataset.Medicine) string {
	return promptBuilders[rand.Intn(len(promptBuilders))](m)
}
