package drops

import (
	"fmt"

	"github.com/KirkDiggler/rpg-workshop/internal/entities"
	"github.com/KirkDiggler/rpg-workshop/internal/errors"
)

// MaxItemNameLength bounds drop entry names in runes
const MaxItemNameLength = 64

// ValidateTable rejects entries the simulator cannot roll: empty names, the
// reserved no-drop name, and probabilities that are negative, NaN, infinite
// or above MaxProbability.
// An empty table is valid and always yields no-drop trials.
func ValidateTable(table []entities.DropTableEntry) error {
	vb := errors.NewValidationBuilder()
	for i, entry := range table {
		field := fmt.Sprintf("drop_table[%d]", i)
		errors.ValidateRequired(field+".item_name", entry.ItemName, vb)
		errors.ValidateMaxLength(field+".item_name", entry.ItemName, MaxItemNameLength, vb)
		if entry.ItemName == entities.NoDropItemName {
			vb.InvalidField(field+".item_name", "reserved for trials without drops")
		}
		errors.ValidateProbability(field+".probability", entry.Probability, MaxProbability, vb)
	}
	return vb.Build()
}
