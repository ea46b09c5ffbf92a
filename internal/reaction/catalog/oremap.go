package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/moonbelt/reaction-server/internal/reaction/db"
)

// orePrefixes are the known ore variant prefixes stripped to get the base
// ore name ("Glossy Scordite" -> "Scordite").
var orePrefixes = []string{
	"Bountiful ",
	"Copious ",
	"Dazzling ",
	"Flawless ",
	"Gilded ",
	"Glossy ",
	"Immaculate ",
	"Lavish ",
	"Lustrous ",
	"Opulent ",
	"Pellucid ",
	"Platelet ",
	"Plentiful ",
	"Prismatic ",
	"Radiant ",
	"Replete ",
	"Resplendent ",
	"Shimmering ",
	"Sparkling ",
	"Stable ",
	"Twinkling ",
	"Brilliant ",
}

// reactionMaterials is the set of refined materials reactions actually
// consume, as opposed to regular minerals that also come out of refining.
var reactionMaterials = map[string]bool{
	// R4
	"Hydrocarbons": true, "Silicates": true, "Evaporite Deposits": true, "Atmospheric Gases": true,
	// R8
	"Cobalt": true, "Scandium": true, "Tungsten": true, "Titanium": true,
	// R16
	"Chromium": true, "Cadmium": true, "Platinum": true, "Vanadium": true,
	// R32
	"Technetium": true, "Mercury": true, "Caesium": true, "Hafnium": true,
	// R64
	"Promethium": true, "Neodymium": true, "Dysprosium": true, "Thulium": true,
}

// OreMappings maps base ore names to the reaction materials they refine
// into. Loaded once at startup and read-only afterwards.
type OreMappings struct {
	oreToMaterials map[string][]string
}

// LoadOreMappings reads the mapping table from the store.
func LoadOreMappings(ctx context.Context, store *db.OreMappingStore) (*OreMappings, error) {
	rows, err := store.GetAllMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ore mappings: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ore mapping dataset is empty; run an import first")
	}

	m := &OreMappings{oreToMaterials: make(map[string][]string)}
	for _, row := range rows {
		m.oreToMaterials[row.OreName] = append(m.oreToMaterials[row.OreName], row.MaterialName)
	}
	return m, nil
}

// NewOreMappings builds OreMappings from an in-memory map.
func NewOreMappings(oreToMaterials map[string][]string) *OreMappings {
	return &OreMappings{oreToMaterials: oreToMaterials}
}

// BaseOreName strips a variant prefix from an ore name, if present.
func BaseOreName(oreName string) string {
	for _, prefix := range orePrefixes {
		if stripped, ok := strings.CutPrefix(oreName, prefix); ok {
			return stripped
		}
	}
	return oreName
}

// IsReactionMaterial reports whether a refined material name is consumed by
// reactions (rather than being a regular mineral).
func IsReactionMaterial(name string) bool {
	return reactionMaterials[name]
}

// MaterialsForOres returns the set of reaction materials produced by the
// given ore names. Variant prefixes are stripped before lookup; unknown
// ores contribute nothing.
func (m *OreMappings) MaterialsForOres(oreNames []string) map[string]bool {
	materials := make(map[string]bool)
	for _, oreName := range oreNames {
		base := BaseOreName(oreName)
		for _, mat := range m.oreToMaterials[base] {
			materials[mat] = true
		}
	}
	return materials
}
