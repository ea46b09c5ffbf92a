// Package parser turns pasted moon survey scan text into moon compositions.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/moonbelt/reaction-server/pkg/reaction"
)

// Material lines carry a trailing run of numeric fields: the quantity
// fraction plus four ids. Everything before them is the material name,
// which may contain spaces.
const numericFields = 5

// ParseMoonScan parses pasted survey scanner output. Moon name lines have
// little or no indentation; material lines under them are indented by four
// or more whitespace characters.
func ParseMoonScan(input string) ([]reaction.MoonComposition, error) {
	var moons []reaction.MoonComposition
	var current *reaction.MoonComposition

	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if leadingWhitespace(line) >= 4 {
			if current == nil {
				return nil, fmt.Errorf("invalid format: material entry found before moon name")
			}
			material, err := parseMaterialLine(line)
			if err != nil {
				return nil, err
			}
			current.Materials = append(current.Materials, material)
			continue
		}

		// New moon name; close out the previous one.
		if current != nil {
			if len(current.Materials) == 0 {
				return nil, fmt.Errorf("invalid format: moon %q has no materials", current.Name)
			}
			moons = append(moons, *current)
		}
		current = &reaction.MoonComposition{Name: strings.TrimSpace(line)}
	}

	if current != nil {
		if len(current.Materials) == 0 {
			return nil, fmt.Errorf("invalid format: moon %q has no materials", current.Name)
		}
		moons = append(moons, *current)
	}

	if len(moons) == 0 {
		return nil, fmt.Errorf("invalid format: no valid moon data found")
	}

	return moons, nil
}

// leadingWhitespace counts leading whitespace characters.
func leadingWhitespace(line string) int {
	count := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		count++
	}
	return count
}

// parseMaterialLine parses one indented material row.
func parseMaterialLine(line string) (reaction.MaterialEntry, error) {
	parts := strings.Fields(line)
	if len(parts) < numericFields+1 {
		return reaction.MaterialEntry{}, fmt.Errorf(
			"invalid format: expected at least %d fields, got %d", numericFields+1, len(parts))
	}

	nameParts := parts[:len(parts)-numericFields]
	numberParts := parts[len(parts)-numericFields:]

	entry := reaction.MaterialEntry{Name: strings.Join(nameParts, " ")}

	quantity, err := strconv.ParseFloat(numberParts[0], 64)
	if err != nil {
		return reaction.MaterialEntry{}, fmt.Errorf("invalid quantity %q: %w", numberParts[0], err)
	}
	entry.Quantity = quantity

	ids := []*int64{&entry.ItemID, &entry.SystemID, &entry.RegionID, &entry.AdditionalID}
	idNames := []string{"item_id", "system_id", "region_id", "additional_id"}
	for i, dst := range ids {
		v, err := strconv.ParseInt(numberParts[i+1], 10, 64)
		if err != nil {
			return reaction.MaterialEntry{}, fmt.Errorf("invalid %s %q: %w", idNames[i], numberParts[i+1], err)
		}
		*dst = v
	}

	return entry, nil
}
