package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/gauntlet/internal/game/stats"
)

// hit is one scripted incoming hit.
type hit struct {
	Amount float64
	Type   stats.DamageType
}

// parseHits parses "amount:type" pairs separated by commas, e.g.
// "120:physical,40:fire". An empty string yields no hits.
func parseHits(s string) ([]hit, error) {
	var out []hit
	for _, part := range splitList(s) {
		amount, typ, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("hit %q: want amount:type", part)
		}
		v, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return nil, fmt.Errorf("hit %q: %w", part, err)
		}
		dt, ok := stats.ParseDamageType(typ)
		if !ok {
			return nil, fmt.Errorf("hit %q: unknown damage type %q", part, typ)
		}
		out = append(out, hit{Amount: v, Type: dt})
	}
	return out, nil
}

// conditionSpec is one condition to apply before the hits.
type conditionSpec struct {
	ID     string
	Stacks int
	Turns  int
}

// parseConditions parses "id[:stacks[:turns]]" entries separated by commas.
// Stacks default to 1 and turns to -1.
func parseConditions(s string) ([]conditionSpec, error) {
	var out []conditionSpec
	for _, part := range splitList(s) {
		fields := strings.Split(part, ":")
		if len(fields) > 3 || fields[0] == "" {
			return nil, fmt.Errorf("condition %q: want id[:stacks[:turns]]", part)
		}
		spec := conditionSpec{ID: fields[0], Stacks: 1, Turns: -1}
		var err error
		if len(fields) > 1 {
			if spec.Stacks, err = strconv.Atoi(fields[1]); err != nil {
				return nil, fmt.Errorf("condition %q: stacks: %w", part, err)
			}
		}
		if len(fields) > 2 {
			if spec.Turns, err = strconv.Atoi(fields[2]); err != nil {
				return nil, fmt.Errorf("condition %q: turns: %w", part, err)
			}
		}
		out = append(out, spec)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
