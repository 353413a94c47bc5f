package interpret

import (
	"sort"

	"github.com/saei2021/ADTKD/internal/catalog"
	"github.com/saei2021/ADTKD/internal/config"
)

// Resolve assigns each scored variant to the left or right motif of its
// compound id, attaches the annotation catalog sequence, deduplicates each
// side, applies the configured exclusions and re-bases right-side
// positions.
//
// Output rows are right-side rows followed by left-side rows. Empty input
// yields an empty, non-nil result. A malformed compound id fails the whole
// batch with *MalformedMotifIDError.
func Resolve(scored []ScoredVariant, annot *catalog.Catalog, cfg config.MotifFiltering) ([]AnnotatedVariant, error) {
	if len(scored) == 0 {
		return []AnnotatedVariant{}, nil
	}

	threshold := int64(cfg.PositionThreshold)
	var left, right []AnnotatedVariant
	for i, s := range scored {
		l, r, ok := SplitMotifID(s.MotifID)
		if !ok {
			return nil, &MalformedMotifIDError{MotifID: s.MotifID, Pos: s.Pos, Row: i}
		}

		av := annotated(s)
		if s.Pos < threshold {
			av.Motif = r
		} else {
			av.Motif = l
		}
		av.MotifSequence, _ = annot.Sequence(av.Motif)

		if s.Pos < threshold {
			left = append(left, av)
		} else {
			right = append(right, av)
		}
	}

	left = resolveLeft(left)
	right = resolveRight(right, cfg)

	combined := make([]AnnotatedVariant, 0, len(left)+len(right))
	combined = append(combined, right...)
	combined = append(combined, left...)
	combined = excludeCombined(combined, cfg)

	return Rebase(combined, cfg.PositionThreshold), nil
}

func annotated(s ScoredVariant) AnnotatedVariant {
	return AnnotatedVariant{
		MotifFasta:        s.MotifID,
		Kind:              s.Kind,
		Pos:               s.Pos,
		PosFasta:          s.Pos,
		Ref:               s.Ref,
		Alt:               s.Alt,
		AltDepth:          s.AltDepth,
		ActiveRegionDepth: s.ActiveRegionDepth,
		DepthScore:        s.DepthScore,
		Confidence:        s.Confidence,
	}
}

// resolveLeft keeps, per ALT, the row with the highest depth score, ties
// broken by the higher position.
func resolveLeft(rows []AnnotatedVariant) []AnnotatedVariant {
	if len(rows) == 0 {
		return rows
	}
	rows = cloneRows(rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].DepthScore != rows[j].DepthScore {
			return rows[i].DepthScore > rows[j].DepthScore
		}
		return rows[i].Pos > rows[j].Pos
	})
	return firstPerKey(rows, func(v AnnotatedVariant) string { return v.Alt })
}

// resolveRight deduplicates the right half. When any row carries the
// sentinel ALT the sentinel branch applies: excluded motifs are dropped,
// only sentinel rows survive, and the allow-list narrows the result when it
// matches anything. The result is always unique on (REF, ALT).
func resolveRight(rows []AnnotatedVariant, cfg config.MotifFiltering) []AnnotatedVariant {
	if len(rows) == 0 {
		return rows
	}

	sentinel := cfg.AltForMotifRightGG
	hasSentinel := false
	for _, r := range rows {
		if r.Alt == sentinel {
			hasSentinel = true
			break
		}
	}

	if hasSentinel {
		excluded := stringSet(cfg.ExcludeMotifsRight)
		kept := rows[:0:0]
		for _, r := range rows {
			if r.Alt == sentinel && !excluded[r.Motif] {
				kept = append(kept, r)
			}
		}
		rows = byDepthDesc(kept)
		rows = firstPerKey(rows, func(v AnnotatedVariant) string { return v.Alt })

		allowed := stringSet(cfg.MotifsForAltGG)
		var narrowed []AnnotatedVariant
		for _, r := range rows {
			if allowed[r.Motif] {
				narrowed = append(narrowed, r)
			}
		}
		if len(narrowed) > 0 {
			rows = narrowed
		}
	} else {
		rows = byDepthDesc(rows)
		rows = firstPerKey(rows, func(v AnnotatedVariant) string { return v.Alt })
	}

	return firstPerKey(rows, func(v AnnotatedVariant) string { return v.Ref + "\x00" + v.Alt })
}

func excludeCombined(rows []AnnotatedVariant, cfg config.MotifFiltering) []AnnotatedVariant {
	alts := stringSet(cfg.ExcludeAltsCombined)
	motifs := stringSet(cfg.ExcludeMotifsCombined)
	out := make([]AnnotatedVariant, 0, len(rows))
	for _, r := range rows {
		if alts[r.Alt] || motifs[r.Motif] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Rebase shifts rows positioned at or beyond threshold into the right
// motif's coordinates. A row that carries its Kestrel position in PosFasta
// is re-based from it. A row without one (as read back from a result table)
// is re-based from Pos only when Pos is at or beyond threshold, and PosFasta
// records the position it started from. Applying Rebase to its own output
// changes nothing.
func Rebase(rows []AnnotatedVariant, threshold int) []AnnotatedVariant {
	t := int64(threshold)
	out := make([]AnnotatedVariant, len(rows))
	copy(out, rows)
	for i := range out {
		r := &out[i]
		if r.PosFasta == 0 {
			if r.Pos < t {
				continue
			}
			r.PosFasta = r.Pos
		}
		r.Pos = r.PosFasta
		if r.PosFasta >= t {
			r.Pos = r.PosFasta - t
		}
	}
	return out
}

func byDepthDesc(rows []AnnotatedVariant) []AnnotatedVariant {
	rows = cloneRows(rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DepthScore > rows[j].DepthScore
	})
	return rows
}

func firstPerKey(rows []AnnotatedVariant, key func(AnnotatedVariant) string) []AnnotatedVariant {
	seen := make(map[string]bool, len(rows))
	out := make([]AnnotatedVariant, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func cloneRows(rows []AnnotatedVariant) []AnnotatedVariant {
	return append([]AnnotatedVariant(nil), rows...)
}

func stringSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}
