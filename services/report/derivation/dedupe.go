// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package derivation

// Dedupe collapses immediately repeated steps, comparing each step's text
// only to the previously retained step. Non-adjacent duplicates are kept.
// Order values are reassigned to the surviving positions; the input slice is
// not modified.
func Dedupe(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if len(out) > 0 && out[len(out)-1].Text == s.Text {
			continue
		}
		out = append(out, Step{Text: s.Text, Order: len(out)})
	}
	return out
}
