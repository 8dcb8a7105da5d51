// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark

import "unicode/utf8"

// This file's flanking classification and delimiter-stack resolution are
// grounded on inlines.go's emphasisFlags/processEmphasis (teacher), kept as
// the same left-to-right-closer, search-backward-for-opener algorithm with
// the same mod-3 "rule of 3" compatibility check. It departs from the
// teacher in one deliberate way, documented in DESIGN.md: each delimiter
// run here resolves into at most one Strong/Emph/Strike pair, rather than
// being progressively whittled down across several nested pairs. The
// teacher's AST made repeated partial consumption of one run natural
// because a Node can be re-split and re-parented; an append-only event
// stream makes that far more involved, and pairing each run once covers
// the overwhelming majority of real documents.

// classifyDelimiterRun determines whether the delimiter run line[start:end]
// can open and/or close emphasis, per spec.md §4.4.2's flanking rule.
func classifyDelimiterRun(line []byte, start, end int) (canOpen, canClose bool) {
	var before, after rune
	beforeIsSpace, afterIsSpace := true, true
	var beforeIsPunct, afterIsPunct bool
	if start > 0 {
		before, _ = utf8.DecodeLastRune(line[:start])
		beforeIsSpace = isUnicodeWhitespace(before)
		beforeIsPunct = !beforeIsSpace && isUnicodePunctuation(before)
	}
	if end < len(line) {
		after, _ = utf8.DecodeRune(line[end:])
		afterIsSpace = isUnicodeWhitespace(after)
		afterIsPunct = !afterIsSpace && isUnicodePunctuation(after)
	}

	leftFlanking := !afterIsSpace && (!afterIsPunct || beforeIsSpace || beforeIsPunct)
	rightFlanking := !beforeIsSpace && (!beforeIsPunct || afterIsSpace || afterIsPunct)

	switch line[start] {
	case '_':
		canOpen = leftFlanking && (!rightFlanking || beforeIsPunct)
		canClose = rightFlanking && (!leftFlanking || afterIsPunct)
	default: // '*', '~'
		canOpen = leftFlanking
		canClose = rightFlanking
	}
	return canOpen, canClose
}

func markKindForDelimiter(c byte) markKind {
	switch c {
	case '_':
		return markUnderscore
	case '~':
		return markTilde
	default:
		return markStar
	}
}

// inlineNestingExceeded reports whether the combined depth of currently
// open bracket and delimiter constructs has reached maxInlineNesting
// (spec.md §5), the budget guarding against pathological mixes of deeply
// interleaved "[" and "*"/"_"/"~" runs. Once exceeded, further openers
// degrade to literal text rather than extending either stack; constructs
// already on the stack can still resolve normally.
func (ic *inlineCompiler) inlineNestingExceeded() bool {
	return len(ic.scratch.brackets)+len(ic.scratch.delimiters) >= maxInlineNesting
}

// openDelimiterRun records a '*'/'_'/'~' run encountered while scanning
// (spec.md §4.4.3 rule 6). It reserves a Text placeholder event that
// resolveEmphasis will later rewrite if the run participates in a match.
func (ic *inlineCompiler) openDelimiterRun(line []byte, i, n, base int) {
	c := line[i]
	if c == '~' && n != 2 {
		// GFM strikethrough requires exactly two tildes; anything else is
		// literal text.
		ic.appendText(base+i, base+i+n)
		return
	}
	canOpen, canClose := classifyDelimiterRun(line, i, i+n)
	if (canOpen || canClose) && (ic.inlineNestingExceeded() || len(ic.scratch.delimiters) >= maxDelimiterStack) {
		// The delimiter stack (or the shared nesting budget) is full: treat
		// the run as plain text rather than growing the stack further.
		ic.appendText(base+i, base+i+n)
		return
	}
	eventIdx := len(ic.scratch.events)
	ic.scratch.events = append(ic.scratch.events, InlineEvent{Kind: Text, Span: newRange(base+i, base+i+n)})
	m := mark{
		pos:      uint32(base + i),
		end:      uint32(base + i + n),
		kind:     markKindForDelimiter(c),
		eventIdx: eventIdx,
	}
	if canOpen {
		m.set(flagCanOpen)
	}
	if canClose {
		m.set(flagCanClose)
	}
	idx := ic.scratch.addMark(m)
	if canOpen || canClose {
		ic.scratch.delimiters = append(ic.scratch.delimiters, delimiterStackEntry{
			markIndex: idx,
			char:      c,
			mod3:      uint8(n % 3),
		})
	}
}

// markKindIndex maps a delimiter's markKind to a small dense index so it can
// select one of resolveEmphasis's per-character opener buckets.
func markKindIndex(k markKind) int {
	switch k {
	case markUnderscore:
		return 1
	case markTilde:
		return 2
	default: // markStar
		return 0
	}
}

// openerBuckets holds, for each delimiter character and each run-length-mod-3
// class, the still-live (unresolved) opener candidates seen so far, in
// increasing position order. resolveEmphasis fills these incrementally as it
// walks the delimiter stack left to right, so a closer only ever searches the
// candidates that share its character instead of rescanning every prior
// delimiter of every character (spec.md §4.4.3 rule 6, §8 Termination).
type openerBuckets [3][3][]int

// resolveEmphasis matches the delimiter runs scanned for one physical line
// (spec.md §4.4.3 rule 6), processing closers left to right and searching
// backward for the nearest compatible, unresolved opener. Openers are kept
// in per-(char, mod3) buckets so that search only walks candidates sharing
// the closer's delimiter character, rather than the whole stack.
func (ic *inlineCompiler) resolveEmphasis() {
	delims := ic.scratch.delimiters
	var buckets openerBuckets
	for ci := 0; ci < len(delims); ci++ {
		entry := delims[ci]
		m := &ic.scratch.marks[entry.markIndex]
		if !m.resolved && m.has(flagCanClose) {
			ic.matchCloser(delims, &buckets, entry, m)
		}
		if !m.resolved && m.has(flagCanOpen) {
			ki := markKindIndex(m.kind)
			buckets[ki][entry.mod3] = append(buckets[ki][entry.mod3], ci)
		}
	}
}

// matchCloser searches buckets for the nearest opener compatible with the
// closer entry/m, applies the match if one is found, and updates buckets to
// drop the consumed opener (and any openers proven dead along the way).
//
// The rule-of-3 gate (spec.md §4.4.3 rule 6's "(oLen+cLen)%3==0" exception)
// only applies when either side is bidirectionally flanking, which varies
// per candidate pair rather than being a pure function of (char, mod3). So
// an incompatible-but-live candidate is skipped for this closer only, never
// discarded from its bucket: a later closer with a different flanking
// combination may still be able to use it.
func (ic *inlineCompiler) matchCloser(delims []delimiterStackEntry, buckets *openerBuckets, entry delimiterStackEntry, m *mark) {
	ki := markKindIndex(m.kind)
	bucketSet := &buckets[ki]

	for mod3 := 0; mod3 < 3; mod3++ {
		b := bucketSet[mod3]
		for len(b) > 0 && ic.scratch.marks[delims[b[len(b)-1]].markIndex].resolved {
			b = b[:len(b)-1]
		}
		bucketSet[mod3] = b
	}

	view := [3]int{len(bucketSet[0]) - 1, len(bucketSet[1]) - 1, len(bucketSet[2]) - 1}
	for {
		bestMod3, bestOi := -1, -1
		for mod3 := 0; mod3 < 3; mod3++ {
			if view[mod3] < 0 {
				continue
			}
			oi := bucketSet[mod3][view[mod3]]
			if oi > bestOi {
				bestOi, bestMod3 = oi, mod3
			}
		}
		if bestMod3 < 0 {
			return
		}
		om := &ic.scratch.marks[delims[bestOi].markIndex]
		oLen, cLen := om.runLength(), m.runLength()
		if (om.has(flagCanClose) || m.has(flagCanOpen)) && entry.char != '~' {
			if (oLen+cLen)%3 == 0 && !(oLen%3 == 0 && cLen%3 == 0) {
				view[bestMod3]--
				continue
			}
		}
		var startKind, endKind InlineKind
		amount := 1
		switch entry.char {
		case '~':
			startKind, endKind, amount = StrikeStart, StrikeEnd, 2
		default:
			if oLen >= 2 && cLen >= 2 {
				startKind, endKind, amount = StrongStart, StrongEnd, 2
			} else {
				startKind, endKind, amount = EmphStart, EmphEnd, 1
			}
		}
		ic.applyDelimiterMatch(om, m, startKind, endKind, amount)
		om.resolved, om.isOpener = true, true
		m.resolved, m.isOpener = true, false
		bucketSet[bestMod3] = bucketSet[bestMod3][:view[bestMod3]]
		return
	}
}

// applyDelimiterMatch rewrites the opener's and closer's placeholder
// events in place, splitting off any leftover (unconsumed) delimiter
// characters into an adjacent literal Text event (spec.md §4.4.3's
// "may leave excess delimiters" behavior, restricted here to at most one
// leftover span per side since each run resolves only once).
func (ic *inlineCompiler) applyDelimiterMatch(om, m *mark, startKind, endKind InlineKind, amount int) {
	oStart, oEnd := int(om.pos), int(om.end)
	if oEnd-oStart == amount {
		ic.scratch.events[om.eventIdx] = InlineEvent{Kind: startKind, Span: newRange(oStart, oEnd)}
	} else {
		ic.scratch.events[om.eventIdx] = InlineEvent{Kind: Text, Span: newRange(oStart, oEnd-amount)}
		ic.insertEvent(om.eventIdx+1, InlineEvent{Kind: startKind, Span: newRange(oEnd-amount, oEnd)})
	}

	cStart, cEnd := int(m.pos), int(m.end)
	if cEnd-cStart == amount {
		ic.scratch.events[m.eventIdx] = InlineEvent{Kind: endKind, Span: newRange(cStart, cEnd)}
	} else {
		ic.scratch.events[m.eventIdx] = InlineEvent{Kind: endKind, Span: newRange(cStart, cStart+amount)}
		ic.insertEvent(m.eventIdx+1, InlineEvent{Kind: Text, Span: newRange(cStart+amount, cEnd)})
	}
}

// insertEvent inserts ev at position at in the event slice, then fixes up
// every mark/bracket placeholder index that pointed at or past at (spec.md
// §9's arena discipline means this is the one place an index invalidation
// can happen, so it is centralized here rather than duplicated at each
// call site).
func (ic *inlineCompiler) insertEvent(at int, ev InlineEvent) {
	events := append(ic.scratch.events, InlineEvent{})
	copy(events[at+1:], events[at:])
	events[at] = ev
	ic.scratch.events = events

	for k := range ic.scratch.marks {
		if ic.scratch.marks[k].eventIdx >= at {
			ic.scratch.marks[k].eventIdx++
		}
	}
	for k := range ic.scratch.brackets {
		if ic.scratch.brackets[k].eventIdx >= at {
			ic.scratch.brackets[k].eventIdx++
		}
	}
}
