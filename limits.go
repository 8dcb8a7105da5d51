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

// Resource budgets enforced inside the core (spec.md §5). Exceeding any of
// these degrades to literal text for the offending construct; none of them
// is ever fatal.
const (
	maxBlockNesting      = 32
	maxInlineNesting     = 32
	maxBracketStackDepth = 1000
	maxDelimiterStack    = 1024
	maxCodeSpanLengths   = 32
	maxLinkParenDepth    = 32
	maxOrderedListDigits = 9
	maxTableColumns      = 128
	minRefExpansionBytes = 100 * 1024
	maxFrontMatterBytes  = 1 << 20
)

// refExpansionLimit returns the reference-link expansion byte budget for an
// input of the given length (spec.md §4.3, §5): max(input_len, 100 KiB).
func refExpansionLimit(inputLen int) int {
	if inputLen > minRefExpansionBytes {
		return inputLen
	}
	return minRefExpansionBytes
}
