/*
 * Copyright 2020 grant@lastweekend.com.au
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package double

import (
	"fmt"
	"sort"
	"strings"
)

// MethodCalls represents a set of recorded invocations of one method to be verified
type MethodCalls interface {
	/*
		Matching returns the subset of calls whose arguments match.

		Each matcher matches the argument in the same position (literals via Eql), or a single
		Matcher built by Args, All, Any, Not or a multi argument Func matches the whole argument list.
	*/
	Matching(matchers ...interface{}) MethodCalls

	/*
		Slice returns a subset of these calls, including call at index from, excluding call at index to (like go slice))

		If necessary use NumCalls() to reference calls from the end of the slice.
		eg to get the last 3 calls - r.Slice(r.NumCalls() -3, r.NumCalls())
	*/
	Slice(from int, to int) MethodCalls

	// After returns the subset of these calls that were invoked after all of otherCalls
	After(otherCalls MethodCalls) MethodCalls

	// Expect asserts the number of calls in this set
	Expect(expect Expectation)

	// Returned asserts at least one call in this set returned a value matching v
	Returned(v interface{})

	// NumCalls returns the number of calls in this set.
	// Prefer to use Expect() rather than asserting the result of NumCalls()
	NumCalls() int

	// Invocations returns the calls in this set in call order
	Invocations() []*Invocation

	calls() []*Invocation
	nested() []string
}

type methodCalls struct {
	t        T
	target   Target
	method   string
	recorded []*Invocation
	subsets  []string
}

func newMethodCalls(t T, target Target, method string, recorded []*Invocation, subsets ...string) *methodCalls {
	if len(subsets) == 0 {
		subsets = []string{fmt.Sprintf("all calls to %v.%s", target, method)}
	}
	return &methodCalls{t: t, target: target, method: method, recorded: recorded, subsets: subsets}
}

func (c *methodCalls) calls() []*Invocation {
	return c.recorded
}

func (c *methodCalls) nested() []string {
	return c.subsets
}

func (c *methodCalls) Invocations() []*Invocation {
	calls := make([]*Invocation, len(c.recorded))
	copy(calls, c.recorded)
	return calls
}

func (c *methodCalls) String() string {
	//slice[x:y] of
	//	calls after
	//      ">>"
	//		slice[x:y] of
	//  		calls matching(matcher) within
	// 				all calls to <<Other method>>
	//  	"<<"
	//      within
	//     		all calls to <<this method>>
	var rewinds = make([]int, 0)
	depth := 0
	sb := strings.Builder{}
	for i := 0; i < len(c.subsets); i++ {
		if c.subsets[i] == ">>" {
			rewinds = append([]int{depth}, rewinds...)
		} else if c.subsets[i] == "<<" {
			depth = rewinds[0]
			rewinds = rewinds[1:]
		} else {
			if i > 0 {
				sb.WriteRune('\n')
			}
			for d := 0; d < depth; d++ {
				sb.WriteString("  ")
			}
			sb.WriteString(c.subsets[i])
			depth++
		}
	}
	return sb.String()
}

func (c *methodCalls) newSubset(calls []*Invocation, desc ...string) *methodCalls {
	subsets := append(desc, c.subsets...)
	return newMethodCalls(c.t, c.target, c.method, calls, subsets...)
}

func (c *methodCalls) Expect(expect Expectation) {
	c.t.Helper()
	count := c.NumCalls()
	if !expect.Met(count) {
		c.t.Errorf("%v expected %v, found %d calls", c, expect, count)
	}
}

func (c *methodCalls) Returned(v interface{}) {
	c.t.Helper()
	matcher := genericSingleArgumentMatcher(v)
	for _, call := range c.recorded {
		if call.Panicked == nil && matcher.Matches(call.Returned) {
			return
		}
	}
	failure := &VerificationFailure{
		Target:   c.target,
		Method:   c.method,
		Expected: fmt.Sprintf("to return %v", matcher),
		Found:    len(c.recorded),
		Calls:    c.recorded,
	}
	c.t.Errorf("%v", failure)
}

func (c *methodCalls) Matching(matchers ...interface{}) MethodCalls {
	c.t.Helper()
	matcher := NewArgsMatcher(c.t, matchers...)

	var subsetCalls []*Invocation
	for _, call := range c.recorded {
		if matcher.Matches(call.Args...) {
			subsetCalls = append(subsetCalls, call)
		}
	}
	return c.newSubset(subsetCalls, fmt.Sprintf("calls matching %s within", matcher))
}

func (c *methodCalls) NumCalls() int {
	return len(c.recorded)
}

func (c *methodCalls) Slice(from int, to int) MethodCalls {
	c.t.Helper()
	l := len(c.recorded)
	var subsetCalls []*Invocation
	var sliceDesc string
	if from < 0 || to < 0 || from > to {
		c.t.Fatalf("Invalid Slice of MethodCalls %v[%d>:%d]", c, from, to)
	}
	if from > l {
		sliceDesc = fmt.Sprintf("[%d>=len():]", from)
	} else if to > l {
		sliceDesc = fmt.Sprintf("[%d:]", from)
		subsetCalls = c.recorded[from:]
	} else {
		sliceDesc = fmt.Sprintf("[%d:%d]", from, to)
		subsetCalls = c.recorded[from:to]
	}

	return c.newSubset(subsetCalls, fmt.Sprintf("slice%s of", sliceDesc))
}

//Return the calls in c that occurred after those in other
func (c *methodCalls) After(other MethodCalls) MethodCalls {
	recorded := other.calls()

	var subsetCalls []*Invocation

	if len(recorded) > 0 {
		lastTick := recorded[len(recorded)-1].Tick
		if partitionIndex := sort.Search(len(c.recorded), func(i int) bool { return c.recorded[i].Tick > lastTick }); partitionIndex < len(c.recorded) {
			subsetCalls = c.recorded[partitionIndex:]
		} // otherwise no matches, default empty set
	} else {
		// all our calls are considered to be after an empty set
		subsetCalls = c.recorded
	}

	nested := append([]string{"calls after", ">>"}, append(other.nested(), "<<", "within")...)
	return c.newSubset(subsetCalls, nested...)
}
