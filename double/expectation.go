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
	"math"
)

// An Expectation verifies a count of recorded calls
type Expectation interface {
	// Is the expectation met by count calls?
	Met(count int) bool
}

// callCount is met by any count within [min,max]
type callCount struct {
	min int
	max int
}

func (c callCount) Met(count int) bool {
	return count >= c.min && count <= c.max
}

func (c callCount) String() string {
	switch {
	case c.max == 0:
		return "never"
	case c.min == c.max:
		return fmt.Sprintf("exactly %d", c.min)
	case c.max == math.MaxInt32:
		return fmt.Sprintf("at least %d", c.min)
	case c.min <= 0:
		return fmt.Sprintf("at most %d", c.max)
	default:
		return fmt.Sprintf("between %d and %d", c.min, c.max)
	}
}

// Exactly returns an expectation to be called exactly n times
func Exactly(n int) Expectation {
	return callCount{n, n}
}

// Once is shorthand for Exactly(1)
func Once() Expectation {
	return Exactly(1)
}

// Twice is shorthand for Exactly(2)
func Twice() Expectation {
	return Exactly(2)
}

// Never returns an expectation to never be called
func Never() Expectation {
	return callCount{0, 0}
}

// AtLeast returns an expectation to be called at least n times
func AtLeast(n int) Expectation {
	return callCount{n, math.MaxInt32}
}

// AtMost returns an expectation to be called at most n times
func AtMost(n int) Expectation {
	return Between(0, n)
}

// Between returns a new expectation that a method is exercised at least min times and at most max times
func Between(min int, max int) Expectation {
	return callCount{min, max}
}
