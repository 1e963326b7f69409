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
	"strings"
)

// ClassNotLoadedError is returned when doubling a class name the runtime does not define.
type ClassNotLoadedError struct {
	Class string
}

func (e *ClassNotLoadedError) Error() string {
	return fmt.Sprintf("class %s is not loaded; use Spec() to double a class that is not defined yet", e.Class)
}

// ClassNotDefinedError is returned by Methods for a class name the runtime does not define.
type ClassNotDefinedError struct {
	Class string
}

func (e *ClassNotDefinedError) Error() string {
	return fmt.Sprintf("class %s is not defined; cannot list its methods", e.Class)
}

// VerificationFailure describes an unmet assertion about the invocation history of a double.
type VerificationFailure struct {
	Target   Target
	Method   string
	Expected string
	Found    int
	Calls    []*Invocation
	Diff     string
}

func (e *VerificationFailure) Error() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%v.%s expected %s, found %d calls", e.Target, e.Method, e.Expected, e.Found)
	if e.Diff != "" {
		fmt.Fprintf(&sb, "\nlast call (-expected +actual):\n%s", e.Diff)
	}
	if len(e.Calls) > 0 {
		sb.WriteString("\nrecorded calls:")
		for _, call := range e.Calls {
			sb.WriteString("\n  ")
			sb.WriteString(call.String())
		}
	}
	return sb.String()
}
