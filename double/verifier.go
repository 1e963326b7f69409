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

	"github.com/google/go-cmp/cmp"
)

// Verifier asserts the invocation history of a double.
//
// Failures are reported with T.Errorf as a VerificationFailure.
// Optional args each match the argument in the same position, literals via Eql.
type Verifier interface {
	// VerifyInvoked asserts method was called at least once (with matching args if given)
	VerifyInvoked(method string, args ...interface{})

	// VerifyInvokedOnce asserts method was called exactly once (with matching args if given)
	VerifyInvokedOnce(method string, args ...interface{})

	// VerifyInvokedMultipleTimes asserts method was called exactly times times (with matching args if given)
	VerifyInvokedMultipleTimes(method string, times int, args ...interface{})

	// VerifyNeverInvoked asserts method was not called (with matching args if given)
	VerifyNeverInvoked(method string, args ...interface{})

	// VerifyMethodInvoked asserts method was called at least once
	// and returns its calls for further verification
	VerifyMethodInvoked(method string) MethodCalls

	// CallsForMethod returns the arguments of each call to method
	CallsForMethod(method string) [][]interface{}
}

type verifier struct {
	t        T
	registry *Registry
	target   Target
	static   bool
}

func (v *verifier) recorded(method string) []*Invocation {
	var calls []*Invocation
	for _, call := range v.registry.Invocations(v.target) {
		if call.Method == method && call.Static == v.static {
			calls = append(calls, call)
		}
	}
	return calls
}

func (v *verifier) methodCalls(method string) *methodCalls {
	if v.static {
		return newMethodCalls(v.t, v.target, method, v.recorded(method),
			fmt.Sprintf("all static calls to %v::%s", v.target, method))
	}
	return newMethodCalls(v.t, v.target, method, v.recorded(method))
}

func (v *verifier) verify(method string, expect Expectation, args []interface{}) {
	v.t.Helper()
	calls := v.recorded(method)
	matching := calls
	expected := fmt.Sprintf("to be invoked %v", expect)

	if len(args) > 0 {
		matcher := NewArgsMatcher(v.t, args...)
		matching = nil
		for _, call := range calls {
			if matcher.Matches(call.Args...) {
				matching = append(matching, call)
			}
		}
		expected = fmt.Sprintf("%s with %v", expected, matcher)
	}

	if expect.Met(len(matching)) {
		return
	}

	failure := &VerificationFailure{
		Target:   v.target,
		Method:   method,
		Expected: expected,
		Found:    len(matching),
		Calls:    calls,
	}
	if len(args) > 0 && len(calls) > 0 && literals(args) {
		failure.Diff = cmp.Diff(args, calls[len(calls)-1].Args, cmpOptions...)
	}
	v.t.Errorf("%v", failure)
}

// literals is true if none of args is a matcher
func literals(args []interface{}) bool {
	for _, arg := range args {
		if _, isMatcher := arg.(Matcher); isMatcher {
			return false
		}
	}
	return true
}

func (v *verifier) VerifyInvoked(method string, args ...interface{}) {
	v.t.Helper()
	v.verify(method, AtLeast(1), args)
}

func (v *verifier) VerifyInvokedOnce(method string, args ...interface{}) {
	v.t.Helper()
	v.verify(method, Once(), args)
}

func (v *verifier) VerifyInvokedMultipleTimes(method string, times int, args ...interface{}) {
	v.t.Helper()
	v.verify(method, Exactly(times), args)
}

func (v *verifier) VerifyNeverInvoked(method string, args ...interface{}) {
	v.t.Helper()
	v.verify(method, Never(), args)
}

func (v *verifier) VerifyMethodInvoked(method string) MethodCalls {
	v.t.Helper()
	v.verify(method, AtLeast(1), nil)
	return v.methodCalls(method)
}

func (v *verifier) CallsForMethod(method string) [][]interface{} {
	calls := v.recorded(method)
	args := make([][]interface{}, len(calls))
	for i, call := range calls {
		args[i] = call.Args
	}
	return args
}
