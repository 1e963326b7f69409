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
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/lwoggardner/aspectdouble/host"
)

// Matcher is used to match the arguments of a recorded call, or one argument at a time
type Matcher interface {

	//Matches returns true if the arg (or args) matches this matcher
	Matches(args ...interface{}) bool
}

// objects and classes are identities, everything else compares structurally
var cmpOptions = []cmp.Option{
	cmp.Comparer(func(a, b *host.Object) bool { return a == b }),
	cmp.Comparer(func(a, b *host.Class) bool { return a == b }),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Equal reports whether x and y are equal the way Eql matches them
func Equal(x, y interface{}) bool {
	return cmp.Equal(x, y, cmpOptions...)
}

func genericSingleArgumentMatcher(matcher interface{}) Matcher {
	switch typedMatcher := matcher.(type) {
	case Matcher:
		return typedMatcher
	case reflect.Type:
		return IsA(typedMatcher)
	case nil:
		return Nil()
	default:
		if reflect.TypeOf(matcher).Kind() == reflect.Func {
			return Func(matcher)
		}
		return Eql(matcher)
	}
}

/*
NewArgsMatcher builds a matcher for the full argument list of a call.

A single Matcher built by Args, All, Any, Not or a multi argument Func is used as is.
Otherwise each element matches the argument in the same position, via Eql, Func or IsA as
appropriate, and the call must have exactly that many arguments.
*/
func NewArgsMatcher(t T, matchers ...interface{}) Matcher {
	t.Helper()
	if len(matchers) == 1 {
		switch m := matchers[0].(type) {
		case *argumentsMatcher, andMatcher, orMatcher, notMatcher:
			return m.(Matcher)
		case funcMatcher:
			if m.IsValid() && m.Kind() == reflect.Func && m.Type().NumIn() != 1 {
				return m
			}
		}
	}

	matcherList := make([]Matcher, len(matchers))
	for i, m := range matchers {
		matcherList[i] = genericSingleArgumentMatcher(m)
		if fm, isFunc := matcherList[i].(funcMatcher); isFunc && fm.IsValid() {
			AssertPredicate(t, fm.Type())
		}
	}
	return Args(matcherList...)
}

type funcMatcher struct {
	reflect.Value
	explanation string
}

func (f funcMatcher) String() string {
	return f.explanation
}

// Matches is false, rather than a panic, when args cannot be passed to the func
func (f funcMatcher) Matches(args ...interface{}) bool {
	if !f.IsValid() || f.Kind() != reflect.Func || f.IsNil() {
		return false
	}
	ft := f.Type()
	if ft.NumOut() != 1 || ft.Out(0).Kind() != reflect.Bool {
		return false
	}
	if ft.IsVariadic() {
		if len(args) < ft.NumIn()-1 {
			return false
		}
	} else if len(args) != ft.NumIn() {
		return false
	}

	inArgs := make([]reflect.Value, len(args))
	for i, arg := range args {
		var in reflect.Type
		if ft.IsVariadic() && i >= ft.NumIn()-1 {
			in = ft.In(ft.NumIn() - 1).Elem()
		} else {
			in = ft.In(i)
		}
		if arg == nil {
			switch in.Kind() {
			case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
				inArgs[i] = reflect.Zero(in)
				continue
			}
			return false
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(in) {
			return false
		}
		inArgs[i] = v
	}
	return f.Call(inArgs)[0].Bool()
}

//Func returns a matcher from the arbitrary function f
// Custom matcher methods will generally be a wrapper around Func
//
// When used as an arguments matcher f(...) bool receives all the arguments of the call
// When used as a single arg matcher f must be a func(x T) bool
// Optionally include an explanation that will be formatted to string to describes what is being matched
func Func(f interface{}, explanation ...interface{}) Matcher {
	fv := reflect.ValueOf(f)

	var explainString string
	if len(explanation) == 0 {
		explainString = fmt.Sprintf("%T", f)
	} else {
		explainString = fmt.Sprint(explanation...)
	}

	return funcMatcher{fv, explainString}
}

type matcherList []Matcher

func (l matcherList) toString(prefix string, lRune rune, rRune rune) string {
	s := strings.Builder{}
	s.WriteString(prefix)
	s.WriteRune(lRune)
	for i, arg := range l {
		if i > 0 {
			s.WriteRune(',')
		}
		s.WriteString(fmt.Sprint(arg))
	}
	s.WriteRune(rRune)
	return s.String()
}

type argumentsMatcher struct {
	matcherList matcherList
}

func (l *argumentsMatcher) Matches(args ...interface{}) bool {
	if len(args) != len(l.matcherList) {
		return false
	}
	for i, matcher := range l.matcherList {
		if !matcher.Matches(args[i]) {
			return false
		}
	}
	return true
}

func (l *argumentsMatcher) String() string {
	return l.matcherList.toString("Args", '(', ')')
}

// Args builds an arguments matcher from a list of single argument matchers.
// The call must have exactly one argument per matcher.
func Args(matchers ...Matcher) Matcher {
	return &argumentsMatcher{matchers}
}

type sliceMatcher struct {
	matcherList
}

//Slice returns a Matcher for a Slice type from a list of other single argument matchers
//
//If all the matcherList match the argument in the corresponding position of the slice
func Slice(matchers ...Matcher) Matcher {
	return &sliceMatcher{matchers}
}

func (sm *sliceMatcher) String() string {
	return sm.toString("Slice", '[', ']')
}

func (sm *sliceMatcher) Matches(args ...interface{}) bool {
	if len(args) != 1 || args[0] == nil {
		return false
	}
	v := reflect.ValueOf(args[0])
	switch v.Kind() {
	case reflect.Array, reflect.Slice:
		if v.Len() < len(sm.matcherList) {
			return false
		}
		for i := 0; i < len(sm.matcherList); i++ {
			if !sm.matcherList[i].Matches(v.Index(i).Interface()) {
				return false
			}
		}
		//if we have fewer matchers than the slice has members, the remaining members always match
		return true

	default:
		return false
	}
}

type eqlMatcher struct {
	v interface{}
}

func (e eqlMatcher) String() string {
	return fmt.Sprintf("Eql(%v)", e.v)
}

func (e eqlMatcher) Matches(args ...interface{}) bool {
	return len(args) == 1 && Equal(args[0], e.v)
}

// Eql matches a single argument equal to v.
// Objects and classes of the host runtime must be the identical instance.
func Eql(v interface{}) Matcher {
	return eqlMatcher{v}
}

type nilMatcher struct{}

func (n nilMatcher) String() string {
	return "Nil"
}

func (n nilMatcher) Matches(args ...interface{}) bool {
	if len(args) != 1 {
		return false
	}
	arg := args[0]
	if arg == nil {
		return true
	}

	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}

	return false
}

var singletonNilMatcher = nilMatcher{}

// Nil matches a single argument of any nil-able type to be nil (or equivalent)
func Nil() Matcher {
	return singletonNilMatcher
}

type lenMatcher struct {
	Matcher
}

func (l lenMatcher) String() string {
	return fmt.Sprintf("Len(%v)", l.Matcher)
}

func (l lenMatcher) Matches(args ...interface{}) bool {
	if len(args) != 1 || args[0] == nil {
		return false
	}
	v := reflect.ValueOf(args[0])
	switch v.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
		return l.Matcher.Matches(v.Len())
	default:
		return false
	}
}

// Len matches a single argument that is type Array,Chan,Map,Slice,String type that have length matching v
//
// v may be anything that can match an int
// eg
//   Len(0)
//   Len(func(l int) bool { l <= 10})
func Len(v interface{}) Matcher {
	return lenMatcher{genericSingleArgumentMatcher(v)}
}

//IsA matches a single argument if the supplied argument is AssignableTo or Implements the reflect.Type t
//
// if t is not already a reflect.Type it will be converted with reflect.TypeOf
func IsA(t interface{}) Matcher {
	rt, isType := t.(reflect.Type)
	if !isType {
		rt = reflect.TypeOf(t)
	}
	return Func(func(x interface{}) bool {
		if x == nil {
			return false
		}
		argT := reflect.TypeOf(x)
		if rt.Kind() == reflect.Interface {
			return argT.Implements(rt)
		}
		return argT.AssignableTo(rt)
	}, "IsA", "(", rt, ")")
}

type combinationMatcher struct {
	matcherList
	explain string
}

func (a combinationMatcher) String() string {
	return a.matcherList.toString(a.explain, '{', '}')
}

func newCombinationMatcher(matchers []Matcher, explain string) combinationMatcher {
	return combinationMatcher{matchers, explain}
}

type andMatcher struct {
	combinationMatcher
}

func (a andMatcher) Matches(args ...interface{}) bool {
	for _, m := range a.matcherList {
		if !m.Matches(args...) {
			return false
		}
	}
	return true
}

// All matches if all the matcherList match (returns true for no matchers)
func All(matchers ...Matcher) Matcher {
	return andMatcher{newCombinationMatcher(matchers, "All")}
}

// And matches if all the matcherList match
func And(matchers ...Matcher) Matcher {
	return All(matchers...)
}

type orMatcher struct {
	combinationMatcher
}

func (a orMatcher) Matches(arg ...interface{}) bool {
	for _, m := range a.matcherList {
		if m.Matches(arg...) {
			return true
		}
	}
	return false
}

// Any matches if any one of matcherList match (returns false for no matchers)
func Any(matchers ...Matcher) Matcher {
	return orMatcher{newCombinationMatcher(matchers, "Any")}
}

// Or matches if any one of matcherList match
func Or(matchers ...Matcher) Matcher {
	return Any(matchers...)
}

type notMatcher struct {
	Matcher
}

func (nm notMatcher) String() string {
	return fmt.Sprintf("Not(%v)", nm.Matcher)
}

func (nm notMatcher) Matches(arg ...interface{}) bool {
	return !nm.Matcher.Matches(arg...)
}

// Not negates matcher
func Not(matcher Matcher) Matcher {
	return notMatcher{matcher}
}
