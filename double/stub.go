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
	"sync"

	"github.com/lwoggardner/aspectdouble/host"
)

// Stubs maps method names to their replacements.
//
// A value that is already a Stub is used as is, a func is a Behavior and anything else is a Value.
// Use Value() explicitly to return a func verbatim.
type Stubs map[string]interface{}

// Stub replaces the execution of a method
type Stub interface {
	// evaluate produces the result of the intercepted call inv
	evaluate(t T, inv *host.Invocation) interface{}
}

// ValidatingStub is a Stub that can check its own consistency when registered for a method
type ValidatingStub interface {
	Stub
	ForMethod(t T, method string)
}

type valueStub struct {
	value interface{}
}

func (s valueStub) evaluate(T, *host.Invocation) interface{} {
	return s.value
}

func (s valueStub) String() string {
	return fmt.Sprintf("Value(%v)", s.value)
}

// Value returns v verbatim for every invocation
func Value(v interface{}) Stub {
	return valueStub{v}
}

var nullStub = valueStub{}

// Null returns nil for every invocation
func Null() Stub {
	return nullStub
}

var (
	objectType = reflect.TypeOf((*host.Object)(nil))
	classType  = reflect.TypeOf((*host.Class)(nil))
)

type behaviorStub struct {
	impl reflect.Value
}

/*
Behavior evaluates fn in place of the method.

If the first parameter of fn is a *host.Object it receives the doubled instance (nil for static calls).
To receive an object passed as the first argument, declare self *host.Object before it.
If it is a *host.Class it receives the class the call was resolved against.
Remaining parameters receive the call arguments, missing arguments are zero values and extra arguments
are ignored unless fn is variadic.

fn may return nothing, in which case the call returns nil, or a single value.
*/
func Behavior(fn interface{}) Stub {
	return &behaviorStub{impl: reflect.ValueOf(fn)}
}

func (s *behaviorStub) ForMethod(t T, method string) {
	t.Helper()
	AssertBehavior(t, method, s.impl)
}

func (s *behaviorStub) String() string {
	return fmt.Sprintf("Behavior(%v)", s.impl.Type())
}

func (s *behaviorStub) evaluate(t T, inv *host.Invocation) interface{} {
	t.Helper()
	implT := s.impl.Type()
	numIn := implT.NumIn()

	inArgs := make([]reflect.Value, 0, numIn)
	next := 0
	if numIn > 0 {
		switch implT.In(0) {
		case objectType:
			inArgs = append(inArgs, reflect.ValueOf(inv.Object))
			next = 1
		case classType:
			inArgs = append(inArgs, reflect.ValueOf(inv.Class))
			next = 1
		}
	}

	args := inv.Args
	fixed := numIn
	if implT.IsVariadic() {
		fixed = numIn - 1
	}
	for i := next; i < fixed; i++ {
		if len(args) > 0 {
			inArgs = append(inArgs, argValue(t, inv, implT.In(i), args[0]))
			args = args[1:]
		} else {
			inArgs = append(inArgs, reflect.Zero(implT.In(i)))
		}
	}
	if implT.IsVariadic() {
		elemT := implT.In(numIn - 1).Elem()
		for _, arg := range args {
			inArgs = append(inArgs, argValue(t, inv, elemT, arg))
		}
	}

	results := s.impl.Call(inArgs)
	if len(results) == 0 {
		return nil
	}
	return results[0].Interface()
}

func argValue(t T, inv *host.Invocation, in reflect.Type, arg interface{}) reflect.Value {
	t.Helper()
	if arg == nil {
		return reflect.Zero(in)
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(in) {
		t.Fatalf("Behavior for %v cannot accept argument %v of type %T as %v", inv, arg, arg, in)
	}
	return v
}

type consecutiveStub struct {
	mutex  sync.Mutex
	values []interface{}
	next   int
}

// Consecutive returns each of values in turn on successive invocations, then repeats the last one.
func Consecutive(values ...interface{}) Stub {
	return &consecutiveStub{values: values}
}

func (s *consecutiveStub) ForMethod(t T, method string) {
	if len(s.values) == 0 {
		t.Fatalf("Consecutive stub for %s requires at least one value", method)
	}
}

func (s *consecutiveStub) evaluate(T, *host.Invocation) interface{} {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.values) == 0 {
		return nil
	}
	v := s.values[s.next]
	if s.next < len(s.values)-1 {
		s.next++
	}
	return v
}

func (s *consecutiveStub) String() string {
	return fmt.Sprintf("Consecutive%v", s.values)
}

// NewStub converts a Stubs entry to a Stub and validates it for method
func NewStub(t T, method string, v interface{}) (stub Stub) {
	t.Helper()
	switch typed := v.(type) {
	case Stub:
		stub = typed
	case nil:
		stub = nullStub
	default:
		if reflect.TypeOf(v).Kind() == reflect.Func {
			stub = Behavior(v)
		} else {
			stub = Value(v)
		}
	}
	if validating, isValidating := stub.(ValidatingStub); isValidating {
		validating.ForMethod(t, method)
	}
	return
}

// fieldValue is the value a stub assigns when its key names a field rather than a method
func fieldValue(stub Stub) (interface{}, bool) {
	if v, isValue := stub.(valueStub); isValue {
		return v.value, true
	}
	return nil, false
}
