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
	"strings"
	"testing"

	"github.com/lwoggardner/aspectdouble/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStub(t *testing.T) {
	ft := &fakeT{}
	fn := func() string { return "called" }

	assert.Equal(t, Null(), NewStub(ft, "m", nil))
	assert.Equal(t, Value(5), NewStub(ft, "m", 5))
	assert.Equal(t, Value(false), NewStub(ft, "m", false))

	_, isBehavior := NewStub(ft, "m", fn).(*behaviorStub)
	assert.True(t, isBehavior)

	assert.IsType(t, valueStub{}, NewStub(ft, "m", Value(fn)))

	consecutive := Consecutive(1, 2)
	assert.Same(t, consecutive, NewStub(ft, "m", consecutive))
	assert.Empty(t, ft.fatals)
}

func TestBehavior_Binding(t *testing.T) {
	rt := newRuntime(t)
	users := rt.MustLookup("User")
	user := users.New("jon")
	ft := &fakeT{}

	instance := func(args ...interface{}) *host.Invocation {
		return &host.Invocation{Object: user, Class: users, Method: "m", Args: args}
	}
	static := func(args ...interface{}) *host.Invocation {
		return &host.Invocation{Class: users, Method: "m", Args: args, Static: true}
	}

	tests := []struct {
		name     string
		fn       interface{}
		inv      *host.Invocation
		expected interface{}
	}{
		{"NoArgs", func() string { return "x" }, instance(1, 2), "x"},
		{"NoReturn", func(string) {}, instance("a"), nil},
		{"Self", func(self *host.Object) interface{} { return self.Get("name") }, instance(), "jon"},
		{"SelfStatic", func(self *host.Object) bool { return self == nil }, static(), true},
		{"Class", func(class *host.Class) string { return class.Name() }, static(), "User"},
		{"Args", func(a int, b string) string { return strings.Repeat(b, a) }, instance(3, "x"), "xxx"},
		{"MissingArgs", func(a int, b string) string { return strings.Repeat("y", a) + b }, instance(2), "yy"},
		{"ExtraArgsIgnored", func(a int) int { return a }, instance(1, 2, 3), 1},
		{"NilArg", func(p *point) bool { return p == nil }, instance(nil), true},
		{"Interface", func(v interface{}) interface{} { return v }, instance(point{1, 2}), point{1, 2}},
		{"Variadic", func(self *host.Object, sep string, parts ...string) string {
			return self.Get("name").(string) + sep + strings.Join(parts, sep)
		}, instance("-", "a", "b"), "jon-a-b"},
		{"VariadicEmpty", func(parts ...int) int { return len(parts) }, instance(), 0},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			stub := NewStub(ft, "m", test.fn)
			assert.Equal(t, test.expected, stub.evaluate(ft, test.inv))
		})
	}
	assert.Empty(t, ft.fatals)
}

func TestBehavior_FailsFatally(t *testing.T) {
	rt := newRuntime(t)
	user := rt.MustLookup("User").New()
	inv := &host.Invocation{Object: user, Class: user.Class(), Method: "m", Args: []interface{}{"notAnInt"}}

	stub := Behavior(func(i int) int { return i })
	expectFatal(t, "cannot accept argument notAnInt of type string as int", func() { stub.evaluate(&fakeT{}, inv) })

	expectFatal(t, "expected a func", func() { Behavior(nil).(ValidatingStub).ForMethod(&fakeT{}, "m") })
	expectFatal(t, "at most 1 return value", func() {
		NewStub(&fakeT{}, "m", func() (int, int) { return 0, 0 })
	})
}

func TestBehavior_ThroughDispatcher(t *testing.T) {
	d, rt, ft := newTest(t)
	user := rt.MustLookup("User").New("jon")
	d.Double(user, Stubs{"SetName": func(self *host.Object, name int) {}})

	expectFatal(t, "cannot accept argument", func() { user.Call("SetName", "ann") })

	calls := d.Registry().Invocations(ObjectTarget(user))
	require.Len(t, calls, 1)
	_, isFatal := calls[0].Panicked.(fatal)
	assert.True(t, isFatal, "the failed call is recorded with its panic")
	assert.Equal(t, "jon", user.Get("name"))
	ft.expectErrors(t)
}

func TestConsecutive(t *testing.T) {
	ft := &fakeT{}
	stub := NewStub(ft, "m", Consecutive(1, "two", nil))
	inv := &host.Invocation{Method: "m"}

	assert.Equal(t, 1, stub.evaluate(ft, inv))
	assert.Equal(t, "two", stub.evaluate(ft, inv))
	assert.Nil(t, stub.evaluate(ft, inv))
	assert.Nil(t, stub.evaluate(ft, inv), "last value repeats")

	assert.Nil(t, Consecutive().evaluate(ft, inv))
}

func TestValue_ReturnsFuncVerbatim(t *testing.T) {
	d, rt, ft := newTest(t)
	user := rt.MustLookup("User").New()
	d.Double(user, Stubs{"Callback": Value(func() string { return "later" })})

	callback, isFunc := user.Call("Callback").(func() string)
	require.True(t, isFunc)
	assert.Equal(t, "later", callback())
	ft.expectErrors(t)
}

func TestBehavior_ObjectArgument(t *testing.T) {
	d, rt, ft := newTest(t)
	users := rt.MustLookup("User")
	jon, ann := users.New("jon"), users.New("ann")

	// a leading *host.Object is always the receiver
	d.Double(jon, Stubs{"Follow": func(other *host.Object) *host.Object { return other }})
	assert.Same(t, jon, jon.Call("Follow", ann))

	d.Double(jon, Stubs{"Follow": func(self *host.Object, other *host.Object) *host.Object { return other }})
	assert.Same(t, ann, jon.Call("Follow", ann))
	ft.expectErrors(t)
}
