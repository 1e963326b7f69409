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
	"testing"

	"github.com/lwoggardner/aspectdouble/host"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Failures(t *testing.T) {
	d, rt, ft := newTest(t)
	user := rt.MustLookup("User").New("jon")
	proxy := d.Object(user)

	user.Call("SetName", "ann")
	user.Call("SetName", "bob")

	proxy.VerifyInvoked("Save")
	proxy.VerifyNeverInvoked("SetName")
	proxy.VerifyInvokedOnce("SetName")
	proxy.VerifyInvokedMultipleTimes("SetName", 3)
	proxy.VerifyInvoked("SetName", "eve")
	proxy.VerifyNeverInvoked("SetName", Func(func(name string) bool { return len(name) == 3 }))

	ft.expectErrors(t,
		`^User#[0-9a-f]{8}\.Save expected to be invoked at least 1, found 0 calls$`,
		`SetName expected to be invoked never, found 2 calls\nrecorded calls:\n  User#[0-9a-f]{8}\.SetName\[ann\] => <nil>\n  User#[0-9a-f]{8}\.SetName\[bob\] => <nil>`,
		`SetName expected to be invoked exactly 1, found 2 calls`,
		`SetName expected to be invoked exactly 3, found 2 calls`,
		`(?s)SetName expected to be invoked at least 1 with Args\(Eql\(eve\)\), found 0 calls\nlast call \(-expected \+actual\):.*-.*"eve".*\+.*"bob"`,
		`SetName expected to be invoked never with Args\(func\(string\) bool\), found 2 calls`,
	)

	proxy.VerifyInvoked("SetName", "ann")
	proxy.VerifyInvokedOnce("SetName", "bob")
	proxy.VerifyNeverInvoked("SetName", "eve")
	ft.expectErrors(t)
}

func TestVerifier_MethodCalls(t *testing.T) {
	d, rt, ft := newTest(t)
	users := d.Class("User", Stubs{"GetName": Consecutive("a", "b", "c")})
	user := rt.MustLookup("User").New()

	for i := 0; i < 4; i++ {
		user.Call("GetName", i)
	}

	calls := users.VerifyMethodInvoked("GetName")
	assert.Equal(t, 4, calls.NumCalls())
	calls.Returned("c")
	calls.Returned(Any(Eql("a"), Eql("b")))
	calls.Matching(Func(func(i int) bool { return i >= 2 })).Expect(Twice())
	calls.Matching(1).Expect(Once())
	calls.Slice(1, 3).Expect(Exactly(2))
	calls.Slice(calls.NumCalls()-1, calls.NumCalls()).Returned("c")
	calls.Slice(2, 10).Expect(Twice())
	calls.Slice(10, 12).Expect(Never())
	assert.Equal(t, [][]interface{}{{0}, {1}, {2}, {3}}, users.CallsForMethod("GetName"))
	ft.expectErrors(t)

	calls.Slice(0, 1).Returned("b")
	calls.Matching(5).Expect(Once())
	ft.expectErrors(t,
		`GetName expected to return Eql\(b\), found 1 calls`,
		`(?s)calls matching Args\(Eql\(5\)\) within\n  all calls to User.GetName expected exactly 1, found 0 calls`,
	)

	users.VerifyMethodInvoked("SetName")
	ft.expectErrors(t, `User.SetName expected to be invoked at least 1, found 0 calls`)

	expectFatal(t, "Invalid Slice", func() { calls.Slice(2, 1) })
}

func TestVerifier_PanickedCallsDoNotReturn(t *testing.T) {
	d, rt, ft := newTest(t)
	user := rt.MustLookup("User").New()
	proxy := d.Object(user, Stubs{"Save": func(ok bool) bool {
		if !ok {
			panic(errors.New("failed"))
		}
		return ok
	}})

	assert.Panics(t, func() { user.Call("Save", false) })
	proxy.VerifyMethodInvoked("Save").Returned(Nil())
	ft.expectErrors(t, `(?s)Save expected to return Nil, found 1 calls.*=> panic\(`)

	assert.Equal(t, true, user.Call("Save", true))
	proxy.VerifyMethodInvoked("Save").Returned(true)
	ft.expectErrors(t)
}

func TestVerifier_ObjectArguments(t *testing.T) {
	d, rt, ft := newTest(t)
	users := rt.MustLookup("User")
	jon, ann := users.New("jon"), users.New("jon")
	admins := d.Class("Admin", Stubs{"Follow": func(self *host.Object, other *host.Object) bool { return self != other }})

	admin := rt.MustLookup("Admin").New()
	admin.Call("Follow", jon)

	admins.VerifyInvokedOnce("Follow", jon)
	admins.VerifyNeverInvoked("Follow", ann)
	admins.VerifyMethodInvoked("Follow").Returned(true)
	ft.expectErrors(t)
}

func TestVerificationFailure_Error(t *testing.T) {
	failure := &VerificationFailure{Target: ClassTarget("User"), Method: "Save", Expected: "to be invoked never", Found: 0}
	assert.Equal(t, "User.Save expected to be invoked never, found 0 calls", failure.Error())

	var err error = errors.Wrap(failure, "verify")
	var target *VerificationFailure
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "Save", target.Method)
}
