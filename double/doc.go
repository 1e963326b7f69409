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

/*
Package double intercepts method calls on the classes and objects of a host runtime, replaces them
with stubs and records them for verification.

Unlike an interface double, the code under test is not changed: it keeps calling methods on its
host objects and the Dispatcher woven into the runtime decides, call by call, whether the real
method or a stub runs.

Doubles

A class double applies to every instance of the class and of its subclasses.

 func Test_Save(t *testing.T) {
	d := double.New(t, rt) // rt is the *host.Runtime the code under test uses

	ar := d.Double("ActiveRecord", double.Stubs{"Save": false}).(*double.ClassProxy)

	user := rt.MustLookup("User").New()   // User extends ActiveRecord
	user.Call("Save")                      // returns false, nothing is saved

	ar.VerifyInvoked("Save")
 }

An object double applies to one instance only, and takes precedence over any class double.

 user := d.Object(rt.MustLookup("User").New(), double.Stubs{"GetName": "davert"})
 user.Call("GetName") // "davert"
 user.VerifyInvoked("GetName")
 user.VerifyNeverInvoked("Save")

Stubs

A stub is a literal value, returned verbatim, or a func evaluated in place of the method.
A func whose first parameter is a *host.Object receives the doubled instance.

 d.Double("User", double.Stubs{
	"GetName":  "davert",
	"FullName": func(self *host.Object, title string) string { return title + " " + self.Get("name").(string) },
	"Next":     double.Consecutive(1, 2, 3),
	"Callback": double.Value(func() {}), // return a func verbatim
 })

Methods replaces every public method with a no-op, except those kept.

 d.Methods(user, "GetName")

Undefined classes

Spec doubles a class that does not exist yet. Instances are Anything, which accepts any use.

 ghost := d.Spec("Ghost").(*double.AnythingClassProxy).Construct()
 ghost.Call("AnyMethod").Get("anyProperty").Index(0)

Verification

Every call on a doubled target is recorded, whether stubbed or not.

 proxy.VerifyInvoked("Save")
 proxy.VerifyInvoked("Find", 42)
 proxy.VerifyInvokedMultipleTimes("Find", 2)
 proxy.VerifyNeverInvoked("Delete")
 proxy.VerifyMethodInvoked("Find").Returned(Nil())
 proxy.VerifyMethodInvoked("Find").Matching(Func(func(id int) bool { return id > 40 })).Expect(Once())

Lifecycle

Stubs and history live in the Test's Registry. Clean and CleanInvocations reset it between test
cases. With *testing.T this happens automatically when the test completes.
*/
package double
