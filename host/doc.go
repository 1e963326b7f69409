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
Package host is a small dynamic object runtime whose method dispatch can be intercepted.

Classes are defined at runtime with a name, an optional parent, declared fields and a table of
instance and static methods. Objects are instances of those classes, compared by identity.

 rt := host.NewRuntime()
 rt.MustDefine(host.ClassDef{
	Name:   "User",
	Fields: map[string]interface{}{"name": ""},
	Methods: map[string]host.MethodFunc{
		"GetName": func(self *host.Object, _ ...interface{}) interface{} { return self.Get("name") },
	},
 })

 user := rt.MustLookup("User").New()
 user.Call("GetName")

Every Object.Call and Class.CallStatic is routed through the Interceptor installed with
Runtime.Weave. The interceptor decides whether the real method runs (Invocation.Proceed) or
something else is returned in its place.

Method names starting with an upper case letter are public, as with Go identifiers.
*/
package host
