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
)

// AnythingClassProxy is a double of a class the runtime does not define.
// Nothing can call into an undefined class, so its history is always empty.
type AnythingClassProxy struct {
	*verifier
	className string
}

func newAnythingClassProxy(test *Test, className string) *AnythingClassProxy {
	return &AnythingClassProxy{
		verifier:  &verifier{t: test.t, registry: test.registry, target: ClassTarget(className)},
		className: className,
	}
}

func (p *AnythingClassProxy) target() Target {
	return p.verifier.target
}

func (p *AnythingClassProxy) ClassName() string {
	return p.className
}

func (p *AnythingClassProxy) Defined() bool {
	return false
}

func (p *AnythingClassProxy) String() string {
	return fmt.Sprintf("AnythingClassProxy(%s)", p.className)
}

// Construct returns an Anything, ignoring args
func (p *AnythingClassProxy) Construct(...interface{}) *Anything {
	return &Anything{className: p.className}
}

// Make returns an Anything
func (p *AnythingClassProxy) Make() *Anything {
	return &Anything{className: p.className}
}

/*
Anything stands in for an instance of an undefined class.

Every member access, call, index and iteration succeeds and, where a value is needed, yields a
further Anything. Methods are safe on a nil *Anything.

 ghost := d.Spec("Ghost").(*AnythingClassProxy).Construct()
 ghost.Call("AnyMethod").Get("anyProperty").Index(0).Call("More", 1, 2)
*/
type Anything struct {
	className string
	path      string
}

func (a *Anything) derive(step string) *Anything {
	if a == nil {
		return &Anything{path: step}
	}
	return &Anything{className: a.className, path: a.path + step}
}

// ClassName is the undefined class this Anything was made for
func (a *Anything) ClassName() string {
	if a == nil {
		return ""
	}
	return a.className
}

// Path describes the chain of accesses that produced this Anything
func (a *Anything) Path() string {
	if a == nil {
		return ""
	}
	return a.path
}

// Call accepts any method and arguments
func (a *Anything) Call(method string, _ ...interface{}) *Anything {
	return a.derive("." + method + "()")
}

// CallStatic accepts any static method and arguments
func (a *Anything) CallStatic(method string, _ ...interface{}) *Anything {
	return a.derive("::" + method + "()")
}

// Get accepts any property
func (a *Anything) Get(property string) *Anything {
	return a.derive("." + property)
}

// Set accepts and discards any property assignment
func (a *Anything) Set(_ string, _ interface{}) {}

// Index accepts any key
func (a *Anything) Index(key interface{}) *Anything {
	return a.derive(fmt.Sprintf("[%v]", key))
}

// SetIndex accepts and discards any indexed assignment
func (a *Anything) SetIndex(_ interface{}, _ interface{}) {}

// Has is false for every key
func (a *Anything) Has(_ interface{}) bool {
	return false
}

// Unset accepts any key
func (a *Anything) Unset(_ interface{}) {}

// Each iterates over nothing
func (a *Anything) Each(_ func(key interface{}, value *Anything) bool) {}

// Len is always zero
func (a *Anything) Len() int {
	return 0
}

// Value is always nil
func (a *Anything) Value() interface{} {
	return nil
}

// String is always empty
func (a *Anything) String() string {
	return ""
}
