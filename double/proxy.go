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

	"github.com/lwoggardner/aspectdouble/host"
)

// Proxy is a handle on a double. Proxies hold no state of their own, so any number of proxies
// for the same target observe the same stubs and history.
type Proxy interface {
	// ClassName is the doubled class, or the class of the doubled object
	ClassName() string

	// Defined is false for doubles of classes the runtime does not define
	Defined() bool

	Verifier

	target() Target
}

// ClassProxy is a double of a defined class.
//
// Its Verifier methods consider instance calls on every object of the class (or a subclass),
// the VerifyStatic* methods consider static calls.
type ClassProxy struct {
	*verifier
	test   *Test
	class  *host.Class
	static *verifier
}

func newClassProxy(test *Test, class *host.Class) *ClassProxy {
	target := ClassTarget(class.Name())
	return &ClassProxy{
		verifier: &verifier{t: test.t, registry: test.registry, target: target},
		test:     test,
		class:    class,
		static:   &verifier{t: test.t, registry: test.registry, target: target, static: true},
	}
}

func (p *ClassProxy) target() Target {
	return p.verifier.target
}

func (p *ClassProxy) ClassName() string {
	return p.class.Name()
}

func (p *ClassProxy) Defined() bool {
	return true
}

func (p *ClassProxy) Class() *host.Class {
	return p.class
}

func (p *ClassProxy) String() string {
	return fmt.Sprintf("ClassProxy(%s)", p.class.Name())
}

// Construct creates an instance through the real constructor, then assigns any stubbed field values.
func (p *ClassProxy) Construct(args ...interface{}) *host.Object {
	obj := p.class.New(args...)
	p.test.assignFields(p.target(), obj)
	return obj
}

// Make creates an instance without running a constructor.
// Fields are nil unless a stub assigns them.
func (p *ClassProxy) Make() *host.Object {
	obj := p.class.Instantiate()
	p.test.assignFields(p.target(), obj)
	return obj
}

// Stub merges further stubs into this double
func (p *ClassProxy) Stub(stubs Stubs) *ClassProxy {
	p.test.t.Helper()
	p.test.register(p.target(), stubs)
	return p
}

// IsStubbed is true if this class (not an ancestor) has a stub for method
func (p *ClassProxy) IsStubbed(method string) bool {
	return p.test.registry.Stubbed(p.target(), method)
}

// CallStatic invokes a static method of the class
func (p *ClassProxy) CallStatic(method string, args ...interface{}) interface{} {
	return p.class.CallStatic(method, args...)
}

// Ancestors lists the names of the parent classes, nearest first
func (p *ClassProxy) Ancestors() []string {
	lineage := p.class.Lineage()
	names := make([]string, 0, len(lineage)-1)
	for _, class := range lineage[1:] {
		names = append(names, class.Name())
	}
	return names
}

func (p *ClassProxy) HasMethod(method string) bool {
	return p.class.HasMethod(method)
}

func (p *ClassProxy) HasProperty(field string) bool {
	return p.class.HasField(field)
}

func (p *ClassProxy) VerifyStaticInvoked(method string, args ...interface{}) {
	p.test.t.Helper()
	p.static.VerifyInvoked(method, args...)
}

func (p *ClassProxy) VerifyStaticInvokedOnce(method string, args ...interface{}) {
	p.test.t.Helper()
	p.static.VerifyInvokedOnce(method, args...)
}

func (p *ClassProxy) VerifyStaticInvokedMultipleTimes(method string, times int, args ...interface{}) {
	p.test.t.Helper()
	p.static.VerifyInvokedMultipleTimes(method, times, args...)
}

func (p *ClassProxy) VerifyStaticNeverInvoked(method string, args ...interface{}) {
	p.test.t.Helper()
	p.static.VerifyNeverInvoked(method, args...)
}

func (p *ClassProxy) VerifyStaticMethodInvoked(method string) MethodCalls {
	p.test.t.Helper()
	return p.static.VerifyMethodInvoked(method)
}

// InstanceProxy is a double of one object. Unknown member access is forwarded to the real instance.
type InstanceProxy struct {
	*verifier
	test   *Test
	object *host.Object
}

func newInstanceProxy(test *Test, obj *host.Object) *InstanceProxy {
	return &InstanceProxy{
		verifier: &verifier{t: test.t, registry: test.registry, target: ObjectTarget(obj)},
		test:     test,
		object:   obj,
	}
}

func (p *InstanceProxy) target() Target {
	return p.verifier.target
}

func (p *InstanceProxy) ClassName() string {
	return p.object.Class().Name()
}

func (p *InstanceProxy) Defined() bool {
	return true
}

// Object is the doubled instance
func (p *InstanceProxy) Object() *host.Object {
	return p.object
}

func (p *InstanceProxy) String() string {
	return fmt.Sprintf("InstanceProxy(%v)", p.object)
}

// Call invokes method on the doubled instance
func (p *InstanceProxy) Call(method string, args ...interface{}) interface{} {
	return p.object.Call(method, args...)
}

func (p *InstanceProxy) Get(field string) interface{} {
	return p.object.Get(field)
}

func (p *InstanceProxy) Set(field string, value interface{}) {
	p.object.Set(field, value)
}

// Stub merges further stubs into this double
func (p *InstanceProxy) Stub(stubs Stubs) *InstanceProxy {
	p.test.t.Helper()
	p.test.register(p.target(), stubs)
	p.test.assignFields(p.target(), p.object)
	return p
}

// IsStubbed is true if this object has its own stub for method
func (p *InstanceProxy) IsStubbed(method string) bool {
	return p.test.registry.Stubbed(p.target(), method)
}
