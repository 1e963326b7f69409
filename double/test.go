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
	"go.uber.org/zap"
)

//T is compatible with builtin testing.T
type T interface {
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	Helper()
}

type cleaner interface {
	Cleanup(func())
}

/*
Test is the entry point for doubling classes and objects of a host runtime during a test.

New weaves a Dispatcher into the runtime. Calls on doubled targets are then served by their stubs,
or by the real methods, and recorded for verification. Each Test owns its own Registry, so tests
running in parallel should each use their own Runtime and Test.

Misuse of the API fails the test fatally via T.Fatalf, verification failures are reported via T.Errorf.
*/
type Test struct {
	t          T
	runtime    Runtime
	registry   *Registry
	dispatcher *Dispatcher
	log        *zap.Logger
	trace      bool
	unweave    func()
}

// WithLogger configures structured logging of registry changes and intercepted calls
func WithLogger(log *zap.Logger) func(*Test) {
	return func(d *Test) {
		d.log = log
	}
}

// WithTrace enables tracing of all intercepted calls (via T.Logf)
func WithTrace() func(*Test) {
	return func(d *Test) {
		d.trace = true
	}
}

/*
New creates a Test for runtime, reporting to t.

configurators are used to configure logging and tracing.

If t supports Cleanup (as *testing.T does), the dispatcher is unwoven and all doubles are cleaned
when the test completes. Otherwise call Close.
*/
func New(t T, runtime Runtime, configurators ...func(*Test)) *Test {
	t.Helper()
	if runtime == nil {
		t.Fatalf("Expecting a host runtime, got nil")
		return nil
	}

	d := &Test{t: t, runtime: runtime, log: zap.NewNop()}
	for _, c := range configurators {
		c(d)
	}

	d.registry = NewRegistry(runtime, d.log.Named("registry"))
	d.dispatcher = NewDispatcher(t, d.registry, d.log.Named("dispatcher"))
	if d.trace {
		d.dispatcher.EnableTrace()
	}
	d.unweave = runtime.Weave(d.dispatcher)

	if c, isCleaner := t.(cleaner); isCleaner {
		c.Cleanup(d.Close)
	}
	return d
}

// EnableTrace enables tracing of all intercepted calls (via T.Logf)
func (d *Test) EnableTrace() {
	d.trace = true
	d.dispatcher.EnableTrace()
}

func (d *Test) T() T {
	return d.t
}

func (d *Test) Registry() *Registry {
	return d.registry
}

func (d *Test) String() string {
	return fmt.Sprintf("Test(%d doubles)", len(d.registry.Targets()))
}

// Close unweaves the dispatcher from the runtime and cleans all doubles
func (d *Test) Close() {
	d.unweave()
	d.registry.Clean()
}

/*
Double registers stubs for a class or object and returns its proxy.

classOrObject may be a class name, *host.Class, *host.Object or an existing proxy.
Classes return a *ClassProxy, objects an *InstanceProxy. Doubling the same target again merges
the new stubs into the existing double.

Doubling a class name the runtime does not define fails the test fatally; use Spec instead.
*/
func (d *Test) Double(classOrObject interface{}, stubs ...Stubs) Proxy {
	d.t.Helper()
	target, err := d.registry.Resolve(classOrObject)
	if err != nil {
		d.t.Fatalf("%v", err)
		return nil
	}

	if target.IsObject() {
		return d.doubleObject(target.Object(), stubs)
	}

	class, found := d.runtime.Lookup(target.ClassName())
	if !found {
		d.t.Fatalf("%v", &ClassNotLoadedError{Class: target.ClassName()})
		return nil
	}
	return d.doubleClass(class, stubs)
}

// Class is Double for a class name, returning the *ClassProxy
func (d *Test) Class(name string, stubs ...Stubs) *ClassProxy {
	d.t.Helper()
	class, found := d.runtime.Lookup(name)
	if !found {
		d.t.Fatalf("%v", &ClassNotLoadedError{Class: name})
		return nil
	}
	return d.doubleClass(class, stubs)
}

// Object is Double for an object, returning the *InstanceProxy
func (d *Test) Object(obj *host.Object, stubs ...Stubs) *InstanceProxy {
	d.t.Helper()
	if obj == nil {
		d.t.Fatalf("cannot double a nil object")
		return nil
	}
	return d.doubleObject(obj, stubs)
}

/*
Spec is Double, except that a class name the runtime does not define yields an *AnythingClassProxy
instead of failing. Stubs for an undefined class are ignored.
*/
func (d *Test) Spec(classOrObject interface{}, stubs ...Stubs) Proxy {
	d.t.Helper()
	target, err := d.registry.Resolve(classOrObject)
	if err != nil {
		d.t.Fatalf("%v", err)
		return nil
	}

	if !target.IsObject() && !d.runtime.ClassExists(target.ClassName()) {
		d.log.Debug("spec for undefined class", zap.String("class", target.ClassName()))
		return newAnythingClassProxy(d, target.ClassName())
	}
	return d.Double(target, stubs...)
}

/*
Methods doubles classOrObject with every public method, except those named in keep,
replaced by a stub that does nothing and returns nil.

Fails the test fatally if the class is not defined.
*/
func (d *Test) Methods(classOrObject interface{}, keep ...string) Proxy {
	d.t.Helper()
	target, err := d.registry.Resolve(classOrObject)
	if err != nil {
		d.t.Fatalf("%v", err)
		return nil
	}

	methods, err := d.runtime.PublicMethods(target.ClassName())
	if err != nil {
		d.t.Fatalf("%v", &ClassNotDefinedError{Class: target.ClassName()})
		return nil
	}

	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}

	stubs := Stubs{}
	for _, method := range methods {
		if !kept[method] {
			stubs[method] = Null()
		}
	}
	return d.Double(target, stubs)
}

// Clean removes the stubs and history of targets, or of every double if none are given.
func (d *Test) Clean(targets ...interface{}) {
	d.t.Helper()
	resolved, ok := d.resolveAll(targets)
	if ok {
		d.registry.Clean(resolved...)
	}
}

// CleanInvocations removes the history of targets, or of every double if none are given. Stubs remain.
func (d *Test) CleanInvocations(targets ...interface{}) {
	d.t.Helper()
	resolved, ok := d.resolveAll(targets)
	if ok {
		d.registry.CleanInvocations(resolved...)
	}
}

func (d *Test) resolveAll(targets []interface{}) ([]Target, bool) {
	d.t.Helper()
	resolved := make([]Target, 0, len(targets))
	for _, t := range targets {
		target, err := d.registry.Resolve(t)
		if err != nil {
			d.t.Fatalf("%v", err)
			return nil, false
		}
		resolved = append(resolved, target)
	}
	return resolved, true
}

func (d *Test) doubleClass(class *host.Class, stubs []Stubs) *ClassProxy {
	d.t.Helper()
	d.register(ClassTarget(class.Name()), stubs...)
	return newClassProxy(d, class)
}

func (d *Test) doubleObject(obj *host.Object, stubs []Stubs) *InstanceProxy {
	d.t.Helper()
	target := ObjectTarget(obj)
	d.register(target, stubs...)
	d.assignFields(target, obj)
	return newInstanceProxy(d, obj)
}

func (d *Test) register(target Target, stubs ...Stubs) {
	d.t.Helper()
	merged := make(map[string]Stub)
	for _, s := range stubs {
		for name, v := range s {
			merged[name] = NewStub(d.t, name, v)
		}
	}

	var err error
	if target.IsObject() {
		err = d.registry.RegisterObject(target.Object(), merged)
	} else {
		err = d.registry.RegisterClass(target.ClassName(), merged)
	}
	if err != nil {
		d.t.Fatalf("%v", err)
	}
}

// assignFields sets each field of obj named by a Value stub of target, unless a method has the same name
func (d *Test) assignFields(target Target, obj *host.Object) {
	class := obj.Class()
	for name, stub := range d.registry.StubsFor(target) {
		if !class.HasField(name) || class.HasMethod(name) {
			continue
		}
		if v, isValue := fieldValue(stub); isValue {
			obj.Set(name, v)
		}
	}
}
