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
	"reflect"
	"sort"
	"sync"

	"github.com/lwoggardner/aspectdouble/host"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Runtime is what the engine needs from the host object runtime.
// *host.Runtime is the canonical implementation.
type Runtime interface {
	Lookup(name string) (*host.Class, bool)
	ClassExists(name string) bool
	PublicMethods(class string) ([]string, error)
	Weave(interceptor host.Interceptor) (unweave func())
}

// Target identifies a doubled class (by name) or object (by identity).
type Target struct {
	class  string
	object *host.Object
}

// ClassTarget is the Target for a class name
func ClassTarget(name string) Target {
	return Target{class: name}
}

// ObjectTarget is the Target for a specific object
func ObjectTarget(obj *host.Object) Target {
	return Target{object: obj}
}

func (t Target) IsObject() bool {
	return t.object != nil
}

// Object is nil for class targets
func (t Target) Object() *host.Object {
	return t.object
}

// ClassName is the doubled class name, or the class of the doubled object
func (t Target) ClassName() string {
	if t.object != nil {
		return t.object.Class().Name()
	}
	return t.class
}

func (t Target) String() string {
	if t.object != nil {
		return t.object.String()
	}
	return t.class
}

type proxied interface {
	target() Target
}

type entry struct {
	stubs map[string]Stub
	calls []*Invocation
}

/*
Registry holds the stubs and invocation history of every doubled target.

Entries are created by RegisterClass or RegisterObject and live until Clean.
The registry lock is never held while a stub or real method executes.
*/
type Registry struct {
	runtime Runtime
	mutex   sync.Mutex
	entries map[Target]*entry
	log     *zap.Logger
}

func NewRegistry(runtime Runtime, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		runtime: runtime,
		entries: make(map[Target]*entry),
		log:     log,
	}
}

// Resolve returns the canonical Target for a class name, *host.Class, *host.Object or proxy.
func (r *Registry) Resolve(classOrObject interface{}) (Target, error) {
	switch typed := classOrObject.(type) {
	case string:
		if typed == "" {
			return Target{}, errors.New("cannot double an empty class name")
		}
		return ClassTarget(typed), nil
	case *host.Class:
		if typed == nil {
			return Target{}, errors.New("cannot double a nil class")
		}
		return ClassTarget(typed.Name()), nil
	case *host.Object:
		if typed == nil {
			return Target{}, errors.New("cannot double a nil object")
		}
		return ObjectTarget(typed), nil
	case Target:
		return typed, nil
	case proxied:
		if v := reflect.ValueOf(typed); v.Kind() == reflect.Ptr && v.IsNil() {
			return Target{}, errors.Errorf("cannot double a nil %T", classOrObject)
		}
		return typed.target(), nil
	default:
		return Target{}, errors.Errorf("cannot double %T, expected a class name, class, object or proxy", classOrObject)
	}
}

// RegisterClass merges stubs into the entry for the class name, creating it if necessary.
func (r *Registry) RegisterClass(name string, stubs map[string]Stub) error {
	if !r.runtime.ClassExists(name) {
		return errors.WithStack(&ClassNotLoadedError{Class: name})
	}
	r.register(ClassTarget(name), stubs)
	return nil
}

// RegisterObject merges stubs into the entry for obj, creating it if necessary.
func (r *Registry) RegisterObject(obj *host.Object, stubs map[string]Stub) error {
	if obj == nil {
		return errors.New("cannot register a nil object")
	}
	r.register(ObjectTarget(obj), stubs)
	return nil
}

func (r *Registry) register(target Target, stubs map[string]Stub) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	e, found := r.entries[target]
	if !found {
		e = &entry{stubs: make(map[string]Stub, len(stubs))}
		r.entries[target] = e
	}
	methods := make([]string, 0, len(stubs))
	for method, stub := range stubs {
		e.stubs[method] = stub
		methods = append(methods, method)
	}
	sort.Strings(methods)

	r.log.Debug("registered double",
		zap.Stringer("target", target),
		zap.Bool("created", !found),
		zap.Strings("stubs", methods))
}

// Clean removes the entries for targets, or every entry if none are given.
// Unknown targets are ignored.
func (r *Registry) Clean(targets ...Target) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(targets) == 0 {
		r.log.Debug("cleaned all doubles", zap.Int("entries", len(r.entries)))
		r.entries = make(map[Target]*entry)
		return
	}
	for _, target := range targets {
		if _, found := r.entries[target]; found {
			delete(r.entries, target)
			r.log.Debug("cleaned double", zap.Stringer("target", target))
		}
	}
}

// CleanInvocations empties the invocation history of targets, or of every entry if none are given.
// Stubs are kept.
func (r *Registry) CleanInvocations(targets ...Target) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(targets) == 0 {
		for _, e := range r.entries {
			e.calls = nil
		}
		r.log.Debug("cleaned all invocations", zap.Int("entries", len(r.entries)))
		return
	}
	for _, target := range targets {
		if e, found := r.entries[target]; found {
			e.calls = nil
			r.log.Debug("cleaned invocations", zap.Stringer("target", target))
		}
	}
}

// Registered is true if target has an entry
func (r *Registry) Registered(target Target) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	_, found := r.entries[target]
	return found
}

// Stubbed is true if target has a stub for method
func (r *Registry) Stubbed(target Target, method string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if e, found := r.entries[target]; found {
		_, stubbed := e.stubs[method]
		return stubbed
	}
	return false
}

// StubsFor returns a copy of the stubs registered for target
func (r *Registry) StubsFor(target Target) map[string]Stub {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	stubs := make(map[string]Stub)
	if e, found := r.entries[target]; found {
		for k, v := range e.stubs {
			stubs[k] = v
		}
	}
	return stubs
}

// Invocations returns a snapshot of the recorded calls against target in call order.
func (r *Registry) Invocations(target Target) []*Invocation {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if e, found := r.entries[target]; found {
		calls := make([]*Invocation, len(e.calls))
		for i, call := range e.calls {
			snapshot := *call
			calls[i] = &snapshot
		}
		return calls
	}
	return nil
}

// Targets returns every registered target
func (r *Registry) Targets() []Target {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	targets := make([]Target, 0, len(r.entries))
	for target := range r.entries {
		targets = append(targets, target)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].String() < targets[j].String() })
	return targets
}

// doubled filters candidates, most specific first, down to those with an entry
func (r *Registry) doubled(candidates []Target) []Target {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var targets []Target
	for _, candidate := range candidates {
		if _, found := r.entries[candidate]; found {
			targets = append(targets, candidate)
		}
	}
	return targets
}

// stubFor finds the first of targets with a stub for method
func (r *Registry) stubFor(targets []Target, method string) (Stub, Target, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, target := range targets {
		if e, found := r.entries[target]; found {
			if stub, stubbed := e.stubs[method]; stubbed {
				return stub, target, true
			}
		}
	}
	return nil, Target{}, false
}

// begin appends the record to the history of each target before the call executes
func (r *Registry) begin(targets []Target, record *Invocation) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for _, target := range targets {
		if e, found := r.entries[target]; found {
			e.calls = append(e.calls, record)
		}
	}
}

// complete fills in the outcome of a record
func (r *Registry) complete(record *Invocation, returned interface{}, panicked interface{}) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	record.Returned = returned
	record.Panicked = panicked
}
