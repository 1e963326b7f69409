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

package host

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Option configures a Runtime
type Option func(*Runtime)

// WithLogger sets the logger used for class definitions and weaving.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runtime) {
		r.log = log
	}
}

// woven wraps an Interceptor so that Weave can find it again by identity
type woven struct {
	Interceptor
}

// Runtime is a table of classes and the interception hooks for their methods.
// Only the most recently woven hook still in place is consulted.
type Runtime struct {
	mutex   sync.RWMutex
	classes map[string]*Class
	woven   []*woven
	log     *zap.Logger
}

func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		classes: make(map[string]*Class),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Define registers a new class.
//
// The parent, if any, must already be defined.
func (r *Runtime) Define(def ClassDef) (*Class, error) {
	if def.Name == "" {
		return nil, errors.New("class name is required")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.classes[def.Name]; exists {
		return nil, errors.Wrapf(ErrClassExists, "define %s", def.Name)
	}

	var parent *Class
	if def.Parent != "" {
		var found bool
		if parent, found = r.classes[def.Parent]; !found {
			return nil, errors.Wrapf(ErrParentNotDefined, "class %s extends %s", def.Name, def.Parent)
		}
	}

	class := newClass(r, def, parent)
	r.classes[def.Name] = class

	r.log.Debug("defined class",
		zap.String("class", def.Name),
		zap.String("parent", def.Parent),
		zap.Int("methods", len(def.Methods)),
		zap.Int("static", len(def.Static)))
	return class, nil
}

// MustDefine is Define that panics on error
func (r *Runtime) MustDefine(def ClassDef) *Class {
	class, err := r.Define(def)
	if err != nil {
		panic(err)
	}
	return class
}

func (r *Runtime) Lookup(name string) (*Class, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	class, found := r.classes[name]
	return class, found
}

// MustLookup is Lookup that panics for an undefined class
func (r *Runtime) MustLookup(name string) *Class {
	class, found := r.Lookup(name)
	if !found {
		panic(errors.Wrap(ErrClassNotDefined, name))
	}
	return class
}

func (r *Runtime) ClassExists(name string) bool {
	_, found := r.Lookup(name)
	return found
}

// ClassNames returns the sorted names of all defined classes
func (r *Runtime) ClassNames() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PublicMethods lists the public instance and static methods of class name, including those
// inherited from its ancestors. Constructors and destructors are not methods.
func (r *Runtime) PublicMethods(name string) ([]string, error) {
	class, found := r.Lookup(name)
	if !found {
		return nil, errors.Wrap(ErrClassNotDefined, name)
	}
	return class.PublicMethods(), nil
}

// Weave installs interceptor as the hook consulted before every method call, in place of any
// hook woven earlier.
//
// The returned func removes this interceptor only, in whatever order hooks are unwoven.
// If it was the active hook, the most recent remaining one takes over.
func (r *Runtime) Weave(interceptor Interceptor) (unweave func()) {
	hook := &woven{interceptor}

	r.mutex.Lock()
	r.woven = append(r.woven, hook)
	depth := len(r.woven)
	r.mutex.Unlock()

	r.log.Debug("weaved interceptor", zap.Int("depth", depth))

	var once sync.Once
	return func() {
		once.Do(func() { r.unweave(hook) })
	}
}

func (r *Runtime) unweave(hook *woven) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for i, h := range r.woven {
		if h == hook {
			r.woven = append(r.woven[:i:i], r.woven[i+1:]...)
			r.log.Debug("unweaved interceptor", zap.Bool("active", i == len(r.woven)), zap.Int("depth", len(r.woven)))
			return
		}
	}
}

func (r *Runtime) dispatch(inv *Invocation) interface{} {
	r.mutex.RLock()
	var hook *woven
	if n := len(r.woven); n > 0 {
		hook = r.woven[n-1]
	}
	r.mutex.RUnlock()

	if hook == nil {
		return inv.Proceed()
	}
	return hook.Intercept(inv)
}
