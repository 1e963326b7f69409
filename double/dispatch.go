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
	"github.com/lwoggardner/aspectdouble/host"
	"go.uber.org/zap"
)

/*
Dispatcher is the host.Interceptor that serves calls on doubled targets.

Stub lookup walks from the most specific target to the least: the receiving object, its class,
then each ancestor class. The first stub found replaces the real method. Every call touching a
doubled target is recorded against each doubled target it touches, stubbed or not.
*/
type Dispatcher struct {
	registry *Registry
	t        T
	trace    bool
	log      *zap.Logger
}

func NewDispatcher(t T, registry *Registry, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{registry: registry, t: t, log: log}
}

// EnableTrace logs every intercepted call via T.Logf
func (d *Dispatcher) EnableTrace() {
	d.trace = true
}

// candidates lists the targets an invocation could be served by, most specific first
func candidates(inv *host.Invocation) []Target {
	lineage := inv.Class.Lineage()
	targets := make([]Target, 0, len(lineage)+1)
	if !inv.Static && inv.Object != nil {
		targets = append(targets, ObjectTarget(inv.Object))
	}
	for _, class := range lineage {
		targets = append(targets, ClassTarget(class.Name()))
	}
	return targets
}

func (d *Dispatcher) Intercept(inv *host.Invocation) interface{} {
	targets := d.registry.doubled(candidates(inv))
	if len(targets) == 0 {
		return inv.Proceed()
	}

	stub, from, stubbed := d.registry.stubFor(targets, inv.Method)
	record := newInvocation(inv, stubbed)
	d.registry.begin(targets, record)

	completed := false
	defer func() {
		if completed {
			return
		}
		// a nil recover is runtime.Goexit, eg from T.Fatalf inside a stub
		p := recover()
		d.registry.complete(record, nil, p)
		if d.trace {
			d.t.Logf("Called %v => panic! %v", inv, p)
		}
		if p != nil {
			panic(p)
		}
	}()

	var returned interface{}
	if stubbed {
		returned = stub.evaluate(d.t, inv)
	} else {
		returned = inv.Proceed()
	}
	completed = true
	d.registry.complete(record, returned, nil)

	if d.trace {
		d.t.Logf("Called %v => %v", inv, returned)
	}
	if ce := d.log.Check(zap.DebugLevel, "intercepted call"); ce != nil {
		fields := []zap.Field{
			zap.Stringer("call", inv),
			zap.Bool("stubbed", stubbed),
			zap.Int("targets", len(targets)),
		}
		if stubbed {
			fields = append(fields, zap.Stringer("stubbedBy", from))
		}
		ce.Write(fields...)
	}
	return returned
}
