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
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/lwoggardner/aspectdouble/host"
)

var tick uint64 //global atomic counter to assist with verifying order of execution

var spewConfig = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                3,
}

// Invocation is the record of one method call observed on a doubled target.
type Invocation struct {
	// Tick orders all recorded calls relative to each other
	Tick   uint64
	Method string
	Args   []interface{}
	// Returned is nil until the call completes
	Returned interface{}
	// Panicked holds the value a panicking call was unwound with
	Panicked interface{}
	Static   bool
	// Stubbed is true if a stub served the call instead of the real method
	Stubbed bool
	// Object is the receiver of an instance call, nil for static calls
	Object *host.Object
	// Class is the name of the class the call was resolved against
	Class string
}

func newInvocation(inv *host.Invocation, stubbed bool) *Invocation {
	return &Invocation{
		Tick:    atomic.AddUint64(&tick, 1),
		Method:  inv.Method,
		Args:    append([]interface{}(nil), inv.Args...),
		Static:  inv.Static,
		Stubbed: stubbed,
		Object:  inv.Object,
		Class:   inv.Class.Name(),
	}
}

func (i *Invocation) String() string {
	var receiver string
	if i.Static {
		receiver = i.Class + "::"
	} else {
		receiver = i.Object.String() + "."
	}
	args := i.Args
	if args == nil {
		args = []interface{}{}
	}
	if i.Panicked != nil {
		return spewConfig.Sprintf("%s%s%v => panic(%v)", receiver, i.Method, args, i.Panicked)
	}
	return spewConfig.Sprintf("%s%s%v => %v", receiver, i.Method, args, i.Returned)
}
