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
	"fmt"
)

// Invocation describes a method call about to execute.
type Invocation struct {
	// Object is the receiver of an instance call, nil for static calls
	Object *Object
	// Class is the class the call was resolved against (the object's class for instance calls)
	Class  *Class
	Method string
	Args   []interface{}
	Static bool

	real func() interface{}
}

// Proceed runs the real method and returns its result.
//
// Panics with *UndefinedMethodError if the class hierarchy does not define the method.
func (inv *Invocation) Proceed() interface{} {
	return inv.real()
}

// Receiver is the Object for instance calls, or the Class for static calls
func (inv *Invocation) Receiver() interface{} {
	if inv.Static {
		return inv.Class
	}
	return inv.Object
}

func (inv *Invocation) String() string {
	if inv.Static {
		return fmt.Sprintf("%s::%s%v", inv.Class.Name(), inv.Method, inv.Args)
	}
	return fmt.Sprintf("%v.%s%v", inv.Object, inv.Method, inv.Args)
}

// Interceptor is consulted before every method executes.
// The value it returns is the result of the call.
type Interceptor interface {
	Intercept(inv *Invocation) interface{}
}

// InterceptorFunc adapts a func to an Interceptor
type InterceptorFunc func(inv *Invocation) interface{}

func (f InterceptorFunc) Intercept(inv *Invocation) interface{} {
	return f(inv)
}
