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

	"github.com/pkg/errors"
)

// ErrClassExists signals an attempt to define a class name twice
var ErrClassExists = errors.New("class already defined")

// ErrParentNotDefined signals a class definition extending an unknown class
var ErrParentNotDefined = errors.New("parent class not defined")

// ErrClassNotDefined is returned by reflective queries against unknown class names
var ErrClassNotDefined = errors.New("class not defined")

// UndefinedMethodError is the panic value raised when neither the class nor an interceptor
// can serve a method call.
type UndefinedMethodError struct {
	Class  string
	Method string
	Static bool
}

func (e *UndefinedMethodError) Error() string {
	if e.Static {
		return fmt.Sprintf("call to undefined static method %s::%s()", e.Class, e.Method)
	}
	return fmt.Sprintf("call to undefined method %s.%s()", e.Class, e.Method)
}
