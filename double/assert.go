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
)

//AssertBehavior fatally fails test t unless impl can stand in for method
func AssertBehavior(t T, method string, impl reflect.Value) {
	t.Helper()
	if !impl.IsValid() || impl.Kind() != reflect.Func || impl.IsNil() {
		t.Fatalf("Behavior for %s expected a func, got %v", method, impl)
		return
	}

	implT := impl.Type()
	if implT.NumOut() > 1 {
		t.Fatalf("Behavior %v for %s expects to have at most 1 return value, found %d", implT, method, implT.NumOut())
	}
}

//AssertPredicate fatally fails test t unless funcType is a func returning a single bool
func AssertPredicate(t T, funcType reflect.Type) {
	t.Helper()
	if funcType.Kind() != reflect.Func {
		t.Fatalf("expected func, got %v", funcType)
		return
	}
	if funcType.NumOut() != 1 || funcType.Out(0).Kind() != reflect.Bool {
		t.Fatalf("expected Func(...) bool, have %v", funcType)
	}
}
