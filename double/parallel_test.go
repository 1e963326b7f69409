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
	"sync"
	"testing"

	"github.com/lwoggardner/aspectdouble/host"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestTest_IsolatedPerRuntime(t *testing.T) {
	var g errgroup.Group

	for i := 0; i < 8; i++ {
		i := i
		rt := newRuntime(t)
		g.Go(func() error {
			ft := &fakeT{}
			d := New(ft, rt)
			defer d.Close()

			user := rt.MustLookup("User").New("jon")
			name := fmt.Sprintf("user%d", i)
			proxy := d.Object(user, Stubs{"GetName": name})

			for call := 0; call <= i; call++ {
				if got := user.Call("GetName"); got != name {
					return errors.Errorf("runtime %d: expected %s, got %v", i, name, got)
				}
			}
			proxy.VerifyInvokedMultipleTimes("GetName", i+1)
			if len(ft.errors) > 0 {
				return errors.Errorf("runtime %d: %v", i, ft.errors)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestDispatcher_ConcurrentCalls(t *testing.T) {
	d, rt, ft := newTest(t)
	users := d.Class("User", Stubs{"GetName": func(self *host.Object) interface{} { return self.Get("name") }})

	var (
		g     errgroup.Group
		mutex sync.Mutex
		seen  = make(map[interface{}]bool)
	)
	for i := 0; i < 20; i++ {
		user := rt.MustLookup("User").New(i)
		g.Go(func() error {
			name := user.Call("GetName")
			mutex.Lock()
			defer mutex.Unlock()
			seen[name] = true
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, seen, 20)
	users.VerifyInvokedMultipleTimes("GetName", 20)

	ticks := make(map[uint64]bool)
	for _, call := range d.Registry().Invocations(ClassTarget("User")) {
		assert.False(t, ticks[call.Tick], "ticks are unique")
		ticks[call.Tick] = true
	}
	ft.expectErrors(t)
}
