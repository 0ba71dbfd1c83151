/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Comcast/povgen/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestImpl(t *testing.T) {
	// Just confirm that this code compiles.
	var _ storage.Cache = &Storage{}
}

func open(t *testing.T, filename string) *Storage {
	t.Helper()
	s, err := NewStorage(filename)
	require.NoError(t, err)
	require.NoError(t, s.Open(context.Background()))
	return s
}

func TestBasics(t *testing.T) {
	var (
		filename = filepath.Join(t.TempDir(), "cache.db")
		ctx      = context.Background()
		key      = storage.Key([]byte("<cfepov/>"), "libpov.h")
		when     = time.Date(2019, 4, 1, 12, 0, 0, 0, time.UTC)
	)

	s := open(t, filename)

	e, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, e)

	require.NoError(t, s.Put(ctx, key, &storage.Entry{
		Source:  []byte("int main(void) {\n}\n"),
		Created: when,
	}))

	e, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "int main(void) {\n}\n", string(e.Source))
	assert.True(t, when.Equal(e.Created))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Close(ctx))

	// Still there after reopening.
	s = open(t, filename)
	defer s.Close(ctx)

	e, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "int main(void) {\n}\n", string(e.Source))

	require.NoError(t, s.Put(ctx, key, nil))
	e, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestNotOpen(t *testing.T) {
	s, err := NewStorage(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, s.Put(ctx, "k", &storage.Entry{}), ErrNotOpen)
	assert.NoError(t, s.Close(ctx))
}

func TestCanceled(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "cache.db"))
	defer s.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Put(ctx, "k", &storage.Entry{}), context.Canceled)
}

// BenchmarkBolt is just for fun.  Bolt is slow.
func BenchmarkBolt(b *testing.B) {
	s, err := NewStorage(filepath.Join(b.TempDir(), "cache.db"))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Open(ctx); err != nil {
		b.Fatal(err)
	}
	defer s.Close(ctx)

	e := &storage.Entry{Source: []byte("int main(void) {\n}\n")}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var err error
		if i%2 == 0 {
			err = s.Put(ctx, "k", e)
		} else {
			_, err = s.Get(ctx, "k")
		}
		if err != nil {
			b.Fatal(err)
		}
	}
}
