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

package storage

import "context"

// NoopCache never has anything.
type NoopCache struct {
}

func (s *NoopCache) Open(ctx context.Context) error {
	return nil
}

func (s *NoopCache) Get(ctx context.Context, key string) (*Entry, error) {
	return nil, nil
}

func (s *NoopCache) Put(ctx context.Context, key string, e *Entry) error {
	return nil
}

func (s *NoopCache) Close(ctx context.Context) error {
	return nil
}
