// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package history provides per-conversation chat history storage.
//
// Each conversation owns an ordered sequence of turns (question/answer
// pairs), bounded to the most recent few turns. A turn is appended after
// every completed query; the oldest entries are evicted once the bound is
// exceeded.
//
// The production implementation lives in history/badger.
package history
