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


// Package status provides the task status registry: a shared key-value map
// from conversation id to a human-readable phase string.
//
// The presence of an entry is itself the signal that an ingestion task is in
// flight for that conversation. Entries are created when a task starts,
// overwritten at each phase transition, and deleted when the task ends,
// success or failure. Each conversation is assumed to have at most one
// in-flight ingestion at a time; the registry does not enforce this.
package status
