// Copyright 2026 Quindle Labs
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

// Package server exposes the recall engine over HTTP.
//
// The chat endpoint never surfaces transport errors to the caller: a
// failed or timed-out generation is mapped to a friendly fallback reply
// with status 200, so chat clients always have something to display.
// Mutating endpoints are protected by an X-API-Key header when a key is
// configured; without one the server runs open, intended for local
// development only.
package server
