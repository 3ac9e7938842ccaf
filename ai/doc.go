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


// Package ai defines the interfaces for the AI services the engine depends
// on: text embedding and reply generation.
//
// Two embedding profiles are supported, a fast lightweight model and a
// slower high-quality multilingual model. Whichever profile a store was
// created with is pinned inside its index; see the store package for the
// mismatch guard.
//
// Subpackages provide implementations:
//   - ai/openai: OpenAI-compatible API clients (Ollama, LM Studio, vLLM)
//   - ai/mock: deterministic test doubles
package ai
