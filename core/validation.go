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


package core

// ValidateDocument checks that a document is storable: non-empty content
// and a present owner identifier. Legacy records whose owner could not be
// recovered carry the literal "unknown" owner, which is valid; an empty
// owner is not.
func ValidateDocument(doc *Document) error {
	if doc.Content == "" {
		return ErrEmptyContent
	}
	if doc.Metadata.User == "" {
		return ErrMissingOwner
	}
	return nil
}
