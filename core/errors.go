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

import "errors"

var (
	// ErrEmptyContent is returned when a document has no content.
	ErrEmptyContent = errors.New("document content is empty")

	// ErrMissingOwner is returned when a document carries no owner identifier.
	// Owner-scoped retrieval depends on this field; storing a document
	// without it would make the record unreachable or leak it.
	ErrMissingOwner = errors.New("document owner identifier is empty")
)
