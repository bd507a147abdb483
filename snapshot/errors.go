/*
 * Copyright 2025 The RuleGo Authors.
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

package snapshot

import "fmt"

// UnsupportedVersionError is returned when a snapshot's format_version
// byte doesn't match a version this build knows how to decode.
type UnsupportedVersionError struct {
	Got, Want byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("snapshot: unsupported format version %d (this build decodes %d)", e.Got, e.Want)
}

// CorruptedError is returned when a snapshot's bytes are truncated or
// otherwise fail to parse as the versioned frame layout.
type CorruptedError struct {
	Reason string
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("snapshot: corrupted: %s", e.Reason)
}
