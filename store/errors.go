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

package store

import "fmt"

// UnsupportedVersionError is returned when a record's framing byte
// doesn't match a version this build knows how to decode.
type UnsupportedVersionError struct {
	Table string
	Got   byte
	Want  byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("store: %s: unsupported record version %d (this build decodes %d)", e.Table, e.Got, e.Want)
}

// AlreadyExistsError is returned by Create when key already names a
// record in the table.
type AlreadyExistsError struct {
	Table, Key string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("store: %s: key %q already exists", e.Table, e.Key)
}

// NotFoundError is returned by Delete when key names no record in the
// table. Get/Load never return this -- a missing key on read is
// reported as an absent result, not an error.
type NotFoundError struct {
	Table, Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: %s: key %q not found", e.Table, e.Key)
}

// CorruptedError is returned when a record's bytes are truncated or
// fail to decompress/unmarshal after the version byte checks out.
type CorruptedError struct {
	Table, Key, Reason string
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("store: %s: key %q corrupted: %s", e.Table, e.Key, e.Reason)
}
