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

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/flowsql/flowsql/logical"
	"github.com/flowsql/flowsql/physical"
)

// FormatVersion is the only format_version byte this build encodes
// and decodes. Bumping it is a breaking wire change.
const FormatVersion byte = 1

// Snapshot is a decoded plan snapshot: the version and caller-supplied
// identity (Fingerprint, BuildID) alongside both plan layers' IRs.
type Snapshot struct {
	FormatVersion byte
	Fingerprint   string
	BuildID       string
	Logical       *IR
	Physical      *IR
}

// Encode builds both plans' IRs and frames them with fingerprint and
// build_id into the versioned wire format. fingerprint is computed by
// the caller (Engine.Compile hashes the whitespace-normalized SQL
// text); build_id
// identifies the binary/build that produced the plan.
func Encode(logicalPlan *logical.Plan, physicalPlan *physical.Plan, fingerprint, buildID string) ([]byte, error) {
	logicalIR, err := BuildLogicalIR(logicalPlan)
	if err != nil {
		return nil, err
	}
	physicalIR, err := BuildPhysicalIR(physicalPlan)
	if err != nil {
		return nil, err
	}
	return EncodeIR(logicalIR, physicalIR, fingerprint, buildID)
}

// EncodeIR frames two already-built IRs. Exposed separately from
// Encode so a decoded Snapshot's IRs can be re-encoded without holding
// onto the original logical.Plan/physical.Plan objects — the
// roundtrip property codec_test.go checks.
func EncodeIR(logicalIR, physicalIR *IR, fingerprint, buildID string) ([]byte, error) {
	logicalBytes, err := marshalIR(logicalIR)
	if err != nil {
		return nil, err
	}
	physicalBytes, err := marshalIR(physicalIR)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(FormatVersion)
	writeVarintBytes(&buf, []byte(fingerprint))
	writeVarintBytes(&buf, []byte(buildID))
	writeVarintBytes(&buf, logicalBytes)
	writeVarintBytes(&buf, physicalBytes)
	return buf.Bytes(), nil
}

// Decode parses the versioned frame layout and unmarshals both IRs.
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < 1 {
		return nil, &CorruptedError{Reason: "empty input"}
	}
	version := data[0]
	if version != FormatVersion {
		return nil, &UnsupportedVersionError{Got: version, Want: FormatVersion}
	}

	r := bytes.NewReader(data[1:])
	fingerprint, err := readVarintBytes(r)
	if err != nil {
		return nil, err
	}
	buildID, err := readVarintBytes(r)
	if err != nil {
		return nil, err
	}
	logicalBytes, err := readVarintBytes(r)
	if err != nil {
		return nil, err
	}
	physicalBytes, err := readVarintBytes(r)
	if err != nil {
		return nil, err
	}

	var logicalIR IR
	if err := msgpack.Unmarshal(logicalBytes, &logicalIR); err != nil {
		return nil, &CorruptedError{Reason: "logical ir: " + err.Error()}
	}
	var physicalIR IR
	if err := msgpack.Unmarshal(physicalBytes, &physicalIR); err != nil {
		return nil, &CorruptedError{Reason: "physical ir: " + err.Error()}
	}

	return &Snapshot{
		FormatVersion: version,
		Fingerprint:   string(fingerprint),
		BuildID:       string(buildID),
		Logical:       &logicalIR,
		Physical:      &physicalIR,
	}, nil
}

// marshalIR sorts map keys so the same IR always serializes to the
// same bytes: encode -> decode -> encode must reproduce the original
// bytes exactly, and Go's native map iteration order is randomized.
func marshalIR(ir *IR) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(ir); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeVarintBytes(buf *bytes.Buffer, b []byte) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], uint64(len(b)))
	buf.Write(tmp[:n])
	buf.Write(b)
}

func readVarintBytes(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, &CorruptedError{Reason: "truncated length prefix"}
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, &CorruptedError{Reason: "truncated payload"}
	}
	return out, nil
}
