// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errs defines the error kinds surfaced by the oblivious transfer
// core. Each kind maps to exactly one diagnostic class; no component in
// this module invents a new ad hoc error for a condition already named
// here.
package errs

import "errors"

var (
	// ErrInvalidParameters is raised when the DDH group self-check fails at
	// construction, or when a received setup blob disagrees with the
	// receiver's own group parameters.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrMalformedInput is raised on a missing field, wrong length, or
	// out-of-range index in a setup or round payload.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidGroupElement is raised when a group element given as input
	// (an OT public key, g_pow_inv_rr, or a recovered value) fails a range
	// or subgroup-membership check.
	ErrInvalidGroupElement = errors.New("invalid group element")

	// ErrInvalidCommitment is raised by Open/Verify on any integrity check
	// failure: length mismatch, wrong header, or HMAC tag mismatch.
	ErrInvalidCommitment = errors.New("invalid commitment")

	// ErrProtocolViolation is raised when a recovered scalar equals zero,
	// or a paranoia cross-check between a published payload and its
	// originating service fails.
	ErrProtocolViolation = errors.New("protocol violation")
)
