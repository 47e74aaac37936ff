/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package signature supplies the "same person" signature used to group user records. How a signature is derived
// (network address, device fingerprint, ...) is decided outside this service. Grouping only relies on equal people
// having equal signatures.
package signature

import (
	"strings"

	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

// Provider returns the signature of a record. ok is false when the record has no signature, in which case the
// record forms a group of its own.
type Provider interface {
	Signature(record model.UserRecord) (sig string, ok bool)
}

// Func adapts a plain function to a Provider. Blank results are treated as no signature.
type Func func(record model.UserRecord) string

func (f Func) Signature(record model.UserRecord) (string, bool) {
	return normalize(f(record))
}

// StoredSignatureProvider reads the opaque signature persisted with each record.
type StoredSignatureProvider struct{}

func NewStoredSignatureProvider() *StoredSignatureProvider {
	return &StoredSignatureProvider{}
}

func (p *StoredSignatureProvider) Signature(record model.UserRecord) (string, bool) {
	return normalize(record.Signature)
}

func normalize(sig string) (string, bool) {
	sig = strings.TrimSpace(sig)
	return sig, sig != ""
}
