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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("DEBUG", FormatJSON, &buf))
	t.Cleanup(func() { logger = nil })

	GetLogger().WithTraceID("trace-1").Info("merged", String("group_key", "sig-1"), Int64("paid", 3),
		Error(errors.New("boom")))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "merged", record["msg"])
	assert.Equal(t, "trace-1", record["trace_id"])
	assert.Equal(t, "sig-1", record["group_key"])
	assert.Equal(t, float64(3), record["paid"])
	assert.Equal(t, "boom", record["error"])
}

func TestInitWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("WARN", "", &buf))
	t.Cleanup(func() { logger = nil })

	GetLogger().Info("hidden")
	GetLogger().Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitWithWriter_Rejects(t *testing.T) {
	assert.Error(t, InitWithWriter("LOUD", FormatText, &bytes.Buffer{}))
	assert.Error(t, InitWithWriter("INFO", "xml", &bytes.Buffer{}))
}

func TestAudit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("INFO", FormatText, &buf))
	t.Cleanup(func() { logger = nil })

	GetLogger().Audit(AuditEvent{
		InitiatorID: "admin",
		TargetID:    "sig-1",
		TargetType:  TargetTypeDuplicateGroup,
		ActionID:    ActionMergeUserGroup,
	})

	out := buf.String()
	assert.True(t, strings.Contains(out, "AUDIT"))
	assert.Contains(t, out, ActionMergeUserGroup)
	assert.Contains(t, out, OutcomeSuccess)
}

func TestGetLogger_DiscardsBeforeInit(t *testing.T) {
	logger = nil
	assert.NotPanics(t, func() { GetLogger().Error("nobody listens") })
}
