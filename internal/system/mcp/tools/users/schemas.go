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

package users

import "github.com/google/jsonschema-go/jsonschema"

func filterProperties() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"search":       {Type: "string", Description: "Case-insensitive substring of user name, email, mobile number or user id."},
		"exclude":      {Type: "string", Description: "Drop users whose user name, email, mobile number or user id contains this text."},
		"is_anonymous": {Type: "string", Description: "true or false."},
		"gender":       {Type: "string", Description: "Exact gender, case-insensitive."},
		"city":         {Type: "string", Description: "Exact city, case-insensitive."},
		"age_from":     {Type: "string", Description: "Minimum age in whole years, inclusive."},
		"age_to":       {Type: "string", Description: "Maximum age in whole years, inclusive."},
		"date_from":    {Type: "string", Description: "Earliest last use, YYYY-MM-DD or RFC3339."},
		"date_to":      {Type: "string", Description: "Latest last use. A date covers the whole day."},
		"min_paid":     {Type: "string", Description: "Minimum total paid generations."},
		"max_paid":     {Type: "string", Description: "Maximum total paid generations."},
		"min_summary":  {Type: "string", Description: "Minimum total summary generations."},
		"max_summary":  {Type: "string", Description: "Maximum total summary generations."},
	}
}

var listUsersInputSchema = func() *jsonschema.Schema {
	properties := filterProperties()
	properties["page"] = &jsonschema.Schema{Type: "integer", Description: "1-based page number. Defaults to 1."}
	properties["page_size"] = &jsonschema.Schema{Type: "integer", Description: "Records per page. Defaults to 10."}
	properties["order"] = &jsonschema.Schema{
		Type:        "string",
		Description: "last_used (default) or group, which keeps duplicate groups together.",
		Enum:        []any{"last_used", "group"},
	}
	return &jsonschema.Schema{Type: "object", Properties: properties}
}()

var statisticsInputSchema = &jsonschema.Schema{
	Type:       "object",
	Properties: filterProperties(),
}

var getGroupInputSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"group_key"},
	Properties: map[string]*jsonschema.Schema{
		"group_key": {Type: "string", Description: "Duplicate group key as returned by the listing."},
	},
}

var mergeGroupInputSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"group_key"},
	Properties: map[string]*jsonschema.Schema{
		"group_key":   {Type: "string", Description: "Duplicate group key as returned by the listing."},
		"survivor_id": {Type: "string", Description: "Member to keep. Defaults to the group's primary."},
	},
}

var deleteUserInputSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"user_id"},
	Properties: map[string]*jsonschema.Schema{
		"user_id": {Type: "string", Description: "User to delete together with all rows it owns."},
	},
}
